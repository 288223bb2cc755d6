package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/andrewpaige1/codementor-api/models"
)

// GormStore keeps entries in the cache_entries table.
type GormStore struct {
	*gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

func (s *GormStore) Get(ctx context.Context, key string) (*models.CacheEntry, error) {
	var entry models.CacheEntry
	err := s.WithContext(ctx).Where("cache_key = ?", key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("read cache entry %s: %w", key, err)
	}
	return &entry, nil
}

func (s *GormStore) Put(ctx context.Context, entry *models.CacheEntry) error {
	err := s.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "cache_key"}},
		UpdateAll: true,
	}).Create(entry).Error
	if err != nil {
		return fmt.Errorf("write cache entry %s: %w", entry.CacheKey, err)
	}
	return nil
}

func (s *GormStore) Delete(ctx context.Context, key string) error {
	return s.WithContext(ctx).Where("cache_key = ?", key).Delete(&models.CacheEntry{}).Error
}

func (s *GormStore) DeletePrefix(ctx context.Context, prefix string) (int64, error) {
	result := s.WithContext(ctx).
		Where(`cache_key LIKE ? ESCAPE '\'`, escapeLike(prefix)+"%").
		Delete(&models.CacheEntry{})
	return result.RowsAffected, result.Error
}

func (s *GormStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := s.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&models.CacheEntry{})
	return result.RowsAffected, result.Error
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
