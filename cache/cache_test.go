package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/andrewpaige1/codementor-api/models"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestCache(store Store) (*Cache, *clock) {
	clk := &clock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	c := New(store, "memory", DefaultTTL)
	c.now = clk.now
	return c, clk
}

func TestCache_ExplanationRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(NewMemoryStore())

	_, found := c.GetExplanation(ctx, "fmt.Println(1)", "go")
	assert.False(t, found)

	require.NoError(t, c.SetExplanation(ctx, "fmt.Println(1)", "go", "prints one"))

	for i := 0; i < 2; i++ {
		got, found := c.GetExplanation(ctx, "fmt.Println(1)", "go")
		assert.True(t, found)
		assert.Equal(t, "prints one", got)
	}

	_, found = c.GetExplanation(ctx, "fmt.Println(1)", "python")
	assert.False(t, found)

	stats := c.Stats()
	assert.Equal(t, int64(2), stats.Hits)
	assert.Equal(t, int64(2), stats.Misses)
}

func TestCache_ExpiredEntryIsDeleted(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	c, clk := newTestCache(store)

	require.NoError(t, c.SetExplanation(ctx, "code", "js", "explained"))

	clk.t = clk.t.Add(DefaultTTL - time.Minute)
	_, found := c.GetExplanation(ctx, "code", "js")
	assert.True(t, found)

	clk.t = clk.t.Add(2 * time.Minute)
	_, found = c.GetExplanation(ctx, "code", "js")
	assert.False(t, found)

	_, err := store.Get(ctx, ExplanationKey("code", "js"))
	assert.ErrorIs(t, err, ErrMiss)
	assert.Equal(t, int64(1), c.Stats().Expired)
}

func TestCache_CollidingInputIsAMiss(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	c, _ := newTestCache(store)

	// Plant an entry under the key of "b" that was written for "a".
	require.NoError(t, c.SetExplanation(ctx, "a", "go", "about a"))
	entry, err := store.Get(ctx, ExplanationKey("a", "go"))
	require.NoError(t, err)
	entry.CacheKey = ExplanationKey("b", "go")
	require.NoError(t, store.Put(ctx, entry))

	_, found := c.GetExplanation(ctx, "b", "go")
	assert.False(t, found)
}

func TestCache_AudioRequiresSameVoice(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(NewMemoryStore())

	require.NoError(t, c.SetAudio(ctx, Audio{
		Text:        "hello",
		Language:    "en",
		VoiceID:     "voice-1",
		AudioBase64: "AAEC",
		MimeType:    "audio/mpeg",
	}))

	audio, found := c.GetAudio(ctx, "hello", "en", "voice-1")
	require.True(t, found)
	assert.Equal(t, "AAEC", audio.AudioBase64)
	assert.Equal(t, "audio/mpeg", audio.MimeType)

	_, found = c.GetAudio(ctx, "hello", "en", "voice-2")
	assert.False(t, found)
}

func TestCache_SetOverwrites(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(NewMemoryStore())

	require.NoError(t, c.SetTranslation(ctx, "hello", "es", "hola"))
	require.NoError(t, c.SetTranslation(ctx, "hello", "es", "buenas"))

	got, found := c.GetTranslation(ctx, "hello", "es")
	assert.True(t, found)
	assert.Equal(t, "buenas", got)
}

func TestCache_ClearAndPurge(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	c, clk := newTestCache(store)

	require.NoError(t, c.SetExplanation(ctx, "old", "go", "x"))
	clk.t = clk.t.Add(DefaultTTL + time.Hour)
	require.NoError(t, c.SetExplanation(ctx, "new", "go", "y"))
	require.NoError(t, c.SetTranslation(ctx, "new", "fr", "nouveau"))

	purged, err := c.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	cleared, err := c.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), cleared)
}

func TestCache_ResetStats(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(NewMemoryStore())

	require.NoError(t, c.SetExplanation(ctx, "code", "go", "x"))
	_, ok := c.GetExplanation(ctx, "code", "go")
	require.True(t, ok)
	_, ok = c.GetExplanation(ctx, "other", "go")
	require.False(t, ok)

	stats := c.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)

	c.ResetStats()
	stats = c.Stats()
	assert.Zero(t, stats.Hits)
	assert.Zero(t, stats.Misses)
	assert.Zero(t, stats.HitRate)

	_, ok = c.GetExplanation(ctx, "code", "go")
	assert.True(t, ok, "resetting stats keeps entries")
}

func TestGormStore(t *testing.T) {
	ctx := context.Background()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "cache.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.CacheEntry{}))

	c, clk := newTestCache(NewGormStore(db))

	require.NoError(t, c.SetExplanation(ctx, "SELECT 1", "sql", "first"))
	require.NoError(t, c.SetExplanation(ctx, "SELECT 1", "sql", "second"))
	got, found := c.GetExplanation(ctx, "SELECT 1", "sql")
	assert.True(t, found)
	assert.Equal(t, "second", got)

	var count int64
	require.NoError(t, db.Model(&models.CacheEntry{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	// An underscore in the prefix must not act as a LIKE wildcard.
	require.NoError(t, db.Create(&models.CacheEntry{
		CacheKey: "codeXexplanationXother", Kind: "other", Payload: "{}", CreatedAt: clk.t,
	}).Error)
	n, err := c.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, db.Model(&models.CacheEntry{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	clk.t = clk.t.Add(DefaultTTL + time.Second)
	n, err = c.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
