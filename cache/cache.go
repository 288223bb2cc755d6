package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/andrewpaige1/codementor-api/models"
)

// DefaultTTL is how long explanations, translations and audio stay valid.
const DefaultTTL = 7 * 24 * time.Hour

const (
	KindExplanation = "explanation"
	KindAudio       = "audio"
	KindTranslation = "translation"
)

// Explanation is the cached form of an AI explanation.
type Explanation struct {
	Code        string `json:"code"`
	Language    string `json:"language"`
	Explanation string `json:"explanation"`
	Timestamp   int64  `json:"timestamp"`
}

// Audio is the cached form of a synthesized clip.
type Audio struct {
	Text        string `json:"text"`
	Language    string `json:"language"`
	VoiceID     string `json:"voiceId"`
	AudioBase64 string `json:"audioBase64"`
	MimeType    string `json:"mimeType"`
	Timestamp   int64  `json:"timestamp"`
}

type Translation struct {
	Text       string `json:"text"`
	Language   string `json:"language"`
	Translated string `json:"translated"`
	Timestamp  int64  `json:"timestamp"`
}

// Stats counts lookups since start or the last reset.
type Stats struct {
	Hits     int64   `json:"hits"`
	Misses   int64   `json:"misses"`
	Expired  int64   `json:"expired"`
	HitRate  float64 `json:"hitRate"`
	Since    string  `json:"since"`
	Backend  string  `json:"backend"`
	TTLHours float64 `json:"ttlHours"`
}

// Cache is a hash-keyed, TTL-bound cache. Keys carry no collision detection:
// a later Set for a colliding input replaces the earlier entry, and Get treats
// an entry whose stored inputs differ from the lookup as absent.
type Cache struct {
	store   Store
	backend string
	ttl     time.Duration
	now     func() time.Time

	mu      sync.Mutex
	hits    int64
	misses  int64
	expired int64
	since   time.Time
}

func New(store Store, backend string, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		store:   store,
		backend: backend,
		ttl:     ttl,
		now:     time.Now,
		since:   time.Now(),
	}
}

func (c *Cache) GetExplanation(ctx context.Context, code, language string) (string, bool) {
	var cached Explanation
	if !c.get(ctx, ExplanationKey(code, language), &cached) {
		return "", false
	}
	if cached.Code != code || cached.Language != language {
		c.recordMiss()
		return "", false
	}
	c.recordHit()
	return cached.Explanation, true
}

func (c *Cache) SetExplanation(ctx context.Context, code, language, explanation string) error {
	return c.set(ctx, ExplanationKey(code, language), KindExplanation, Explanation{
		Code:        code,
		Language:    language,
		Explanation: explanation,
		Timestamp:   c.now().UnixMilli(),
	})
}

func (c *Cache) GetAudio(ctx context.Context, text, language, voiceID string) (*Audio, bool) {
	var cached Audio
	if !c.get(ctx, AudioKey(text, language, voiceID), &cached) {
		return nil, false
	}
	if cached.VoiceID != voiceID {
		c.recordMiss()
		return nil, false
	}
	c.recordHit()
	return &cached, true
}

func (c *Cache) SetAudio(ctx context.Context, audio Audio) error {
	audio.Timestamp = c.now().UnixMilli()
	return c.set(ctx, AudioKey(audio.Text, audio.Language, audio.VoiceID), KindAudio, audio)
}

func (c *Cache) GetTranslation(ctx context.Context, text, language string) (string, bool) {
	var cached Translation
	if !c.get(ctx, TranslationKey(text, language), &cached) {
		return "", false
	}
	if cached.Text != text || cached.Language != language {
		c.recordMiss()
		return "", false
	}
	c.recordHit()
	return cached.Translated, true
}

func (c *Cache) SetTranslation(ctx context.Context, text, language, translated string) error {
	return c.set(ctx, TranslationKey(text, language), KindTranslation, Translation{
		Text:       text,
		Language:   language,
		Translated: translated,
		Timestamp:  c.now().UnixMilli(),
	})
}

// Clear removes every explanation, audio and translation entry.
func (c *Cache) Clear(ctx context.Context) (int64, error) {
	var total int64
	for _, prefix := range []string{ExplanationPrefix, AudioPrefix, TranslationPrefix} {
		n, err := c.store.DeletePrefix(ctx, prefix)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// PurgeExpired removes entries older than the TTL.
func (c *Cache) PurgeExpired(ctx context.Context) (int64, error) {
	return c.store.DeleteOlderThan(ctx, c.now().Add(-c.ttl))
}

func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	hitRate := 0.0
	if total := c.hits + c.misses; total > 0 {
		hitRate = float64(c.hits) / float64(total) * 100
	}
	return Stats{
		Hits:     c.hits,
		Misses:   c.misses,
		Expired:  c.expired,
		HitRate:  hitRate,
		Since:    c.since.Format(time.RFC3339),
		Backend:  c.backend,
		TTLHours: c.ttl.Hours(),
	}
}

func (c *Cache) ResetStats() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hits, c.misses, c.expired = 0, 0, 0
	c.since = c.now()
}

// get loads key into out. A false result has already been counted as a miss.
func (c *Cache) get(ctx context.Context, key string, out any) bool {
	entry, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrMiss) {
			log.Printf("cache: failed to read %s: %v", key, err)
		}
		c.recordMiss()
		return false
	}

	if c.now().Sub(entry.CreatedAt) > c.ttl {
		if err := c.store.Delete(ctx, key); err != nil {
			log.Printf("cache: failed to delete expired %s: %v", key, err)
		}
		c.mu.Lock()
		c.expired++
		c.misses++
		c.mu.Unlock()
		return false
	}

	if err := json.Unmarshal([]byte(entry.Payload), out); err != nil {
		log.Printf("cache: corrupt entry %s: %v", key, err)
		c.recordMiss()
		return false
	}
	return true
}

func (c *Cache) set(ctx context.Context, key, kind string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.store.Put(ctx, &models.CacheEntry{
		CacheKey:  key,
		Kind:      kind,
		Payload:   string(payload),
		CreatedAt: c.now(),
	})
}

func (c *Cache) recordHit() {
	c.mu.Lock()
	c.hits++
	c.mu.Unlock()
}

func (c *Cache) recordMiss() {
	c.mu.Lock()
	c.misses++
	c.mu.Unlock()
}
