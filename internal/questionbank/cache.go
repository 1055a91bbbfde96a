package questionbank

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"learning-challenge-service/internal/domain"
	"golang.org/x/sync/singleflight"
)

// CachedGenerator memoizes one generation per (course, day) with a TTL so a
// course day is generated once no matter how many users open it. Concurrent
// misses are collapsed with singleflight.
type CachedGenerator struct {
	next  Generator
	ttl   time.Duration
	clock func() time.Time
	sf    singleflight.Group
	rnd   *rand.Rand

	mu    sync.RWMutex
	cache map[string]cachedBatch
}

type cachedBatch struct {
	questions []domain.Question
	expiresAt time.Time
}

func NewCachedGenerator(next Generator, ttl time.Duration) *CachedGenerator {
	return &CachedGenerator{
		next:  next,
		ttl:   ttl,
		clock: time.Now,
		rnd:   rand.New(rand.NewSource(time.Now().UnixNano())),
		cache: make(map[string]cachedBatch),
	}
}

func (c *CachedGenerator) Generate(ctx context.Context, req Request) ([]domain.Question, error) {
	key := fmt.Sprintf("%s:%d", req.CourseID, req.Day)
	now := c.clock()

	c.mu.RLock()
	if entry, ok := c.cache[key]; ok && entry.expiresAt.After(now) {
		c.mu.RUnlock()
		return entry.questions, nil
	}
	c.mu.RUnlock()

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		now := c.clock()
		c.mu.RLock()
		if entry, ok := c.cache[key]; ok && entry.expiresAt.After(now) {
			c.mu.RUnlock()
			return entry.questions, nil
		}
		c.mu.RUnlock()

		questions, err := c.next.Generate(ctx, req)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.cache[key] = cachedBatch{
			questions: questions,
			expiresAt: now.Add(c.ttlWithJitter()),
		}
		c.mu.Unlock()
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

func (c *CachedGenerator) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
