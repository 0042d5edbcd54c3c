package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
	"trivia-quiz-service/internal/domain"
)

// QuestionLoader fetches the question bank from a backing store (e.g., Postgres).
type QuestionLoader interface {
	LoadQuestions(ctx context.Context) ([]domain.Question, error)
}

// CatalogCache shares the question bank between instances through Redis and
// falls back to a loader on cache miss.
// Questions are stored as: HSET quiz:catalog {id} {json question}
type CatalogCache struct {
	client *redis.Client
	loader QuestionLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewCatalogCache(client *redis.Client, loader QuestionLoader, ttl time.Duration) *CatalogCache {
	return &CatalogCache{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *CatalogCache) LoadQuestions(ctx context.Context) ([]domain.Question, error) {
	if questions, ok := c.cached(ctx); ok {
		return questions, nil
	}

	result, err, _ := c.sf.Do(catalogKey, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if questions, ok := c.cached(ctx); ok {
			return questions, nil
		}

		questions, err := c.loader.LoadQuestions(ctx)
		if err != nil {
			return nil, err
		}

		pipe := c.client.TxPipeline()
		pipe.Del(ctx, catalogKey)
		for _, q := range questions {
			data, err := json.Marshal(q)
			if err != nil {
				return nil, err
			}
			pipe.HSet(ctx, catalogKey, strconv.Itoa(q.ID), data)
		}
		if ttl := c.ttlWithJitter(); ttl > 0 {
			pipe.Expire(ctx, catalogKey, ttl)
		}
		// best-effort: a failed fill still serves the loaded questions
		_, _ = pipe.Exec(ctx)

		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

const catalogKey = "quiz:catalog"

func (c *CatalogCache) cached(ctx context.Context) ([]domain.Question, bool) {
	fields, err := c.client.HGetAll(ctx, catalogKey).Result()
	if err != nil || len(fields) == 0 {
		return nil, false
	}
	questions := make([]domain.Question, 0, len(fields))
	for _, raw := range fields {
		var q domain.Question
		if err := json.Unmarshal([]byte(raw), &q); err != nil {
			return nil, false
		}
		questions = append(questions, q)
	}
	sort.Slice(questions, func(i, j int) bool { return questions[i].ID < questions[j].ID })
	return questions, true
}

func (c *CatalogCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
