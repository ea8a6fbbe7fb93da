package store

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/newsdeck/newsdeck/model"
	"github.com/newsdeck/newsdeck/provider"
	Logger "github.com/newsdeck/newsdeck/utils/log"
)

const defaultCacheTTLSeconds = 120

var ctx = context.Background()

// QueryCache memoizes single-source query results in redis so repeated
// identical reads don't each cost an upstream round trip. Purely an
// optimization: every method degrades to a miss on any redis failure.
type QueryCache struct {
	inner *redis.Client
	ttl   time.Duration
}

// NewQueryCacheFromEnv returns nil when REDIS_HOST is unset, callers treat
// a nil cache as "caching disabled".
func NewQueryCacheFromEnv() *QueryCache {
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		return nil
	}
	ttl := defaultCacheTTLSeconds
	if raw := os.Getenv("QUERY_CACHE_TTL_SECONDS"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			ttl = parsed
		}
	}
	return &QueryCache{
		inner: redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%s", host, os.Getenv("REDIS_PORT")),
			Password: os.Getenv("REDIS_PASSWD"),
			DB:       0, // use default DB
		}),
		ttl: time.Duration(ttl) * time.Second,
	}
}

func queryKey(source provider.Source, q provider.Query) string {
	raw := fmt.Sprintf("%s|%s|%s|%s|%d|%d|%d",
		source, q.Keyword, q.Category, q.Author, q.From.Unix(), q.Page, q.PageSize)
	return fmt.Sprintf("articles_query:%x", md5.Sum([]byte(raw)))
}

func (c *QueryCache) Get(source provider.Source, q provider.Query) ([]model.Article, bool) {
	payload, err := c.inner.Get(ctx, queryKey(source, q)).Result()
	if err != nil {
		if err != redis.Nil {
			Logger.Log.Warn("query cache read failed: ", err)
		}
		return nil, false
	}
	var articles []model.Article
	if err := json.Unmarshal([]byte(payload), &articles); err != nil {
		return nil, false
	}
	return articles, true
}

func (c *QueryCache) Set(source provider.Source, q provider.Query, articles []model.Article) {
	payload, err := json.Marshal(articles)
	if err != nil {
		return
	}
	if err := c.inner.Set(ctx, queryKey(source, q), payload, c.ttl).Err(); err != nil {
		Logger.Log.Warn("query cache write failed: ", err)
	}
}
