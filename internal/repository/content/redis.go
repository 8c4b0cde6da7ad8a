package content

import (
	"context"
	"errors"
	"fmt"

	"github.com/kuberocketai/contenthub/internal/db"
	"github.com/kuberocketai/contenthub/internal/domain"
	domcontent "github.com/kuberocketai/contenthub/internal/domain/content"
)

// Storage formats for collections kept in Redis.
const (
	FormatString = "string"
	FormatJSON   = "json"
)

// store is the consumer interface for Redis-backed content (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	JSONGet(ctx context.Context, key string) ([]byte, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// RedisSource reads collections stored under <prefix><type>.
type RedisSource struct {
	store  store
	prefix string
	format string
}

// NewRedisSource creates a Redis-backed source. An empty format means FormatString.
func NewRedisSource(s store, prefix, format string) *RedisSource {
	if format == "" {
		format = FormatString
	}
	return &RedisSource{store: s, prefix: prefix, format: format}
}

// Key returns the Redis key holding the given type.
func (s *RedisSource) Key(t domcontent.Type) string {
	return s.prefix + string(t)
}

// Read fetches the raw collection bytes.
func (s *RedisSource) Read(ctx context.Context, t domcontent.Type) ([]byte, error) {
	key := s.Key(t)

	var (
		data []byte
		err  error
	)
	if s.format == FormatJSON {
		data, err = s.store.JSONGet(ctx, key)
	} else {
		data, err = s.store.Get(ctx, key)
	}
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, fmt.Errorf("%w: key %s not found", domain.ErrSourceUnavailable, key)
		}
		return nil, fmt.Errorf("%w: get %s: %w", domain.ErrSourceUnavailable, key, err)
	}
	return data, nil
}

// Available lists the content types present under the prefix.
func (s *RedisSource) Available(ctx context.Context) ([]domcontent.Type, error) {
	keys, err := s.store.Scan(ctx, s.prefix+"*")
	if err != nil {
		return nil, fmt.Errorf("scan %s*: %w", s.prefix, err)
	}
	present := make(map[string]bool, len(keys))
	for _, k := range keys {
		present[k] = true
	}

	var out []domcontent.Type
	for _, t := range domcontent.Types() {
		if present[s.Key(t)] {
			out = append(out, t)
		}
	}
	return out, nil
}

// Describe names the source for logs and health output.
func (s *RedisSource) Describe() string {
	return "redis:" + s.prefix
}
