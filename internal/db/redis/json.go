package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/rueidis"

	"github.com/kuberocketai/contenthub/internal/db"
)

// rootPath selects the whole document. JSONPath replies wrap matches in an array.
const rootPath = "$"

// JSONGet returns the whole RedisJSON document stored at key.
func (s *Store) JSONGet(ctx context.Context, key string) ([]byte, error) {
	cmd := s.b().Arbitrary("JSON.GET").Keys(key).Args(rootPath).Build()
	raw, err := s.do(ctx, cmd).ToString()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, db.ErrKeyNotFound
		}
		return nil, &db.Error{Op: db.OpJSONGet, Err: err}
	}

	var matches []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &matches); err != nil {
		return nil, &db.Error{Op: db.OpJSONGet, Err: fmt.Errorf("decode reply: %w", err)}
	}
	if len(matches) == 0 {
		return nil, db.ErrKeyNotFound
	}
	return matches[0], nil
}
