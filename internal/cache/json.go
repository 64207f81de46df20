package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// Key joins parts into a namespaced cache key.
func Key(parts ...string) string {
	return "funerarias:" + strings.Join(parts, ":")
}

// Prefix returns the key prefix shared by every Key starting with parts.
func Prefix(parts ...string) string {
	return Key(parts...) + ":"
}

// GetJSON loads key into out. It returns false on a miss or an undecodable
// entry; other backend errors are returned.
func GetJSON(ctx context.Context, store Store, key string, out any) (bool, error) {
	raw, err := store.Get(ctx, key)
	if errors.Is(err, ErrCacheMiss) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		_ = store.Delete(ctx, key)
		return false, nil
	}
	return true, nil
}

// SetJSON encodes value and stores it under key.
func SetJSON(ctx context.Context, store Store, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return store.Set(ctx, key, raw, ttl)
}
