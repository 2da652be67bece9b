package cache

import (
	"context"
	"fmt"
	"strings"
)

// Open picks a backend from a cache URL: the empty string selects a
// [FileCache] in dir, "none" disables caching, "memory" keeps
// [DefaultMemoryEntries] artifacts in process and redis:// or rediss:// URLs
// connect to redis.
func Open(ctx context.Context, url, dir string) (Cache, error) {
	switch {
	case url == "":
		return NewFileCache(dir)
	case url == "none":
		return NewNullCache(), nil
	case url == "memory":
		return NewMemoryCache(DefaultMemoryEntries)
	case strings.HasPrefix(url, "redis://"), strings.HasPrefix(url, "rediss://"):
		return NewRedisCache(ctx, url)
	default:
		return nil, fmt.Errorf("unsupported cache url %q", url)
	}
}
