package flags

import (
	"os"

	"github.com/spf13/pflag"

	"github.com/hristov111/companion/pkg/apis/cache"
	"github.com/hristov111/companion/pkg/cache/redis"
)

// CacheFlags holds the session-cache configuration.
type CacheFlags struct {
	RedisURL string
}

func NewCacheFlags() *CacheFlags {
	return &CacheFlags{}
}

func (f *CacheFlags) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&f.RedisURL,
		"redis-url",
		os.Getenv("REDIS_URL"),
		"Redis URL for the session cache")
}

func (f *CacheFlags) GetCacheClient() (cache.Cache, error) {
	if f.RedisURL != "" {
		return redis.NewRedisCache(f.RedisURL)
	}

	return nil, nil
}
