package cache

import "time"

// Cache is the session-cache abstraction. The redis implementation is the
// only production backend; tests substitute an in-memory map.
type Cache interface {
	Get(key string) ([]byte, error)
	Set(key string, content []byte, duration time.Duration) error
	Delete(key string) error
	Ping() error
}
