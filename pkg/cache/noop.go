package cache

import (
	"context"
	"encoding/json"
	"time"
)

// noop is a Service that stores nothing. Every read misses and GetOrSet
// always calls the fetcher.
type noop struct{}

// NewNoop returns a Service used when REDIS_CACHE_ENABLED is false.
func NewNoop() Service { return noop{} }

func (noop) Get(context.Context, string, interface{}) error { return ErrCacheMiss }

func (noop) Set(context.Context, string, interface{}, time.Duration) error { return nil }

func (noop) Delete(context.Context, ...string) error { return nil }

func (noop) DeletePattern(context.Context, string) error { return nil }

func (noop) Exists(context.Context, string) bool { return false }

func (noop) GetOrSet(_ context.Context, _ string, _ time.Duration, fetcher func() (interface{}, error), dest interface{}) error {
	data, err := fetcher()
	if err != nil {
		return err
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

func (noop) Ping(context.Context) error { return nil }
