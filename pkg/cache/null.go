package cache

import (
	"context"
	"time"
)

// NullCache backs a pipeline runner built without a cache, as the
// one-shot render and batch commands are: every artifact lookup misses and
// every rendered drawing is discarded after it is returned.
type NullCache struct{}

// NewNullCache returns a NullCache.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }

var _ Cache = NullCache{}
