package cacheinfra

import (
	"context"
	"reflect"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/viccon/sturdyc"
)

// Stats is a snapshot of the tiered cache counters.
type Stats struct {
	Requests    int64
	MemoryHits  int64
	DiskHits    int64
	Fetches     int64
	WriteErrors int64
}

// TieredService is a read-through cache with a sturdyc memory tier in front
// of a file tier. Reads go memory -> file -> fetchFn; fetched values are
// written to both tiers. Fetch errors are never cached.
type TieredService struct {
	memory *sturdyc.Client[any]
	files  *fileStore
	logger zerolog.Logger

	requests     atomic.Int64
	memoryMisses atomic.Int64
	diskHits     atomic.Int64
	fetches      atomic.Int64
	writeErrors  atomic.Int64
}

// NewTieredService validates cfg and builds the cache. The memory tier is only
// created when cfg.MemoryTTL > 0.
func NewTieredService(cfg Config, logger zerolog.Logger) (*TieredService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &TieredService{
		files:  newFileStore(cfg.Dir, cfg.TTL),
		logger: logger.With().Str("component", "cache").Logger(),
	}

	if cfg.MemoryEnabled() {
		s.memory = sturdyc.New[any](
			cfg.MemoryCapacity,
			cfg.MemoryShards,
			cfg.MemoryTTL,
			cfg.EvictionPercentage,
			cfg.ToSturdycOptions()...,
		)
	}

	return s, nil
}

// validateFetchFn checks that fetchFn has the signature func(context.Context) (T, error).
func validateFetchFn(fetchFn any) error {
	if fetchFn == nil {
		return &ConfigError{Field: "fetchFn", Message: "cannot be nil"}
	}

	fnType := reflect.TypeOf(fetchFn)

	if fnType.Kind() != reflect.Func {
		return &ConfigError{Field: "fetchFn", Message: "must be a function"}
	}

	if fnType.NumIn() != 1 || fnType.NumOut() != 2 {
		return &ConfigError{Field: "fetchFn", Message: "must have signature func(context.Context) (T, error)"}
	}

	contextType := reflect.TypeOf((*context.Context)(nil)).Elem()
	if !fnType.In(0).Implements(contextType) {
		return &ConfigError{Field: "fetchFn", Message: "first parameter must be context.Context"}
	}

	errorType := reflect.TypeOf((*error)(nil)).Elem()
	if !fnType.Out(1).Implements(errorType) {
		return &ConfigError{Field: "fetchFn", Message: "second return value must be error"}
	}

	return nil
}

// GetOrFetch returns the value stored under key, loading it through the file
// tier and fetchFn on a memory miss. Concurrent misses for the same key are
// coalesced into a single load by sturdyc.
func (s *TieredService) GetOrFetch(ctx context.Context, key string, fetchFn any) (any, error) {
	if err := validateFetchFn(fetchFn); err != nil {
		return nil, err
	}

	s.requests.Add(1)

	load := func(ctx context.Context) (any, error) {
		return s.load(ctx, key, fetchFn)
	}

	var (
		value any
		err   error
	)
	if s.memory == nil {
		value, err = load(ctx)
	} else {
		value, err = s.memory.GetOrFetch(ctx, key, load)
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

// failedLoad stands in for the result of a failed load. sturdyc checks the
// result type before it looks at the error, so a nil result would replace
// the fetch error with sturdyc.ErrInvalidType.
type failedLoad struct{}

func (s *TieredService) load(ctx context.Context, key string, fetchFn any) (any, error) {
	s.memoryMisses.Add(1)

	holder := reflect.New(reflect.TypeOf(fetchFn).Out(0))
	hit, err := s.files.get(key, holder.Interface())
	switch {
	case err != nil:
		s.logger.Warn().Err(err).Str("key", key).Msg("ignoring unreadable cache file")
	case hit:
		s.diskHits.Add(1)
		return holder.Elem().Interface(), nil
	}

	value, err := callFetchFunctionWithReflection(ctx, fetchFn)
	if err != nil {
		return failedLoad{}, err
	}
	s.fetches.Add(1)

	if err := s.files.set(key, value); err != nil {
		s.writeErrors.Add(1)
		s.logger.Warn().Err(err).Str("key", key).Msg("cache file write failed")
	}

	return value, nil
}

// callFetchFunctionWithReflection calls a pre-validated fetchFn of any result type.
func callFetchFunctionWithReflection(ctx context.Context, fetchFn any) (any, error) {
	if fn, ok := fetchFn.(func(context.Context) (any, error)); ok {
		return fn(ctx)
	}

	results := reflect.ValueOf(fetchFn).Call([]reflect.Value{reflect.ValueOf(ctx)})

	var result any
	if resultValue := results[0]; resultValue.IsValid() && resultValue.CanInterface() {
		result = resultValue.Interface()
	}

	var err error
	if errorValue := results[1]; errorValue.IsValid() && !errorValue.IsNil() {
		err = errorValue.Interface().(error)
	}

	return result, err
}

// Delete removes a single entry from both tiers.
func (s *TieredService) Delete(ctx context.Context, key string) error {
	if s.memory != nil {
		s.memory.Delete(key)
	}
	return s.files.delete(key)
}

// DeleteByPrefix removes every entry whose key starts with prefix from both tiers.
func (s *TieredService) DeleteByPrefix(ctx context.Context, prefix string) error {
	if s.memory != nil {
		for _, key := range s.memory.ScanKeys() {
			if strings.HasPrefix(key, prefix) {
				s.memory.Delete(key)
			}
		}
	}

	removed, err := s.files.deleteByPrefix(prefix)
	s.logger.Debug().Str("prefix", prefix).Int("files", removed).Msg("cache entries deleted")
	return err
}

// InvalidateKeys removes the given keys from both tiers.
func (s *TieredService) InvalidateKeys(ctx context.Context, keys []string) error {
	for _, key := range keys {
		if err := s.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

// PurgeNamespace drops every entry of a namespace, including its directory.
func (s *TieredService) PurgeNamespace(ctx context.Context, namespace string) error {
	if s.memory != nil {
		prefix := namespace + keySeparator
		for _, key := range s.memory.ScanKeys() {
			if strings.HasPrefix(key, prefix) {
				s.memory.Delete(key)
			}
		}
	}
	return s.files.purge(namespace)
}

// Stats returns a snapshot of the cache counters.
func (s *TieredService) Stats() Stats {
	requests := s.requests.Load()
	return Stats{
		Requests:    requests,
		MemoryHits:  requests - s.memoryMisses.Load(),
		DiskHits:    s.diskHits.Load(),
		Fetches:     s.fetches.Load(),
		WriteErrors: s.writeErrors.Load(),
	}
}
