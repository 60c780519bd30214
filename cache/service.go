package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidResultType is returned when a cached value cannot be converted to the requested type.
var ErrInvalidResultType = errors.New("cache: invalid result type")

// KeySerializer builds a cache key from a method name + arbitrary args.
// It is responsible for producing stable keys across calls and processes.
type KeySerializer interface {
	SerializeKey(method string, args ...any) string
}

// FetchFn is the function signature CacheService expects when fetching from the source of truth.
type FetchFn[T any] func(ctx context.Context) (T, error)

// CacheService exposes the read-through caching operations used by the catalog decorator.
type CacheService interface {
	GetOrFetch(ctx context.Context, key string, fetchFn any) (any, error)
	Delete(ctx context.Context, key string) error
	DeleteByPrefix(ctx context.Context, prefix string) error
}

// GetOrFetch is a type-safe wrapper function that provides generic support for CacheService.
func GetOrFetch[T any](ctx context.Context, service CacheService, key string, fetchFn FetchFn[T]) (T, error) {
	var zero T

	result, err := service.GetOrFetch(ctx, key, fetchFn)
	if err != nil {
		return zero, err
	}

	if result == nil {
		return zero, nil
	}

	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("%w: got %T for key %q", ErrInvalidResultType, result, key)
	}
	return typed, nil
}

// NamespacedKey joins a namespace (one per browse page) and a serialized key.
func NamespacedKey(namespace, key string) string {
	return namespace + KeySeparator + key
}

// SplitKey is the inverse of NamespacedKey. Keys without a namespace return an empty namespace.
func SplitKey(full string) (namespace, key string) {
	ns, k, found := strings.Cut(full, KeySeparator)
	if !found {
		return "", full
	}
	return ns, k
}
