package catalog

import (
	"context"
)

type refreshContextKey struct{}

// WithRefresh marks reads made with ctx as refreshes: CachedCatalog drops the
// cached entry before reading, so the value is fetched again and re-cached.
func WithRefresh(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, refreshContextKey{}, true)
}

func refreshFromContext(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	refresh, _ := ctx.Value(refreshContextKey{}).(bool)
	return refresh
}
