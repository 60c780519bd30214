package di

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/erwansetyobudi/browseby/catalog"
)

// TestConcurrentPageRequests hits the same pages from many goroutines, then
// once more serially, which must be served without touching the catalog.
func TestConcurrentPageRequests(t *testing.T) {
	container := newTestContainer(t)

	server, err := container.Server()
	if err != nil {
		t.Fatalf("Server() failed: %v", err)
	}
	handler := server.Handler()

	paths := []string{
		"/index.php?p=browse_author&letter=B&author_id=3",
		"/index.php?p=browse_topic&letter=A&tid=1",
		"/index.php?p=browse_year&year=2020",
	}

	const numGoroutines = 20

	var wg sync.WaitGroup
	codes := make(chan int, numGoroutines*len(paths))

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, path := range paths {
				rec := httptest.NewRecorder()
				handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
				codes <- rec.Code
			}
		}()
	}
	wg.Wait()
	close(codes)

	for code := range codes {
		if code != http.StatusOK {
			t.Errorf("expected 200, got %d", code)
		}
	}

	stats := container.CacheService().Stats()
	// author: letter counts, facet, count, titles. topic: the same plus the
	// facet list. year: range, list, count, titles.
	if stats.Fetches < 13 {
		t.Errorf("expected at least 13 fetches, got %d", stats.Fetches)
	}
	if stats.MemoryHits == 0 {
		t.Error("expected concurrent requests to share memory entries")
	}

	for _, path := range paths {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}
	}
	if got := container.CacheService().Stats().Fetches; got != stats.Fetches {
		t.Errorf("expected no new fetches, got %d -> %d", stats.Fetches, got)
	}
}

func BenchmarkCachedVsStore(b *testing.B) {
	ctx := context.Background()
	page := catalog.Page{Number: 1, PerPage: catalog.DefaultPerPage}
	container := newTestContainer(b)

	b.Run("store", func(b *testing.B) {
		store := container.Store()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			if _, err := store.Titles(ctx, catalog.KindTopic, 1, page); err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run("cached", func(b *testing.B) {
		cat := container.Catalog()
		if _, err := cat.Titles(ctx, catalog.KindTopic, 1, page); err != nil {
			b.Fatal(err)
		}
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			if _, err := cat.Titles(ctx, catalog.KindTopic, 1, page); err != nil {
				b.Fatal(err)
			}
		}
	})
}

func BenchmarkPageRender(b *testing.B) {
	container := newTestContainer(b)
	server, err := container.Server()
	if err != nil {
		b.Fatal(err)
	}
	handler := server.Handler()
	req := httptest.NewRequest(http.MethodGet, "/index.php?p=browse_author&letter=B&author_id=3", nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			b.Fatalf("expected 200, got %d", rec.Code)
		}
	}
}
