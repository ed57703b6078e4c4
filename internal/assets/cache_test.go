package assets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bcviz/internal/storage"
)

func newLocalStore(t *testing.T) storage.Client {
	t.Helper()
	client, err := storage.NewLocalClient(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalClient() error = %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestEnsureEChartsDownloadsAndStores(t *testing.T) {
	bundle := "/* echarts bundle */"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(bundle))
	}))
	defer server.Close()

	store := newLocalStore(t)
	cache := NewCache(store, server.URL)

	ctx := context.Background()
	url := cache.EnsureECharts(ctx)

	if !strings.HasPrefix(url, "/files/assets/") {
		t.Errorf("expected local asset URL, got %s", url)
	}

	data, err := store.GetObject(ctx, storage.AssetPath("echarts.min.js"))
	if err != nil {
		t.Fatalf("cached bundle not stored: %v", err)
	}
	if string(data) != bundle {
		t.Errorf("stored bundle = %q, want %q", data, bundle)
	}
}

func TestEnsureEChartsSkipsDownloadWhenCached(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte("bundle"))
	}))
	defer server.Close()

	store := newLocalStore(t)
	cache := NewCache(store, server.URL)

	ctx := context.Background()
	cache.EnsureECharts(ctx)
	cache.EnsureECharts(ctx)

	if requests != 1 {
		t.Errorf("expected 1 download for repeated calls, got %d", requests)
	}
}

func TestEnsureEChartsFallsBackOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	store := newLocalStore(t)
	cache := NewCache(store, server.URL)

	url := cache.EnsureECharts(context.Background())
	if url != server.URL {
		t.Errorf("expected fallback to source URL %s, got %s", server.URL, url)
	}
}
