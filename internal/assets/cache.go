package assets

import (
	"context"
	"fmt"
	"time"

	"bcviz/internal/logger"
	"bcviz/internal/storage"

	"github.com/go-resty/resty/v2"
)

// echartsObjectName is the object name the cached ECharts bundle is
// stored under.
const echartsObjectName = "echarts.min.js"

// Cache downloads chart rendering assets into snapshot storage so
// exported dashboards keep working without the public CDN.
type Cache struct {
	client    *resty.Client
	store     storage.Client
	sourceURL string
}

// NewCache creates an asset cache that downloads from sourceURL and
// stores into the given storage client.
func NewCache(store storage.Client, sourceURL string) *Cache {
	client := resty.New()
	client.SetTimeout(30 * time.Second)
	client.SetRetryCount(3)
	client.SetRetryWaitTime(2 * time.Second)

	return &Cache{
		client:    client,
		store:     store,
		sourceURL: sourceURL,
	}
}

// EnsureECharts makes sure the ECharts bundle is present in storage and
// returns the URL chart pages should load it from. On any download or
// storage failure the source URL is returned so pages fall back to the
// CDN directly.
func (c *Cache) EnsureECharts(ctx context.Context) string {
	objectPath := storage.AssetPath(echartsObjectName)
	localURL := "/files/" + objectPath

	exists, err := c.store.ObjectExists(ctx, objectPath)
	if err == nil && exists {
		return localURL
	}

	data, err := c.download(ctx)
	if err != nil {
		logger.Warn("Failed to cache ECharts bundle, falling back to CDN", map[string]interface{}{
			"source": c.sourceURL,
			"error":  err.Error(),
		})
		return c.sourceURL
	}

	if err := c.store.StoreObject(ctx, objectPath, data); err != nil {
		logger.Warn("Failed to store ECharts bundle, falling back to CDN", map[string]interface{}{
			"object": objectPath,
			"error":  err.Error(),
		})
		return c.sourceURL
	}

	logger.Info("Cached ECharts bundle", map[string]interface{}{
		"object": objectPath,
		"bytes":  len(data),
	})
	return localURL
}

// download fetches the bundle from the configured source URL.
func (c *Cache) download(ctx context.Context) ([]byte, error) {
	resp, err := c.client.R().SetContext(ctx).Get(c.sourceURL)
	if err != nil {
		return nil, fmt.Errorf("failed to download asset from %s: %w", c.sourceURL, err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("asset download from %s returned status %d", c.sourceURL, resp.StatusCode())
	}
	if len(resp.Body()) == 0 {
		return nil, fmt.Errorf("asset download from %s returned empty body", c.sourceURL)
	}
	return resp.Body(), nil
}
