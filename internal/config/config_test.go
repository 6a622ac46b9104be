package config

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prokat/internal/pricing"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_ExpandsEnvAndDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PROKAT_TEST_REDIS", "redis:6379")

	path := writeFile(t, dir, "config.yaml", `
database:
  path: `+filepath.Join(dir, "db", "prokat.db")+`
redis:
  address: ${PROKAT_TEST_REDIS}
rental:
  min_lead_days: 5
  timezone: UTC
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "redis:6379", cfg.Redis.Address)
	assert.DirExists(t, filepath.Join(dir, "db"))

	assert.Equal(t, 5, cfg.MinLeadDays())
	assert.Equal(t, 90, cfg.HorizonDays())
	assert.Equal(t, 7, cfg.DiscountThresholdDays())
	assert.Equal(t, 9, cfg.EarlyReturnHour())
	assert.Equal(t, 12, cfg.ReturnHour())
	assert.Equal(t, time.UTC, cfg.Location())
	assert.Equal(t, 30*time.Minute, cfg.SessionTimeout())
	assert.Zero(t, cfg.CacheTTL())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestConfig_UnknownTimezone(t *testing.T) {
	var cfg Config
	cfg.Rental.Timezone = "Mars/Olympus"
	assert.Equal(t, time.UTC, cfg.Location())
}

const catalogYAML = `
products:
  - id: 1
    name: Палатка
    stock_quantity: 1
    base_price: 100
    discount_type: percentage
    discount_value: 10
    is_active: true
  - id: 2
    name: Каяк
    stock_quantity: 0
    base_price: 1500.5
`

func TestLoadCatalogConfig(t *testing.T) {
	path := writeFile(t, t.TempDir(), "catalog.yaml", catalogYAML)

	cat, err := LoadCatalogConfig(path)
	require.NoError(t, err)
	require.Len(t, cat.Products, 2)

	tent := cat.GetProductByID(1)
	require.NotNil(t, tent)
	assert.Equal(t, pricing.Discount{Type: pricing.DiscountPercentage, Value: 10}, tent.Discount())
	assert.Nil(t, cat.GetProductByID(3))
	assert.Equal(t, "CatalogConfig: 2 products (1 active)", cat.String())
}

func TestCatalogConfig_Validate(t *testing.T) {
	tests := []struct {
		name     string
		products []ProductConfig
	}{
		{name: "empty"},
		{name: "zero id", products: []ProductConfig{{Name: "a"}}},
		{name: "duplicate id", products: []ProductConfig{{ID: 1, Name: "a"}, {ID: 1, Name: "b"}}},
		{name: "no name", products: []ProductConfig{{ID: 1}}},
		{name: "negative stock", products: []ProductConfig{{ID: 1, Name: "a", StockQuantity: -1}}},
		{name: "bad discount type", products: []ProductConfig{{ID: 1, Name: "a", DiscountType: "bogo"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat := CatalogConfig{Products: tt.products}
			assert.Error(t, cat.Validate())
		})
	}
}

func TestWatchCatalog_InitialLoad(t *testing.T) {
	path := writeFile(t, t.TempDir(), "catalog.yaml", catalogYAML)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	err := WatchCatalog(ctx, path, time.Hour, nil, func(c *CatalogConfig) {
		calls.Add(1)
		assert.Len(t, c.Products, 2)
	})
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestWatchCatalog_MissingFile(t *testing.T) {
	err := WatchCatalog(context.Background(), filepath.Join(t.TempDir(), "nope.yaml"), time.Hour, nil, nil)
	assert.Error(t, err)
}

func TestCatalogWatcher_Poll(t *testing.T) {
	path := writeFile(t, t.TempDir(), "catalog.yaml", catalogYAML)
	var logs bytes.Buffer
	logger := zerolog.New(&logs)

	var got []*CatalogConfig
	w := &catalogWatcher{
		path:     path,
		lastMod:  time.Now().Add(-time.Hour),
		logger:   &logger,
		onUpdate: func(c *CatalogConfig) { got = append(got, c) },
	}
	touch := func(at time.Time) {
		require.NoError(t, os.Chtimes(path, at, at))
	}

	// Broken edit: logged, previous catalog kept.
	writeFile(t, filepath.Dir(path), "catalog.yaml", "products: [")
	touch(time.Now().Add(-30 * time.Minute))
	w.poll()
	assert.Empty(t, got)
	assert.Contains(t, logs.String(), "catalog reload failed")

	// Unchanged mtime: not reloaded or reported again.
	logs.Reset()
	w.poll()
	assert.Empty(t, logs.String())

	// Fixed edit is picked up.
	writeFile(t, filepath.Dir(path), "catalog.yaml", catalogYAML)
	touch(time.Now())
	w.poll()
	require.Len(t, got, 1)
	assert.Len(t, got[0].Products, 2)
	assert.Contains(t, logs.String(), "catalog reloaded")
}
