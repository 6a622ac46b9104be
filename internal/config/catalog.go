package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"prokat/internal/pricing"
)

// ProductConfig represents a single rentable product.
type ProductConfig struct {
	ID            int64   `yaml:"id"`
	Name          string  `yaml:"name"`
	StockQuantity int     `yaml:"stock_quantity"`
	BasePrice     float64 `yaml:"base_price"`
	DiscountType  string  `yaml:"discount_type"`
	DiscountValue float64 `yaml:"discount_value"`
	IsActive      bool    `yaml:"is_active"`
}

// Discount converts the configured discount. Call after Validate.
func (p ProductConfig) Discount() pricing.Discount {
	t, _ := pricing.ParseDiscountType(p.DiscountType)
	return pricing.Discount{Type: t, Value: p.DiscountValue}
}

// CatalogConfig is the root configuration for catalog.yaml.
type CatalogConfig struct {
	Products []ProductConfig `yaml:"products"`
}

// LoadCatalogConfig loads and validates the product catalog from a YAML file.
func LoadCatalogConfig(path string) (*CatalogConfig, error) {
	if path == "" {
		path = "configs/catalog.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog config: %w", err)
	}

	var cfg CatalogConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse catalog config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate catalog config: %w", err)
	}

	return &cfg, nil
}

// Validate checks the catalog for errors.
func (c *CatalogConfig) Validate() error {
	if len(c.Products) == 0 {
		return fmt.Errorf("no products defined")
	}

	ids := make(map[int64]bool)
	for i, p := range c.Products {
		if p.ID <= 0 {
			return fmt.Errorf("product[%d]: id must be positive, got %d", i, p.ID)
		}
		if ids[p.ID] {
			return fmt.Errorf("product[%d]: duplicate id %d", i, p.ID)
		}
		ids[p.ID] = true

		if p.Name == "" {
			return fmt.Errorf("product[%d]: name is required", i)
		}
		if p.StockQuantity < 0 {
			return fmt.Errorf("product[%d]: stock_quantity cannot be negative", i)
		}
		if p.BasePrice < 0 {
			return fmt.Errorf("product[%d]: base_price cannot be negative", i)
		}
		if p.DiscountValue < 0 {
			return fmt.Errorf("product[%d]: discount_value cannot be negative", i)
		}
		if _, err := pricing.ParseDiscountType(p.DiscountType); err != nil {
			return fmt.Errorf("product[%d]: %w", i, err)
		}
	}

	return nil
}

// GetProductByID returns product config by ID.
func (c *CatalogConfig) GetProductByID(id int64) *ProductConfig {
	for i := range c.Products {
		if c.Products[i].ID == id {
			return &c.Products[i]
		}
	}
	return nil
}

// String returns a summary of the catalog.
func (c *CatalogConfig) String() string {
	active := 0
	for _, p := range c.Products {
		if p.IsActive {
			active++
		}
	}
	return fmt.Sprintf("CatalogConfig: %d products (%d active)", len(c.Products), active)
}
