package client

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-resty/resty/v2"
)

// Ingredient types a pizza is configured from.
const (
	IngredientBase   = "base"
	IngredientSauce  = "sauce"
	IngredientCheese = "cheese"
	IngredientVeggie = "veggie"
)

// ValidIngredientType reports whether kind names a catalog section.
func ValidIngredientType(kind string) bool {
	switch kind {
	case IngredientBase, IngredientSauce, IngredientCheese, IngredientVeggie:
		return true
	}
	return false
}

// Ingredient is one catalog option as the inventory service reports it.
type Ingredient struct {
	ID          string `json:"_id"`
	Type        string `json:"type"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int    `json:"price"`
	Available   bool   `json:"isAvailable"`
}

// ErrCacheMiss is returned by a CatalogCache when kind has no cached entry.
var ErrCacheMiss = errors.New("cache miss")

// CatalogCache is an optional read-through cache for catalog sections. The
// catalog is read-only and eventually consistent, so short-lived staleness
// is acceptable; cart item prices are snapshots and never reconciled against
// later reads anyway.
type CatalogCache interface {
	Get(ctx context.Context, kind string) ([]Ingredient, error)
	Set(ctx context.Context, kind string, items []Ingredient) error
}

type CatalogClient struct {
	http  *resty.Client
	cache CatalogCache // nil disables caching
}

func NewCatalogClient(baseURL string, timeout time.Duration, cache CatalogCache) *CatalogClient {
	return &CatalogClient{
		http:  newRestyClient(baseURL, timeout),
		cache: cache,
	}
}

// Ingredients fetches one catalog section, serving from cache when possible.
func (c *CatalogClient) Ingredients(ctx context.Context, kind string) ([]Ingredient, error) {
	if c.cache != nil {
		items, err := c.cache.Get(ctx, kind)
		if err == nil {
			return items, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			log.Printf("[Catalog] Cache read for %s failed, falling through: %v", kind, err)
		}
	}

	var items []Ingredient
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("type", kind).
		SetResult(&items).
		Get("/inventory")
	if err != nil {
		return nil, fmt.Errorf("fetch %s options: %w", kind, err)
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, kind, items); err != nil {
			log.Printf("[Catalog] Failed to cache %s options: %v", kind, err)
		}
	}
	return items, nil
}
