package cache_test

import (
	"strings"
	"testing"

	"flowershop/internal/cache"
	"flowershop/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestListKey_Deterministic(t *testing.T) {
	minPrice := 100.0
	cat := uint(2)
	a := models.FilterQuery{Page: 1, Limit: 15, MinPrice: &minPrice, CategoryID: &cat, ColorIDs: []uint{3, 1, 2}}
	b := models.FilterQuery{Page: 1, Limit: 15, MinPrice: &minPrice, CategoryID: &cat, ColorIDs: []uint{1, 2, 3, 3}}

	assert.Equal(t, cache.ListKey("filter", a), cache.ListKey("filter", b))
	assert.True(t, strings.HasPrefix(cache.ListKey("filter", a), cache.PrefixProductList))
}

func TestListKey_DistinguishesQueries(t *testing.T) {
	base := models.FilterQuery{Page: 1, Limit: 15}
	keys := map[string]bool{}
	variants := []models.FilterQuery{
		base,
		{Page: 2, Limit: 15},
		{Page: 1, Limit: 20},
		{Page: 1, Limit: 15, Name: "hoa"},
		{Page: 1, Limit: 15, ColorIDs: []uint{1}},
		{Page: 1, Limit: 15, StyleIDs: []uint{1}},
	}
	for _, q := range variants {
		keys[cache.ListKey("filter", q)] = true
	}
	assert.Len(t, keys, len(variants))
	assert.NotEqual(t, cache.ListKey("filter", base), cache.ListKey("category", base))
}

func TestKeyPrefixes(t *testing.T) {
	cat := uint(5)
	assert.True(t, strings.HasPrefix(cache.HomeKey("Hoa", nil, nil), cache.PrefixHome))
	assert.True(t, strings.HasPrefix(cache.FilterOptionsKey(&cat), cache.PrefixFilters))
	assert.True(t, strings.HasPrefix(cache.KeyFacetLists, cache.PrefixFilters))
	assert.Equal(t, "filters:options:5", cache.FilterOptionsKey(&cat))
	assert.Equal(t, "filters:options:all", cache.FilterOptionsKey(nil))
	assert.Equal(t, "product:12", cache.ProductKey(12))
	assert.Equal(t, cache.HomeKey(" HOA ", nil, nil), cache.HomeKey("hoa", nil, nil))
}
