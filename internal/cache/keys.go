package cache

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"flowershop/internal/models"

	"github.com/google/uuid"
)

// Key prefixes. Every aggregate view lives under one of the first three.
const (
	PrefixHome          = "home:"
	PrefixFilters       = "filters:"
	PrefixProductList   = "products:list:"
	PrefixProductDetail = "product:"

	KeyFacetLists = PrefixFilters + "all"
)

// HomeKey keys the home feed for a name/price filter.
func HomeKey(name string, minPrice, maxPrice *float64) string {
	return fmt.Sprintf("%sproducts:%s:%s:%s", PrefixHome,
		url.QueryEscape(strings.ToLower(strings.TrimSpace(name))),
		formatFloat(minPrice), formatFloat(maxPrice))
}

// ProductKey keys a product detail.
func ProductKey(id uint) string {
	return PrefixProductDetail + strconv.FormatUint(uint64(id), 10)
}

// FilterOptionsKey keys the option lists of a category; nil means all products.
func FilterOptionsKey(categoryID *uint) string {
	if categoryID == nil {
		return PrefixFilters + "options:all"
	}
	return PrefixFilters + "options:" + strconv.FormatUint(uint64(*categoryID), 10)
}

// ListKey keys one page of a listing. kind separates endpoints whose
// responses differ for the same query. Id lists are sorted so parameter
// order does not matter.
func ListKey(kind string, q models.FilterQuery) string {
	var b strings.Builder
	b.WriteString(PrefixProductList)
	b.WriteString(kind)
	fmt.Fprintf(&b, ":p=%d:l=%d", q.Page, q.Limit)
	fmt.Fprintf(&b, ":n=%s", url.QueryEscape(strings.ToLower(strings.TrimSpace(q.Name))))
	fmt.Fprintf(&b, ":min=%s:max=%s", formatFloat(q.MinPrice), formatFloat(q.MaxPrice))
	fmt.Fprintf(&b, ":cat=%s:occ=%s", formatID(q.CategoryID), formatID(q.OccasionID))
	fmt.Fprintf(&b, ":col=%s:sty=%s", joinIDs(q.ColorIDs), joinIDs(q.StyleIDs))
	return b.String()
}

// KeyGeneration holds the catalog generation. It sits outside every
// prefix that InvalidateCatalog clears.
const KeyGeneration = "catalog:generation"

const generationTTL = 30 * 24 * time.Hour

// Generation returns the current catalog generation, "0" until the first
// invalidation.
func Generation(ctx context.Context, c Cache) (string, error) {
	var gen string
	hit, err := c.Get(ctx, KeyGeneration, &gen)
	if err != nil {
		return "", err
	}
	if !hit {
		return "0", nil
	}
	return gen, nil
}

// Versioned qualifies key with a catalog generation.
func Versioned(key, gen string) string {
	return key + "@" + gen
}

// InvalidateCatalog starts a new catalog generation, then clears every
// aggregate view and the detail entries of the given products. All steps are
// attempted; the first error is returned.
func InvalidateCatalog(ctx context.Context, c Cache, productIDs []uint) error {
	firstErr := c.Set(ctx, KeyGeneration, uuid.NewString(), generationTTL)
	for _, prefix := range []string{PrefixHome, PrefixFilters, PrefixProductList} {
		if err := c.DelPrefix(ctx, prefix); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if len(productIDs) > 0 {
		keys := make([]string, 0, len(productIDs))
		for _, id := range productIDs {
			keys = append(keys, ProductKey(id))
		}
		if err := c.Del(ctx, keys...); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatID(v *uint) string {
	if v == nil {
		return ""
	}
	return strconv.FormatUint(uint64(*v), 10)
}

func joinIDs(ids []uint) string {
	if len(ids) == 0 {
		return ""
	}
	sorted := append([]uint(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	parts := make([]string, 0, len(sorted))
	for i, id := range sorted {
		if i > 0 && id == sorted[i-1] {
			continue
		}
		parts = append(parts, strconv.FormatUint(uint64(id), 10))
	}
	return strings.Join(parts, ",")
}
