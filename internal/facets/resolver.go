package facets

import (
	"context"
	"fmt"

	"flowershop/internal/models"

	"gorm.io/gorm"
)

// Resolver is a snapshot of every facet table keyed by normalized name.
// It is built once per import run and must not be shared between runs;
// rows inserted by a concurrent run after Preload are not visible to it.
type Resolver struct {
	ids map[models.FacetKind]map[string]uint
}

// Preload reads every facet table once and builds the lookup maps.
// When two stored names normalize to the same key the lowest id wins.
func Preload(ctx context.Context, db *gorm.DB) (*Resolver, error) {
	r := &Resolver{ids: make(map[models.FacetKind]map[string]uint, len(models.FacetKinds))}
	for _, kind := range models.FacetKinds {
		var rows []models.FacetOption
		err := db.WithContext(ctx).
			Table(kind.Table()).
			Select("id, name").
			Order("id ASC").
			Scan(&rows).Error
		if err != nil {
			return nil, fmt.Errorf("failed to preload %s: %w", kind.Table(), err)
		}

		lookup := make(map[string]uint, len(rows))
		for _, row := range rows {
			key := Normalize(row.Name)
			if key == "" {
				continue
			}
			if _, taken := lookup[key]; !taken {
				lookup[key] = row.ID
			}
		}
		r.ids[kind] = lookup
	}
	return r, nil
}

// Resolve returns the id of the facet whose name normalizes like raw.
// An empty value or an unknown name reports false; the caller decides
// whether that is worth a warning.
func (r *Resolver) Resolve(kind models.FacetKind, raw string) (uint, bool) {
	key := Normalize(raw)
	if key == "" {
		return 0, false
	}
	id, ok := r.ids[kind][key]
	return id, ok
}

// Remember registers a facet created during the run so later rows reuse it.
func (r *Resolver) Remember(kind models.FacetKind, raw string, id uint) {
	key := Normalize(raw)
	if key == "" {
		return
	}
	if r.ids[kind] == nil {
		r.ids[kind] = make(map[string]uint)
	}
	r.ids[kind][key] = id
}

// Len returns the number of distinct keys loaded for kind.
func (r *Resolver) Len(kind models.FacetKind) int {
	return len(r.ids[kind])
}
