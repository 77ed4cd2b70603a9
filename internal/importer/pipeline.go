// Package importer loads products from CSV and Excel uploads.
//
// A run either commits every accepted row or none of them. Row-level problems
// (missing name, unknown facet, bad price) become warnings and never abort the
// run; storage failures always do.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"flowershop/internal/facets"
	"flowershop/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrImportFailed wraps any storage error that rolled a run back.
var ErrImportFailed = errors.New("import failed")

// Warning reasons.
const (
	ReasonMissingName  = "Missing name"
	ReasonInvalidPrice = "Invalid price, defaulted to 0"
	ReasonTagNotFound  = "tag not found"
	ReasonEmptyFile    = "File is empty"
)

// Options tune a single run.
type Options struct {
	// AutoCreateTags inserts unknown tags instead of warning about them.
	AutoCreateTags bool
}

// Pipeline imports rows into the catalog.
type Pipeline struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewPipeline creates a new Pipeline.
func NewPipeline(db *gorm.DB, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{db: db, log: log}
}

type run struct {
	tx       *gorm.DB
	resolver *facets.Resolver
	opts     Options
	result   *models.ImportResult
}

// Run drains src inside one transaction. The returned result is only
// meaningful when err is nil.
func (p *Pipeline) Run(ctx context.Context, src RowSource, opts Options) (*models.ImportResult, error) {
	runID := uuid.NewString()
	log := p.log.With(zap.String("import_run", runID))
	started := time.Now()
	log.Info("import started", zap.Bool("auto_create_tags", opts.AutoCreateTags))

	var result *models.ImportResult
	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		resolver, err := facets.Preload(ctx, tx)
		if err != nil {
			return err
		}
		r := &run{
			tx:       tx,
			resolver: resolver,
			opts:     opts,
			result:   &models.ImportResult{Created: []models.CreatedProduct{}, Warnings: []models.ImportWarning{}},
		}

		for {
			if err := ctx.Err(); err != nil {
				return err
			}
			row, err := src.Next()
			if errors.Is(err, io.EOF) {
				break
			}
			if errors.Is(err, ErrEmptyFile) {
				r.warn(0, "file", "", ReasonEmptyFile)
				break
			}
			if err != nil {
				return err
			}
			if err := r.process(row); err != nil {
				return err
			}
		}

		r.result.CreatedCount = len(r.result.Created)
		result = r.result
		return nil
	})

	if err != nil {
		log.Error("import rolled back", zap.Error(err), zap.Duration("elapsed", time.Since(started)))
		if errors.Is(err, ErrInvalidHeader) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrImportFailed, err)
	}

	log.Info("import committed",
		zap.Int("created", result.CreatedCount),
		zap.Int("warnings", len(result.Warnings)),
		zap.Duration("elapsed", time.Since(started)))
	return result, nil
}

func (r *run) warn(row int, field, value, reason string) {
	r.result.Warnings = append(r.result.Warnings, models.ImportWarning{
		Row:    row,
		Field:  field,
		Value:  value,
		Reason: reason,
	})
}

// process inserts one row. Only storage errors are returned.
func (r *run) process(row Row) error {
	if row.Err != nil {
		r.warn(row.Number, "row", "", "Malformed row: "+row.Err.Error())
		return nil
	}

	name := row.Get("name")
	if name == "" {
		r.warn(row.Number, "name", "", ReasonMissingName)
		return nil
	}

	product := models.Product{
		Name:        name,
		SKU:         optional(row.Get("sku")),
		Description: optional(row.Get("description")),
		Image:       optional(row.Get("image")),
	}

	rawPrice := row.Get("price")
	price, ok := ParsePrice(rawPrice)
	if !ok {
		r.warn(row.Number, "price", rawPrice, ReasonInvalidPrice)
	}
	product.Price = price

	product.CategoryID = r.lookup(row, models.FacetCategory)
	product.StyleID = r.lookup(row, models.FacetStyle)
	product.ColorID = r.lookup(row, models.FacetColor)
	product.OccasionID = r.lookup(row, models.FacetOccasion)

	if err := r.tx.Create(&product).Error; err != nil {
		return fmt.Errorf("failed to insert product on row %d: %w", row.Number, err)
	}

	if err := r.linkTags(row, product.ID); err != nil {
		return err
	}

	r.result.Created = append(r.result.Created, models.CreatedProduct{ID: product.ID, Name: product.Name})
	return nil
}

func (r *run) lookup(row Row, kind models.FacetKind) *uint {
	field := string(kind)
	raw := row.Get(field)
	if raw == "" {
		return nil
	}
	id, ok := r.resolver.Resolve(kind, raw)
	if !ok {
		r.warn(row.Number, field, raw, field+" not found")
		return nil
	}
	return &id
}

func (r *run) linkTags(row Row, productID uint) error {
	raw := row.Get("tags")
	if raw == "" {
		raw = row.Get("tag")
	}
	for _, name := range splitTags(raw) {
		tagID, ok := r.resolver.Resolve(models.FacetTag, name)
		if !ok && r.opts.AutoCreateTags {
			id, err := r.createTag(name)
			if err != nil {
				return err
			}
			tagID, ok = id, true
		}
		if !ok {
			r.warn(row.Number, "tag", name, ReasonTagNotFound)
			continue
		}

		err := r.tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.ProductTag{ProductID: productID, TagID: tagID}).Error
		if err != nil {
			return fmt.Errorf("failed to link tag %q on row %d: %w", name, row.Number, err)
		}
	}
	return nil
}

// createTag inserts name, tolerating a concurrent insert of the same tag.
func (r *run) createTag(name string) (uint, error) {
	tag := models.Tag{Name: name}
	if err := r.tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&tag).Error; err != nil {
		return 0, fmt.Errorf("failed to create tag %q: %w", name, err)
	}
	if tag.ID == 0 {
		if err := r.tx.Where("name = ?", name).First(&tag).Error; err != nil {
			return 0, fmt.Errorf("failed to load tag %q: %w", name, err)
		}
	}
	r.resolver.Remember(models.FacetTag, name, tag.ID)
	return tag.ID, nil
}

// splitTags splits a comma list, dropping blanks and normalized duplicates.
func splitTags(raw string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, piece := range strings.Split(raw, ",") {
		piece = strings.TrimSpace(piece)
		key := facets.Normalize(piece)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, piece)
	}
	return out
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
