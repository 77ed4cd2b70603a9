package repositories

import (
	"context"
	"fmt"
	"strings"

	"flowershop/internal/facets"
	"flowershop/internal/filters"
	"flowershop/internal/models"

	"gorm.io/gorm"
)

const summaryColumns = "p.id, p.name, p.sku, p.price, p.image, p.description, " +
	"p.category_id, p.style_id, p.color_id, p.occasion_id, p.created_at, " +
	"c.name AS category, s.name AS style, co.name AS color, o.name AS occasion"

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

func (r *GORMProductRepository) products(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Table("products p")
}

// Count returns the number of products matching pred.
func (r *GORMProductRepository) Count(ctx context.Context, pred filters.Predicate) (int64, error) {
	var total int64
	if err := pred.Apply(r.products(ctx)).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return total, nil
}

// Find returns one page of products matching pred, newest first.
func (r *GORMProductRepository) Find(ctx context.Context, pred filters.Predicate, limit, offset int) ([]models.ProductSummary, error) {
	products := []models.ProductSummary{}
	tx := r.products(ctx).
		Select(summaryColumns).
		Joins("LEFT JOIN categories c ON c.id = p.category_id").
		Joins("LEFT JOIN styles s ON s.id = p.style_id").
		Joins("LEFT JOIN colors co ON co.id = p.color_id").
		Joins("LEFT JOIN occasions o ON o.id = p.occasion_id")
	err := pred.Apply(tx).
		Order(filters.OrderBy).
		Limit(limit).
		Offset(offset).
		Scan(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find products: %w", err)
	}
	return products, nil
}

// GetDetail retrieves a single product with facet names and tags.
func (r *GORMProductRepository) GetDetail(ctx context.Context, id uint) (*models.ProductDetail, error) {
	pred := filters.Predicate{}.With(filters.Clause{SQL: "p.id = ?", Args: []interface{}{id}})
	rows, err := r.Find(ctx, pred, 1, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to get product by ID %d: %w", id, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("product with ID %d: %w", id, ErrNotFound)
	}

	tags := []models.FacetOption{}
	err = r.db.WithContext(ctx).
		Table("tags t").
		Select("t.id, t.name").
		Joins("JOIN products_tags pt ON pt.tag_id = t.id").
		Where("pt.product_id = ?", id).
		Order("t.name ASC").
		Scan(&tags).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get tags of product %d: %w", id, err)
	}

	return &models.ProductDetail{ProductSummary: rows[0], Tags: tags}, nil
}

// GetByIDs retrieves the products with the given ids. Missing ids are skipped.
func (r *GORMProductRepository) GetByIDs(ctx context.Context, ids []uint) ([]models.Product, error) {
	var products []models.Product
	if len(ids) == 0 {
		return products, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get products by IDs: %w", err)
	}
	return products, nil
}

// Categories retrieves every category ordered by id.
func (r *GORMProductRepository) Categories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}
	return categories, nil
}

// FindCategoryBySlug returns the category whose slugified name equals slug.
// The lowest id wins when two names share a slug.
func (r *GORMProductRepository) FindCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	want := facets.Slugify(strings.ReplaceAll(slug, "-", " "))
	if want == "" {
		return nil, fmt.Errorf("category %q: %w", slug, ErrNotFound)
	}
	categories, err := r.Categories(ctx)
	if err != nil {
		return nil, err
	}
	for i := range categories {
		if facets.Slugify(categories[i].Name) == want {
			return &categories[i], nil
		}
	}
	return nil, fmt.Errorf("category %q: %w", slug, ErrNotFound)
}

// FilterOptions lists the colors and styles used by products of a category,
// and their price range. A nil categoryID covers every product.
func (r *GORMProductRepository) FilterOptions(ctx context.Context, categoryID *uint) (*models.FilterOptions, error) {
	var pred filters.Predicate
	if categoryID != nil {
		pred = pred.With(filters.Clause{SQL: "p.category_id = ?", Args: []interface{}{*categoryID}})
	}

	opts := &models.FilterOptions{}
	var err error
	if opts.Colors, err = r.usedFacets(ctx, models.FacetColor, "color_id", pred); err != nil {
		return nil, err
	}
	if opts.Styles, err = r.usedFacets(ctx, models.FacetStyle, "style_id", pred); err != nil {
		return nil, err
	}

	err = pred.Apply(r.products(ctx)).
		Select("MIN(p.price) AS min_price, MAX(p.price) AS max_price").
		Scan(&opts.PriceRange).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get price range: %w", err)
	}
	return opts, nil
}

func (r *GORMProductRepository) usedFacets(ctx context.Context, kind models.FacetKind, column string, pred filters.Predicate) ([]models.FacetOption, error) {
	options := []models.FacetOption{}
	tx := r.products(ctx).
		Distinct("f.id", "f.name").
		Joins(fmt.Sprintf("JOIN %s f ON f.id = p.%s", kind.Table(), column))
	if err := pred.Apply(tx).Order("f.name ASC").Scan(&options).Error; err != nil {
		return nil, fmt.Errorf("failed to get %s in use: %w", kind.Table(), err)
	}
	return options, nil
}

// FacetLists retrieves every facet table sorted by name.
func (r *GORMProductRepository) FacetLists(ctx context.Context) (*models.FacetLists, error) {
	lists := &models.FacetLists{}
	targets := map[models.FacetKind]*[]models.FacetOption{
		models.FacetCategory: &lists.Categories,
		models.FacetStyle:    &lists.Styles,
		models.FacetColor:    &lists.Colors,
		models.FacetOccasion: &lists.Occasions,
		models.FacetTag:      &lists.Tags,
	}
	for _, kind := range models.FacetKinds {
		options := []models.FacetOption{}
		err := r.db.WithContext(ctx).
			Table(kind.Table()).
			Select("id, name").
			Order("name ASC").
			Scan(&options).Error
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", kind.Table(), err)
		}
		*targets[kind] = options
	}
	return lists, nil
}
