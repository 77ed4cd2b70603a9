package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"flowershop/internal/cache"
	"flowershop/internal/facets"
	"flowershop/internal/filters"
	"flowershop/internal/models"
	"flowershop/internal/repositories"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// HomeSectionSize is the number of products shown per home category.
	HomeSectionSize = 10
	homeConcurrency = 4
)

// ProductService handles catalog reads and keeps them cached.
type ProductService struct {
	repo  repositories.ProductRepository
	cache cache.Cache
	log   *zap.Logger
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, c cache.Cache, log *zap.Logger) *ProductService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProductService{
		repo:  repo,
		cache: c,
		log:   log,
	}
}

// List returns one page of every product matching q.
func (s *ProductService) List(ctx context.Context, q models.FilterQuery) (*models.ProductPage, error) {
	return s.page(ctx, cache.ListKey("all", q), filters.Build(q), q)
}

// Filter returns one page of the filter endpoint.
func (s *ProductService) Filter(ctx context.Context, q models.FilterQuery) (*models.ProductPage, error) {
	return s.page(ctx, cache.ListKey("filter", q), filters.Build(q), q)
}

// ListByCategory returns one page of the category whose slug matches slug.
// Any CategoryID in q is ignored in favour of the slug.
func (s *ProductService) ListByCategory(ctx context.Context, slug string, q models.FilterQuery) (*models.ProductPage, error) {
	category, err := s.repo.FindCategoryBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrCategoryNotFound, slug)
		}
		return nil, err
	}

	q.CategoryID = nil
	pred := filters.Build(q).With(filters.Clause{SQL: "p.category_id = ?", Args: []interface{}{category.ID}})
	key := cache.ListKey(fmt.Sprintf("category:%d", category.ID), q)
	return s.page(ctx, key, pred, q)
}

// page counts first and skips the row query when the page is past the end.
func (s *ProductService) page(ctx context.Context, key string, pred filters.Predicate, q models.FilterQuery) (*models.ProductPage, error) {
	var cached models.ProductPage
	key, hit := s.lookup(ctx, key, &cached)
	if hit {
		return &cached, nil
	}

	total, err := s.repo.Count(ctx, pred)
	if err != nil {
		return nil, err
	}

	page := &models.ProductPage{
		Products:   []models.ProductSummary{},
		Total:      total,
		Page:       q.Page,
		Limit:      q.Limit,
		TotalPages: models.TotalPages(total, q.Limit),
	}
	if int64(q.Offset()) < total {
		products, err := s.repo.Find(ctx, pred, q.Limit, q.Offset())
		if err != nil {
			return nil, err
		}
		page.Products = products
	}

	s.store(ctx, key, page)
	return page, nil
}

// Home returns the newest products of every non-empty category keyed by
// category slug. Categories are queried concurrently.
func (s *ProductService) Home(ctx context.Context, name string, minPrice, maxPrice *float64) (map[string]models.HomeSection, error) {
	sections := map[string]models.HomeSection{}
	key, hit := s.lookup(ctx, cache.HomeKey(name, minPrice, maxPrice), &sections)
	if hit {
		return sections, nil
	}

	categories, err := s.repo.Categories(ctx)
	if err != nil {
		return nil, err
	}

	base := filters.Build(models.FilterQuery{Name: name, MinPrice: minPrice, MaxPrice: maxPrice})
	results := make([][]models.ProductSummary, len(categories))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(homeConcurrency)
	for i, category := range categories {
		i, category := i, category
		g.Go(func() error {
			pred := base.With(filters.Clause{SQL: "p.category_id = ?", Args: []interface{}{category.ID}})
			rows, err := s.repo.Find(gctx, pred, HomeSectionSize, 0)
			if err != nil {
				return fmt.Errorf("failed to load home section %q: %w", category.Name, err)
			}
			results[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	upper := cases.Upper(language.Vietnamese)
	for i, category := range categories {
		if len(results[i]) == 0 {
			continue
		}
		slug := facets.Slugify(category.Name)
		if _, taken := sections[slug]; taken {
			continue
		}
		products := make([]models.HomeProduct, 0, len(results[i]))
		for _, p := range results[i] {
			products = append(products, models.HomeProduct{ID: p.ID, Name: p.Name, Price: p.Price, Image: p.Image})
		}
		sections[slug] = models.HomeSection{Label: upper.String(category.Name), Products: products}
	}

	s.store(ctx, key, sections)
	return sections, nil
}

// GetByID returns a product with facet names and tags.
func (s *ProductService) GetByID(ctx context.Context, id uint) (*models.ProductDetail, error) {
	var cached models.ProductDetail
	key, hit := s.lookup(ctx, cache.ProductKey(id), &cached)
	if hit {
		return &cached, nil
	}

	detail, err := s.repo.GetDetail(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrProductNotFound, id)
		}
		return nil, err
	}

	s.store(ctx, key, detail)
	return detail, nil
}

// FilterOptions lists colors, styles and the price range in use. A slug that
// matches no category yields the options of the whole catalog.
func (s *ProductService) FilterOptions(ctx context.Context, slug string) (*models.FilterOptions, error) {
	var categoryID *uint
	if strings.TrimSpace(slug) != "" {
		category, err := s.repo.FindCategoryBySlug(ctx, slug)
		switch {
		case err == nil:
			categoryID = &category.ID
		case !errors.Is(err, repositories.ErrNotFound):
			return nil, err
		}
	}

	var cached models.FilterOptions
	key, hit := s.lookup(ctx, cache.FilterOptionsKey(categoryID), &cached)
	if hit {
		return &cached, nil
	}

	opts, err := s.repo.FilterOptions(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	s.store(ctx, key, opts)
	return opts, nil
}

// FacetLists returns the content of every facet table.
func (s *ProductService) FacetLists(ctx context.Context) (*models.FacetLists, error) {
	var cached models.FacetLists
	key, hit := s.lookup(ctx, cache.KeyFacetLists, &cached)
	if hit {
		return &cached, nil
	}

	lists, err := s.repo.FacetLists(ctx)
	if err != nil {
		return nil, err
	}
	s.store(ctx, key, lists)
	return lists, nil
}

// lookup resolves key against the current catalog generation and reads it.
// A failing cache is a miss and yields an empty key, which store ignores.
// A read that started before an invalidation stores under the old
// generation, where nothing reads it again.
func (s *ProductService) lookup(ctx context.Context, key string, dest interface{}) (string, bool) {
	if s.cache == nil {
		return "", false
	}
	gen, err := cache.Generation(ctx, s.cache)
	if err != nil {
		s.log.Warn("cache read failed", zap.String("key", cache.KeyGeneration), zap.Error(err))
		return "", false
	}
	key = cache.Versioned(key, gen)
	hit, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		s.log.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		return key, false
	}
	return key, hit
}

func (s *ProductService) store(ctx context.Context, key string, value interface{}) {
	if s.cache == nil || key == "" {
		return
	}
	if err := s.cache.Set(ctx, key, value, 0); err != nil {
		s.log.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}
