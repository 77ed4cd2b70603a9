package repositories

import (
	"context"
	"errors"

	"flowershop/internal/filters"
	"flowershop/internal/models"
)

// ErrNotFound is returned (wrapped) when a looked-up record does not exist.
var ErrNotFound = errors.New("record not found")

// ProductRepository defines the interface for catalog reads.
// Every listing method takes the same Predicate so counts and pages agree.
type ProductRepository interface {
	Count(ctx context.Context, pred filters.Predicate) (int64, error)
	Find(ctx context.Context, pred filters.Predicate, limit, offset int) ([]models.ProductSummary, error)
	GetDetail(ctx context.Context, id uint) (*models.ProductDetail, error)
	GetByIDs(ctx context.Context, ids []uint) ([]models.Product, error)
	Categories(ctx context.Context) ([]models.Category, error)
	FindCategoryBySlug(ctx context.Context, slug string) (*models.Category, error)
	FilterOptions(ctx context.Context, categoryID *uint) (*models.FilterOptions, error)
	FacetLists(ctx context.Context) (*models.FacetLists, error)
}
