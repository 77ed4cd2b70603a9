package models

import "time"

// Product represents a product in the store.
// Facet foreign keys stay nil when the imported name could not be resolved.
type Product struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"type:varchar(255);not null;index"`
	SKU         *string   `json:"sku" gorm:"column:sku;type:varchar(100);uniqueIndex"`
	Price       float64   `json:"price" gorm:"not null;default:0;index"`
	Description *string   `json:"description" gorm:"type:text"`
	Image       *string   `json:"image" gorm:"type:text"`
	CategoryID  *uint     `json:"category_id" gorm:"index"`
	StyleID     *uint     `json:"style_id" gorm:"index"`
	ColorID     *uint     `json:"color_id" gorm:"index"`
	OccasionID  *uint     `json:"occasion_id" gorm:"index"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductTag links a product to a tag. The composite key keeps each pair unique.
type ProductTag struct {
	ProductID uint `json:"product_id" gorm:"primaryKey"`
	TagID     uint `json:"tag_id" gorm:"primaryKey;index"`
}

func (ProductTag) TableName() string {
	return "products_tags"
}

// ProductSummary is a product row joined with its facet names.
type ProductSummary struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	SKU         *string   `json:"sku,omitempty" gorm:"column:sku"`
	Price       float64   `json:"price"`
	Image       *string   `json:"image"`
	Description *string   `json:"description"`
	CategoryID  *uint     `json:"category_id,omitempty"`
	StyleID     *uint     `json:"style_id,omitempty"`
	ColorID     *uint     `json:"color_id,omitempty"`
	OccasionID  *uint     `json:"occasion_id,omitempty"`
	Category    *string   `json:"category"`
	Style       *string   `json:"style"`
	Color       *string   `json:"color"`
	Occasion    *string   `json:"occasion"`
	CreatedAt   time.Time `json:"created_at"`
}

// ProductDetail is a single product with resolved facet names and its tags.
type ProductDetail struct {
	ProductSummary
	Tags []FacetOption `json:"tags"`
}

// ProductPage is one page of a filtered listing.
type ProductPage struct {
	Products   []ProductSummary `json:"products"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"totalPages"`
}

// HomeProduct is the compact product card used by the home feed.
type HomeProduct struct {
	ID    uint    `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Image *string `json:"image"`
}

// HomeSection groups the newest products of one category.
type HomeSection struct {
	Label    string        `json:"label"`
	Products []HomeProduct `json:"products"`
}

// PriceRange is the cheapest and most expensive price of a product set.
// Both are nil when the set is empty.
type PriceRange struct {
	MinPrice *float64 `json:"minPrice"`
	MaxPrice *float64 `json:"maxPrice"`
}

// FilterOptions lists the facet values actually used by products of a category.
type FilterOptions struct {
	Colors     []FacetOption `json:"colors"`
	Styles     []FacetOption `json:"styles"`
	PriceRange PriceRange    `json:"priceRange"`
}
