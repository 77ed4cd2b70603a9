package models

// FacetKind identifies one of the reference tables products point at.
type FacetKind string

const (
	FacetCategory FacetKind = "category"
	FacetStyle    FacetKind = "style"
	FacetColor    FacetKind = "color"
	FacetOccasion FacetKind = "occasion"
	FacetTag      FacetKind = "tag"
)

// FacetKinds lists every facet kind in a fixed order.
var FacetKinds = []FacetKind{FacetCategory, FacetStyle, FacetColor, FacetOccasion, FacetTag}

// Table returns the table backing the facet kind.
func (k FacetKind) Table() string {
	switch k {
	case FacetCategory:
		return "categories"
	case FacetStyle:
		return "styles"
	case FacetColor:
		return "colors"
	case FacetOccasion:
		return "occasions"
	case FacetTag:
		return "tags"
	}
	return ""
}

// Category groups products on the storefront (e.g. "Sinh Nhật").
type Category struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"type:varchar(100);uniqueIndex;not null"`
}

// Style is the arrangement type (bouquet, basket, vase...).
type Style struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"type:varchar(100);uniqueIndex;not null"`
}

// Color is the dominant flower color.
type Color struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"type:varchar(100);uniqueIndex;not null"`
}

// Occasion is the event a product is meant for.
type Occasion struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"type:varchar(100);uniqueIndex;not null"`
}

// Tag is a free label attached to products through ProductTag.
type Tag struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"type:varchar(100);uniqueIndex;not null"`
}

// FacetOption is an id/name pair as returned by option lists.
type FacetOption struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// FacetLists holds the full content of every facet table.
type FacetLists struct {
	Categories []FacetOption `json:"categories"`
	Styles     []FacetOption `json:"styles"`
	Colors     []FacetOption `json:"colors"`
	Occasions  []FacetOption `json:"occasions"`
	Tags       []FacetOption `json:"tags"`
}

// CatalogModels returns every catalog model for AutoMigrate.
func CatalogModels() []interface{} {
	return []interface{}{
		&Category{}, &Style{}, &Color{}, &Occasion{}, &Tag{},
		&Product{}, &ProductTag{},
	}
}
