package models

import "math"

// FilterQuery describes a filtered, paginated product listing.
// Zero values (empty name, nil bounds, empty id lists) mean "no filter".
type FilterQuery struct {
	Name       string   `json:"name,omitempty"`
	MinPrice   *float64 `json:"minPrice,omitempty" validate:"omitempty,gte=0"`
	MaxPrice   *float64 `json:"maxPrice,omitempty" validate:"omitempty,gte=0"`
	CategoryID *uint    `json:"categoryId,omitempty"`
	OccasionID *uint    `json:"occasionId,omitempty"`
	ColorIDs   []uint   `json:"colorIds,omitempty"`
	StyleIDs   []uint   `json:"styleIds,omitempty"`
	Page       int      `json:"page" validate:"min=1"`
	Limit      int      `json:"limit" validate:"min=1,max=100"`
}

// Offset returns the number of rows skipped before the requested page.
// It saturates at math.MaxInt instead of overflowing.
func (q FilterQuery) Offset() int {
	if q.Page < 1 || q.Limit < 1 {
		return 0
	}
	if q.Page-1 > math.MaxInt/q.Limit {
		return math.MaxInt
	}
	return (q.Page - 1) * q.Limit
}

// TotalPages returns ceil(total/limit).
func TotalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
