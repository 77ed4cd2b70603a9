package database

import (
	"fmt"

	"flowershop/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Default reference data, matching the shop's spreadsheets.
var (
	DefaultCategories = []string{"Sinh Nhật", "Khai Trương", "Tang Lễ", "Hoa Cưới", "Chúc Mừng", "Tình Yêu"}
	DefaultStyles     = []string{"Lẵng", "Giỏ", "Bó", "Bình", "Kệ", "Hộp Hoa", "Hoa Để Bàn", "Hoa Cưới"}
	DefaultColors     = []string{"Đỏ", "Trắng", "Vàng", "Hồng", "Cam", "Tím", "Xanh Lá", "Kem", "Đen"}
	DefaultOccasions  = []string{"Khai Trương", "Sinh Nhật", "Tang Lễ", "Valentine", "Cưới Hỏi", "Chúc Mừng", "Tân Gia", "Kỷ Niệm", "Cảm Ơn"}
	DefaultTags       = []string{"Sang Trọng", "Giá Rẻ", "Hoa Tươi", "Giao Hoa Tận Nơi", "Thiết Kế Đẹp", "Nhiều Lựa Chọn", "Tặng Kèm Thiệp", "Gói Quà", "Hộp Sang Trọng"}
)

// SeedFacets inserts the default facet names that are not present yet.
func SeedFacets(db *gorm.DB) error {
	seeds := map[models.FacetKind][]string{
		models.FacetCategory: DefaultCategories,
		models.FacetStyle:    DefaultStyles,
		models.FacetColor:    DefaultColors,
		models.FacetOccasion: DefaultOccasions,
		models.FacetTag:      DefaultTags,
	}
	for _, kind := range models.FacetKinds {
		if err := InsertFacets(db, kind, seeds[kind]...); err != nil {
			return err
		}
	}
	return nil
}

// InsertFacets adds names to the facet table of kind, skipping existing ones.
func InsertFacets(db *gorm.DB, kind models.FacetKind, names ...string) error {
	for _, name := range names {
		err := db.Table(kind.Table()).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(map[string]interface{}{"name": name}).Error
		if err != nil {
			return fmt.Errorf("failed to seed %s %q: %w", kind, name, err)
		}
	}
	return nil
}
