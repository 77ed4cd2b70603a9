package facets_test

import (
	"context"
	"testing"

	"flowershop/internal/database"
	"flowershop/internal/facets"
	"flowershop/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func TestResolver_Preload(t *testing.T) {
	db := setupDB(t)
	require.NoError(t, database.InsertFacets(db, models.FacetCategory, "Sinh Nhật", "Khai Trương"))
	require.NoError(t, database.InsertFacets(db, models.FacetColor, "Đỏ", "Trắng"))
	require.NoError(t, database.InsertFacets(db, models.FacetTag, "Hoa Tươi"))

	r, err := facets.Preload(context.Background(), db)
	require.NoError(t, err)

	assert.Equal(t, 2, r.Len(models.FacetCategory))
	assert.Equal(t, 2, r.Len(models.FacetColor))
	assert.Equal(t, 0, r.Len(models.FacetStyle))
	assert.Equal(t, 1, r.Len(models.FacetTag))

	var birthday models.Category
	require.NoError(t, db.Where("name = ?", "Sinh Nhật").First(&birthday).Error)

	id, ok := r.Resolve(models.FacetCategory, "sinh nhat")
	assert.True(t, ok)
	assert.Equal(t, birthday.ID, id)

	id, ok = r.Resolve(models.FacetCategory, "  SINH   NHẬT ")
	assert.True(t, ok)
	assert.Equal(t, birthday.ID, id)

	_, ok = r.Resolve(models.FacetColor, "do")
	assert.True(t, ok)
}

func TestResolver_Misses(t *testing.T) {
	db := setupDB(t)
	require.NoError(t, database.InsertFacets(db, models.FacetStyle, "Bó"))

	r, err := facets.Preload(context.Background(), db)
	require.NoError(t, err)

	_, ok := r.Resolve(models.FacetStyle, "Lẵng")
	assert.False(t, ok)
	_, ok = r.Resolve(models.FacetStyle, "")
	assert.False(t, ok)
	_, ok = r.Resolve(models.FacetStyle, "   ")
	assert.False(t, ok)
	// Names are scoped to their own table.
	_, ok = r.Resolve(models.FacetColor, "Bó")
	assert.False(t, ok)
}

func TestResolver_LowestIDWinsOnCollision(t *testing.T) {
	db := setupDB(t)
	require.NoError(t, database.InsertFacets(db, models.FacetColor, "Hồng", "Hong"))

	var first models.Color
	require.NoError(t, db.Order("id ASC").First(&first).Error)

	r, err := facets.Preload(context.Background(), db)
	require.NoError(t, err)

	id, ok := r.Resolve(models.FacetColor, "HONG")
	assert.True(t, ok)
	assert.Equal(t, first.ID, id)
	assert.Equal(t, 1, r.Len(models.FacetColor))
}

func TestResolver_Remember(t *testing.T) {
	db := setupDB(t)
	r, err := facets.Preload(context.Background(), db)
	require.NoError(t, err)

	_, ok := r.Resolve(models.FacetTag, "Giao Nhanh")
	assert.False(t, ok)

	r.Remember(models.FacetTag, "Giao Nhanh", 42)
	id, ok := r.Resolve(models.FacetTag, "giao nhanh")
	assert.True(t, ok)
	assert.Equal(t, uint(42), id)

	r.Remember(models.FacetTag, "", 7)
	assert.Equal(t, 1, r.Len(models.FacetTag))
}

func TestResolver_ScopedPerRun(t *testing.T) {
	db := setupDB(t)
	first, err := facets.Preload(context.Background(), db)
	require.NoError(t, err)

	require.NoError(t, database.InsertFacets(db, models.FacetOccasion, "Tân Gia"))

	_, ok := first.Resolve(models.FacetOccasion, "Tân Gia")
	assert.False(t, ok, "a snapshot does not see rows inserted after Preload")

	second, err := facets.Preload(context.Background(), db)
	require.NoError(t, err)
	_, ok = second.Resolve(models.FacetOccasion, "tan gia")
	assert.True(t, ok)
}
