package importer_test

import (
	"context"
	"strings"
	"testing"

	"flowershop/internal/database"
	"flowershop/internal/importer"
	"flowershop/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenMemory()
	require.NoError(t, err)
	require.NoError(t, database.SeedFacets(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func runCSV(t *testing.T, db *gorm.DB, input string, opts importer.Options) (*models.ImportResult, error) {
	t.Helper()
	p := importer.NewPipeline(db, zap.NewNop())
	return p.Run(context.Background(), importer.NewCSVSource(strings.NewReader(input)), opts)
}

func countProducts(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.Product{}).Count(&n).Error)
	return n
}

func facetID(t *testing.T, db *gorm.DB, kind models.FacetKind, name string) uint {
	t.Helper()
	var row models.FacetOption
	require.NoError(t, db.Table(kind.Table()).Where("name = ?", name).Take(&row).Error)
	return row.ID
}

func TestPipeline_PartialTolerance(t *testing.T) {
	db := setupDB(t)
	input := "name,price,category,style,color,occasion,sku,description,image\n" +
		"Bó Hồng Đỏ,\"250,000\",sinh nhat,BÓ,đỏ,Valentine,BH-01,Hoa tươi,https://img/1.jpg\n" +
		",100000,Sinh Nhật,,,,,,\n" +
		"Kệ Khai Trương,1.250.000đ,Khai Trương,Kệ,,,,,\n"

	result, err := runCSV(t, db, input, importer.Options{})
	require.NoError(t, err)

	assert.Equal(t, 2, result.CreatedCount)
	require.Len(t, result.Created, 2)
	assert.Equal(t, "Bó Hồng Đỏ", result.Created[0].Name)
	assert.Equal(t, "Kệ Khai Trương", result.Created[1].Name)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, models.ImportWarning{Row: 2, Field: "name", Value: "", Reason: "Missing name"}, result.Warnings[0])
	assert.Equal(t, int64(2), countProducts(t, db))

	var rose models.Product
	require.NoError(t, db.First(&rose, result.Created[0].ID).Error)
	assert.Equal(t, 250000.0, rose.Price)
	require.NotNil(t, rose.SKU)
	assert.Equal(t, "BH-01", *rose.SKU)
	require.NotNil(t, rose.CategoryID)
	assert.Equal(t, facetID(t, db, models.FacetCategory, "Sinh Nhật"), *rose.CategoryID)
	require.NotNil(t, rose.StyleID)
	assert.Equal(t, facetID(t, db, models.FacetStyle, "Bó"), *rose.StyleID)
	require.NotNil(t, rose.ColorID)
	assert.Equal(t, facetID(t, db, models.FacetColor, "Đỏ"), *rose.ColorID)
	require.NotNil(t, rose.OccasionID)

	var stand models.Product
	require.NoError(t, db.First(&stand, result.Created[1].ID).Error)
	assert.Equal(t, 1250000.0, stand.Price)
	assert.Nil(t, stand.SKU)
	assert.Nil(t, stand.Description)
	assert.Nil(t, stand.Image)
	assert.Nil(t, stand.ColorID)
}

func TestPipeline_FacetMiss(t *testing.T) {
	db := setupDB(t)
	input := "name,price,category,color\n" +
		"Hoa Lạ,100000,Không Tồn Tại,Xanh Dương\n"

	result, err := runCSV(t, db, input, importer.Options{})
	require.NoError(t, err)

	assert.Equal(t, 1, result.CreatedCount)
	assert.Equal(t, []models.ImportWarning{
		{Row: 1, Field: "category", Value: "Không Tồn Tại", Reason: "category not found"},
		{Row: 1, Field: "color", Value: "Xanh Dương", Reason: "color not found"},
	}, result.Warnings)

	var p models.Product
	require.NoError(t, db.First(&p, result.Created[0].ID).Error)
	assert.Nil(t, p.CategoryID)
	assert.Nil(t, p.ColorID)
}

func TestPipeline_InvalidPrice(t *testing.T) {
	db := setupDB(t)
	input := "name,price\n" +
		"Hoa Giá Lạ,liên hệ\n" +
		"Hoa Không Giá,\n"

	result, err := runCSV(t, db, input, importer.Options{})
	require.NoError(t, err)

	assert.Equal(t, 2, result.CreatedCount)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, models.ImportWarning{Row: 1, Field: "price", Value: "liên hệ", Reason: "Invalid price, defaulted to 0"}, result.Warnings[0])

	var prices []float64
	require.NoError(t, db.Model(&models.Product{}).Pluck("price", &prices).Error)
	assert.Equal(t, []float64{0, 0}, prices)
}

func TestPipeline_AtomicRollback(t *testing.T) {
	db := setupDB(t)
	input := "name,price,sku\n" +
		"Một,100,S1\n" +
		"Hai,100,S2\n" +
		"Ba,100,S3\n" +
		"Bốn,100,S4\n" +
		"Năm,100,S1\n" +
		"Sáu,100,S6\n"

	result, err := runCSV(t, db, input, importer.Options{})
	assert.Nil(t, result)
	assert.ErrorIs(t, err, importer.ErrImportFailed)
	assert.Equal(t, int64(0), countProducts(t, db))

	var links int64
	require.NoError(t, db.Model(&models.ProductTag{}).Count(&links).Error)
	assert.Equal(t, int64(0), links)
}

func TestPipeline_Tags(t *testing.T) {
	db := setupDB(t)
	input := "name,price,tags\n" +
		"Hộp Hồng,500000,\"Sang Trọng, sang trong ,Giá Rẻ,,Không Có\"\n"

	result, err := runCSV(t, db, input, importer.Options{})
	require.NoError(t, err)
	require.Equal(t, 1, result.CreatedCount)
	assert.Equal(t, []models.ImportWarning{
		{Row: 1, Field: "tag", Value: "Không Có", Reason: "tag not found"},
	}, result.Warnings)

	var tagIDs []uint
	require.NoError(t, db.Model(&models.ProductTag{}).
		Where("product_id = ?", result.Created[0].ID).
		Order("tag_id").
		Pluck("tag_id", &tagIDs).Error)
	assert.ElementsMatch(t, []uint{
		facetID(t, db, models.FacetTag, "Sang Trọng"),
		facetID(t, db, models.FacetTag, "Giá Rẻ"),
	}, tagIDs)
}

func TestPipeline_AutoCreateTags(t *testing.T) {
	db := setupDB(t)
	var before int64
	require.NoError(t, db.Model(&models.Tag{}).Count(&before).Error)

	input := "name,price,tags\n" +
		"Bó Một,100,Mùa Xuân\n" +
		"Bó Hai,100,\"mua xuan, Hoa Tươi\"\n"

	result, err := runCSV(t, db, input, importer.Options{AutoCreateTags: true})
	require.NoError(t, err)
	assert.Equal(t, 2, result.CreatedCount)
	assert.Empty(t, result.Warnings)

	var after int64
	require.NoError(t, db.Model(&models.Tag{}).Count(&after).Error)
	assert.Equal(t, before+1, after, "the new tag is created once and reused")

	spring := facetID(t, db, models.FacetTag, "Mùa Xuân")
	var links int64
	require.NoError(t, db.Model(&models.ProductTag{}).Where("tag_id = ?", spring).Count(&links).Error)
	assert.Equal(t, int64(2), links)
}

func TestPipeline_EmptyFile(t *testing.T) {
	db := setupDB(t)
	result, err := runCSV(t, db, "", importer.Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, result.CreatedCount)
	assert.Empty(t, result.Created)
	assert.Equal(t, []models.ImportWarning{{Row: 0, Field: "file", Value: "", Reason: "File is empty"}}, result.Warnings)
}

func TestPipeline_AllRowsInvalid(t *testing.T) {
	db := setupDB(t)
	result, err := runCSV(t, db, "name,price\n,1\n,2\n", importer.Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, result.CreatedCount)
	assert.Len(t, result.Warnings, 2)
	assert.Equal(t, int64(0), countProducts(t, db))
}

func TestPipeline_MalformedRow(t *testing.T) {
	db := setupDB(t)
	input := "name,price\n" +
		"Bó \"Hồng\",100\n" +
		"Giỏ Lan,200\n"

	result, err := runCSV(t, db, input, importer.Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.CreatedCount)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, 1, result.Warnings[0].Row)
	assert.Equal(t, "row", result.Warnings[0].Field)
	assert.True(t, strings.HasPrefix(result.Warnings[0].Reason, "Malformed row: "))
}

func TestPipeline_CancelledContext(t *testing.T) {
	db := setupDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := importer.NewPipeline(db, zap.NewNop())
	_, err := p.Run(ctx, importer.NewCSVSource(strings.NewReader("name\nBó Hồng\n")), importer.Options{})
	assert.ErrorIs(t, err, importer.ErrImportFailed)
	assert.Equal(t, int64(0), countProducts(t, db))
}
