package facets_test

import (
	"testing"

	"flowershop/internal/facets"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hoa Hồng", "hoa hong"},
		{"  HOA   HONG ", "hoa hong"},
		{"hoa\thong", "hoa hong"},
		{"Đỏ", "do"},
		{"Khai Trương", "khai truong"},
		{"Hộp Hoa", "hop hoa"},
		{"Tặng Kèm Thiệp", "tang kem thiep"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, facets.Normalize(tt.in))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	for _, s := range []string{"Sinh Nhật", " Xanh  Lá ", "Giao Hoa Tận Nơi", "ĐEN"} {
		once := facets.Normalize(s)
		assert.Equal(t, once, facets.Normalize(once), s)
	}
}

func TestNormalize_Equivalence(t *testing.T) {
	assert.Equal(t, facets.Normalize("Hoa Hồng"), facets.Normalize("hoa   hong"))
	assert.Equal(t, facets.Normalize("Hoa Hồng"), facets.Normalize(" HOA HONG "))
	assert.NotEqual(t, facets.Normalize("Hoa Hồng"), facets.Normalize("Hoa Hong Do"))
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "sinh-nhat", facets.Slugify("Sinh Nhật"))
	assert.Equal(t, "khai-truong", facets.Slugify("  Khai   Trương "))
	assert.Equal(t, "hoa-cuoi", facets.Slugify("Hoa Cưới"))
	assert.Equal(t, "tinh-yeu", facets.Slugify("Tình Yêu!"))
	assert.Equal(t, "", facets.Slugify(""))
}
