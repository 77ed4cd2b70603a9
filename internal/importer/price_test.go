package importer_test

import (
	"testing"

	"flowershop/internal/importer"

	"github.com/stretchr/testify/assert"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
		ok   bool
	}{
		{"250000", 250000, true},
		{"250,000", 250000, true},
		{"1.250.000đ", 1250000, true},
		{"1,250,000 VND", 1250000, true},
		{"12.5", 12.5, true},
		{"12,5", 12.5, true},
		{"1.250,50", 1250.5, true},
		{"1,250.50", 1250.5, true},
		{"250 000 ₫", 250000, true},
		{"$99.99", 99.99, true},
		{"", 0, true},
		{"   ", 0, true},
		{"abc", 0, false},
		{"-100", 0, false},
		{"100-200", 0, false},
		{"250.000 - 300.000đ", 0, false},
		{"giá liên hệ", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := importer.ParsePrice(tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}
