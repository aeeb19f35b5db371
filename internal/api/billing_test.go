package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiscountedUnitAmount(t *testing.T) {
	tests := []struct {
		name       string
		unitAmount int64
		percentOff float64
		want       int64
	}{
		{"25% off $100.00", 10000, 25, 7500},
		{"50% off $49.99", 4999, 50, 2500}, // 2499.5 rounds up
		{"100% off", 10000, 100, 0},
		{"0% off", 10000, 0, 10000},
		{"10% off $9.99", 999, 10, 899}, // 899.1 rounds down
		{"33% off $150.00", 15000, 33, 10050},
		{"fractional percent", 10000, 12.5, 8750},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DiscountedUnitAmount(tt.unitAmount, tt.percentOff))
		})
	}
}
