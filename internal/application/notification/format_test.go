package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatVND(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{0, "0 ₫"},
		{999, "999 ₫"},
		{150000, "150.000 ₫"},
		{1234567, "1.234.567 ₫"},
		{149999.6, "150.000 ₫"},
		{1e19, "10.000.000.000.000.000.000 ₫"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatVND(tt.amount), "amount %v", tt.amount)
	}
}
