package calculation

import (
	"testing"

	"github.com/rgehrsitz/lohn/internal/rates"
	"github.com/stretchr/testify/assert"
)

func TestCapped(t *testing.T) {
	tests := []struct {
		name     string
		basis    string
		ytd      string
		ceiling  string
		expected string
	}{
		{"well below ceiling", "6000", "12000", "148200", "6000"},
		{"crosses ceiling", "10000", "145000", "148200", "3200"},
		{"ceiling reached", "10000", "148200", "148200", "0"},
		{"ytd above ceiling", "10000", "150000", "148200", "0"},
		{"negative basis", "-500", "0", "148200", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Capped(dec(tt.basis), dec(tt.ytd), dec(tt.ceiling))
			assert.True(t, dec(tt.expected).Equal(got), "got %s", got)
			assert.True(t, got.LessThanOrEqual(dec(tt.ceiling).Sub(dec(tt.ytd))) || got.IsZero())
			assert.False(t, got.IsNegative())
		})
	}
}

func TestCalculateInsuredSalary(t *testing.T) {
	r := rates.DefaultBVG

	tests := []struct {
		name      string
		monthly   string
		ytd       string
		liable    bool
		insurable string
	}{
		{"below entry threshold", "1800", "0", false, "0"},
		{"minimum corridor", "2500", "0", true, "315"},
		{"regular", "6000", "0", true, "3795"},
		{"maximum corridor", "20000", "0", true, "7560"},
		{"headroom exhausted", "20000", "86000", true, "4720"},
		{"no headroom left", "20000", "90720", true, "0"},
		{"prorated basis rounds to Rappen", "3035.8809", "0", true, "830.90"},
		{"headroom after rounded months", "20000", "83159.95", true, "7560"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateInsuredSalary(dec(tt.monthly), dec(tt.ytd), r)
			assert.Equal(t, tt.liable, got.Liable)
			assert.True(t, dec(tt.insurable).Equal(got.InsurableMonthly), "got %s", got.InsurableMonthly)
		})
	}
}
