package currency

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUnit(t *testing.T) {
	tests := []struct {
		in      string
		want    Unit
		wantErr bool
	}{
		{"", USD, false},
		{"usd", USD, false},
		{"USD", USD, false},
		{" idr ", IDR, false},
		{"IDR", IDR, false},
		{"eur", "", true},
		{"rp", "", true},
	}
	for _, tt := range tests {
		got, err := ParseUnit(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "ParseUnit(%q)", tt.in)
			continue
		}
		require.NoError(t, err, "ParseUnit(%q)", tt.in)
		assert.Equal(t, tt.want, got, "ParseUnit(%q)", tt.in)
	}
}

func TestToDisplay(t *testing.T) {
	assert.Equal(t, 10.0, ToDisplay(10, USD))
	assert.Equal(t, 150000.0, ToDisplay(10, IDR))
	assert.Equal(t, 0.0, ToDisplay(0, IDR))
}

func TestToCanonical(t *testing.T) {
	assert.Equal(t, 10.0, ToCanonical(10, USD))
	assert.Equal(t, 10.0, ToCanonical(150000, IDR))
}

func TestConversionInverse(t *testing.T) {
	amounts := []float64{0, 0.01, 1, 9.99, 10, 1234.5678, 1e6}
	for _, a := range amounts {
		got := ToCanonical(ToDisplay(a, IDR), IDR)
		assert.InDelta(t, a, got, 1e-9*(a+1), "round trip for %v", a)
	}
}

func TestFormat(t *testing.T) {
	// A 10 USD product renders as Rp150000.00 in the alternate unit.
	assert.Equal(t, "Rp150000.00", Format(10, IDR))
	assert.Equal(t, "$10.00", Format(10, USD))
	assert.Equal(t, "$10.56", Format(10.555, USD))
}
