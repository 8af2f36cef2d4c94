package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAcceptsTwoDecimalPlaces(t *testing.T) {
	d, err := Parse("1234.56")
	require.NoError(t, err)
	assert.Equal(t, "1234.56", String(d))

	d, err = Parse(" 10 ")
	require.NoError(t, err)
	assert.True(t, d.Equal(decimal.NewFromInt(10)))
}

func TestParseRejectsSubCentPrecision(t *testing.T) {
	_, err := Parse("1.005")
	require.Error(t, err)
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := Parse("ten reais")
	require.Error(t, err)
}

func TestFromCents(t *testing.T) {
	assert.Equal(t, "1.05", String(FromCents(105)))
	assert.Equal(t, "-0.50", String(FromCents(-50)))
}

func TestStringAlwaysCarriesCents(t *testing.T) {
	d := decimal.NewFromInt(200)
	assert.Equal(t, "200.00", String(d))
}

func TestFormatBRL(t *testing.T) {
	d, err := Parse("1234.56")
	require.NoError(t, err)
	assert.Equal(t, "R$ 1.234,56", FormatBRL(d))
}
