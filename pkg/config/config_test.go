package config

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBaseline_VaciaUsaLaTablaPorDefecto(t *testing.T) {
	got, err := parseBaseline("")
	require.NoError(t, err)
	assert.Len(t, got, 6)
	assert.True(t, got["sand"].Equal(decimal.NewFromInt(20)))
	assert.True(t, got["cement (50kg)"].Equal(decimal.NewFromInt(2000)))
}

func TestParseBaseline_NormalizaClaves(t *testing.T) {
	got, err := parseBaseline(" Cement (50kg) = 100 ; SAND=5.5 ")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got["cement (50kg)"].Equal(decimal.NewFromInt(100)))
	assert.True(t, got["sand"].Equal(decimal.RequireFromString("5.5")))
}

func TestParseBaseline_RechazaEntradasInvalidas(t *testing.T) {
	casos := []string{
		"cement",        // sin '='
		"=10",           // nombre vacío
		"sand=veinte",   // cantidad no numérica
		"sand=-3",       // cantidad negativa
	}
	for _, raw := range casos {
		_, err := parseBaseline(raw)
		assert.Error(t, err, raw)
	}
}
