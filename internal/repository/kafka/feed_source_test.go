package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRecords_Array(t *testing.T) {
	value := []byte(`[
		{"id": "anp_1", "name": "Posto Alfa", "latitude": "-23,5613", "price_gasoline": "5,79"},
		{"id": "anp_2", "name": "Posto Beta", "latitude": -22.9056, "price_gasoline": 5.49}
	]`)

	records, err := decodeRecords(value)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "anp_1", records[0].ID)
	assert.Equal(t, "-23,5613", records[0].Latitude.String())
	assert.Equal(t, "5,79", records[0].PriceGasoline.String())

	// Числовые значения сохраняют исходный текст
	assert.Equal(t, "anp_2", records[1].ID)
	assert.Equal(t, "-22.9056", records[1].Latitude.String())
	assert.Equal(t, "5.49", records[1].PriceGasoline.String())
}

func TestDecodeRecords_SingleObject(t *testing.T) {
	value := []byte(`{"id": "anp_7", "city": "Campinas", "price_ethanol": "N/A"}`)

	records, err := decodeRecords(value)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "anp_7", records[0].ID)
	assert.Equal(t, "Campinas", records[0].City)
	assert.Equal(t, "N/A", records[0].PriceEthanol.String())
}

func TestDecodeRecords_Empty(t *testing.T) {
	records, err := decodeRecords([]byte("  \n"))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestDecodeRecords_Malformed(t *testing.T) {
	_, err := decodeRecords([]byte(`{"id": `))
	assert.Error(t, err)

	_, err = decodeRecords([]byte(`[{"id": "x"}`))
	assert.Error(t, err)
}
