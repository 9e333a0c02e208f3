package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestMergeFillsEmptyFields(t *testing.T) {
	stored := &CatalogEntry{
		VendorID:        "safilo",
		Model:           "8053/CS",
		ColorCode:       "003",
		EyeSize:         54,
		ConfidenceScore: 80,
		DataSource:      SourceWebScrape,
	}
	obs := &CatalogEntry{
		Brand:           "CARRERA",
		UPC:             strPtr("716736348810"),
		Bridge:          intPtr(18),
		ConfidenceScore: 60,
		DataSource:      SourceEmailParse,
	}

	changed := stored.Merge(obs)

	assert.True(t, changed)
	assert.Equal(t, "CARRERA", stored.Brand)
	require.NotNil(t, stored.UPC)
	assert.Equal(t, "716736348810", *stored.UPC)
	require.NotNil(t, stored.Bridge)
	assert.Equal(t, 18, *stored.Bridge)
	// Lower-confidence observation fills gaps but never takes over the record.
	assert.Equal(t, 80, stored.ConfidenceScore)
	assert.Equal(t, SourceWebScrape, stored.DataSource)
}

func TestMergeEqualConfidenceDoesNotOverwrite(t *testing.T) {
	stored := &CatalogEntry{
		UPC:             strPtr("716736348810"),
		WholesalePrice:  decPtr("62.50"),
		ConfidenceScore: 80,
	}
	obs := &CatalogEntry{
		UPC:             strPtr("000000000000"),
		WholesalePrice:  decPtr("99.99"),
		ConfidenceScore: 80,
	}

	changed := stored.Merge(obs)

	assert.False(t, changed)
	assert.Equal(t, "716736348810", *stored.UPC)
	assert.True(t, stored.WholesalePrice.Equal(decimal.RequireFromString("62.50")))
}

func TestMergeHigherConfidenceOverwrites(t *testing.T) {
	stored := &CatalogEntry{
		UPC:             strPtr("000000000000"),
		TempleLength:    intPtr(135),
		ConfidenceScore: 60,
		DataSource:      SourceEmailParse,
	}
	obs := &CatalogEntry{
		UPC:             strPtr("716736348810"),
		TempleLength:    intPtr(140),
		ConfidenceScore: 90,
		DataSource:      SourceWebScrape,
	}

	changed := stored.Merge(obs)

	assert.True(t, changed)
	assert.Equal(t, "716736348810", *stored.UPC)
	assert.Equal(t, 140, *stored.TempleLength)
	assert.Equal(t, 90, stored.ConfidenceScore)
	assert.Equal(t, SourceWebScrape, stored.DataSource)
}

func TestMergeNilObservationFieldsLeaveStored(t *testing.T) {
	stored := &CatalogEntry{
		UPC:             strPtr("716736348810"),
		ConfidenceScore: 60,
	}
	obs := &CatalogEntry{ConfidenceScore: 95, DataSource: SourceManual}

	stored.Merge(obs)

	// Higher confidence with nothing to say still must not blank out fields.
	require.NotNil(t, stored.UPC)
	assert.Equal(t, "716736348810", *stored.UPC)
	assert.Equal(t, 95, stored.ConfidenceScore)
}
