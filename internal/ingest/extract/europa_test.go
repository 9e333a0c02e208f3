package extract

import (
	"testing"

	"optiledger-backend/internal/ingest/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &rows[i]))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestEuropaExtract(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{"Order Number", "EO-118220455"},
		{"Order Date", "08/13/2026"},
		{"Customer", "PEAK VISION CARE"},
		{"Rep", "TOM BRADLEY"},
		{},
		{"Style", "Color", "Size", "Qty", "UPC"},
		{"STATE OPTICAL - MONROE", "003 MATTE BLACK", "52-19-145", 1, "812479022456"},
		{"SCOJO - GELS", "CRYSTAL", "ONE SIZE", 3, ""},
		{"Order Total", "", "", 4, ""},
	})
	input := Input{Attachments: []domain.Attachment{{
		Filename:    "order_confirmation.xlsx",
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Data:        data,
	}}}

	ext, err := NewEuropaExtractor().Extract(input)
	require.NoError(t, err)
	require.NoError(t, Validate(ext))

	assert.Equal(t, "118220455", ext.Order.OrderNumber)
	require.NotNil(t, ext.Order.OrderDate)
	assert.Equal(t, 13, ext.Order.OrderDate.Day())
	assert.Equal(t, "PEAK VISION CARE", ext.Order.CustomerName)
	assert.Equal(t, "TOM BRADLEY", ext.Order.RepName)

	require.Len(t, ext.Items, 2)
	assert.Equal(t, 4, ext.Order.TotalPieces)

	first := ext.Items[0]
	assert.Equal(t, "STATE OPTICAL", first.Brand)
	assert.Equal(t, "MONROE", first.Model)
	assert.Equal(t, "003", first.ColorCode)
	assert.Equal(t, "MATTE BLACK", first.ColorName)
	assert.Equal(t, 1, first.Quantity)
	require.NotNil(t, first.EyeSize)
	assert.Equal(t, 52, *first.EyeSize)
	require.NotNil(t, first.TempleLength)
	assert.Equal(t, 145, *first.TempleLength)
	require.NotNil(t, first.UPC)
	assert.Equal(t, "812479022456", *first.UPC)

	second := ext.Items[1]
	assert.Equal(t, "SCOJO", second.Brand)
	assert.Equal(t, "GELS", second.Model)
	assert.Equal(t, "CRYSTAL", second.ColorName)
	assert.Equal(t, 3, second.Quantity)
	assert.Nil(t, second.EyeSize)
	assert.Nil(t, second.UPC)
}

func TestEuropaExtractOrderNumberFallback(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{"Style", "Qty"},
		{"STATE OPTICAL - MONROE", 2},
	})
	input := Input{
		PlainText: "Attached is your order confirmation 99881122.",
		Attachments: []domain.Attachment{{
			Filename: "order.xlsx",
			Data:     data,
		}},
	}

	ext, err := NewEuropaExtractor().Extract(input)
	require.NoError(t, err)
	assert.Equal(t, "99881122", ext.Order.OrderNumber)
	require.Len(t, ext.Items, 1)
	assert.Equal(t, 2, ext.Items[0].Quantity)
}

func TestEuropaExtractMissingAttachment(t *testing.T) {
	input := Input{
		HTML: "<p>Your order is attached.</p>",
		Attachments: []domain.Attachment{{
			Filename:    "terms.pdf",
			ContentType: "application/pdf",
		}},
	}
	_, err := NewEuropaExtractor().Extract(input)
	assert.ErrorIs(t, err, ErrNoAttachment)
}
