package feed

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSVCanonicalHeaders(t *testing.T) {
	input := strings.Join([]string{
		"store_id,product_id,style_number,upc_code,current_quantity,minimum_threshold",
		"store-1,prod-1,STY-100,123456,4,5",
		"store-2,,STY-200,,0,3",
	}, "\n")

	rows, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, Row{
		StoreID:     "store-1",
		ProductID:   "prod-1",
		StyleNumber: "STY-100",
		UPCCode:     "123456",
		Quantity:    4,
		Threshold:   5,
	}, rows[0])
	assert.Equal(t, "store-2", rows[1].StoreID)
	assert.Zero(t, rows[1].Quantity)
	assert.Equal(t, 3, rows[1].Threshold)
}

func TestParseCSVHeaderAliases(t *testing.T) {
	input := strings.Join([]string{
		"Store ID,SKU,UPC,Quantity,min_qty",
		"store-1,STY-100,789,7,2",
	}, "\n")

	rows, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, rows, 1)
	assert.Equal(t, "store-1", rows[0].StoreID)
	assert.Equal(t, "STY-100", rows[0].StyleNumber)
	assert.Equal(t, "789", rows[0].UPCCode)
	assert.Equal(t, 7, rows[0].Quantity)
	assert.Equal(t, 2, rows[0].Threshold)
}

func TestParseCSVMissingNumbersDefaultToZero(t *testing.T) {
	input := strings.Join([]string{
		"store_id,product_id",
		"store-1,prod-1",
	}, "\n")

	rows, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, rows, 1)
	assert.Zero(t, rows[0].Quantity)
	assert.Zero(t, rows[0].Threshold)
}

func TestParseCSVRejectsBadNumbers(t *testing.T) {
	input := strings.Join([]string{
		"store_id,product_id,current_quantity",
		"store-1,prod-1,lots",
	}, "\n")

	_, err := ParseCSV(strings.NewReader(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestParseCSVEmptyInputs(t *testing.T) {
	_, err := ParseCSV(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmptyFeed)

	_, err = ParseCSV(strings.NewReader("store_id,product_id\n"))
	assert.ErrorIs(t, err, ErrEmptyFeed)
}
