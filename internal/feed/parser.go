package feed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrEmptyFeed is returned when a feed file has no data rows.
var ErrEmptyFeed = errors.New("feed contains no data rows")

// Row is one parsed buyer feed line. Exactly one of ProductID, StyleNumber
// or UPCCode is needed to identify the product.
type Row struct {
	StoreID     string
	ProductID   string
	StyleNumber string
	UPCCode     string
	Quantity    int
	Threshold   int
}

// Buyers export from different POS systems, so the same column arrives under
// several names. Aliases are matched on lowercased, trimmed headers.
var headerAliases = map[string][]string{
	"store_id":   {"store_id", "store id"},
	"product_id": {"product_id", "product id"},
	"style":      {"style_number", "style number", "sku"},
	"upc":        {"upc_code", "upc code", "upc"},
	"quantity":   {"current_quantity", "current quantity", "quantity"},
	"threshold":  {"minimum_threshold", "minimum threshold", "min_qty"},
}

// ParseCSV reads a buyer feed file into rows. The header row is required;
// unknown columns are ignored.
func ParseCSV(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptyFeed
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read feed header: %w", err)
	}

	columns := indexColumns(header)

	var rows []Row
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("failed to read feed line %d: %w", line, err)
		}

		row := Row{
			StoreID:     columns.value(record, "store_id"),
			ProductID:   columns.value(record, "product_id"),
			StyleNumber: columns.value(record, "style"),
			UPCCode:     columns.value(record, "upc"),
		}

		row.Quantity, err = parseCount(columns.value(record, "quantity"))
		if err != nil {
			return nil, fmt.Errorf("invalid quantity on line %d: %w", line, err)
		}
		row.Threshold, err = parseCount(columns.value(record, "threshold"))
		if err != nil {
			return nil, fmt.Errorf("invalid threshold on line %d: %w", line, err)
		}

		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, ErrEmptyFeed
	}
	return rows, nil
}

type columnIndex map[string]int

func indexColumns(header []string) columnIndex {
	byName := make(map[string]int, len(header))
	for i, h := range header {
		byName[strings.ToLower(strings.TrimSpace(h))] = i
	}

	idx := make(columnIndex, len(headerAliases))
	for field, aliases := range headerAliases {
		idx[field] = -1
		for _, alias := range aliases {
			if i, ok := byName[alias]; ok {
				idx[field] = i
				break
			}
		}
	}
	return idx
}

func (c columnIndex) value(record []string, field string) string {
	i := c[field]
	if i < 0 || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func parseCount(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
