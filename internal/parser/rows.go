package parser

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Beka01247/smart-stock/internal/domain"
)

const (
	SourceCSV          = "csv"
	SourceGoogleSheets = "google_sheets"
)

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"02.01.2006",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// RowMapper maps spreadsheet rows onto sales records by header name.
// Headers are matched loosely: "Sale Date" is a date column, "Qty" a
// quantity column and so on.
type RowMapper struct {
	date, item, quantity, revenue int
	source                        string
	today                         string
}

func NewRowMapper(header []string, source string) RowMapper {
	m := RowMapper{
		date:     column(header, "date"),
		item:     column(header, "item", "product"),
		quantity: column(header, "quantity", "qty"),
		revenue:  column(header, "revenue", "sales", "price"),
		source:   source,
		today:    time.Now().Format("2006-01-02"),
	}
	return m
}

func column(header []string, names ...string) int {
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		for _, name := range names {
			if strings.Contains(h, name) {
				return i
			}
		}
	}
	return -1
}

// Map converts one row. ok is false for rows that carry neither a quantity
// nor revenue.
func (m RowMapper) Map(row []string) (record domain.SalesRecord, ok bool, err error) {
	date := cell(row, m.date)
	if date == "" {
		date = m.today
	} else if date, err = normalizeDate(date); err != nil {
		return record, false, err
	}

	item := cell(row, m.item)
	if item == "" {
		item = "Unknown Item"
	}

	quantity, err := number(cell(row, m.quantity))
	if err != nil {
		return record, false, fmt.Errorf("invalid quantity: %w", err)
	}
	revenue, err := number(cell(row, m.revenue))
	if err != nil {
		return record, false, fmt.Errorf("invalid revenue: %w", err)
	}

	record = domain.SalesRecord{
		Date:     date,
		Item:     item,
		Quantity: quantity,
		Revenue:  revenue,
		Source:   m.source,
	}

	return record, quantity > 0 || revenue > 0, nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func number(s string) (float64, error) {
	s = strings.TrimPrefix(strings.ReplaceAll(s, ",", ""), "$")
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

func normalizeDate(s string) (string, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), nil
		}
	}
	return "", fmt.Errorf("invalid date %q", s)
}

// mapRows maps every data row after the header.
func mapRows(rows [][]string, source string) ([]domain.SalesRecord, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found")
	}

	mapper := NewRowMapper(rows[0], source)
	records := make([]domain.SalesRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		record, ok, err := mapper.Map(row)
		if err != nil {
			// +2: one for the header, one for 1-based row numbers
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		if ok {
			records = append(records, record)
		}
	}

	return records, nil
}
