package parser

import (
	"strings"
	"testing"
)

func TestParseSalesCSV(t *testing.T) {
	input := `Sale Date,Product Name,Qty,Total Sales
2024-01-01,Espresso,12,36.00
2024/01/02,Latte,0,0
01/03/2024,Croissant,5,"$1,250.50"
`
	records, err := ParseSalesCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d: %+v", len(records), records)
	}

	first := records[0]
	if first.Date != "2024-01-01" || first.Item != "Espresso" || first.Quantity != 12 || first.Revenue != 36 {
		t.Errorf("unexpected first record %+v", first)
	}
	if first.Source != SourceCSV {
		t.Errorf("expected source csv, got %s", first.Source)
	}

	second := records[1]
	if second.Date != "2024-01-03" || second.Revenue != 1250.5 {
		t.Errorf("unexpected second record %+v", second)
	}
}

func TestParseSalesCSVErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", "no data found"},
		{"bad quantity", "date,item,quantity,revenue\n2024-01-01,Tea,lots,3\n", "row 2: invalid quantity"},
		{"bad date", "date,item,quantity,revenue\nyesterday,Tea,1,3\n", `row 2: invalid date "yesterday"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSalesCSV(strings.NewReader(tt.input))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestRowMapperMissingColumns(t *testing.T) {
	m := NewRowMapper([]string{"qty"}, SourceCSV)
	m.today = "2024-06-01"

	record, ok, err := m.Map([]string{"4"})
	if err != nil || !ok {
		t.Fatalf("map: ok=%v err=%v", ok, err)
	}
	if record.Date != "2024-06-01" || record.Item != "Unknown Item" || record.Quantity != 4 {
		t.Fatalf("unexpected record %+v", record)
	}
}
