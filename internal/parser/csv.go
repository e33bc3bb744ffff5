package parser

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/Beka01247/smart-stock/internal/domain"
)

// ParseSalesCSV reads sales rows from an uploaded CSV file.
func ParseSalesCSV(r io.Reader) ([]domain.SalesRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}

	return mapRows(rows, SourceCSV)
}
