package parser

import (
	"context"
	"fmt"

	"github.com/Beka01247/smart-stock/internal/domain"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const DefaultRange = "A:D"

type GoogleSheetsParser struct {
	service *sheets.Service
}

type Config struct {
	CredentialsJSON []byte
}

func New(cfg Config) (*GoogleSheetsParser, error) {
	return NewWithOptions(context.Background(), option.WithCredentialsJSON(cfg.CredentialsJSON))
}

func NewWithOptions(ctx context.Context, opts ...option.ClientOption) (*GoogleSheetsParser, error) {
	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &GoogleSheetsParser{
		service: service,
	}, nil
}

// ParseSales reads a sales sheet whose first row is a header.
func (p *GoogleSheetsParser) ParseSales(ctx context.Context, spreadsheetID, readRange string) ([]domain.SalesRecord, error) {
	if readRange == "" {
		readRange = DefaultRange
	}

	resp, err := p.service.Spreadsheets.Values.Get(spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read spreadsheet: %w", err)
	}

	if len(resp.Values) == 0 {
		return nil, fmt.Errorf("no data found in spreadsheet")
	}

	rows := make([][]string, len(resp.Values))
	for i, values := range resp.Values {
		row := make([]string, len(values))
		for j, v := range values {
			row[j] = fmt.Sprintf("%v", v)
		}
		rows[i] = row
	}

	return mapRows(rows, SourceGoogleSheets)
}
