// Package sheets is the legacy spreadsheet mirror. Every tab is a flat grid
// whose first row names the columns; rows are addressed by header name only.
package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"github.com/slangop28/local-electrician-sub001/platform/config"
)

// Table is raw grid access to a spreadsheet. Row numbers are 1-based sheet rows,
// so the header is row 1.
type Table interface {
	Rows(ctx context.Context, tab string) ([][]string, error)
	Append(ctx context.Context, tab string, row []string) error
	UpdateRow(ctx context.Context, tab string, rowNumber int, row []string) error
}

// Client talks to the Google Sheets API.
type Client struct {
	service       *gsheets.Service
	spreadsheetID string
}

// NewClient builds a Sheets client from a service account credentials file.
func NewClient(ctx context.Context, cfg config.MirrorConfig) (*Client, error) {
	opts := []option.ClientOption{option.WithScopes(gsheets.SpreadsheetsScope)}
	if path := cfg.GetMirrorCredentialsFile(); path != "" {
		opts = append(opts, option.WithCredentialsFile(path))
	}
	service, err := gsheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &Client{service: service, spreadsheetID: cfg.GetMirrorSpreadsheetID()}, nil
}

func (c *Client) Rows(ctx context.Context, tab string) ([][]string, error) {
	resp, err := c.service.Spreadsheets.Values.Get(c.spreadsheetID, tab).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", tab, err)
	}
	rows := make([][]string, len(resp.Values))
	for i, raw := range resp.Values {
		row := make([]string, len(raw))
		for j, cell := range raw {
			row[j] = fmt.Sprintf("%v", cell)
		}
		rows[i] = row
	}
	return rows, nil
}

func (c *Client) Append(ctx context.Context, tab string, row []string) error {
	_, err := c.service.Spreadsheets.Values.Append(c.spreadsheetID, tab+"!A1", valueRange(row)).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append %s: %w", tab, err)
	}
	return nil
}

func (c *Client) UpdateRow(ctx context.Context, tab string, rowNumber int, row []string) error {
	rng := fmt.Sprintf("%s!A%d", tab, rowNumber)
	_, err := c.service.Spreadsheets.Values.Update(c.spreadsheetID, rng, valueRange(row)).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("update %s row %d: %w", tab, rowNumber, err)
	}
	return nil
}

func valueRange(row []string) *gsheets.ValueRange {
	cells := make([]interface{}, len(row))
	for i, v := range row {
		cells[i] = v
	}
	return &gsheets.ValueRange{Values: [][]interface{}{cells}}
}
