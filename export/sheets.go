package export

import (
	"context"
	"fmt"
	"log"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"mission-bot/models"
)

// SheetsExporter writes mission results to a Google spreadsheet, one tab
// per mission. Re-exporting a mission clears its tab before rewriting, so
// export is idempotent at mission granularity.
type SheetsExporter struct {
	svc           *sheets.Service
	spreadsheetID string
}

// NewSheetsExporter creates an exporter against the given spreadsheet,
// authenticating with a service-account credentials file.
func NewSheetsExporter(ctx context.Context, credentialsFile, spreadsheetID string) (*SheetsExporter, error) {
	svc, err := sheets.NewService(ctx, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return &SheetsExporter{svc: svc, spreadsheetID: spreadsheetID}, nil
}

// Export writes one row per submission to the mission's tab.
func (e *SheetsExporter) Export(ctx context.Context, m models.Mission, subs []models.Submission) error {
	tab := tabName(m)

	if err := e.ensureTab(ctx, tab); err != nil {
		return fmt.Errorf("failed to ensure tab %q: %w", tab, err)
	}

	// Clear before rewrite so a retried export never duplicates rows.
	clearRange := fmt.Sprintf("%s!A1:ZZ", tab)
	if _, err := e.svc.Spreadsheets.Values.Clear(e.spreadsheetID, clearRange, &sheets.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to clear tab %q: %w", tab, err)
	}

	header, rows := BuildRows(subs)
	values := make([][]interface{}, 0, len(rows)+1)
	values = append(values, toRow(header))
	for _, row := range rows {
		values = append(values, toRow(row))
	}

	vr := &sheets.ValueRange{Values: values}
	_, err := e.svc.Spreadsheets.Values.
		Update(e.spreadsheetID, fmt.Sprintf("%s!A1", tab), vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to write rows to tab %q: %w", tab, err)
	}

	log.Printf("Exported %d submissions for mission %q to tab %q", len(subs), m.Title, tab)
	return nil
}

// toRow widens a string row to the interface slice the Sheets API expects.
func toRow(cells []string) []interface{} {
	row := make([]interface{}, len(cells))
	for i, c := range cells {
		row[i] = c
	}
	return row
}

// ensureTab adds the sheet when it does not exist yet.
func (e *SheetsExporter) ensureTab(ctx context.Context, tab string) error {
	ss, err := e.svc.Spreadsheets.Get(e.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to fetch spreadsheet: %w", err)
	}
	for _, sheet := range ss.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == tab {
			return nil
		}
	}

	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{
			{AddSheet: &sheets.AddSheetRequest{Properties: &sheets.SheetProperties{Title: tab}}},
		},
	}
	if _, err := e.svc.Spreadsheets.BatchUpdate(e.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to add sheet: %w", err)
	}
	return nil
}

// tabName derives a sheet title from the mission. Sheet titles may not
// contain a handful of characters and are capped at 100 runes.
func tabName(m models.Mission) string {
	title := m.Title
	if title == "" {
		title = m.ID
	}
	replacer := strings.NewReplacer("[", "(", "]", ")", "*", "-", "?", "", ":", "-", "/", "-", "\\", "-", "'", "")
	title = replacer.Replace(title)
	runes := []rune(title)
	if len(runes) > 100 {
		title = string(runes[:100])
	}
	return title
}
