package commands

import (
	"testing"

	"google.golang.org/api/sheets/v4"
)

func TestSpreadsheetID(t *testing.T) {
	tests := map[string]string{
		"https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms":            "1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms",
		"https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms/edit#gid=0": "1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms",
		" https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms ":          "1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms",
	}

	for url, expected := range tests {
		if id, err := spreadsheetID(url); err != nil {
			t.Errorf("Unexpected error for %q (%v)", url, err)
		} else if id != expected {
			t.Errorf("Incorrect spreadsheet ID for %q - expected %q, got %q", url, expected, id)
		}
	}
}

func TestSpreadsheetIDWithInvalidURL(t *testing.T) {
	tests := []string{
		"",
		"https://docs.google.com/spreadsheets/d/",
		"https://example.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms",
	}

	for _, url := range tests {
		if _, err := spreadsheetID(url); err == nil {
			t.Errorf("Expected error for invalid URL %q", url)
		}
	}
}

func TestGetSheet(t *testing.T) {
	spreadsheet := sheets.Spreadsheet{
		Sheets: []*sheets.Sheet{
			{Properties: &sheets.SheetProperties{SheetId: 1, Title: "Cards"}},
			{Properties: &sheets.SheetProperties{SheetId: 2, Title: "Card Actions"}},
			{Properties: &sheets.SheetProperties{SheetId: 3, Title: "Log"}},
		},
	}

	tests := map[string]int64{
		"Cards":               1,
		"'Card Actions'!A1:Z": 2,
		"log!A1:D":            3,
	}

	for area, expected := range tests {
		if sheet, err := getSheet(&spreadsheet, area); err != nil {
			t.Errorf("Unexpected error for %q (%v)", area, err)
		} else if sheet.Properties.SheetId != expected {
			t.Errorf("Incorrect sheet for %q - expected %v, got %v", area, expected, sheet.Properties.SheetId)
		}
	}

	if _, err := getSheet(&spreadsheet, "Lists!A1"); err == nil {
		t.Errorf("Expected error for unknown worksheet")
	}
}
