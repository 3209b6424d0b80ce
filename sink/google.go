package sink

import (
	"context"

	"google.golang.org/api/sheets/v4"
)

// Google writes to named ranges of a Google Sheets spreadsheet.
type Google struct {
	Service       *sheets.Service
	SpreadsheetID string
}

func (g *Google) Clear(ctx context.Context, ranges []string) error {
	rq := sheets.BatchClearValuesRequest{
		Ranges: ranges,
	}

	if _, err := g.Service.Spreadsheets.Values.BatchClear(g.SpreadsheetID, &rq).Context(ctx).Do(); err != nil {
		return err
	}

	return nil
}

// Write uploads every range in one batch update. Values are USER_ENTERED so that Sheets
// interprets numbers and dates rather than storing them as text.
func (g *Google) Write(ctx context.Context, data []Range) error {
	rq := sheets.BatchUpdateValuesRequest{
		ValueInputOption:        "USER_ENTERED",
		IncludeValuesInResponse: false,
		Data:                    []*sheets.ValueRange{},
	}

	for _, r := range data {
		rq.Data = append(rq.Data, &sheets.ValueRange{
			Range:  r.Name,
			Values: r.Values,
		})
	}

	if _, err := g.Service.Spreadsheets.Values.BatchUpdate(g.SpreadsheetID, &rq).Context(ctx).Do(); err != nil {
		return err
	}

	return nil
}
