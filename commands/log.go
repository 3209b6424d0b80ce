package commands

import (
	"context"
	"fmt"
	"sort"
	"time"

	"google.golang.org/api/sheets/v4"

	"github.com/uhppoted/trello-sheets/pipeline"
)

const timestampFormat = "2006-01-02 15:04:05"

// importLog appends a summary row per destination to a 'log' worksheet after each import and
// prunes the rows older than the retention period.
type importLog struct {
	area      string
	retention uint
}

var logColumns = []string{"timestamp", "runid", "range", "records"}

func (l importLog) update(ctx context.Context, google *sheets.Service, spreadsheet string, report *pipeline.Report) error {
	response, err := google.Spreadsheets.Values.Get(spreadsheet, l.area).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("unable to retrieve column headers from log sheet (%v)", err)
	}

	var header []any
	if len(response.Values) > 0 {
		header = response.Values[0]
	}

	rows := sheets.ValueRange{
		Values: logRows(header, report),
	}

	if _, err := google.Spreadsheets.Values.Append(spreadsheet, l.area, &rows).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do(); err != nil {
		return fmt.Errorf("error writing log to Google Sheets (%w)", err)
	}

	return nil
}

func (l importLog) prune(ctx context.Context, google *sheets.Service, spreadsheet string) error {
	if l.retention == 0 {
		return nil
	}

	s, err := getSpreadsheet(ctx, google, spreadsheet)
	if err != nil {
		return err
	}

	sheet, err := getSheet(s, l.area)
	if err != nil {
		return err
	}

	response, err := google.Spreadsheets.Values.Get(spreadsheet, l.area).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("unable to retrieve data from log sheet (%v)", err)
	}

	before := cutoff(time.Now(), l.retention)
	blocks := contiguous(expired(response.Values, before))

	infof("pruning log records from before %v", before.Format("2006-01-02"))

	if len(blocks) == 0 {
		return nil
	}

	rq := sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{},
	}

	// bottom up, the indices of the blocks above a deleted block are unaffected
	deleted := 0
	for i := len(blocks) - 1; i >= 0; i-- {
		start, end := blocks[i][0], blocks[i][1]

		rq.Requests = append(rq.Requests, &sheets.Request{
			DeleteDimension: &sheets.DeleteDimensionRequest{
				Range: &sheets.DimensionRange{
					SheetId:    sheet.Properties.SheetId,
					Dimension:  "ROWS",
					StartIndex: int64(start),
					EndIndex:   int64(end + 1),
				},
			},
		})

		deleted += end - start + 1
	}

	if _, err := google.Spreadsheets.BatchUpdate(spreadsheet, &rq).Context(ctx).Do(); err != nil {
		return err
	}

	infof("pruned %d log records from log sheet", deleted)

	return nil
}

// logRows returns one row per destination in the report, laid out to match the existing header
// of the log sheet (or timestamp, run ID, range, records when there is none).
func logRows(header []any, report *pipeline.Report) [][]any {
	index := map[string]int{}
	for i, k := range logColumns {
		index[k] = i
	}

	if len(header) > 0 {
		index = map[string]int{}
		for i, v := range header {
			k := normalise(fmt.Sprintf("%v", v))
			for _, c := range logColumns {
				if k == c {
					index[k] = i
				}
			}
		}
	}

	columns := 0
	for _, v := range index {
		if v >= columns {
			columns = v + 1
		}
	}

	names := []string{}
	for k := range report.Records {
		names = append(names, k)
	}

	sort.Strings(names)

	timestamp := report.Finished.Format(timestampFormat)
	rows := [][]any{}

	for _, name := range names {
		row := make([]any, columns)
		for i := range row {
			row[i] = ""
		}

		if ix, ok := index["timestamp"]; ok {
			row[ix] = timestamp
		}

		if ix, ok := index["runid"]; ok {
			row[ix] = report.RunID
		}

		if ix, ok := index["range"]; ok {
			row[ix] = name
		}

		if ix, ok := index["records"]; ok {
			row[ix] = report.Records[name]
		}

		rows = append(rows, row)
	}

	return rows
}

func cutoff(now time.Time, retention uint) time.Time {
	before := now.In(time.Local).AddDate(0, 0, -(int(retention) - 1))

	return time.Date(before.Year(), before.Month(), before.Day(), 0, 0, 0, 0, before.Location())
}

// expired returns the (ascending) indices of the rows with a timestamp in the first column that
// is before the cutoff. Rows without a valid timestamp, e.g. the header, are never expired.
func expired(rows [][]any, cutoff time.Time) []int {
	list := []int{}

	for row, record := range rows {
		if len(record) == 0 {
			continue
		}

		s, ok := record[0].(string)
		if !ok {
			continue
		}

		if timestamp, err := time.ParseInLocation(timestampFormat, s, time.Local); err == nil && timestamp.Before(cutoff) {
			list = append(list, row)
		}
	}

	return list
}

// contiguous collapses a sorted list of row indices into [start,end] blocks.
func contiguous(rows []int) [][2]int {
	if len(rows) == 0 {
		return nil
	}

	blocks := [][2]int{}
	start := rows[0]
	last := rows[0]

	for _, row := range rows[1:] {
		if row != last+1 {
			blocks = append(blocks, [2]int{start, last})
			start = row
		}

		last = row
	}

	return append(blocks, [2]int{start, last})
}
