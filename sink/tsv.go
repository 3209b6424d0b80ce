package sink

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// TSV writes each destination to a tab separated file <dir>/<sheet>.tsv, where <sheet> is the
// part of the range name before the '!'.
type TSV struct {
	Dir string
}

func (t *TSV) Clear(ctx context.Context, ranges []string) error {
	if err := os.MkdirAll(t.Dir, 0770); err != nil {
		return err
	}

	for _, r := range ranges {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := os.WriteFile(t.path(r), []byte{}, 0660); err != nil {
			return err
		}
	}

	return nil
}

func (t *TSV) Write(ctx context.Context, data []Range) error {
	for _, r := range data {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := t.write(r); err != nil {
			return err
		}
	}

	return nil
}

func (t *TSV) write(r Range) error {
	tmp, err := os.CreateTemp(t.Dir, ".tsv")
	if err != nil {
		return err
	}

	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	if err := WriteTSV(tmp, r.Values); err != nil {
		return fmt.Errorf("error creating TSV file for %v (%v)", r.Name, err)
	}

	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), t.path(r.Name))
}

func (t *TSV) path(r string) string {
	return filepath.Join(t.Dir, SheetName(r)+".tsv")
}

// SheetName returns the worksheet part of a range, e.g. 'Cards' for 'Cards!A1:Z'.
func SheetName(r string) string {
	name := strings.TrimSpace(r)
	if match := regexp.MustCompile(`^(.+?)!.*`).FindStringSubmatch(name); len(match) > 1 {
		name = match[1]
	}

	return strings.Trim(name, "'")
}

// WriteTSV writes rows of cell values as tab separated text. Null cells are written as empty
// fields.
func WriteTSV(f io.Writer, values [][]any) error {
	w := csv.NewWriter(f)
	w.Comma = '\t'

	for _, row := range values {
		record := make([]string, len(row))
		for i, v := range row {
			if v != nil {
				record[i] = fmt.Sprintf("%v", v)
			}
		}

		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()

	return w.Error()
}
