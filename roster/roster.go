// Package roster extracts the list of channels eligible for live-status
// checking from a spreadsheet maintained outside this repo.
package roster

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	loginColumn = 0 // column A: channel login
	flagColumn  = 4 // column E: inclusion flag
)

// Load reads the first sheet of the spreadsheet at path and returns the
// logins of rows whose inclusion flag is set. Row 0 is a header and is
// skipped. Row order is preserved; logins are not deduplicated or validated
// beyond trimming.
//
// A row is included iff its login is non-empty, its flag is non-empty, and
// the flag's lowercase form is neither "no" nor "false".
func Load(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open roster %s: %w", path, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			slog.Warn("failed to close roster file", slog.Any("err", err))
		}
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("roster %s has no sheets", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read roster sheet %s: %w", sheets[0], err)
	}

	var logins []string
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		login := cell(row, loginColumn)
		flag := cell(row, flagColumn)
		if login == "" || flag == "" {
			continue
		}
		switch strings.ToLower(flag) {
		case "no", "false":
			continue
		}
		logins = append(logins, login)
	}
	return logins, nil
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
