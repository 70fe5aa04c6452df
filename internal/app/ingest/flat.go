package ingest

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const flatHeaderScanRows = 20

// timeHeaderNames are accepted names for the timestamp column, including
// the Indonesian export label.
var timeHeaderNames = map[string]bool{
	"time":     true,
	"datetime": true,
	"waktu":    true,
}

// eventTimeLayouts are tried in order when coercing a flat-sheet time cell.
var eventTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02 15:04:05",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"01-02-06 15:04:05",
	time.RFC3339,
}

// ParseFlat parses a one-row-per-scan sheet. The header row is located by
// scanning the lead rows for an "id" column next to a time column; a
// missing header is a structural error (ErrNoTableHeader), everything
// after that accumulates as row errors.
func ParseFlat(rows [][]string, resolver UserResolver) (ParseResult, error) {
	result := ParseResult{}

	headerIdx, idCol, timeCol := findFlatHeader(rows)
	if headerIdx < 0 {
		return result, ErrNoTableHeader
	}
	header := rows[headerIdx]

	for rowIdx := headerIdx + 1; rowIdx < len(rows); rowIdx++ {
		row := rows[rowIdx]
		if idCol >= len(row) {
			continue
		}

		code := normalizeUserCode(row[idCol])
		if code == "" {
			continue
		}

		if timeCol >= len(row) || strings.TrimSpace(row[timeCol]) == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: missing event time", rowIdx))
			continue
		}

		eventTime, err := CoerceDateTime(row[timeCol])
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", rowIdx, err))
			continue
		}

		id, ok := resolver.Resolve(code)
		if !ok {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: user %s not found on terminal", rowIdx, code))
			continue
		}

		result.Events = append(result.Events, RawEvent{
			MachineUserID: id,
			EventTime:     eventTime,
			Payload:       rowPayload(header, row),
		})
	}
	return result, nil
}

// findFlatHeader scans the lead rows for one containing an ID column and a
// time column. Returns -1 when no such row exists.
func findFlatHeader(rows [][]string) (headerIdx, idCol, timeCol int) {
	limit := min(flatHeaderScanRows, len(rows))
	for i := 0; i < limit; i++ {
		idCol, timeCol = -1, -1
		for col, cell := range rows[i] {
			name := strings.ToLower(strings.TrimSpace(cell))
			switch {
			case name == "id" && idCol < 0:
				idCol = col
			case timeHeaderNames[name] && timeCol < 0:
				timeCol = col
			}
		}
		if idCol >= 0 && timeCol >= 0 {
			return i, idCol, timeCol
		}
	}
	return -1, -1, -1
}

// normalizeUserCode cleans a user-code cell. Float-typed cells come out of
// spreadsheets as "101.0", so a trailing ".0" is stripped.
func normalizeUserCode(cell string) string {
	code := strings.TrimSpace(cell)
	code = strings.TrimSuffix(code, ".0")
	return code
}

// CoerceDateTime parses a spreadsheet time cell through the known export
// layouts, falling back to an Excel serial day number.
func CoerceDateTime(cell string) (time.Time, error) {
	value := strings.TrimSpace(cell)
	for _, layout := range eventTimeLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, nil
		}
	}

	// Excel stores datetimes as fractional days since 1899-12-30.
	if serial, err := strconv.ParseFloat(value, 64); err == nil && serial > 0 {
		epoch := time.Date(1899, 12, 30, 0, 0, 0, 0, time.Local)
		return epoch.Add(time.Duration(serial * 24 * float64(time.Hour))).Round(time.Second), nil
	}

	return time.Time{}, fmt.Errorf("unparseable event time %q", cell)
}

func rowPayload(header, row []string) map[string]any {
	payload := make(map[string]any, len(row))
	for col, cell := range row {
		key := fmt.Sprintf("col_%d", col)
		if col < len(header) && strings.TrimSpace(header[col]) != "" {
			key = strings.TrimSpace(header[col])
		}
		payload[key] = cell
	}
	return payload
}
