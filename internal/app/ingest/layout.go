package ingest

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Structural layout errors, fatal to the batch.
var (
	ErrNoDayHeader   = errors.New("no day-of-month header row found in matrix sheet")
	ErrNoTableHeader = errors.New("no table header (ID, Time) found in log sheet")
	ErrNoLogSheet    = errors.New("no usable log sheet found in workbook")
)

const (
	// matrixScanRows is how many lead rows are checked for an "ID:" marker.
	matrixScanRows = 50
	// periodScanRows is how many lead rows are checked for the report period.
	periodScanRows = 20
	// minDayCells is the minimum count of in-range numeric cells for a row
	// to qualify as the day-of-month header.
	minDayCells = 7
)

var (
	dateRangePattern  = regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})\s*~\s*\d{4}-\d{2}-\d{2}`)
	singleDatePattern = regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})`)
)

// Layout describes how a log sheet is structured. Matrix sheets carry the
// reporting period in a metadata row and one column per day of month;
// flat sheets are one row per scan.
type Layout struct {
	IsMatrix   bool
	Year       int
	Month      int
	DayColumns map[int]int // column index -> day of month
	Warnings   []string
}

// DetectLayout classifies a sheet as matrix or flat and, for matrix
// sheets, extracts the reporting period and the day-column map. Returns
// ErrNoDayHeader when a matrix-classified sheet has no day header row.
func DetectLayout(rows [][]string, now time.Time) (Layout, error) {
	layout := Layout{}

	limit := min(matrixScanRows, len(rows))
	for i := 0; i < limit; i++ {
		if len(rows[i]) == 0 {
			continue
		}
		first := strings.ToUpper(strings.TrimSpace(rows[i][0]))
		if strings.HasPrefix(first, "ID:") {
			layout.IsMatrix = true
			break
		}
	}

	if !layout.IsMatrix {
		return layout, nil
	}

	layout.Year, layout.Month = detectPeriod(rows, now, &layout.Warnings)

	layout.DayColumns = findDayColumns(rows)
	if layout.DayColumns == nil {
		return layout, ErrNoDayHeader
	}

	return layout, nil
}

// detectPeriod scans lead rows for a "YYYY-MM-DD ~ YYYY-MM-DD" range,
// falls back to a single date, then to the current date with a warning.
func detectPeriod(rows [][]string, now time.Time, warnings *[]string) (year, month int) {
	limit := min(periodScanRows, len(rows))
	var joined strings.Builder
	for i := 0; i < limit; i++ {
		joined.WriteString(strings.Join(rows[i], " "))
		joined.WriteString(" ")
	}
	text := joined.String()

	if m := dateRangePattern.FindStringSubmatch(text); m != nil {
		year, _ = strconv.Atoi(m[1])
		month, _ = strconv.Atoi(m[2])
		return year, month
	}
	if m := singleDatePattern.FindStringSubmatch(text); m != nil {
		year, _ = strconv.Atoi(m[1])
		month, _ = strconv.Atoi(m[2])
		return year, month
	}

	*warnings = append(*warnings, "no report period found in sheet, using current month")
	return now.Year(), int(now.Month())
}

// findDayColumns locates the row holding day-of-month numbers and maps
// each qualifying column to its day. Returns nil when no row qualifies.
func findDayColumns(rows [][]string) map[int]int {
	for _, row := range rows {
		candidate := make(map[int]int)
		for col, cell := range row {
			day, err := strconv.Atoi(strings.TrimSpace(cell))
			if err != nil || day < 1 || day > 31 {
				continue
			}
			candidate[col] = day
		}
		if len(candidate) >= minDayCells {
			return candidate
		}
	}
	return nil
}
