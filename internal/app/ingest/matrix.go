package ingest

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// RawEvent is one terminal scan recovered from a sheet, before persistence.
// Payload keeps the source fields for audit.
type RawEvent struct {
	MachineUserID int64
	EventTime     time.Time
	Payload       map[string]any
}

// ParseResult carries the recovered events plus accumulated row-level
// errors. Row-level errors never abort a parse.
type ParseResult struct {
	Events []RawEvent
	Errors []string
}

// UserResolver resolves a terminal-local user code to the machine user
// registry row. Lookups are scoped to one terminal by the caller.
type UserResolver interface {
	Resolve(code string) (id int64, ok bool)
}

// UserBlockHeader is the parsed form of a matrix "ID:" row
type UserBlockHeader struct {
	UserCode   string
	Name       string
	Department string
}

var (
	headerIDPattern   = regexp.MustCompile(`(?i)ID:\s*(\d+)`)
	headerNamePattern = regexp.MustCompile(`(?i)Name:\s*([A-Za-z][A-Za-z .'-]*?)\s*(?:Dept\.?:|Date:|$)`)
	headerDeptPattern = regexp.MustCompile(`(?i)Dept\.?:\s*([A-Za-z0-9][A-Za-z0-9 ]*)`)
)

// ParseUserHeader extracts user code, name and department from the text of
// a user-header row via label-anchored patterns. Returns nil when the row
// carries no user code, so callers can treat any "ID:" row that fails
// here as malformed.
func ParseUserHeader(rowText string) *UserBlockHeader {
	idMatch := headerIDPattern.FindStringSubmatch(rowText)
	if idMatch == nil {
		return nil
	}

	header := &UserBlockHeader{UserCode: idMatch[1]}
	if m := headerNamePattern.FindStringSubmatch(rowText); m != nil {
		header.Name = strings.TrimSpace(m[1])
	}
	if m := headerDeptPattern.FindStringSubmatch(rowText); m != nil {
		header.Department = strings.TrimSpace(m[1])
	}
	return header
}

// activeUser is the explicit parser state: which user block the row cursor
// is inside, if any. A failed lookup or a filtered department leaves the
// parser with no active user, so data rows fall through silently.
type activeUser struct {
	header        *UserBlockHeader
	machineUserID int64
}

// MatrixParser walks a matrix-format sheet row by row. One user occupies a
// header row plus day-column data rows; data rows belong to the most
// recent header row.
type MatrixParser struct {
	layout     Layout
	cols       []int // day columns in ascending sheet order
	resolver   UserResolver
	targetDept string
}

// NewMatrixParser builds a parser for one detected matrix layout.
// targetDept filters user blocks to one department; empty disables the
// filter.
func NewMatrixParser(layout Layout, resolver UserResolver, targetDept string) *MatrixParser {
	cols := make([]int, 0, len(layout.DayColumns))
	for col := range layout.DayColumns {
		cols = append(cols, col)
	}
	sort.Ints(cols)
	return &MatrixParser{layout: layout, cols: cols, resolver: resolver, targetDept: targetDept}
}

// Parse runs the state machine over the full sheet.
func (p *MatrixParser) Parse(rows [][]string) ParseResult {
	result := ParseResult{}
	var current *activeUser

	for rowIdx, row := range rows {
		if isUserHeaderRow(row) {
			current = p.enterUserBlock(rowIdx, row, &result)
			continue
		}
		if current == nil {
			continue
		}
		p.parseDataRow(rowIdx, row, current, &result)
	}
	return result
}

func isUserHeaderRow(row []string) bool {
	if len(row) == 0 {
		return false
	}
	return strings.HasPrefix(strings.ToUpper(strings.TrimSpace(row[0])), "ID:")
}

// enterUserBlock parses a header row and resolves the user. Returns nil
// (no active user) for filtered departments, malformed headers and failed
// lookups; lookups that fail are recorded as row errors.
func (p *MatrixParser) enterUserBlock(rowIdx int, row []string, result *ParseResult) *activeUser {
	header := ParseUserHeader(strings.Join(row, " "))
	if header == nil {
		result.Errors = append(result.Errors, fmt.Sprintf("row %d: malformed user header", rowIdx))
		return nil
	}

	if p.targetDept != "" && !strings.EqualFold(header.Department, p.targetDept) {
		return nil
	}

	id, ok := p.resolver.Resolve(header.UserCode)
	if !ok {
		result.Errors = append(result.Errors,
			fmt.Sprintf("row %d: user %s (%s) not found on terminal", rowIdx, header.UserCode, header.Name))
		return nil
	}

	return &activeUser{header: header, machineUserID: id}
}

// parseDataRow scans the day columns left to right, so events and errors
// keep sheet order run to run.
func (p *MatrixParser) parseDataRow(rowIdx int, row []string, current *activeUser, result *ParseResult) {
	for _, col := range p.cols {
		day := p.layout.DayColumns[col]
		if col >= len(row) {
			continue
		}
		cell := row[col]
		for _, clock := range ExtractTimes(cell) {
			eventTime, err := composeEventTime(p.layout.Year, p.layout.Month, day, clock)
			if err != nil {
				result.Errors = append(result.Errors,
					fmt.Sprintf("row %d: user %s: %v", rowIdx, current.header.UserCode, err))
				continue
			}
			result.Events = append(result.Events, RawEvent{
				MachineUserID: current.machineUserID,
				EventTime:     eventTime,
				Payload: map[string]any{
					"user_code":  current.header.UserCode,
					"user_name":  current.header.Name,
					"department": current.header.Department,
					"day":        day,
					"time":       clock,
					"cell":       cell,
				},
			})
		}
	}
}

// composeEventTime builds the event timestamp and rejects day numbers the
// report month does not have (day 30 of February).
func composeEventTime(year, month, day int, clock string) (time.Time, error) {
	hh, mm, ok := strings.Cut(clock, ":")
	if !ok {
		return time.Time{}, fmt.Errorf("invalid clock value %q", clock)
	}
	hour, err := strconv.Atoi(hh)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid clock value %q", clock)
	}
	minute, err := strconv.Atoi(mm)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid clock value %q", clock)
	}

	t := time.Date(year, time.Month(month), day, hour, minute, 0, 0, time.Local)
	if t.Day() != day || t.Month() != time.Month(month) {
		return time.Time{}, fmt.Errorf("invalid date: day %d does not exist in %04d-%02d", day, year, month)
	}
	return t, nil
}
