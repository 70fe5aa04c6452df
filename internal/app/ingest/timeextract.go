package ingest

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var clockPattern = regexp.MustCompile(`(\d{1,2}):(\d{2})`)

// absenceMarkers are cell values that mean "no scans that day" rather than
// malformed input.
var absenceMarkers = map[string]bool{
	"":        true,
	"absent":  true,
	"leave":   true,
	"sick":    true,
	"holiday": true,
	"off":     true,
	"nan":     true,
}

// ExtractTimes pulls every valid clock time out of one cell and returns
// them normalized to zero-padded HH:MM. Terminals concatenate multiple
// scans into one cell without separators ("06:5815:03"), so each HH:MM
// occurrence is captured independently. Out-of-range candidates are
// dropped; absence markers yield an empty result.
func ExtractTimes(cell string) []string {
	trimmed := strings.ToLower(strings.TrimSpace(cell))
	if absenceMarkers[trimmed] {
		return nil
	}

	var times []string
	for _, m := range clockPattern.FindAllStringSubmatch(cell, -1) {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
			continue
		}
		times = append(times, fmt.Sprintf("%02d:%02d", hour, minute))
	}
	return times
}
