package services

import "testing"

func TestFindRosterHeader(t *testing.T) {
	tests := []struct {
		name     string
		rows     [][]string
		wantIdx  int
		wantID   int
		wantName int
		wantDept int
	}{
		{
			name: "english header with department",
			rows: [][]string{
				{"Statistics Report"},
				{"ID", "Name", "Department"},
				{"101", "Jane Doe", "SMP"},
			},
			wantIdx: 1, wantID: 0, wantName: 1, wantDept: 2,
		},
		{
			name: "indonesian header without department",
			rows: [][]string{
				{"No", "ID", "Nama"},
				{"1", "101", "Jane Doe"},
			},
			wantIdx: 0, wantID: 1, wantName: 2, wantDept: -1,
		},
		{
			name: "dept abbreviation",
			rows: [][]string{
				{"ID", "Dept", "Name"},
			},
			wantIdx: 0, wantID: 0, wantName: 2, wantDept: 1,
		},
		{
			name: "no header",
			rows: [][]string{
				{"101", "Jane Doe"},
				{"102", "John Smith"},
			},
			wantIdx: -1, wantID: -1, wantName: -1, wantDept: -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headerIdx, idCol, nameCol, deptCol := findRosterHeader(tt.rows)
			if headerIdx != tt.wantIdx || idCol != tt.wantID || nameCol != tt.wantName || deptCol != tt.wantDept {
				t.Errorf("findRosterHeader() = (%d, %d, %d, %d), want (%d, %d, %d, %d)",
					headerIdx, idCol, nameCol, deptCol,
					tt.wantIdx, tt.wantID, tt.wantName, tt.wantDept)
			}
		})
	}
}
