package services

import "testing"

func TestSplitClassSections(t *testing.T) {
	rows := [][]string{
		{"DAFTAR SISWA"},
		{"Kls / Smt", "7 ( Tujuh ) - A / 1"},
		{"Wali Kelas : Femi Nastiti, S. Pd"},
		{"NO", "NO. INDUK", "NAMA"},
		{"1", "1001", "Jane Doe"},
		{"Kls / Smt", "7 ( Tujuh ) - B / 1"},
		{"Wali Kelas : Budi Santoso"},
		{"NO", "NO. INDUK", "NAMA"},
		{"1", "1002", "John Smith"},
	}

	sections := splitClassSections(rows)
	if len(sections) != 2 {
		t.Fatalf("sections = %d, want 2", len(sections))
	}
	if len(sections[0]) != 4 {
		t.Errorf("section 0 rows = %d, want 4", len(sections[0]))
	}
	if len(sections[1]) != 4 {
		t.Errorf("section 1 rows = %d, want 4", len(sections[1]))
	}
}

func TestSplitClassSectionsNoMarker(t *testing.T) {
	rows := [][]string{
		{"NO", "NO. INDUK", "NAMA"},
		{"1", "1001", "Jane Doe"},
	}

	sections := splitClassSections(rows)
	if len(sections) != 1 {
		t.Fatalf("sections = %d, want 1 (whole sheet)", len(sections))
	}
	if len(sections[0]) != 2 {
		t.Errorf("section rows = %d, want 2", len(sections[0]))
	}
}

func TestScanClassMeta(t *testing.T) {
	rows := [][]string{
		{"Kls / Smt", "7 ( Tujuh ) - A / 1"},
		{"Wali Kelas : Femi Nastiti, S. Pd"},
		{"NO", "NO. INDUK", "NAMA"},
		{"1", "1001", "Jane Doe"},
	}

	className, teacherName, headerIdx := scanClassMeta(rows)
	if className != "7A" {
		t.Errorf("className = %q, want 7A", className)
	}
	if teacherName != "Femi Nastiti, S. Pd" {
		t.Errorf("teacherName = %q, want Femi Nastiti, S. Pd", teacherName)
	}
	if headerIdx != 2 {
		t.Errorf("headerIdx = %d, want 2", headerIdx)
	}
}

func TestScanClassMetaMissing(t *testing.T) {
	rows := [][]string{
		{"just a title"},
		{"some", "cells"},
	}

	className, teacherName, headerIdx := scanClassMeta(rows)
	if className != "" || teacherName != "" || headerIdx != -1 {
		t.Errorf("got (%q, %q, %d), want empty meta and headerIdx -1", className, teacherName, headerIdx)
	}
}

func TestTeacherIDFromName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{name: "Femi Nastiti, S. Pd", want: "T_FEMINASTIT"},
		{name: "Budi", want: "T_BUDI"},
		{name: "a very long teacher name indeed", want: "T_AVERYLONGT"},
	}

	for _, tt := range tests {
		if got := teacherIDFromName(tt.name); got != tt.want {
			t.Errorf("teacherIDFromName(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestIsDigits(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"1001", true},
		{"0", true},
		{"", false},
		{"10a1", false},
		{"10.1", false},
	}

	for _, tt := range tests {
		if got := isDigits(tt.in); got != tt.want {
			t.Errorf("isDigits(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
