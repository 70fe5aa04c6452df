package match

import "testing"

func TestFuzzyMatcherScore(t *testing.T) {
	m := NewFuzzyMatcher()

	tests := []struct {
		name  string
		a, b  string
		atMin int
		atMax int
	}{
		{name: "identical", a: "Jane Doe", b: "Jane Doe", atMin: 100, atMax: 100},
		{name: "case and spacing", a: "  JANE DOE ", b: "jane doe", atMin: 100, atMax: 100},
		{name: "token order swap", a: "Doe Jane", b: "Jane Doe", atMin: 95, atMax: 100},
		{name: "similar but distinct", a: "Jon Doe", b: "Jane Doe", atMin: 60, atMax: 94},
		{name: "nickname fragment", a: "Laras", b: "Larasati Putri Dewi", atMin: 90, atMax: 100},
		{name: "dissimilar", a: "Jane Doe", b: "Budi Santoso", atMin: 0, atMax: 59},
		{name: "empty left", a: "", b: "Jane Doe", atMin: 0, atMax: 0},
		{name: "empty right", a: "Jane Doe", b: "   ", atMin: 0, atMax: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.Score(tt.a, tt.b)
			if got < tt.atMin || got > tt.atMax {
				t.Errorf("Score(%q, %q) = %d, want in [%d, %d]", tt.a, tt.b, got, tt.atMin, tt.atMax)
			}
		})
	}
}

func TestFuzzyMatcherShortNamePenalty(t *testing.T) {
	m := NewFuzzyMatcher()

	short := m.Score("An", "Andi Wijaya")
	full := m.Score("Andi", "Andi Wijaya")
	if short >= full {
		t.Errorf("Score(An) = %d should be below Score(Andi) = %d", short, full)
	}
	if short >= 90 {
		t.Errorf("Score(An, Andi Wijaya) = %d, want below 90", short)
	}
}

func TestFuzzyMatcherSymmetry(t *testing.T) {
	m := NewFuzzyMatcher()

	pairs := [][2]string{
		{"Jane Doe", "Doe Jane"},
		{"Laras", "Larasati Putri Dewi"},
		{"Jon Doe", "Jane Doe"},
	}
	for _, p := range pairs {
		ab, ba := m.Score(p[0], p[1]), m.Score(p[1], p[0])
		if ab != ba {
			t.Errorf("Score(%q, %q) = %d but Score(%q, %q) = %d", p[0], p[1], ab, p[1], p[0], ba)
		}
	}
}
