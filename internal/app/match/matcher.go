// Package match scores terminal display names against registry student
// names. The matcher is an interface so the all-pairs scorer can be
// swapped for an indexed or phonetic implementation without touching the
// mapping workflow.
package match

// NameMatcher computes a similarity score in [0,100] between two person
// names. 100 means certain match.
type NameMatcher interface {
	Score(name1, name2 string) int
}
