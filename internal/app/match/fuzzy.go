package match

import (
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
)

// Tuning constants for the hybrid score. Nicknames here are routinely a
// prefix or fragment of one registry name token ("Laras" from
// "Larasati"), which plain token ratios under-score.
const (
	minFragmentLen     = 4  // fragments shorter than this earn no bonus
	fragmentBonusMax   = 50 // cap for the contained-fragment bonus
	prefixBonus        = 40 // flat bonus for a token-prefix match
	partialBoostFloor  = 80 // partial ratio needed before a bonus applies
	shortNameLenRatio  = 0.5
)

// FuzzyMatcher is the default NameMatcher: a hybrid of token-sort,
// partial and partial-token-sort ratios with a nickname bonus and a
// short-name penalty against false positives.
type FuzzyMatcher struct{}

// NewFuzzyMatcher returns the default matcher.
func NewFuzzyMatcher() FuzzyMatcher {
	return FuzzyMatcher{}
}

// Score implements NameMatcher. Token-order swaps ("Surname Firstname" vs
// "Firstname Surname") score high via the token-sort ratios; abbreviated
// names via the partial ratio plus the fragment bonus.
func (FuzzyMatcher) Score(name1, name2 string) int {
	n1 := strings.ToLower(strings.TrimSpace(name1))
	n2 := strings.ToLower(strings.TrimSpace(name2))
	if n1 == "" || n2 == "" {
		return 0
	}

	tokenSort := fuzzy.TokenSortRatio(n1, n2)
	partial := fuzzy.PartialRatio(n1, n2)
	partialTokenSort := fuzzy.PartialTokenSortRatio(n1, n2)

	shorter, longer := n1, n2
	if len(n1) > len(n2) {
		shorter, longer = n2, n1
	}

	bonus := fragmentBonus(shorter, longer)
	base := max(tokenSort, partialTokenSort)

	if partial >= partialBoostFloor && bonus > 0 {
		return min(100, base+bonus)
	}

	score := max(base, partial)

	// Very short names produce spurious 100% partial matches ("An" in
	// "Andi"); scale those down by how little of the longer name they cover.
	lenRatio := float64(len(shorter)) / float64(len(longer))
	if len(shorter) < minFragmentLen && lenRatio < shortNameLenRatio {
		penalty := 1.0 - (shortNameLenRatio - lenRatio)
		score = int(float64(score) * penalty)
	}
	return score
}

// fragmentBonus rewards the shorter name being contained in, or a prefix
// of, a single token of the longer name.
func fragmentBonus(shorter, longer string) int {
	if len(shorter) < minFragmentLen {
		return 0
	}
	for _, token := range strings.Fields(longer) {
		if strings.Contains(token, shorter) {
			return int(float64(fragmentBonusMax) * float64(len(shorter)) / float64(len(token)))
		}
		if strings.HasPrefix(token, shorter) {
			return prefixBonus
		}
	}
	return 0
}
