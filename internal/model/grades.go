package model

// gradeLadder orders grades from worst to best. Index is the ordinal rank.
var gradeLadder = []string{
	"D", "CC", "CCC",
	"B-", "B", "B+",
	"BB-", "BB", "BB+",
	"BBB-", "BBB", "BBB+",
	"A-", "A", "A+",
	"AA-", "AA", "AA+",
	"AAA",
}

// GradeRank returns the ordinal position of a grade on the ladder,
// or -1 for an unknown grade.
func GradeRank(grade string) int {
	for i, g := range gradeLadder {
		if g == grade {
			return i
		}
	}
	return -1
}

// GradeForScore maps a 0-100 composite score onto the grade ladder.
// The mapping is monotonic: a higher score never yields a lower grade.
func GradeForScore(score float64) string {
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	// Even spread across the ladder; the top bucket is closed at 100.
	idx := int(score / 100 * float64(len(gradeLadder)))
	if idx >= len(gradeLadder) {
		idx = len(gradeLadder) - 1
	}
	return gradeLadder[idx]
}
