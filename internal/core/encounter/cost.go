package encounter

const (
	// minLevelDelta and maxLevelDelta bound the cost table domain. Deltas
	// outside this range make a candidate ineligible.
	minLevelDelta = -4
	maxLevelDelta = 2
)

// costByDelta maps candidate level minus party average level to XP cost.
var costByDelta = map[int]int{
	-4: 10,
	-3: 15,
	-2: 20,
	-1: 30,
	0:  40,
	1:  60,
	2:  80,
}

// Cost returns the XP cost of fielding a candidate against the given party
// average level. The second return is false when the level delta falls
// outside the eligible range.
func Cost(candidateLevel, apl int) (int, bool) {
	delta := candidateLevel - apl
	if delta < minLevelDelta || delta > maxLevelDelta {
		return 0, false
	}
	return costByDelta[delta], true
}
