package encounter

import "strings"

const (
	// levelWindowBelow and levelWindowAbove bound the candidate level
	// window relative to the party average level.
	levelWindowBelow = 3
	levelWindowAbove = 2
)

// FilterCandidates narrows the candidate pool for one composition run.
//
// Rules apply in order: a six-level window around the party average level,
// then the rarity filter, then the trait filter. When the trait filter
// empties the pool, a recovery pass re-runs against the level-filtered set
// (ignoring rarity) matching the trait as a name substring instead, so a
// thematic search still finds entries whose trait tags are missing but
// whose names are suggestive.
//
// An empty result is a reportable outcome, not an error.
func FilterCandidates(pool []MonsterEntry, apl int, trait string, rarity Rarity) []MonsterEntry {
	leveled := make([]MonsterEntry, 0, len(pool))
	for _, entry := range pool {
		if entry.Level < apl-levelWindowBelow || entry.Level > apl+levelWindowAbove {
			continue
		}
		leveled = append(leveled, entry)
	}

	filtered := leveled
	if rarity != "" && rarity != RarityAny {
		byRarity := make([]MonsterEntry, 0, len(filtered))
		for _, entry := range filtered {
			if strings.EqualFold(string(entryRarity(entry)), string(rarity)) {
				byRarity = append(byRarity, entry)
			}
		}
		filtered = byRarity
	}

	trait = strings.TrimSpace(trait)
	if trait == "" {
		return filtered
	}

	byTrait := make([]MonsterEntry, 0, len(filtered))
	for _, entry := range filtered {
		if hasTrait(entry, trait) {
			byTrait = append(byTrait, entry)
		}
	}
	if len(byTrait) > 0 {
		return byTrait
	}

	// Recovery pass: no entry carries the trait tag, so fall back to a
	// name-substring match over the level window alone.
	byName := make([]MonsterEntry, 0, len(leveled))
	lowered := strings.ToLower(trait)
	for _, entry := range leveled {
		if strings.Contains(strings.ToLower(entry.Name), lowered) {
			byName = append(byName, entry)
		}
	}
	return byName
}

// entryRarity resolves an entry's rarity, defaulting missing data to common.
func entryRarity(entry MonsterEntry) Rarity {
	if entry.Rarity == "" {
		return RarityCommon
	}
	return entry.Rarity
}

// hasTrait reports whether the entry carries the trait, ignoring case.
func hasTrait(entry MonsterEntry, trait string) bool {
	for _, t := range entry.Traits {
		if strings.EqualFold(t, trait) {
			return true
		}
	}
	return false
}
