package encounter

import (
	"math/rand"
	"strings"
)

const (
	// maxAttempts bounds the selection loop. The cap is the sole
	// termination guarantee when no candidate fits the remaining budget.
	maxAttempts = 100
	// overshootTolerance allows the final pick to exceed the budget by a
	// fixed margin.
	overshootTolerance = 10
	// consistencyChance is the probability of re-picking an already
	// chosen monster type once at least one entry is accepted.
	consistencyChance = 0.7
	// synergyChance is the probability a novel pick is restricted to
	// candidates sharing a trait with the chosen entries.
	synergyChance = 0.6
)

// Select runs the budget-constrained selection loop over a filtered pool.
//
// Each attempt either re-picks an already chosen monster type (consistency)
// or draws a novel candidate, biased toward entries sharing a non-rarity
// trait with prior picks (synergy). A candidate is accepted when its XP
// cost keeps the total within budget plus the overshoot tolerance. The
// loop stops once the budget is met or after maxAttempts, whichever comes
// first, so degenerate pools cannot loop forever.
//
// The chosen sequence preserves acceptance order. An empty pool yields an
// empty result.
func Select(pool []MonsterEntry, budget, apl int, rng *rand.Rand) Result {
	result := Result{Budget: budget}
	if len(pool) == 0 {
		return result
	}

	byID := make(map[string]MonsterEntry, len(pool))
	for _, entry := range pool {
		byID[entry.ID] = entry
	}

	var chosenIDs []string
	chosenSet := make(map[string]bool)
	var seenTraits []string

	for attempt := 0; attempt < maxAttempts && result.Spent < budget; attempt++ {
		candidate := pickCandidate(pool, byID, chosenIDs, seenTraits, rng)

		cost, ok := Cost(candidate.Level, apl)
		if !ok {
			continue
		}
		if result.Spent+cost > budget+overshootTolerance {
			continue
		}

		result.Chosen = append(result.Chosen, candidate)
		result.Spent += cost
		if !chosenSet[candidate.ID] {
			chosenSet[candidate.ID] = true
			chosenIDs = append(chosenIDs, candidate.ID)
		}
		seenTraits = append(seenTraits, candidate.Traits...)
	}

	return result
}

// pickCandidate draws one candidate for an attempt, applying the
// consistency and synergy biases in that order.
func pickCandidate(pool []MonsterEntry, byID map[string]MonsterEntry, chosenIDs, seenTraits []string, rng *rand.Rand) MonsterEntry {
	if len(chosenIDs) > 0 && rng.Float64() < consistencyChance {
		return byID[chosenIDs[rng.Intn(len(chosenIDs))]]
	}

	pickPool := pool
	traits := synergyTraits(seenTraits)
	if len(traits) > 0 && rng.Float64() < synergyChance {
		if shared := sharedTraitPool(pool, traits); len(shared) > 0 {
			pickPool = shared
		}
	}
	return pickPool[rng.Intn(len(pickPool))]
}

// synergyTraits builds the distinct lowercase trait set seen so far,
// excluding rarity tags.
func synergyTraits(seenTraits []string) map[string]bool {
	traits := make(map[string]bool, len(seenTraits))
	for _, trait := range seenTraits {
		lowered := strings.ToLower(trait)
		if rarityTags[lowered] {
			continue
		}
		traits[lowered] = true
	}
	return traits
}

// sharedTraitPool keeps the candidates carrying at least one synergy trait.
func sharedTraitPool(pool []MonsterEntry, traits map[string]bool) []MonsterEntry {
	shared := make([]MonsterEntry, 0, len(pool))
	for _, entry := range pool {
		for _, trait := range entry.Traits {
			if traits[strings.ToLower(trait)] {
				shared = append(shared, entry)
				break
			}
		}
	}
	return shared
}
