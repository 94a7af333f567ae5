package encounter

const (
	// referencePartySize is the party size the base budgets assume.
	referencePartySize = 4
	// budgetPerExtraMember adjusts the budget per member above or below
	// the reference size.
	budgetPerExtraMember = 20
	// minBudget is the floor applied after party-size adjustment.
	minBudget = 40
)

// DeriveBudget computes the XP budget for a difficulty tier and party size.
//
// The budget is the tier's base value adjusted by 20 XP per party member
// above or below four, and never drops below 40. An unknown tier or a party
// size below one indicates a caller programming error and fails fast.
func DeriveBudget(tier Difficulty, partySize int) (int, error) {
	base, ok := baseBudget[tier]
	if !ok {
		return 0, ErrInvalidDifficulty
	}
	if partySize < 1 {
		return 0, ErrInvalidPartySize
	}

	budget := base + budgetPerExtraMember*(partySize-referencePartySize)
	if budget < minBudget {
		budget = minBudget
	}
	return budget, nil
}
