// Package encounter composes budget-constrained random encounters from a
// bestiary candidate pool.
package encounter

import "math/rand"

// Compose runs one full encounter composition: budget derivation, candidate
// filtering, and the selection loop.
//
// # Determinism
//
// Compose is deterministic with respect to the Seed field on Request. Given
// the same Seed and the same Pool (including order), Compose will always
// produce the same Result.
//
// # Ordering
//
// Result.Chosen lists entries in the order the selection loop accepted
// them. No other ordering is applied.
//
// # Termination
//
// The selection loop runs at most 100 attempts. When the budget cannot be
// reached, the partial sequence accumulated so far is returned as-is; that
// is a designed degradation, not a failure.
//
// # Errors
//
//   - ErrInvalidDifficulty when Request.Difficulty is not a known tier.
//   - ErrInvalidPartySize when Request.Party.Size is below 1.
//
// An empty candidate pool after filtering is not an error; the result
// simply contains no chosen entries.
func Compose(request Request) (Result, error) {
	rng := rand.New(rand.NewSource(request.Seed))
	return ComposeWithRng(rng, request)
}

// ComposeWithRng composes using a provided random source. This is useful
// when the caller controls the RNG directly.
func ComposeWithRng(rng *rand.Rand, request Request) (Result, error) {
	budget, err := DeriveBudget(request.Difficulty, request.Party.Size)
	if err != nil {
		return Result{}, err
	}

	filtered := FilterCandidates(request.Pool, request.Party.AverageLevel, request.Trait, request.Rarity)
	return Select(filtered, budget, request.Party.AverageLevel, rng), nil
}
