package encounter

// Rarity classifies how unusual a monster entry is within its source pack.
type Rarity string

const (
	// RarityAny disables rarity filtering.
	RarityAny Rarity = "any"
	// RarityCommon is the default rarity for entries without rarity data.
	RarityCommon Rarity = "common"
	// RarityUncommon marks entries outside the common pool.
	RarityUncommon Rarity = "uncommon"
	// RarityRare marks entries reserved for special encounters.
	RarityRare Rarity = "rare"
	// RarityUnique marks one-of-a-kind entries.
	RarityUnique Rarity = "unique"
)

// rarityTags lists the rarity strings excluded from trait synergy, since a
// shared rarity tag says nothing about theme.
var rarityTags = map[string]bool{
	string(RarityCommon):   true,
	string(RarityUncommon): true,
	string(RarityRare):     true,
	string(RarityUnique):   true,
}

// Difficulty is the target challenge tier for one composition run.
type Difficulty string

const (
	DifficultyTrivial  Difficulty = "trivial"
	DifficultyLow      Difficulty = "low"
	DifficultyModerate Difficulty = "moderate"
	DifficultySevere   Difficulty = "severe"
	DifficultyExtreme  Difficulty = "extreme"
)

// baseBudget maps each difficulty tier to its base XP budget for a
// four-member party.
var baseBudget = map[Difficulty]int{
	DifficultyTrivial:  40,
	DifficultyLow:      60,
	DifficultyModerate: 80,
	DifficultySevere:   120,
	DifficultyExtreme:  160,
}

// MonsterEntry is one eligible bestiary index entry. Entries are treated as
// an immutable snapshot for the duration of a composition run.
type MonsterEntry struct {
	ID        string
	Name      string
	Level     int
	Traits    []string
	Rarity    Rarity
	SourceRef string
}

// PartyProfile describes the party the encounter is composed against.
type PartyProfile struct {
	Size         int
	AverageLevel int
}

// Request describes one encounter composition run.
type Request struct {
	// Pool is the full candidate pool before filtering.
	Pool []MonsterEntry
	// Difficulty selects the base XP budget.
	Difficulty Difficulty
	// Party sizes the budget and anchors the level window.
	Party PartyProfile
	// Trait optionally restricts candidates to a theme. Empty means no
	// constraint.
	Trait string
	// Rarity optionally restricts candidates by rarity. RarityAny (or
	// empty) means no constraint.
	Rarity Rarity
	// Seed drives the random source for the selection loop.
	Seed int64
}

// Result is the outcome of one composition run.
type Result struct {
	// Chosen holds accepted entries in acceptance order.
	Chosen []MonsterEntry
	// Spent is the total XP cost of the chosen entries.
	Spent int
	// Budget is the derived XP budget the run composed against.
	Budget int
}
