package encounter

import (
	"errors"
	"testing"
)

func TestComposeValidation(t *testing.T) {
	tests := []struct {
		name    string
		request Request
		wantErr error
	}{
		{
			name: "unknown tier",
			request: Request{
				Pool:       testPool(),
				Difficulty: Difficulty("legendary"),
				Party:      PartyProfile{Size: 4, AverageLevel: 2},
			},
			wantErr: ErrInvalidDifficulty,
		},
		{
			name: "party size zero",
			request: Request{
				Pool:       testPool(),
				Difficulty: DifficultyModerate,
				Party:      PartyProfile{Size: 0, AverageLevel: 2},
			},
			wantErr: ErrInvalidPartySize,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compose(tt.request)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Compose() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestComposeEmptyPoolIsNotAnError(t *testing.T) {
	result, err := Compose(Request{
		Difficulty: DifficultyModerate,
		Party:      PartyProfile{Size: 4, AverageLevel: 2},
		Seed:       42,
	})
	if err != nil {
		t.Fatalf("Compose() error = %v, want nil", err)
	}
	if len(result.Chosen) != 0 {
		t.Fatalf("chosen = %v, want empty", idsOf(result.Chosen))
	}
	if result.Budget != 80 {
		t.Fatalf("budget = %d, want 80", result.Budget)
	}
}

func TestComposeIsReproduciblePerSeed(t *testing.T) {
	request := Request{
		Pool:       testPool(),
		Difficulty: DifficultySevere,
		Party:      PartyProfile{Size: 5, AverageLevel: 2},
		Trait:      "undead",
		Seed:       1337,
	}

	first, err := Compose(request)
	if err != nil {
		t.Fatalf("first compose: %v", err)
	}
	second, err := Compose(request)
	if err != nil {
		t.Fatalf("second compose: %v", err)
	}

	if first.Spent != second.Spent || first.Budget != second.Budget {
		t.Fatalf("totals diverged: %d/%d vs %d/%d", first.Spent, first.Budget, second.Spent, second.Budget)
	}
	if len(first.Chosen) != len(second.Chosen) {
		t.Fatalf("chosen diverged: %v vs %v", idsOf(first.Chosen), idsOf(second.Chosen))
	}
	for i := range first.Chosen {
		if first.Chosen[i].ID != second.Chosen[i].ID {
			t.Fatalf("chosen diverged at %d: %v vs %v", i, idsOf(first.Chosen), idsOf(second.Chosen))
		}
	}
}

func TestComposeAppliesTraitFilter(t *testing.T) {
	for seed := int64(0); seed < 30; seed++ {
		result, err := Compose(Request{
			Pool:       testPool(),
			Difficulty: DifficultyModerate,
			Party:      PartyProfile{Size: 4, AverageLevel: 2},
			Trait:      "undead",
			Seed:       seed,
		})
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		for _, entry := range result.Chosen {
			if !hasTrait(entry, "undead") {
				t.Fatalf("seed %d: chosen %q lacks undead trait", seed, entry.ID)
			}
		}
	}
}
