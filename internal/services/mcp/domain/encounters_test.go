package domain

import (
	"context"
	"errors"
	"testing"

	composersvc "github.com/louisbranch/encounterforge/internal/composer/service"
	"github.com/louisbranch/encounterforge/internal/core/encounter"
	"github.com/louisbranch/encounterforge/internal/storage"
)

type fakeBestiary struct {
	entries []encounter.MonsterEntry
	err     error
}

func (f *fakeBestiary) PutMonster(context.Context, encounter.MonsterEntry) error {
	return errors.New("not implemented")
}

func (f *fakeBestiary) GetMonster(context.Context, string) (encounter.MonsterEntry, error) {
	return encounter.MonsterEntry{}, storage.ErrNotFound
}

func (f *fakeBestiary) ListMonsters(context.Context, storage.MonsterFilter) ([]encounter.MonsterEntry, error) {
	return f.entries, f.err
}

func (f *fakeBestiary) CountMonsters(context.Context) (int, error) {
	return len(f.entries), nil
}

func TestDeriveBudgetHandler(t *testing.T) {
	t.Parallel()

	handler := DeriveBudgetHandler()

	tests := []struct {
		name    string
		input   DeriveBudgetInput
		want    int
		wantErr bool
	}{
		{name: "moderate reference party", input: DeriveBudgetInput{Difficulty: "moderate", PartySize: 4}, want: 80},
		{name: "extreme small party floors", input: DeriveBudgetInput{Difficulty: "extreme", PartySize: 2}, want: 120},
		{name: "case insensitive tier", input: DeriveBudgetInput{Difficulty: "Severe", PartySize: 5}, want: 140},
		{name: "unknown tier", input: DeriveBudgetInput{Difficulty: "nightmare", PartySize: 4}, wantErr: true},
		{name: "zero party size", input: DeriveBudgetInput{Difficulty: "low", PartySize: 0}, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, result, err := handler(context.Background(), nil, tc.input)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got budget %d", result.Budget)
				}
				return
			}
			if err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if result.Budget != tc.want {
				t.Fatalf("budget = %d, want %d", result.Budget, tc.want)
			}
		})
	}
}

func TestListMonstersHandler(t *testing.T) {
	t.Parallel()

	store := &fakeBestiary{entries: []encounter.MonsterEntry{
		{ID: "wolf", Name: "Wolf", Level: 2, Traits: []string{"beast"}, Rarity: encounter.RarityCommon},
		{ID: "wight", Name: "Wight", Level: 4, Traits: []string{"undead"}, Rarity: encounter.RarityUncommon},
	}}

	_, result, err := ListMonstersHandler(store)(context.Background(), nil, ListMonstersInput{})
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if len(result.Monsters) != 2 {
		t.Fatalf("got %d monsters, want 2", len(result.Monsters))
	}
	if result.Monsters[0].ID != "wolf" || result.Monsters[0].Rarity != "common" {
		t.Fatalf("unexpected first entry: %+v", result.Monsters[0])
	}
}

func TestListMonstersHandlerStoreError(t *testing.T) {
	t.Parallel()

	store := &fakeBestiary{err: errors.New("disk gone")}
	_, _, err := ListMonstersHandler(store)(context.Background(), nil, ListMonstersInput{})
	if err == nil {
		t.Fatal("expected store error to propagate")
	}
}

func TestComposeEncounterHandler(t *testing.T) {
	t.Parallel()

	store := &fakeBestiary{entries: []encounter.MonsterEntry{
		{ID: "ghoul", Name: "Ghoul", Level: 3, Traits: []string{"undead"}},
		{ID: "wight", Name: "Wight", Level: 4, Traits: []string{"undead"}},
	}}
	composer := composersvc.NewComposer(composersvc.Stores{Bestiary: store})
	handler := ComposeEncounterHandler(composer)

	seed := int64(11)
	_, result, err := handler(context.Background(), nil, ComposeEncounterInput{
		Difficulty:  "moderate",
		PartyLevels: []int{3, 3, 4, 4},
		Seed:        &seed,
	})
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if result.Seed != seed {
		t.Fatalf("seed = %d, want %d", result.Seed, seed)
	}
	if result.Budget != 80 {
		t.Fatalf("budget = %d, want 80", result.Budget)
	}
	if len(result.Monsters) == 0 {
		t.Fatal("expected at least one monster from a populated pool")
	}
	for _, monster := range result.Monsters {
		if monster.MonsterID != "ghoul" && monster.MonsterID != "wight" {
			t.Fatalf("monster %q not from the pool", monster.MonsterID)
		}
	}
}

func TestComposeEncounterHandlerRejectsUnknownTier(t *testing.T) {
	t.Parallel()

	composer := composersvc.NewComposer(composersvc.Stores{Bestiary: &fakeBestiary{}})
	_, _, err := ComposeEncounterHandler(composer)(context.Background(), nil, ComposeEncounterInput{
		Difficulty:  "mythic",
		PartyLevels: []int{4, 4, 4, 4},
	})
	if err == nil {
		t.Fatal("expected unknown tier to fail")
	}
}
