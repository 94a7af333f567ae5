package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/louisbranch/encounterforge/internal/bestiary"
	"github.com/louisbranch/encounterforge/internal/core/encounter"
	"github.com/louisbranch/encounterforge/internal/core/placement"
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

func (f *fakeBestiary) ListMonsters(_ context.Context, filter storage.MonsterFilter) ([]encounter.MonsterEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	var matched []encounter.MonsterEntry
	for _, entry := range f.entries {
		if filter.MinLevel != nil && entry.Level < *filter.MinLevel {
			continue
		}
		if filter.MaxLevel != nil && entry.Level > *filter.MaxLevel {
			continue
		}
		matched = append(matched, entry)
	}
	return matched, nil
}

func (f *fakeBestiary) CountMonsters(context.Context) (int, error) {
	return len(f.entries), nil
}

type fakeEncounters struct {
	saved []storage.SavedEncounter
}

func (f *fakeEncounters) SaveEncounter(_ context.Context, enc storage.SavedEncounter) error {
	f.saved = append(f.saved, enc)
	return nil
}

func (f *fakeEncounters) GetEncounter(_ context.Context, id string) (storage.SavedEncounter, error) {
	for _, enc := range f.saved {
		if enc.ID == id {
			return enc, nil
		}
	}
	return storage.SavedEncounter{}, storage.ErrNotFound
}

func (f *fakeEncounters) ListEncounters(_ context.Context, limit int) ([]storage.SavedEncounter, error) {
	if limit > len(f.saved) {
		limit = len(f.saved)
	}
	return f.saved[:limit], nil
}

func testEntries() []encounter.MonsterEntry {
	return []encounter.MonsterEntry{
		{ID: "ghoul", Name: "Ghoul", Level: 1, Traits: []string{"undead", "ghoul"}, Rarity: encounter.RarityCommon},
		{ID: "wight", Name: "Wight", Level: 3, Traits: []string{"undead"}, Rarity: encounter.RarityCommon},
		{ID: "wolf", Name: "Gray Wolf", Level: 1, Traits: []string{"animal"}, Rarity: encounter.RarityCommon},
		{ID: "banshee", Name: "Banshee", Level: 4, Traits: []string{"undead", "spirit"}, Rarity: encounter.RarityRare},
	}
}

func newTestComposer(entries []encounter.MonsterEntry) (*Composer, *fakeEncounters) {
	encounters := &fakeEncounters{}
	composer := NewComposer(Stores{
		Bestiary:  &fakeBestiary{entries: entries},
		Encounter: encounters,
	})
	return composer, encounters
}

func pinned(seed int64) *int64 {
	return &seed
}

func TestComposeHappyPath(t *testing.T) {
	composer, encounters := newTestComposer(testEntries())

	response, err := composer.Compose(context.Background(), ComposeRequest{
		Difficulty:  "moderate",
		PartyLevels: []int{2, 2, 2, 2},
		Seed:        pinned(42),
	})
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if response.ID == "" {
		t.Fatal("expected generated encounter id")
	}
	if response.Budget != 80 {
		t.Fatalf("budget = %d, want 80", response.Budget)
	}
	if response.Spent > response.Budget+10 {
		t.Fatalf("spent = %d exceeds budget tolerance", response.Spent)
	}
	if response.Seed != 42 {
		t.Fatalf("seed = %d, want 42", response.Seed)
	}
	if len(response.Entries) == 0 {
		t.Fatal("expected chosen entries from a viable pool")
	}
	if len(encounters.saved) != 1 {
		t.Fatalf("saved %d encounters, want 1", len(encounters.saved))
	}
	if encounters.saved[0].ID != response.ID {
		t.Fatalf("saved id %q, want %q", encounters.saved[0].ID, response.ID)
	}
}

func TestComposeIsReproducibleForPinnedSeed(t *testing.T) {
	request := ComposeRequest{
		Difficulty:  "severe",
		PartyLevels: []int{2, 3, 2, 3},
		Trait:       "undead",
		Seed:        pinned(1337),
	}

	composerA, _ := newTestComposer(testEntries())
	composerB, _ := newTestComposer(testEntries())

	first, err := composerA.Compose(context.Background(), request)
	if err != nil {
		t.Fatalf("first compose: %v", err)
	}
	second, err := composerB.Compose(context.Background(), request)
	if err != nil {
		t.Fatalf("second compose: %v", err)
	}

	if first.Spent != second.Spent || len(first.Entries) != len(second.Entries) {
		t.Fatalf("runs diverged: %+v vs %+v", first, second)
	}
	for i := range first.Entries {
		if first.Entries[i].MonsterID != second.Entries[i].MonsterID {
			t.Fatalf("entry %d diverged: %q vs %q", i, first.Entries[i].MonsterID, second.Entries[i].MonsterID)
		}
	}
}

func TestComposeEmptyPoolReturnsEmptyResponse(t *testing.T) {
	composer, encounters := newTestComposer(nil)

	response, err := composer.Compose(context.Background(), ComposeRequest{
		Difficulty:  "moderate",
		PartyLevels: []int{2, 2, 2, 2},
		Seed:        pinned(1),
	})
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if len(response.Entries) != 0 {
		t.Fatalf("entries = %d, want 0", len(response.Entries))
	}
	if len(encounters.saved) != 1 {
		t.Fatalf("empty runs are still recorded, saved = %d", len(encounters.saved))
	}
}

func TestComposeValidation(t *testing.T) {
	tests := []struct {
		name    string
		request ComposeRequest
		wantErr error
	}{
		{
			name: "unknown difficulty",
			request: ComposeRequest{
				Difficulty:  "legendary",
				PartyLevels: []int{2, 2},
			},
			wantErr: bestiary.ErrInvalidDifficulty,
		},
		{
			name: "unknown rarity",
			request: ComposeRequest{
				Difficulty:  "moderate",
				PartyLevels: []int{2, 2},
				Rarity:      "mythic",
			},
			wantErr: bestiary.ErrInvalidRarity,
		},
		{
			name: "empty party",
			request: ComposeRequest{
				Difficulty: "moderate",
			},
			wantErr: bestiary.ErrEmptyParty,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			composer, _ := newTestComposer(testEntries())
			if _, err := composer.Compose(context.Background(), tt.request); !errors.Is(err, tt.wantErr) {
				t.Errorf("Compose() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestComposeTraitRestrictsPicks(t *testing.T) {
	composer, _ := newTestComposer(testEntries())

	response, err := composer.Compose(context.Background(), ComposeRequest{
		Difficulty:  "moderate",
		PartyLevels: []int{2, 2, 2, 2},
		Trait:       "undead",
		Seed:        pinned(7),
	})
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	for _, entry := range response.Entries {
		found := false
		for _, trait := range entry.Traits {
			if strings.EqualFold(trait, "undead") {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("entry %q lacks undead trait", entry.MonsterID)
		}
	}
}

func TestComposePlacesEntriesOnGrid(t *testing.T) {
	composer, _ := newTestComposer(testEntries())

	response, err := composer.Compose(context.Background(), ComposeRequest{
		Difficulty:  "extreme",
		PartyLevels: []int{2, 2, 2, 2},
		Seed:        pinned(9),
		Origin:      placement.Point{X: 130, Y: 20},
		GridSize:    50,
		SnapToGrid:  true,
	})
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	for i, entry := range response.Entries {
		if int(entry.X)%50 != 0 || int(entry.Y)%50 != 0 {
			t.Fatalf("entry %d at (%v, %v) not on grid", i, entry.X, entry.Y)
		}
	}
}

func TestComposeSnapshotError(t *testing.T) {
	composer := NewComposer(Stores{
		Bestiary: &fakeBestiary{err: errors.New("disk gone")},
	})
	_, err := composer.Compose(context.Background(), ComposeRequest{
		Difficulty:  "moderate",
		PartyLevels: []int{2, 2},
		Seed:        pinned(1),
	})
	if err == nil || !strings.Contains(err.Error(), "snapshot candidate pool") {
		t.Fatalf("error = %v, want snapshot failure", err)
	}
}

func TestGetAndListEncounters(t *testing.T) {
	composer, _ := newTestComposer(testEntries())

	response, err := composer.Compose(context.Background(), ComposeRequest{
		Difficulty:  "low",
		PartyLevels: []int{2, 2, 2, 2},
		Seed:        pinned(3),
	})
	if err != nil {
		t.Fatalf("compose: %v", err)
	}

	got, err := composer.GetEncounter(context.Background(), response.ID)
	if err != nil {
		t.Fatalf("get encounter: %v", err)
	}
	if got.Budget != response.Budget || got.Spent != response.Spent {
		t.Fatalf("persisted %+v, response %+v", got, response)
	}

	list, err := composer.ListEncounters(context.Background(), 10)
	if err != nil {
		t.Fatalf("list encounters: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("listed %d, want 1", len(list))
	}
}
