package random

import "testing"

func TestNewSeedVaries(t *testing.T) {
	seen := make(map[int64]bool)
	for i := 0; i < 10; i++ {
		seed, err := NewSeed()
		if err != nil {
			t.Fatalf("new seed: %v", err)
		}
		seen[seed] = true
	}
	if len(seen) < 2 {
		t.Fatalf("expected varied seeds, got %d distinct values", len(seen))
	}
}
