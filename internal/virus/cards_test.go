package virus_test

import (
	"testing"

	"virus-server/internal/virus"
)

func countCards(deck *virus.Deck, kind virus.Kind, color virus.Color) int {
	count := 0
	for _, c := range deck.Cards {
		if c.Kind == kind && c.Color == color {
			count++
		}
	}
	return count
}

func TestBuildDeckComposition(t *testing.T) {
	deck := virus.BuildDeck()

	if deck.Count() != 69 {
		t.Fatalf("Deck should be 69 cards, got %d", deck.Count())
	}

	var tests = []struct {
		kind  virus.Kind
		color virus.Color
		want  int
	}{
		{virus.KindOrgan, virus.Red, 5},
		{virus.KindOrgan, virus.Green, 5},
		{virus.KindOrgan, virus.Blue, 5},
		{virus.KindOrgan, virus.Yellow, 5},
		{virus.KindOrgan, virus.Wild, 1},
		{virus.KindVirus, virus.Red, 4},
		{virus.KindVirus, virus.Green, 4},
		{virus.KindVirus, virus.Blue, 4},
		{virus.KindVirus, virus.Yellow, 4},
		{virus.KindVirus, virus.Wild, 1},
		{virus.KindMedicine, virus.Red, 4},
		{virus.KindMedicine, virus.Green, 4},
		{virus.KindMedicine, virus.Blue, 4},
		{virus.KindMedicine, virus.Yellow, 4},
		{virus.KindMedicine, virus.Wild, 5},
		{virus.KindTreatment, virus.None, 10},
	}

	for _, tt := range tests {
		got := countCards(deck, tt.kind, tt.color)
		if got != tt.want {
			t.Errorf("Expected %d %s/%s cards, got %d", tt.want, tt.kind, tt.color, got)
		}
	}
}

func TestBuildDeckTreatmentPairs(t *testing.T) {
	deck := virus.BuildDeck()

	counts := map[string]int{}
	for _, c := range deck.Cards {
		if c.Kind == virus.KindTreatment {
			counts[c.Name]++
		}
	}

	for _, name := range virus.TreatmentNames {
		if counts[name] != 2 {
			t.Errorf("Expected 2 copies of %s, got %d", name, counts[name])
		}
	}
}

func TestBuildDeckSizeInvariant(t *testing.T) {
	first := virus.BuildDeck().Count()
	for range 10 {
		if n := virus.BuildDeck().Count(); n != first {
			t.Fatalf("Deck size varies between builds: %d vs %d", first, n)
		}
	}
}

func TestBuildDeckUniqueIDs(t *testing.T) {
	deck := virus.BuildDeck()

	seen := map[string]bool{}
	for _, c := range deck.Cards {
		if c.ID == "" {
			t.Fatal("Card built without an id")
		}
		if seen[c.ID] {
			t.Fatalf("Duplicate card id %s", c.ID)
		}
		seen[c.ID] = true
	}
}

func TestShuffleIsPermutation(t *testing.T) {
	deck := virus.BuildDeck()

	before := map[string]int{}
	for _, c := range deck.Cards {
		before[c.ID]++
	}

	deck.Shuffle()

	after := map[string]int{}
	for _, c := range deck.Cards {
		after[c.ID]++
	}

	if len(before) != len(after) {
		t.Fatalf("Shuffle changed card count: %d vs %d", len(before), len(after))
	}
	for id, n := range before {
		if after[id] != n {
			t.Errorf("Card %s count changed from %d to %d", id, n, after[id])
		}
	}
}
