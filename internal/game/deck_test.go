package game

import (
	"math/rand"
	"testing"
)

func TestShuffleIsPermutation(t *testing.T) {
	for _, seed := range []int64{1, 7, 42, 1337} {
		d := NewDeck()
		d.Shuffle(rand.New(rand.NewSource(seed)))

		var seen [NumCards]bool
		for _, id := range d {
			if !ValidCardID(id) {
				t.Fatalf("seed %d: card id %d outside catalog", seed, id)
			}
			if seen[id] {
				t.Fatalf("seed %d: card id %d dealt twice", seed, id)
			}
			seen[id] = true
		}
	}
}

func TestShuffleIsDeterministicPerSeed(t *testing.T) {
	a := NewDeck()
	a.Shuffle(rand.New(rand.NewSource(99)))
	b := NewDeck()
	b.Shuffle(rand.New(rand.NewSource(99)))
	if a != b {
		t.Fatalf("same seed produced different permutations: %v vs %v", a, b)
	}
}

func TestDealPartitionsDeck(t *testing.T) {
	d := NewDeck()
	d.Shuffle(rand.New(rand.NewSource(3)))

	hands := d.Deal()
	var seen [NumCards]bool
	for seat, hand := range hands {
		for _, id := range hand {
			if seen[id] {
				t.Fatalf("card %d appears in more than one hand", id)
			}
			seen[id] = true
			if id == d.Culprit() {
				t.Fatalf("culprit card %d dealt to seat %d", id, seat)
			}
		}
	}
	if seen[d.Culprit()] {
		t.Fatalf("culprit card %d marked as dealt", d.Culprit())
	}
	seen[d.Culprit()] = true
	for id, ok := range seen {
		if !ok {
			t.Fatalf("card %d missing from the partition", id)
		}
	}
}

func TestBuildTablePointColumn(t *testing.T) {
	// Cards 0, 1 and 12 are the only point-awarding catalog entries.
	pointCards := map[int]bool{0: true, 1: true, 12: true}

	d := NewDeck()
	d.Shuffle(rand.New(rand.NewSource(11)))
	table := BuildTable(d)
	hands := d.Deal()

	for seat := 0; seat < NumSeats; seat++ {
		want := 0
		for _, id := range hands[seat] {
			if pointCards[id] {
				want++
			}
		}
		if got := table[seat][SymbolPoint]; got != want {
			t.Fatalf("seat %d point count = %d, want %d", seat, got, want)
		}
	}
}

func TestBuildTableSumsProfiles(t *testing.T) {
	// Catalog-order deck: seat 0 holds cards 0,1,2.
	d := NewDeck()
	table := BuildTable(d)

	// Moran(fist,point) + Adler(bulb,necklace,point) + Lestrade(crown,notebook,eye)
	want := [NumColumns]int{0, 1, 1, 1, 1, 1, 1, 2}
	if table[0] != want {
		t.Fatalf("seat 0 row = %v, want %v", table[0], want)
	}
}

func TestCardByID(t *testing.T) {
	tests := []struct {
		id     int
		ok     bool
		name   string
		symbol int
	}{
		{id: 0, ok: true, name: "Sebastian Moran", symbol: SymbolFist},
		{id: 7, ok: true, name: "Sherlock Holmes", symbol: SymbolPipe},
		{id: 12, ok: true, name: "James Moriarty", symbol: SymbolLightbulb},
		{id: -1, ok: false},
		{id: 13, ok: false},
	}
	for _, tt := range tests {
		card, ok := CardByID(tt.id)
		if ok != tt.ok {
			t.Fatalf("CardByID(%d) ok = %v, want %v", tt.id, ok, tt.ok)
		}
		if !ok {
			continue
		}
		if card.Name != tt.name {
			t.Fatalf("CardByID(%d) name = %q, want %q", tt.id, card.Name, tt.name)
		}
		if card.Profile[tt.symbol] == 0 {
			t.Fatalf("card %q should show symbol column %d", card.Name, tt.symbol)
		}
	}
}
