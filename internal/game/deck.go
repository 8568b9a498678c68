package game

import "math/rand"

// Deck is a permutation of the 13 card ids. After dealing, positions
// [3i, 3i+2] belong to seat i and position 12 is the culprit card.
type Deck [NumCards]int

// NewDeck returns a deck in catalog order.
func NewDeck() Deck {
	var d Deck
	for i := range d {
		d[i] = i
	}
	return d
}

// Shuffle mixes the deck in place with a single Fisher-Yates pass.
func (d *Deck) Shuffle(rng *rand.Rand) {
	rng.Shuffle(NumCards, func(i, j int) {
		d[i], d[j] = d[j], d[i]
	})
}

// Deal partitions the deck into four disjoint hands of three cards.
// The 13th card is excluded from every hand; it is the culprit.
func (d Deck) Deal() [NumSeats][HandSize]int {
	var hands [NumSeats][HandSize]int
	for seat := 0; seat < NumSeats; seat++ {
		for j := 0; j < HandSize; j++ {
			hands[seat][j] = d[seat*HandSize+j]
		}
	}
	return hands
}

// Culprit returns the card id in the deck's last slot.
func (d Deck) Culprit() int {
	return d[NumCards-1]
}

// Table is the derived 4x8 matrix of per-seat symbol and point counts.
type Table [NumSeats][NumColumns]int

// BuildTable sums the symbol profiles of each seat's three dealt cards.
// Pure function of the deck; the culprit card contributes to no row.
func BuildTable(d Deck) Table {
	var t Table
	for seat := 0; seat < NumSeats; seat++ {
		for j := 0; j < HandSize; j++ {
			card := catalog[d[seat*HandSize+j]]
			for col, n := range card.Profile {
				t[seat][col] += n
			}
		}
	}
	return t
}
