package game

// Board dimensions of a session. Fixed: the game is defined for exactly
// four seats over a 13-card catalog.
const (
	NumCards   = 13
	NumSeats   = 4
	HandSize   = 3
	NumColumns = 8
)

// Characteristic table columns. Columns 0-6 count suspect symbols,
// column 7 counts victory points.
const (
	SymbolPipe = iota
	SymbolLightbulb
	SymbolFist
	SymbolCrown
	SymbolNotebook
	SymbolNecklace
	SymbolEye
	SymbolPoint
)

// Card is one entry of the static suspect catalog.
type Card struct {
	ID      int
	Name    string
	Profile [NumColumns]int
}

// catalog is the fixed 13-suspect deck. Profiles are never mutated at
// runtime; column 7 marks the point-awarding suspects.
var catalog = [NumCards]Card{
	{ID: 0, Name: "Sebastian Moran", Profile: profile(SymbolFist, SymbolPoint)},
	{ID: 1, Name: "Irene Adler", Profile: profile(SymbolLightbulb, SymbolNecklace, SymbolPoint)},
	{ID: 2, Name: "Inspector Lestrade", Profile: profile(SymbolCrown, SymbolNotebook, SymbolEye)},
	{ID: 3, Name: "Inspector Gregson", Profile: profile(SymbolFist, SymbolCrown, SymbolNotebook)},
	{ID: 4, Name: "Inspector Baynes", Profile: profile(SymbolLightbulb, SymbolCrown)},
	{ID: 5, Name: "Inspector Bradstreet", Profile: profile(SymbolFist, SymbolCrown)},
	{ID: 6, Name: "Inspector Hopkins", Profile: profile(SymbolPipe, SymbolCrown, SymbolEye)},
	{ID: 7, Name: "Sherlock Holmes", Profile: profile(SymbolPipe, SymbolLightbulb, SymbolFist)},
	{ID: 8, Name: "John Watson", Profile: profile(SymbolPipe, SymbolFist, SymbolEye)},
	{ID: 9, Name: "Mycroft Holmes", Profile: profile(SymbolPipe, SymbolLightbulb, SymbolNotebook)},
	{ID: 10, Name: "Mrs. Hudson", Profile: profile(SymbolPipe, SymbolNecklace)},
	{ID: 11, Name: "Mary Morstan", Profile: profile(SymbolNotebook, SymbolNecklace)},
	{ID: 12, Name: "James Moriarty", Profile: profile(SymbolLightbulb, SymbolPoint)},
}

func profile(symbols ...int) [NumColumns]int {
	var p [NumColumns]int
	for _, s := range symbols {
		p[s]++
	}
	return p
}

// CardByID returns the catalog entry for a card id.
func CardByID(id int) (Card, bool) {
	if !ValidCardID(id) {
		return Card{}, false
	}
	return catalog[id], true
}

// ValidCardID reports whether id names a catalog entry.
func ValidCardID(id int) bool {
	return id >= 0 && id < NumCards
}

// ValidSymbol reports whether col is a characteristic table column.
func ValidSymbol(col int) bool {
	return col >= 0 && col < NumColumns
}

// ValidSeat reports whether seat is one of the four fixed slots.
func ValidSeat(seat int) bool {
	return seat >= 0 && seat < NumSeats
}
