package session

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"sherlock13/internal/game"
)

// Phase is the lifecycle stage of a session. It only ever advances
// Lobby -> Playing -> Finished.
type Phase string

const (
	PhaseLobby    Phase = "lobby"
	PhasePlaying  Phase = "playing"
	PhaseFinished Phase = "finished"
)

var (
	ErrNotInLobby    = errors.New("session not in lobby")
	ErrNotPlaying    = errors.New("session not in playing phase")
	ErrNotYourTurn   = errors.New("not the acting seat's turn")
	ErrUnknownCard   = errors.New("card id outside the catalog")
	ErrUnknownSymbol = errors.New("symbol column out of range")
	ErrUnknownSeat   = errors.New("seat index out of range")
	ErrBadEndpoint   = errors.New("endpoint port out of range")
)

// Machine owns the shared game state and is its only mutator. Command
// handlers validate, mutate, and return the ordered events the command
// produced; rejected commands return an error and exactly no events.
type Machine struct {
	mu sync.RWMutex

	id          string
	phase       Phase
	registry    *Registry
	deck        game.Deck
	table       game.Table
	currentTurn int
	winner      int
	exhausted   bool // all four seats eliminated
	rng         *rand.Rand
}

// NewMachine constructs a lobby-phase machine. A nil rng gets a
// time-seeded default; tests inject a seeded one.
func NewMachine(rng *rand.Rand) *Machine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Machine{
		id:       uuid.NewString(),
		phase:    PhaseLobby,
		registry: NewRegistry(),
		deck:     game.NewDeck(),
		winner:   -1,
		rng:      rng,
	}
}

// ID returns the session identifier.
func (m *Machine) ID() string {
	return m.id
}

// Phase returns the current lifecycle phase.
func (m *Machine) Phase() Phase {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.phase
}

// Winner returns the victorious seat index, or -1 while nobody has won.
func (m *Machine) Winner() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.winner
}

// Exhausted reports the degenerate terminal condition of all four
// seats eliminated by wrong accusations.
func (m *Machine) Exhausted() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.exhausted
}

// Culprit returns the culprit card once the session is playing. Only
// for operator logging; it must never reach a protocol event other
// than VICTORY/WRONG_ACCUSATION echoes of an accusation.
func (m *Machine) Culprit() (game.Card, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.phase == PhaseLobby {
		return game.Card{}, false
	}
	card, _ := game.CardByID(m.deck.Culprit())
	return card, true
}

// Connect handles a CONNECT command: seat the player, announce the id
// and roster, and once the fourth seat fills, deal and start play.
func (m *Machine) Connect(name, host string, port int) ([]Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.phase != PhaseLobby {
		return nil, ErrNotInLobby
	}
	if port < 1 || port > 65535 {
		return nil, ErrBadEndpoint
	}

	seat, err := m.registry.Register(name, Endpoint{Host: host, Port: port})
	if err != nil {
		return nil, err
	}

	events := []Event{
		unicast(EventAssignedID, AssignedIDPayload{Seat: seat}, seat),
		broadcast(EventRoster, RosterPayload{Names: m.registry.Roster()}),
	}

	if m.registry.IsComplete() {
		events = append(events, m.startPlaying()...)
	}
	return events, nil
}

// startPlaying shuffles, deals, derives the characteristic table and
// opens seat 0's turn. Caller holds the write lock.
func (m *Machine) startPlaying() []Event {
	m.deck.Shuffle(m.rng)
	hands := m.deck.Deal()
	m.table = game.BuildTable(m.deck)

	events := make([]Event, 0, game.NumSeats+1)
	for seat := 0; seat < game.NumSeats; seat++ {
		hand := hands[seat]
		m.registry.Seat(seat).Hand = hand[:]
		events = append(events, unicast(EventHandDealt, HandDealtPayload{
			Seat:  seat,
			Hand:  hand,
			Stats: m.table[seat],
		}, seat))
	}

	m.currentTurn = 0
	m.phase = PhasePlaying
	events = append(events, broadcast(EventTurn, TurnPayload{Seat: m.currentTurn}))
	return events
}

// Accuse handles an ACCUSE command from the acting seat.
func (m *Machine) Accuse(actingSeat, cardID int) ([]Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.gateTurn(actingSeat); err != nil {
		return nil, err
	}
	if !game.ValidCardID(cardID) {
		return nil, ErrUnknownCard
	}

	if cardID == m.deck.Culprit() {
		m.winner = actingSeat
		m.phase = PhaseFinished
		return []Event{broadcast(EventVictory, VictoryPayload{Seat: actingSeat, CardID: cardID})}, nil
	}

	m.registry.Seat(actingSeat).Eliminated = true
	events := []Event{broadcast(EventWrongAccusation, WrongAccusationPayload{Seat: actingSeat, CardID: cardID})}
	return append(events, m.advanceTurn()...), nil
}

// AskYesNo handles an ASK_YESNO command. The answer is the culprit
// card's own profile, not any seat's aggregated row: a row sums three
// cards and would leak nothing reliable about the culprit.
func (m *Machine) AskYesNo(actingSeat, symbol int) ([]Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.gateTurn(actingSeat); err != nil {
		return nil, err
	}
	if !game.ValidSymbol(symbol) {
		return nil, ErrUnknownSymbol
	}

	culprit, _ := game.CardByID(m.deck.Culprit())
	answer := 0
	if culprit.Profile[symbol] > 0 {
		answer = 1
	}
	events := []Event{broadcast(EventYesNoResult, YesNoResultPayload{Symbol: symbol, Answer: answer})}
	return append(events, m.advanceTurn()...), nil
}

// AskStat handles an ASK_STAT command. The numeric answer goes to the
// asking seat alone.
func (m *Machine) AskStat(actingSeat, targetSeat, symbol int) ([]Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.gateTurn(actingSeat); err != nil {
		return nil, err
	}
	if !game.ValidSeat(targetSeat) {
		return nil, ErrUnknownSeat
	}
	if !game.ValidSymbol(symbol) {
		return nil, ErrUnknownSymbol
	}

	events := []Event{unicast(EventStatResult, StatResultPayload{
		Symbol: symbol,
		Count:  m.table[targetSeat][symbol],
	}, actingSeat)}
	return append(events, m.advanceTurn()...), nil
}

// gateTurn rejects game commands outside the playing phase or from any
// seat other than the current turn. Caller holds the write lock.
func (m *Machine) gateTurn(actingSeat int) error {
	if m.phase != PhasePlaying {
		return ErrNotPlaying
	}
	if !game.ValidSeat(actingSeat) {
		return ErrUnknownSeat
	}
	if actingSeat != m.currentTurn {
		return ErrNotYourTurn
	}
	return nil
}

// advanceTurn rotates to the next non-eliminated seat and announces
// it. The walk is bounded at four steps: if every seat is eliminated
// the session terminates instead of looping. Caller holds the write
// lock.
func (m *Machine) advanceTurn() []Event {
	for step := 1; step <= game.NumSeats; step++ {
		next := (m.currentTurn + step) % game.NumSeats
		if !m.registry.Seat(next).Eliminated {
			m.currentTurn = next
			return []Event{broadcast(EventTurn, TurnPayload{Seat: next})}
		}
	}
	m.exhausted = true
	m.phase = PhaseFinished
	return nil
}

// Resolve maps an event's recipient seats to dialable addresses, in
// seat order for broadcasts.
func (m *Machine) Resolve(recipients []int) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.registry.Addrs(recipients)
}

// SeatView is the observable, non-secret state of one seat.
type SeatView struct {
	Index      int
	Name       string
	Occupied   bool
	Eliminated bool
}

// Snapshot is a read-only view of the session for the observer API.
// It carries no hand and no culprit.
type Snapshot struct {
	SessionID   string
	Phase       Phase
	SeatCount   int
	CurrentTurn int
	Winner      int
	Seats       [game.NumSeats]SeatView
}

// Snapshot returns the observable session state.
func (m *Machine) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := Snapshot{
		SessionID:   m.id,
		Phase:       m.phase,
		SeatCount:   m.registry.Count(),
		CurrentTurn: m.currentTurn,
		Winner:      m.winner,
	}
	for i := range snap.Seats {
		seat := m.registry.Seat(i)
		snap.Seats[i] = SeatView{
			Index:      i,
			Name:       seat.Name,
			Occupied:   seat.Occupied(),
			Eliminated: seat.Eliminated,
		}
	}
	return snap
}
