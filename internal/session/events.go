package session

import "sherlock13/internal/game"

// EventKind identifies an outbound protocol event.
type EventKind string

const (
	EventAssignedID      EventKind = "assigned_id"
	EventRoster          EventKind = "roster"
	EventHandDealt       EventKind = "hand_dealt"
	EventTurn            EventKind = "turn"
	EventVictory         EventKind = "victory"
	EventWrongAccusation EventKind = "wrong_accusation"
	EventYesNoResult     EventKind = "yesno_result"
	EventStatResult      EventKind = "stat_result"
)

// Event is one outbound protocol event with optional targeted recipients.
// A nil Recipients slice means broadcast to every registered seat. The
// order of events returned by a command handler is the order they must
// reach the transport.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []int
}

type AssignedIDPayload struct {
	Seat int
}

type RosterPayload struct {
	Names [game.NumSeats]string
}

// HandDealtPayload carries one seat's private hand and its own
// characteristic row, never another seat's.
type HandDealtPayload struct {
	Seat  int
	Hand  [game.HandSize]int
	Stats [game.NumColumns]int
}

type TurnPayload struct {
	Seat int
}

type VictoryPayload struct {
	Seat   int
	CardID int
}

type WrongAccusationPayload struct {
	Seat   int
	CardID int
}

type YesNoResultPayload struct {
	Symbol int
	Answer int // 1 if the culprit card shows the symbol, else 0
}

type StatResultPayload struct {
	Symbol int
	Count  int
}

func broadcast(kind EventKind, payload any) Event {
	return Event{Kind: kind, Payload: payload}
}

func unicast(kind EventKind, payload any, seat int) Event {
	return Event{Kind: kind, Payload: payload, Recipients: []int{seat}}
}
