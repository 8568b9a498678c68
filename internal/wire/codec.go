// Package wire encodes and decodes the line-oriented protocol: one
// message per line, space-separated tokens, first token is the tag.
package wire

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"sherlock13/internal/session"
)

// Message tags.
const (
	TagConnect         = "CONNECT"
	TagAssignedID      = "ASSIGNED_ID"
	TagRoster          = "ROSTER"
	TagHandDealt       = "HAND_DEALT"
	TagTurn            = "TURN"
	TagAccuse          = "ACCUSE"
	TagVictory         = "VICTORY"
	TagWrongAccusation = "WRONG_ACCUSATION"
	TagAskYesNo        = "ASK_YESNO"
	TagYesNoResult     = "YESNO_RESULT"
	TagAskStat         = "ASK_STAT"
	TagStatResult      = "STAT_RESULT"
)

var (
	ErrEmpty      = errors.New("empty line")
	ErrUnknownTag = errors.New("unknown message tag")
	ErrMalformed  = errors.New("malformed message fields")
)

// Inbound command shapes. The sender's address is not on the wire; the
// transport supplies it alongside the line.
type (
	Connect struct {
		Name string
		Port int
	}
	Accuse struct {
		Seat   int
		CardID int
	}
	AskYesNo struct {
		Seat   int
		Symbol int
	}
	AskStat struct {
		Seat   int
		Target int
		Symbol int
	}
)

// ParseCommand decodes one inbound line into a command struct. Any
// failure is a protocol error the caller drops silently.
func ParseCommand(line string) (any, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, ErrEmpty
	}
	switch fields[0] {
	case TagConnect:
		if len(fields) != 3 {
			return nil, ErrMalformed
		}
		port, err := strconv.Atoi(fields[2])
		if err != nil {
			return nil, fmt.Errorf("%w: port %q", ErrMalformed, fields[2])
		}
		return Connect{Name: fields[1], Port: port}, nil
	case TagAccuse:
		args, err := intFields(fields[1:], 2)
		if err != nil {
			return nil, err
		}
		return Accuse{Seat: args[0], CardID: args[1]}, nil
	case TagAskYesNo:
		args, err := intFields(fields[1:], 2)
		if err != nil {
			return nil, err
		}
		return AskYesNo{Seat: args[0], Symbol: args[1]}, nil
	case TagAskStat:
		args, err := intFields(fields[1:], 3)
		if err != nil {
			return nil, err
		}
		return AskStat{Seat: args[0], Target: args[1], Symbol: args[2]}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTag, fields[0])
	}
}

// CommandTag returns the wire tag a parsed command arrived under.
func CommandTag(cmd any) string {
	switch cmd.(type) {
	case Connect:
		return TagConnect
	case Accuse:
		return TagAccuse
	case AskYesNo:
		return TagAskYesNo
	case AskStat:
		return TagAskStat
	default:
		return ""
	}
}

// EncodeEvent renders an outbound event as one wire line, without the
// trailing newline.
func EncodeEvent(ev session.Event) (string, error) {
	switch p := ev.Payload.(type) {
	case session.AssignedIDPayload:
		return fmt.Sprintf("%s %d", TagAssignedID, p.Seat), nil
	case session.RosterPayload:
		return TagRoster + " " + strings.Join(p.Names[:], " "), nil
	case session.HandDealtPayload:
		parts := make([]string, 0, 1+len(p.Hand)+len(p.Stats))
		parts = append(parts, TagHandDealt)
		for _, card := range p.Hand {
			parts = append(parts, strconv.Itoa(card))
		}
		for _, n := range p.Stats {
			parts = append(parts, strconv.Itoa(n))
		}
		return strings.Join(parts, " "), nil
	case session.TurnPayload:
		return fmt.Sprintf("%s %d", TagTurn, p.Seat), nil
	case session.VictoryPayload:
		return fmt.Sprintf("%s %d %d", TagVictory, p.Seat, p.CardID), nil
	case session.WrongAccusationPayload:
		return fmt.Sprintf("%s %d %d", TagWrongAccusation, p.Seat, p.CardID), nil
	case session.YesNoResultPayload:
		return fmt.Sprintf("%s %d %d", TagYesNoResult, p.Symbol, p.Answer), nil
	case session.StatResultPayload:
		return fmt.Sprintf("%s %d %d", TagStatResult, p.Symbol, p.Count), nil
	default:
		return "", fmt.Errorf("no wire encoding for event kind %q", ev.Kind)
	}
}

// EventTag returns the wire tag an event encodes under.
func EventTag(kind session.EventKind) string {
	switch kind {
	case session.EventAssignedID:
		return TagAssignedID
	case session.EventRoster:
		return TagRoster
	case session.EventHandDealt:
		return TagHandDealt
	case session.EventTurn:
		return TagTurn
	case session.EventVictory:
		return TagVictory
	case session.EventWrongAccusation:
		return TagWrongAccusation
	case session.EventYesNoResult:
		return TagYesNoResult
	case session.EventStatResult:
		return TagStatResult
	default:
		return ""
	}
}

func intFields(fields []string, want int) ([]int, error) {
	if len(fields) != want {
		return nil, ErrMalformed
	}
	out := make([]int, want)
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("%w: field %q", ErrMalformed, f)
		}
		out[i] = n
	}
	return out, nil
}
