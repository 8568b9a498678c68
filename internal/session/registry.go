package session

import (
	"errors"
	"net"
	"strconv"

	"sherlock13/internal/game"
)

// RosterPlaceholder stands in for an unfilled seat in roster broadcasts.
const RosterPlaceholder = "-"

var (
	ErrSessionFull   = errors.New("all four seats are occupied")
	ErrDuplicateName = errors.New("name already occupies a seat")
)

// Endpoint is the address a seated player listens on. Every delivery is
// its own dial to this address; no live connection is kept.
type Endpoint struct {
	Host string
	Port int
}

// Addr returns the endpoint in host:port form.
func (e Endpoint) Addr() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
}

// Seat is one of the four fixed player slots. Seats are only ever
// filled, never removed.
type Seat struct {
	Index      int
	Name       string
	Endpoint   Endpoint
	Eliminated bool
	Hand       []int // 3 card ids once dealt, empty in the lobby
}

// Occupied reports whether a player has been assigned to the seat.
func (s Seat) Occupied() bool {
	return s.Name != ""
}

// Registry tracks the four seats of a session in registration order.
type Registry struct {
	seats [game.NumSeats]Seat
	count int
}

func NewRegistry() *Registry {
	r := &Registry{}
	for i := range r.seats {
		r.seats[i].Index = i
	}
	return r
}

// Register assigns the next free seat to name. Over-capacity and
// duplicate names are rejected without touching any seat.
func (r *Registry) Register(name string, ep Endpoint) (int, error) {
	if r.count >= game.NumSeats {
		return 0, ErrSessionFull
	}
	for i := 0; i < r.count; i++ {
		if r.seats[i].Name == name {
			return 0, ErrDuplicateName
		}
	}
	idx := r.count
	r.seats[idx].Name = name
	r.seats[idx].Endpoint = ep
	r.count++
	return idx, nil
}

// IsComplete reports whether all four seats are filled.
func (r *Registry) IsComplete() bool {
	return r.count == game.NumSeats
}

// Count returns the number of filled seats.
func (r *Registry) Count() int {
	return r.count
}

// Seat returns a pointer to the seat at index. The registry retains
// ownership; callers must not hold the pointer across commands.
func (r *Registry) Seat(index int) *Seat {
	return &r.seats[index]
}

// Roster returns the four seat names in order, with a placeholder for
// seats not yet filled.
func (r *Registry) Roster() [game.NumSeats]string {
	var names [game.NumSeats]string
	for i, s := range r.seats {
		if s.Occupied() {
			names[i] = s.Name
		} else {
			names[i] = RosterPlaceholder
		}
	}
	return names
}

// Addrs resolves recipient seat indexes to dialable addresses. A nil
// slice resolves to every occupied seat, in seat order.
func (r *Registry) Addrs(recipients []int) []string {
	if recipients == nil {
		addrs := make([]string, 0, r.count)
		for i := 0; i < r.count; i++ {
			addrs = append(addrs, r.seats[i].Endpoint.Addr())
		}
		return addrs
	}
	addrs := make([]string, 0, len(recipients))
	for _, idx := range recipients {
		if game.ValidSeat(idx) && r.seats[idx].Occupied() {
			addrs = append(addrs, r.seats[idx].Endpoint.Addr())
		}
	}
	return addrs
}
