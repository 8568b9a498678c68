package http

import "sherlock13/internal/session"

// SeatDTO is one seat in the session response. Hands are never exposed.
type SeatDTO struct {
	Seat       int    `json:"seat"`
	Name       string `json:"name"`
	Occupied   bool   `json:"occupied"`
	Eliminated bool   `json:"eliminated"`
}

// SessionDTO is the read-only session view served to operators.
type SessionDTO struct {
	SessionID   string    `json:"session_id"`
	Phase       string    `json:"phase"`
	SeatCount   int       `json:"seat_count"`
	CurrentTurn int       `json:"current_turn"`
	Winner      *int      `json:"winner,omitempty"`
	Seats       []SeatDTO `json:"seats"`
}

func toSessionDTO(snap session.Snapshot) SessionDTO {
	dto := SessionDTO{
		SessionID:   snap.SessionID,
		Phase:       string(snap.Phase),
		SeatCount:   snap.SeatCount,
		CurrentTurn: snap.CurrentTurn,
		Seats:       make([]SeatDTO, 0, len(snap.Seats)),
	}
	if snap.Winner >= 0 {
		winner := snap.Winner
		dto.Winner = &winner
	}
	for _, s := range snap.Seats {
		dto.Seats = append(dto.Seats, SeatDTO{
			Seat:       s.Index,
			Name:       s.Name,
			Occupied:   s.Occupied,
			Eliminated: s.Eliminated,
		})
	}
	return dto
}
