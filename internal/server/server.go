// Package server runs the session: one loop consumes inbound lines,
// feeds them to the state machine, and hands the resulting events to
// dispatch. Commands are processed strictly one at a time, matching
// the serial nature of turn-taking.
package server

import (
	"context"
	"errors"
	"math/rand"
	"net/http"
	"time"

	httpapi "sherlock13/internal/api/http"
	"sherlock13/internal/api/ws"
	"sherlock13/internal/config"
	"sherlock13/internal/dispatch"
	"sherlock13/internal/logger"
	"sherlock13/internal/metrics"
	"sherlock13/internal/session"
	"sherlock13/internal/transport"
	"sherlock13/internal/wire"
)

// ErrSeatsExhausted reports the degenerate end: all four seats
// eliminated themselves and no accusation can ever succeed.
var ErrSeatsExhausted = errors.New("all four seats eliminated, session unwinnable")

type Server struct {
	cfg      *config.Config
	machine  *session.Machine
	listener *transport.Listener
	disp     *dispatch.Dispatcher
	httpSrv  *http.Server
}

// New binds the game listener and assembles the server. A bind failure
// surfaces before any game state is observable.
func New(cfg *config.Config) (*Server, error) {
	listener, err := transport.Listen(cfg.GameAddr())
	if err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	machine := session.NewMachine(rand.New(rand.NewSource(seed)))

	hub := ws.NewHub()
	disp := dispatch.New(transport.NewSender(cfg.DialTimeout), hub)

	return &Server{
		cfg:      cfg,
		machine:  machine,
		listener: listener,
		disp:     disp,
		httpSrv: &http.Server{
			Addr:    cfg.HTTPAddr(),
			Handler: httpapi.NewRouter(machine, hub),
		},
	}, nil
}

// Run processes commands until the session finishes or ctx is
// cancelled. It returns nil after a victory (exit 0) and an error for
// the unwinnable terminal state.
func (s *Server) Run(ctx context.Context) error {
	go func() {
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("observer api stopped", "err", err)
		}
	}()

	logger.Info("session open",
		"session", s.machine.ID(),
		"game_addr", s.listener.Addr().String(),
		"http_addr", s.cfg.HTTPAddr(),
	)

	for {
		select {
		case <-ctx.Done():
			logger.Info("shutdown requested")
			return s.shutdown(nil)
		case in, ok := <-s.listener.Inbound():
			if !ok {
				return s.shutdown(errors.New("game listener closed unexpectedly"))
			}
			s.handleLine(in)

			if s.machine.Phase() == session.PhaseFinished {
				if winner := s.machine.Winner(); winner >= 0 {
					logger.Info("session won", "seat", winner)
					return s.shutdown(nil)
				}
				return s.shutdown(ErrSeatsExhausted)
			}
		}
	}
}

// shutdown stops intake, drains pending deliveries so terminal
// broadcasts flush, then closes the observer side.
func (s *Server) shutdown(cause error) error {
	_ = s.listener.Close()
	s.disp.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.httpSrv.Shutdown(ctx)

	return cause
}

func (s *Server) handleLine(in transport.Inbound) {
	cmd, err := wire.ParseCommand(in.Text)
	if err != nil {
		metrics.CommandsRejected.WithLabelValues("malformed").Inc()
		logger.Debug("dropping unparseable line", "host", in.Host, "line", in.Text, "err", err)
		return
	}

	var events []session.Event
	switch c := cmd.(type) {
	case wire.Connect:
		events, err = s.machine.Connect(c.Name, in.Host, c.Port)
	case wire.Accuse:
		events, err = s.machine.Accuse(c.Seat, c.CardID)
	case wire.AskYesNo:
		events, err = s.machine.AskYesNo(c.Seat, c.Symbol)
	case wire.AskStat:
		events, err = s.machine.AskStat(c.Seat, c.Target, c.Symbol)
	}
	if err != nil {
		metrics.CommandsRejected.WithLabelValues(rejectReason(err)).Inc()
		logger.Debug("rejecting command",
			"tag", wire.CommandTag(cmd), "host", in.Host, "reason", err)
		return
	}

	metrics.CommandsAccepted.WithLabelValues(wire.CommandTag(cmd)).Inc()
	s.logProgress(cmd, in.Host, events)
	s.disp.Dispatch(s.encode(events))
}

// encode turns the machine's ordered events into addressed deliveries,
// preserving order. Recipient addresses are resolved here, while the
// loop still owns the state the events were computed from.
func (s *Server) encode(events []session.Event) []dispatch.Delivery {
	batch := make([]dispatch.Delivery, 0, len(events))
	for _, ev := range events {
		line, err := wire.EncodeEvent(ev)
		if err != nil {
			logger.Error("unencodable event", "kind", ev.Kind, "err", err)
			continue
		}
		batch = append(batch, dispatch.Delivery{
			Tag:       wire.EventTag(ev.Kind),
			Line:      line,
			Addrs:     s.machine.Resolve(ev.Recipients),
			Broadcast: ev.Recipients == nil,
		})
	}
	return batch
}

func (s *Server) logProgress(cmd any, host string, events []session.Event) {
	switch c := cmd.(type) {
	case wire.Connect:
		logger.Info("player seated", "name", c.Name, "host", host, "port", c.Port)
	case wire.Accuse:
		logger.Info("accusation", "seat", c.Seat, "card", c.CardID)
	}

	for _, ev := range events {
		switch ev.Kind {
		case session.EventHandDealt:
			// First hand event marks the lobby->playing transition.
			if p, ok := ev.Payload.(session.HandDealtPayload); ok && p.Seat == 0 {
				logger.Info("all seats filled, game started", "session", s.machine.ID())
				if culprit, ok := s.machine.Culprit(); ok {
					logger.Debug("culprit drawn", "card", culprit.ID, "name", culprit.Name)
				}
			}
		case session.EventVictory:
			if p, ok := ev.Payload.(session.VictoryPayload); ok {
				logger.Info("correct accusation", "seat", p.Seat, "card", p.CardID)
			}
		case session.EventWrongAccusation:
			if p, ok := ev.Payload.(session.WrongAccusationPayload); ok {
				logger.Info("seat eliminated", "seat", p.Seat, "card", p.CardID)
			}
		}
	}
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, session.ErrSessionFull):
		return "session_full"
	case errors.Is(err, session.ErrDuplicateName):
		return "duplicate_name"
	case errors.Is(err, session.ErrNotYourTurn):
		return "wrong_turn"
	case errors.Is(err, session.ErrNotInLobby), errors.Is(err, session.ErrNotPlaying):
		return "wrong_phase"
	default:
		return "bad_field"
	}
}
