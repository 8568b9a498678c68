package http

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"sherlock13/internal/api/ws"
	"sherlock13/internal/session"

	// Collectors register with the default registry on import; the
	// server binary gets them through the dispatch package.
	_ "sherlock13/internal/metrics"
)

func newTestRouter(t *testing.T) (*session.Machine, http.Handler) {
	t.Helper()
	m := session.NewMachine(rand.New(rand.NewSource(8)))
	return m, NewRouter(m, ws.NewHub())
}

func TestHealthz(t *testing.T) {
	_, router := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestSessionSnapshotLobby(t *testing.T) {
	_, router := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/session", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var dto SessionDTO
	if err := json.Unmarshal(w.Body.Bytes(), &dto); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if dto.Phase != "lobby" || dto.SeatCount != 0 {
		t.Fatalf("lobby snapshot = %+v", dto)
	}
	if dto.Winner != nil {
		t.Fatalf("winner should be absent, got %v", *dto.Winner)
	}
	if len(dto.Seats) != 4 {
		t.Fatalf("seats = %d, want 4", len(dto.Seats))
	}
}

func TestSessionSnapshotPlaying(t *testing.T) {
	m, router := newTestRouter(t)
	for i, name := range []string{"alice", "bob", "carol", "dave"} {
		if _, err := m.Connect(name, "10.0.0.1", 4000+i); err != nil {
			t.Fatalf("connect %q: %v", name, err)
		}
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/session", nil))

	var dto SessionDTO
	if err := json.Unmarshal(w.Body.Bytes(), &dto); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if dto.Phase != "playing" || dto.SeatCount != 4 || dto.CurrentTurn != 0 {
		t.Fatalf("playing snapshot = %+v", dto)
	}
	if dto.Seats[1].Name != "bob" || dto.Seats[1].Eliminated {
		t.Fatalf("seat 1 = %+v", dto.Seats[1])
	}

	// No hand, card or endpoint data may appear on this surface.
	body := strings.ToLower(w.Body.String())
	for _, leak := range []string{"hand", "card", "culprit", "endpoint", "port"} {
		if strings.Contains(body, leak) {
			t.Fatalf("session body leaks %q: %s", leak, body)
		}
	}
}

func TestMetricsEndpointExposed(t *testing.T) {
	_, router := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "sherlock13_") {
		t.Fatal("metrics body missing sherlock13 collectors")
	}
}
