// Package transport is the raw line transport: it accepts connections
// carrying one newline-terminated command each, and delivers outbound
// lines by dialing the destination fresh per message.
package transport

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"sherlock13/internal/logger"
)

// maxLine bounds a single inbound frame; the protocol's longest legal
// line is far below this.
const maxLine = 512

// Inbound is one received line together with the sender's host, which
// the wire format itself does not carry.
type Inbound struct {
	Host string
	Text string
}

// Listener accepts game connections and funnels their lines into a
// single channel, one goroutine per connection.
type Listener struct {
	ln      net.Listener
	inbound chan Inbound
	done    chan struct{}
	once    sync.Once
	wg      sync.WaitGroup
}

// Listen binds the game port. A bind failure here is fatal for the
// process; no game state exists yet.
func Listen(addr string) (*Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("bind game listener on %s: %w", addr, err)
	}
	l := &Listener{
		ln:      ln,
		inbound: make(chan Inbound, 16),
		done:    make(chan struct{}),
	}
	go l.acceptLoop()
	return l, nil
}

// Inbound returns the channel of received lines. It is closed when the
// listener shuts down.
func (l *Listener) Inbound() <-chan Inbound {
	return l.inbound
}

// Addr returns the bound listen address.
func (l *Listener) Addr() net.Addr {
	return l.ln.Addr()
}

// Close stops accepting connections. Lines from connections accepted
// earlier are dropped rather than delivered.
func (l *Listener) Close() error {
	l.once.Do(func() {
		close(l.done)
	})
	return l.ln.Close()
}

// acceptLoop waits for every in-flight readOne before closing inbound,
// so a connection accepted just before Close can never send on a
// closed channel.
func (l *Listener) acceptLoop() {
	for {
		conn, err := l.ln.Accept()
		if err != nil {
			if !errors.Is(err, net.ErrClosed) {
				logger.Warn("accept failed", "err", err)
			}
			break
		}
		l.wg.Add(1)
		go l.readOne(conn)
	}
	l.wg.Wait()
	close(l.inbound)
}

// readOne consumes a single line from the connection and closes it.
// Clients open a fresh connection per command, mirroring the server's
// dial-per-delivery sends.
func (l *Listener) readOne(conn net.Conn) {
	defer l.wg.Done()
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(10 * time.Second))
	line, err := bufio.NewReaderSize(conn, maxLine).ReadString('\n')
	if err != nil && line == "" {
		logger.Debug("dropping unreadable frame", "remote", conn.RemoteAddr().String(), "err", err)
		return
	}

	host, _, err := net.SplitHostPort(conn.RemoteAddr().String())
	if err != nil {
		host = conn.RemoteAddr().String()
	}

	select {
	case l.inbound <- Inbound{Host: host, Text: strings.TrimRight(line, "\r\n")}:
	case <-l.done:
		// Shutting down; nobody will act on the command anyway.
	}
}

// Sender delivers one line per call, each on its own dialed
// connection. Best effort: the caller decides what a failure means.
type Sender struct {
	timeout time.Duration
}

func NewSender(timeout time.Duration) *Sender {
	return &Sender{timeout: timeout}
}

// Send dials addr, writes line plus newline, and closes.
func (s *Sender) Send(addr, line string) error {
	conn, err := net.DialTimeout("tcp", addr, s.timeout)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	_ = conn.SetWriteDeadline(time.Now().Add(s.timeout))
	if _, err := conn.Write([]byte(line + "\n")); err != nil {
		return fmt.Errorf("write to %s: %w", addr, err)
	}
	return nil
}
