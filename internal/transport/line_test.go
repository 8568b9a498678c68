package transport

import (
	"bufio"
	"net"
	"testing"
	"time"
)

func TestListenerReceivesLine(t *testing.T) {
	l, err := Listen("127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer l.Close()

	conn, err := net.Dial("tcp", l.Addr().String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	if _, err := conn.Write([]byte("CONNECT alice 4001\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	conn.Close()

	select {
	case in := <-l.Inbound():
		if in.Text != "CONNECT alice 4001" {
			t.Fatalf("text = %q", in.Text)
		}
		if in.Host != "127.0.0.1" {
			t.Fatalf("host = %q", in.Host)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no inbound line within deadline")
	}
}

func TestListenerCloseEndsChannel(t *testing.T) {
	l, err := Listen("127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	l.Close()

	select {
	case _, ok := <-l.Inbound():
		if ok {
			t.Fatal("expected closed inbound channel")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("inbound channel not closed within deadline")
	}
}

// A connection accepted just before Close must not crash the listener
// when its line arrives after shutdown began.
func TestLineAfterCloseIsDropped(t *testing.T) {
	l, err := Listen("127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	conn, err := net.Dial("tcp", l.Addr().String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Give the accept loop time to hand the connection to a reader.
	time.Sleep(100 * time.Millisecond)
	l.Close()

	if _, err := conn.Write([]byte("ACCUSE 1 5\n")); err != nil {
		t.Fatalf("write: %v", err)
	}

	// Drain until the channel closes. The late line may or may not be
	// delivered; the process surviving to closure is the contract.
	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-l.Inbound():
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("inbound channel not closed within deadline")
		}
	}
}

func TestSenderDeliversLine(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	got := make(chan string, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		line, _ := bufio.NewReader(conn).ReadString('\n')
		got <- line
	}()

	s := NewSender(2 * time.Second)
	if err := s.Send(ln.Addr().String(), "TURN 1"); err != nil {
		t.Fatalf("send: %v", err)
	}

	select {
	case line := <-got:
		if line != "TURN 1\n" {
			t.Fatalf("delivered %q, want %q", line, "TURN 1\n")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("nothing delivered within deadline")
	}
}

func TestSenderUnreachableDestination(t *testing.T) {
	// Grab a port that is definitely not listening.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	s := NewSender(500 * time.Millisecond)
	if err := s.Send(addr, "TURN 0"); err == nil {
		t.Fatal("expected an error dialing a closed port")
	}
}
