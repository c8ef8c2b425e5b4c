// Copyright 2026 RGB Protocol
//
// Loopback transport tests

package bus

import (
	"bytes"
	"log"
	"os"
	"testing"
	"time"
)

func testLogger() *log.Logger {
	return log.New(os.Stderr, "[bus-test] ", log.LstdFlags)
}

func TestRequestReplyRoundTrip(t *testing.T) {
	rep, err := NewReplySocket("tcp://127.0.0.1:0", testLogger())
	if err != nil {
		t.Fatalf("NewReplySocket: %v", err)
	}
	defer rep.Close()

	addr := rep.listener.Addr().String()
	go rep.Serve(func(req []byte) ([]byte, error) {
		return append([]byte("echo:"), req...), nil
	})

	req := NewRequestSocket("tcp://" + addr)
	reply, err := req.Call([]byte("ping"))
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if !bytes.Equal(reply, []byte("echo:ping")) {
		t.Fatalf("unexpected reply: %q", reply)
	}
}

func TestPublishSubscribe(t *testing.T) {
	pub, err := NewPublishSocket("tcp://127.0.0.1:0", testLogger())
	if err != nil {
		t.Fatalf("NewPublishSocket: %v", err)
	}
	defer pub.Close()

	addr := pub.listener.Addr().String()
	sub, err := NewSubscribeSocket("tcp://"+addr, testLogger())
	if err != nil {
		t.Fatalf("NewSubscribeSocket: %v", err)
	}
	defer sub.Close()

	// give the publisher's accept loop a moment to register the subscriber.
	time.Sleep(50 * time.Millisecond)

	received := make(chan []byte, 1)
	go sub.Listen(func(msg []byte) { received <- msg })

	pub.Publish([]byte("notify"))

	select {
	case msg := <-received:
		if !bytes.Equal(msg, []byte("notify")) {
			t.Fatalf("unexpected message: %q", msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for published message")
	}
}

func TestBusErrorNamesRole(t *testing.T) {
	err := newError(RoleSubscribe, "tcp://127.0.0.1:1", someErr{})
	busErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *Error, got %T", err)
	}
	if busErr.Role != RoleSubscribe {
		t.Fatalf("expected RoleSubscribe, got %v", busErr.Role)
	}
	if busErr.Role.String() != "subscribe" {
		t.Fatalf("role name mismatch: %q", busErr.Role.String())
	}
}

type someErr struct{}

func (someErr) Error() string { return "boom" }
