// Copyright 2026 RGB Protocol
//
// Envelope, dispatcher, and client tests

package rpc

import (
	"bytes"
	"errors"
	"log"
	"os"
	"testing"

	"github.com/rgbprotocol/rgbd/pkg/bus"
	"github.com/rgbprotocol/rgbd/pkg/rgberrors"
	"github.com/rgbprotocol/rgbd/pkg/strictenc"
)

func testLogger() *log.Logger { return log.New(os.Stderr, "[rpc-test] ", log.LstdFlags) }

func TestEncodeDecodeRequestRoundTrip(t *testing.T) {
	w := strictenc.NewWriter()
	_ = w.VarString("hello")
	frame := EncodeRequest(uint16(TagListSchemata), w.Bytes())

	tag, payload, err := DecodeRequestTag(frame)
	if err != nil {
		t.Fatalf("DecodeRequestTag: %v", err)
	}
	if tag != uint16(TagListSchemata) {
		t.Fatalf("tag mismatch: got 0x%04x", tag)
	}
	s, err := strictenc.NewReader(payload).VarString()
	if err != nil {
		t.Fatalf("VarString: %v", err)
	}
	if s != "hello" {
		t.Fatalf("payload mismatch: %q", s)
	}
}

func TestFailureRoundTrip(t *testing.T) {
	frame := EncodeFailure("schema not found")
	tag, payload, err := DecodeReplyTag(frame)
	if err != nil {
		t.Fatalf("DecodeReplyTag: %v", err)
	}
	if tag != TagFailure {
		t.Fatalf("expected TagFailure, got %v", tag)
	}
	msg, err := FailureMessage(payload)
	if err != nil {
		t.Fatalf("FailureMessage: %v", err)
	}
	if msg != "schema not found" {
		t.Fatalf("message mismatch: %q", msg)
	}
}

func TestDispatcherUnknownTagReturnsFailure(t *testing.T) {
	d := NewDispatcher(testLogger())
	reply, err := d.Handle(EncodeRequest(0xFFFF, nil))
	if err != nil {
		t.Fatalf("Handle should never return a transport error, got %v", err)
	}
	tag, payload, err := DecodeReplyTag(reply)
	if err != nil {
		t.Fatalf("DecodeReplyTag: %v", err)
	}
	if tag != TagFailure {
		t.Fatalf("expected TagFailure for unknown tag, got %v", tag)
	}
	msg, err := FailureMessage(payload)
	if err != nil {
		t.Fatalf("FailureMessage: %v", err)
	}
	if msg != rgberrors.ErrUnknownTag.Error() {
		t.Fatalf("unexpected failure message: %q", msg)
	}
}

func TestDispatcherRoutesRegisteredTag(t *testing.T) {
	d := NewDispatcher(testLogger())
	d.Register(uint16(TagReadSchema), func(payload []byte) (ReplyTag, []byte, error) {
		return TagSuccess, []byte("ok"), nil
	})

	reply, err := d.Handle(EncodeRequest(uint16(TagReadSchema), nil))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	tag, payload, err := DecodeReplyTag(reply)
	if err != nil {
		t.Fatalf("DecodeReplyTag: %v", err)
	}
	if tag != TagSuccess || !bytes.Equal(payload, []byte("ok")) {
		t.Fatalf("unexpected reply: tag=%v payload=%q", tag, payload)
	}
}

func TestDispatcherRegisterPanicsOnDuplicate(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on duplicate registration")
		}
	}()
	d := NewDispatcher(testLogger())
	d.Register(uint16(TagForget), func([]byte) (ReplyTag, []byte, error) { return TagSuccess, nil, nil })
	d.Register(uint16(TagForget), func([]byte) (ReplyTag, []byte, error) { return TagSuccess, nil, nil })
}

// TestClientRejectsUnexpectedReply injects a syntactically valid reply of
// the wrong shape, a Genesis reply where a Success was expected, and
// requires the client to surface ErrUnexpectedReply rather than crash or
// misinterpret the payload.
func TestClientRejectsUnexpectedReply(t *testing.T) {
	rep, err := bus.NewReplySocket("tcp://127.0.0.1:0", testLogger())
	if err != nil {
		t.Fatalf("NewReplySocket: %v", err)
	}
	defer rep.Close()
	go rep.Serve(func([]byte) ([]byte, error) {
		return EncodeReply(TagGenesisReply, nil), nil
	})

	client := NewClient(bus.NewRequestSocket("tcp://" + rep.Addr()))
	_, _, err = client.Call(uint16(TagAddSchema), nil, TagSuccess)
	if !errors.Is(err, rgberrors.ErrUnexpectedReply) {
		t.Fatalf("expected ErrUnexpectedReply, got %v", err)
	}
}
