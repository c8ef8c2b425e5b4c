// Copyright 2026 RGB Protocol
//
// Tag-to-handler request dispatcher

package rpc

import (
	"log"

	"github.com/rgbprotocol/rgbd/pkg/rgberrors"
)

// RequestFunc handles one already-tag-stripped request payload and
// produces the reply to send back: its own reply tag, its strict-encoded
// payload, and an error if the request could not be serviced. Errors are
// turned into a TagFailure reply by the Dispatcher rather than propagated
// to the transport, so a single bad request never takes the event loop
// down.
type RequestFunc func(payload []byte) (ReplyTag, []byte, error)

// Dispatcher maps request tags to handlers: one small struct wiring a
// *log.Logger to a table of typed operations.
type Dispatcher struct {
	handlers map[uint16]RequestFunc
	logger   *log.Logger
}

// NewDispatcher builds an empty Dispatcher.
func NewDispatcher(logger *log.Logger) *Dispatcher {
	return &Dispatcher{handlers: map[uint16]RequestFunc{}, logger: logger}
}

// Register binds tag to fn. Registering the same tag twice is a
// programmer error, not a runtime one, so it panics at startup rather
// than silently shadowing.
func (d *Dispatcher) Register(tag uint16, fn RequestFunc) {
	if _, exists := d.handlers[tag]; exists {
		panic("rpc: duplicate handler registration for tag")
	}
	d.handlers[tag] = fn
}

// Handle implements bus.Handler: it strips the request tag, looks up the
// handler, and always returns a well-formed reply frame: an unknown tag
// becomes a Failure reply carrying ErrUnknownTag, never a transport error.
func (d *Dispatcher) Handle(frame []byte) ([]byte, error) {
	tag, payload, err := DecodeRequestTag(frame)
	if err != nil {
		d.logger.Printf("⚠️ rpc: %v", err)
		return EncodeFailure(err.Error()), nil
	}

	fn, ok := d.handlers[tag]
	if !ok {
		d.logger.Printf("⚠️ rpc: unknown request tag 0x%04x", tag)
		return EncodeFailure(rgberrors.ErrUnknownTag.Error()), nil
	}

	replyTag, replyPayload, err := fn(payload)
	if err != nil {
		d.logger.Printf("⚠️ rpc: request 0x%04x failed: %v", tag, err)
		return EncodeFailure(err.Error()), nil
	}
	return EncodeReply(replyTag, replyPayload), nil
}
