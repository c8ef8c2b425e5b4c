// Copyright 2026 RGB Protocol
//
// Error taxonomy: bootstrap, transport, protocol, domain, parse

// Package rgberrors defines the error taxonomy used across the engine:
// Bootstrap, Transport, Protocol, Domain, and Parse kinds.
// The kinds are not distinct Go types; callers that need to recover
// differently per kind use errors.Is against the sentinel values below,
// or KindOf(err) to read the tag off a wrapped error.
package rgberrors

import (
	"errors"
	"fmt"
)

// Kind tags one of the engine's five error categories.
type Kind int

const (
	// KindBootstrap errors are fatal: misconfiguration, endpoint binding
	// failure, storage/schema installation failure. The process exits.
	KindBootstrap Kind = iota
	// KindTransport errors are socket send/receive/framing failures.
	// Logged; the event loop continues.
	KindTransport
	// KindProtocol errors are malformed/unknown/mistyped requests or an
	// unexpected reply shape. Recovered locally as a Failure reply.
	KindProtocol
	// KindDomain errors are schema violations, validation failures,
	// missing ancestors, cache misses, stash rejections.
	KindDomain
	// KindParse errors are numeric/outpoint parsing failures in inputs.
	KindParse
)

func (k Kind) String() string {
	switch k {
	case KindBootstrap:
		return "bootstrap"
	case KindTransport:
		return "transport"
	case KindProtocol:
		return "protocol"
	case KindDomain:
		return "domain"
	case KindParse:
		return "parse"
	default:
		return "unknown"
	}
}

// taggedError attaches a Kind to a wrapped cause without inventing a new
// sentinel per call site, letting dispatchers branch on category rather
// than exact message text.
type taggedError struct {
	kind  Kind
	msg   string
	cause error
}

func (e *taggedError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.kind, e.msg, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.kind, e.msg)
}

func (e *taggedError) Unwrap() error { return e.cause }

// New creates a Kind-tagged error with no wrapped cause.
func New(kind Kind, msg string) error {
	return &taggedError{kind: kind, msg: msg}
}

// Wrap tags cause with kind, preserving it for errors.Is/As/Unwrap.
func Wrap(kind Kind, msg string, cause error) error {
	if cause == nil {
		return New(kind, msg)
	}
	return &taggedError{kind: kind, msg: msg, cause: cause}
}

// KindOf reports the Kind of err if it (or something it wraps) was
// produced by New/Wrap, and false otherwise.
func KindOf(err error) (Kind, bool) {
	var te *taggedError
	if errors.As(err, &te) {
		return te.kind, true
	}
	return 0, false
}

// Sentinel errors referenced directly by callers that need errors.Is
// checks independent of message text: the protocol-kind errors the
// dispatcher converts into a Failure reply by name.
var (
	ErrUnknownTag        = New(KindProtocol, "unknown request/reply tag")
	ErrMissingArgument   = New(KindProtocol, "missing argument")
	ErrWrongArgumentType = New(KindProtocol, "wrong argument type")
	ErrUnexpectedReply   = New(KindProtocol, "unexpected reply shape")
	ErrMalformedArgument = New(KindParse, "malformed argument")

	ErrCacheMiss       = New(KindDomain, "cache miss")
	ErrStashRejection  = New(KindDomain, "stash rejection")
	ErrMissingAncestor = New(KindDomain, "missing ancestor")
)
