// Copyright 2026 RGB Protocol
//
// Length-prefixed message framing

package bus

import (
	"encoding/binary"
	"fmt"
	"io"
)

// maxFrameSize bounds a single message so a malformed or hostile peer
// can't force an unbounded allocation from a length prefix alone.
const maxFrameSize = 64 << 20

// writeFrame writes a length-prefixed message: a fixed 4-byte
// little-endian length followed by the payload, guaranteeing the reader
// either gets the whole message or an error, the delivery contract every
// socket role promises its peer.
func writeFrame(w io.Writer, payload []byte) error {
	if len(payload) > maxFrameSize {
		return fmt.Errorf("bus: frame of %d bytes exceeds %d byte limit", len(payload), maxFrameSize)
	}
	var header [4]byte
	binary.LittleEndian.PutUint32(header[:], uint32(len(payload)))
	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}

// readFrame reads one length-prefixed message written by writeFrame.
func readFrame(r io.Reader) ([]byte, error) {
	var header [4]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, err
	}
	n := binary.LittleEndian.Uint32(header[:])
	if n > maxFrameSize {
		return nil, fmt.Errorf("bus: declared frame length %d exceeds %d byte limit", n, maxFrameSize)
	}
	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}
	return payload, nil
}
