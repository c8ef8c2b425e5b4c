// Copyright 2026 RGB Protocol
//
// Tag-prefixed wire envelope encoding

package rpc

import (
	"github.com/rgbprotocol/rgbd/pkg/rgberrors"
	"github.com/rgbprotocol/rgbd/pkg/strictenc"
)

// EncodeRequest produces the wire form of a request: the 2-byte tag
// followed by the already strict-encoded payload.
func EncodeRequest(tag uint16, payload []byte) []byte {
	w := strictenc.NewWriter()
	w.U16(tag)
	w.Raw(payload)
	return w.Bytes()
}

// DecodeRequestTag reads the leading tag off a request frame, returning
// the remaining bytes as the still-encoded payload.
func DecodeRequestTag(frame []byte) (tag uint16, payload []byte, err error) {
	if len(frame) < 2 {
		return 0, nil, rgberrors.New(rgberrors.KindParse, "rpc: request frame shorter than a tag")
	}
	tag = uint16(frame[0]) | uint16(frame[1])<<8
	return tag, frame[2:], nil
}

// EncodeReply produces the wire form of a reply: the reply tag followed
// by its strict-encoded payload.
func EncodeReply(tag ReplyTag, payload []byte) []byte {
	return EncodeRequest(uint16(tag), payload)
}

// DecodeReplyTag reads the leading reply tag off a reply frame.
func DecodeReplyTag(frame []byte) (tag ReplyTag, payload []byte, err error) {
	rawTag, payload, err := DecodeRequestTag(frame)
	if err != nil {
		return 0, nil, err
	}
	return ReplyTag(rawTag), payload, nil
}

// FailureMessage decodes a TagFailure reply's payload: a single
// varint-length-prefixed UTF-8 message.
func FailureMessage(payload []byte) (string, error) {
	var msg string
	err := strictenc.Decode(payload, func(r *strictenc.Reader) error {
		s, err := r.VarString()
		if err != nil {
			return err
		}
		msg = s
		return nil
	})
	return msg, err
}

// EncodeFailure builds a TagFailure reply carrying msg.
func EncodeFailure(msg string) []byte {
	w := strictenc.NewWriter()
	_ = w.VarString(msg)
	return EncodeReply(TagFailure, w.Bytes())
}
