// Copyright 2026 RGB Protocol
//
// Typed RPC client with unexpected-reply detection

package rpc

import (
	"github.com/rgbprotocol/rgbd/pkg/bus"
	"github.com/rgbprotocol/rgbd/pkg/rgberrors"
)

// Client sends typed requests over a bus.RequestSocket and expects one of
// a small set of acceptable reply tags back.
type Client struct {
	socket *bus.RequestSocket
}

// NewClient wraps a request socket addressed at a reply endpoint; the
// socket dials on each Call.
func NewClient(socket *bus.RequestSocket) *Client {
	return &Client{socket: socket}
}

// Call sends a request with the given tag and payload, and requires the
// reply tag to be one of want. Any other reply tag, including a
// syntactically valid one this call didn't ask for, is an
// ErrUnexpectedReply protocol error.
func (c *Client) Call(tag uint16, payload []byte, want ...ReplyTag) (ReplyTag, []byte, error) {
	frame, err := c.socket.Call(EncodeRequest(tag, payload))
	if err != nil {
		return 0, nil, rgberrors.Wrap(rgberrors.KindTransport, "rpc call", err)
	}
	replyTag, replyPayload, err := DecodeReplyTag(frame)
	if err != nil {
		return 0, nil, rgberrors.Wrap(rgberrors.KindProtocol, "rpc decode reply", err)
	}
	if replyTag == TagFailure {
		msg, decErr := FailureMessage(replyPayload)
		if decErr != nil {
			return replyTag, replyPayload, rgberrors.Wrap(rgberrors.KindProtocol, "rpc decode failure", decErr)
		}
		return replyTag, replyPayload, rgberrors.Wrap(rgberrors.KindDomain, "rpc failure reply", rgberrors.New(rgberrors.KindDomain, msg))
	}
	for _, w := range want {
		if replyTag == w {
			return replyTag, replyPayload, nil
		}
	}
	return replyTag, replyPayload, rgberrors.ErrUnexpectedReply
}
