package gateway

import "context"

// Source identifies one sender on a transport.
type Source string

// Envelope is a raw inbound message as the transport received it.
type Envelope struct {
	Origin  string
	Source  Source
	Payload any
}

// Transport is the asynchronous, bidirectional channel to the player.
type Transport interface {
	// Messages delivers inbound envelopes until the transport closes.
	Messages() <-chan Envelope

	// Post sends payload to the given source.
	Post(ctx context.Context, to Source, payload []byte) error
}
