package gateway

import (
	"context"
	"encoding/json"
	"sync"
)

// Memory is an in-process transport. Inbound envelopes are injected with
// Deliver; posted commands are recorded and can be inspected with Sent.
type Memory struct {
	inbox chan Envelope

	mu   sync.Mutex
	sent []Posted
}

// Posted is a command recorded by Memory.
type Posted struct {
	To      Source
	Command Command
}

// NewMemory returns a transport with the given inbox capacity.
func NewMemory(capacity int) *Memory {
	return &Memory{inbox: make(chan Envelope, capacity)}
}

func (m *Memory) Messages() <-chan Envelope {
	return m.inbox
}

// Deliver queues an inbound envelope.
func (m *Memory) Deliver(env Envelope) {
	m.inbox <- env
}

// Close ends the inbox.
func (m *Memory) Close() {
	close(m.inbox)
}

func (m *Memory) Post(_ context.Context, to Source, payload []byte) error {
	var cmd Command
	if err := json.Unmarshal(payload, &cmd); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, Posted{To: to, Command: cmd})
	return nil
}

// Sent returns a copy of every posted command.
func (m *Memory) Sent() []Posted {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Posted, len(m.sent))
	copy(out, m.sent)
	return out
}

// Methods returns the method names of every posted command, in order.
func (m *Memory) Methods() []string {
	sent := m.Sent()
	out := make([]string, len(sent))
	for i, p := range sent {
		out[i] = p.Command.Method
	}
	return out
}
