// Package gateway wraps the origin-filtered message channel to the embedded player:
// it authenticates the peer, decodes inbound events and serializes outbound commands.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lockstep-cli/lockstep/constant"
	"github.com/lockstep-cli/lockstep/log"
	"github.com/samber/mo"
	"github.com/sirupsen/logrus"
)

// ErrNoPeer is returned when a command is issued before the handshake completed.
// The command is dropped, not queued.
var ErrNoPeer = errors.New("no peer yet")

// Gateway is owned by a single goroutine; it is not safe for concurrent use.
type Gateway struct {
	transport Transport
	origin    string
	peer      mo.Option[Source]
	logger    *logrus.Entry
}

// New returns a gateway that trusts only messages from origin.
func New(transport Transport, origin string) *Gateway {
	return &Gateway{
		transport: transport,
		origin:    origin,
		peer:      mo.None[Source](),
		logger:    log.Component("gateway"),
	}
}

// Messages exposes the transport inbox.
func (g *Gateway) Messages() <-chan Envelope {
	return g.transport.Messages()
}

// Peer returns the authenticated source, if the handshake happened.
func (g *Gateway) Peer() mo.Option[Source] {
	return g.peer
}

// Receive filters and decodes one envelope. It reports false for anything the
// engine must ignore: foreign origins, unauthenticated sources, malformed
// payloads and uninteresting events.
func (g *Gateway) Receive(env Envelope) (Event, bool) {
	if env.Origin != g.origin {
		g.logger.WithField("origin", env.Origin).Trace("dropped message from untrusted origin")
		return Event{}, false
	}

	peer, ok := g.peer.Get()
	if !ok {
		g.peer = mo.Some(env.Source)
		g.logger.WithField("peer", env.Source).Info("peer established")
	} else if peer != env.Source {
		g.logger.WithField("source", env.Source).Debug("ignored message from unauthenticated source")
		return Event{}, false
	}

	event, err := decode(env.Payload)
	if err != nil {
		g.logger.WithError(err).Trace("dropped malformed message")
		return Event{}, false
	}

	if !interesting(event.Name) {
		return Event{}, false
	}

	return event, true
}

// RequestProgress asks the player for its current progress.
func (g *Gateway) RequestProgress(ctx context.Context) error {
	return g.send(ctx, Command{Method: constant.MethodRequestProgress})
}

// Seek moves the player to progress, expressed in player units.
func (g *Gateway) Seek(ctx context.Context, progress float64) error {
	return g.send(ctx, Command{Method: constant.MethodSeek, Value: &progress})
}

// Play starts or resumes playback.
func (g *Gateway) Play(ctx context.Context) error {
	return g.send(ctx, Command{Method: constant.MethodPlay})
}

func (g *Gateway) send(ctx context.Context, cmd Command) error {
	peer, ok := g.peer.Get()
	if !ok {
		g.logger.WithField("method", cmd.Method).Trace("dropped command before handshake")
		return ErrNoPeer
	}

	payload, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", cmd.Method, err)
	}

	if err := g.transport.Post(ctx, peer, payload); err != nil {
		return fmt.Errorf("post %s: %w", cmd.Method, err)
	}
	return nil
}
