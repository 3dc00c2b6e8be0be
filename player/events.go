package player

import (
	"bufio"
	"encoding/json"
	"errors"
	"io"
	"net"

	"github.com/lockstep-cli/lockstep/constant"
	"github.com/lockstep-cli/lockstep/gateway"
)

// readLoop turns mpv replies into player envelopes until the connection ends,
// then closes the inbox.
func (m *MPV) readLoop() {
	defer m.closed.Do(func() { close(m.inbox) })

	reader := bufio.NewReader(m.conn)
	for {
		line, err := reader.ReadBytes('\n')
		if len(line) > 0 {
			m.processLine(line)
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
				m.logger.WithError(err).Warn("read error")
			}
			return
		}
	}
}

// processLine handles one newline-delimited JSON object from mpv.
func (m *MPV) processLine(line []byte) {
	var resp ipcResponse
	if err := json.Unmarshal(line, &resp); err != nil {
		return
	}

	if resp.Event != "" {
		m.logger.WithField("event", resp.Event).Trace("mpv event")
		return
	}

	req, ok := m.takeRequest(resp.RequestID)
	if !ok {
		return
	}

	switch req.method {
	case constant.MethodRequestProgress:
		// Failures such as "property unavailable" are reported as a null
		// progress, which the engine reads as "not content".
		var data interface{}
		if resp.Error == "success" {
			data = resp.Data
		}
		m.emit(constant.EventProgress, data)
	case constant.MethodSeek:
		if resp.Error == "success" {
			m.emit(constant.EventSeekAck, req.value)
		} else {
			m.logger.WithField("error", resp.Error).Debug("seek rejected")
		}
	}
}

// emit queues an envelope for the session, or drops it once the channel is closed.
func (m *MPV) emit(event string, progress interface{}) {
	envelope := gateway.Envelope{
		Origin: m.Origin(),
		Source: m.Source(),
		Payload: map[string]any{
			"event": event,
			"data":  map[string]any{"progress": progress},
		},
	}

	select {
	case m.inbox <- envelope:
	case <-m.done:
		m.logger.WithField("event", event).Trace("dropped after close")
	}
}
