package player

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lockstep-cli/lockstep/constant"
	"github.com/lockstep-cli/lockstep/gateway"
)

// ipcCommand is the JSON structure sent to mpv's IPC socket.
type ipcCommand struct {
	Command   []interface{} `json:"command"`
	RequestID int64         `json:"request_id,omitempty"`
}

// ipcResponse is a reply or an event read from mpv's IPC socket.
type ipcResponse struct {
	Data      interface{} `json:"data"`
	Error     string      `json:"error"`
	RequestID int64       `json:"request_id"`
	Event     string      `json:"event"`
}

// request remembers what an outstanding request_id was for.
type request struct {
	method string
	value  float64
}

// Post implements gateway.Transport by translating player commands to mpv IPC.
func (m *MPV) Post(_ context.Context, to gateway.Source, payload []byte) error {
	if to != m.Source() {
		return fmt.Errorf("unknown destination %q", to)
	}

	var cmd gateway.Command
	if err := json.Unmarshal(payload, &cmd); err != nil {
		return fmt.Errorf("unmarshal command: %w", err)
	}

	var (
		args []interface{}
		req  = request{method: cmd.Method}
	)

	switch cmd.Method {
	case constant.MethodRequestProgress:
		args = []interface{}{"get_property", m.opts.Property}
	case constant.MethodSeek:
		if cmd.Value == nil {
			return fmt.Errorf("seek without a value")
		}
		req.value = *cmd.Value
		args = []interface{}{"set_property", m.opts.Property, *cmd.Value}
	case constant.MethodPlay:
		args = []interface{}{"set_property", "pause", false}
	default:
		return fmt.Errorf("unsupported method %q", cmd.Method)
	}

	return m.send(args, req)
}

// send assigns a request_id, remembers its purpose and writes the command.
func (m *MPV) send(args []interface{}, req request) error {
	m.mu.Lock()
	m.nextID++
	id := m.nextID
	m.pending[id] = req
	m.mu.Unlock()

	if err := m.write(ipcCommand{Command: args, RequestID: id}); err != nil {
		m.mu.Lock()
		delete(m.pending, id)
		m.mu.Unlock()
		return err
	}
	return nil
}

func (m *MPV) write(cmd ipcCommand) error {
	if m.conn == nil {
		return fmt.Errorf("not attached")
	}

	payload, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// mpv requires newline-delimited JSON
	if _, err := m.conn.Write(append(payload, '\n')); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// takeRequest removes and returns the request for id.
func (m *MPV) takeRequest(id int64) (request, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	req, ok := m.pending[id]
	delete(m.pending, id)
	return req, ok
}
