// Package player reaches mpv over its JSON-IPC socket and presents it as a message
// channel that speaks the embedded-player protocol.
package player

import (
	"crypto/rand"
	"fmt"
	"net"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/lockstep-cli/lockstep/gateway"
	"github.com/lockstep-cli/lockstep/log"
	"github.com/lockstep-cli/lockstep/where"
	"github.com/sirupsen/logrus"
)

const (
	socketWaitRetries = 10
	socketWaitDelay   = 300 * time.Millisecond
	inboxSize         = 64
)

// Options configures the mpv channel.
type Options struct {
	// Binary is the mpv executable used by Launch.
	Binary string

	// Socket is the IPC socket. Empty means a fresh one under where.Temp().
	Socket string

	// Property is the numeric mpv property reported as progress and written to seek.
	Property string
}

// MPV implements gateway.Transport over mpv's JSON-IPC protocol.
type MPV struct {
	opts   Options
	cmd    *exec.Cmd
	exited chan struct{} // closed when a launched mpv process exits

	conn    net.Conn
	mu      sync.Mutex // protects conn writes, nextID and pending
	nextID  int64
	pending map[int64]request

	inbox  chan gateway.Envelope
	closed sync.Once
	done   chan struct{} // closed by Close; replies arriving later are dropped
	stop   sync.Once
	logger *logrus.Entry
}

// NewMPV creates a channel; nothing is started until Launch or Attach.
func NewMPV(opts Options) *MPV {
	if opts.Binary == "" {
		opts.Binary = "mpv"
	}
	if opts.Property == "" {
		opts.Property = "percent-pos"
	}

	return &MPV{
		opts:    opts,
		exited:  make(chan struct{}),
		pending: make(map[int64]request),
		inbox:   make(chan gateway.Envelope, inboxSize),
		done:    make(chan struct{}),
		logger:  log.Component("mpv"),
	}
}

// Origin is the origin stamped on every envelope from this channel.
func (m *MPV) Origin() string {
	return "mpv://" + m.opts.Socket
}

// Source is the single sender on this channel.
func (m *MPV) Source() gateway.Source {
	return gateway.Source(m.opts.Socket)
}

// Messages implements gateway.Transport.
func (m *MPV) Messages() <-chan gateway.Envelope {
	return m.inbox
}

// Launch starts mpv on media with an IPC server and attaches to it.
func (m *MPV) Launch(media, title string) error {
	safeURL, err := sanitizeMediaTarget(media)
	if err != nil {
		return fmt.Errorf("invalid media target: %w", err)
	}

	if m.opts.Socket == "" {
		randomBytes := make([]byte, 4)
		if _, err := rand.Read(randomBytes); err != nil {
			return fmt.Errorf("generate socket name: %w", err)
		}
		m.opts.Socket = filepath.Join(where.Temp(), fmt.Sprintf("mpv-%x.sock", randomBytes))
	}

	args := []string{
		"--no-terminal",
		"--really-quiet",
		fmt.Sprintf("--input-ipc-server=%s", m.opts.Socket),
		"--force-window=yes",
		"--keep-open=yes",
	}
	if t := sanitizeTitle(title); t != "" {
		args = append(args, fmt.Sprintf("--force-media-title=%s", t))
	}
	args = append(args, safeURL)

	m.cmd = exec.Command(m.opts.Binary, args...)

	// Detach from the parent process group so ^C in the follower does not kill playback first.
	m.cmd.SysProcAttr = sysProcAttr()
	m.cmd.Stdout = nil
	m.cmd.Stderr = nil
	m.cmd.Stdin = nil

	if err := m.cmd.Start(); err != nil {
		return fmt.Errorf("start mpv: %w", err)
	}

	go func() {
		_ = m.cmd.Wait()
		close(m.exited)
	}()

	if err := m.waitForSocket(); err != nil {
		select {
		case <-m.exited:
		default:
			m.logger.Warn("killing mpv: socket never became ready")
			_ = killProcess(m.cmd)
		}
		return fmt.Errorf("mpv socket not ready: %w", err)
	}

	return m.Attach()
}

// Attach connects to an mpv already listening on the configured socket.
func (m *MPV) Attach() error {
	if m.opts.Socket == "" {
		return fmt.Errorf("attach: no socket configured")
	}

	conn, err := net.Dial("unix", m.opts.Socket)
	if err != nil {
		return fmt.Errorf("attach %s: %w", m.opts.Socket, err)
	}
	m.conn = conn

	go m.readLoop()

	m.logger.WithFields(logrus.Fields{"socket": m.opts.Socket, "property": m.opts.Property}).Info("attached to mpv")
	return nil
}

// Wait returns a channel closed when a launched mpv exits.
func (m *MPV) Wait() <-chan struct{} {
	return m.exited
}

// waitForSocket polls until the mpv IPC socket is accepting connections.
func (m *MPV) waitForSocket() error {
	for i := 0; i < socketWaitRetries; i++ {
		time.Sleep(socketWaitDelay)

		select {
		case <-m.exited:
			return fmt.Errorf("mpv exited before socket was ready")
		default:
		}

		conn, err := net.Dial("unix", m.opts.Socket)
		if err == nil {
			conn.Close()
			return nil
		}
	}
	return fmt.Errorf("socket %s not ready after %d attempts", m.opts.Socket, socketWaitRetries)
}

// Close detaches, and if lockstep launched mpv, shuts it down.
func (m *MPV) Close() error {
	m.stop.Do(func() { close(m.done) })

	if m.cmd != nil && m.conn != nil {
		_ = m.write(ipcCommand{Command: []interface{}{"quit"}})

		select {
		case <-m.exited:
		case <-time.After(3 * time.Second):
			_ = killProcess(m.cmd)
		}
		_ = os.Remove(m.opts.Socket)
	}

	if m.conn != nil {
		return m.conn.Close()
	}
	return nil
}

// sanitizeMediaTarget rejects anything mpv could read as a flag.
func sanitizeMediaTarget(link string) (string, error) {
	l := strings.TrimSpace(link)
	if l == "" {
		return "", fmt.Errorf("empty URL")
	}

	if strings.ContainsAny(l, "\x00\n\r") {
		return "", fmt.Errorf("invalid control characters in URL")
	}

	if strings.HasPrefix(l, "-") {
		return "", fmt.Errorf("url must not start with '-' (looks like a flag)")
	}

	if strings.Contains(l, "://") {
		u, err := url.Parse(l)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return l, nil
		default:
			return "", fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
		}
	}

	return filepath.Clean(l), nil
}

func sanitizeTitle(title string) string {
	t := strings.NewReplacer("\n", " ", "\r", " ", "\t", " ", "\x00", "").Replace(title)
	return strings.TrimSpace(t)
}
