package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/lockstep-cli/lockstep/bridge"
	"github.com/lockstep-cli/lockstep/calibration"
	"github.com/lockstep-cli/lockstep/config"
	"github.com/lockstep-cli/lockstep/constant"
	"github.com/lockstep-cli/lockstep/gateway"
	"github.com/lockstep-cli/lockstep/highlight"
	"github.com/lockstep-cli/lockstep/key"
	"github.com/lockstep-cli/lockstep/log"
	"github.com/lockstep-cli/lockstep/player"
	"github.com/lockstep-cli/lockstep/session"
	"github.com/lockstep-cli/lockstep/transcript"
	"github.com/lockstep-cli/lockstep/tui"
	"github.com/mattn/go-isatty"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// channel is an opened transport with the origin its messages are stamped with.
type channel struct {
	transport gateway.Transport
	origin    string
	close     func() error
}

// view is what the session drives, plus the status feed.
type view interface {
	highlight.View
	SetState(calibration.State)
}

func transcriptOptions() transcript.Options {
	return transcript.Options{
		Selector:    viper.GetString(key.TranscriptSelector),
		StartAttr:   viper.GetString(key.TranscriptStartAttr),
		SpeakerAttr: viper.GetString(key.TranscriptSpeakerAttr),
	}
}

func follow(cmd *cobra.Command, location string) error {
	if err := config.Validate(
		key.PlayerTransport,
		key.PlayerOrigin,
		key.PlayerPollIntervalMs,
		key.HighlightScrollMargin,
	); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	index, err := transcript.Open(ctx, location, transcriptOptions())
	if err != nil {
		return err
	}

	start := transcript.ParseStart(lo.Must(cmd.Flags().GetString("at")))
	if start.IsAbsent() {
		start = transcript.ParseStart(location)
	}

	name := title(index, location)

	ch, err := openChannel(ctx, cmd, name)
	if err != nil {
		return err
	}
	defer func() {
		if err := ch.close(); err != nil {
			log.Warn(err)
		}
	}()

	interactive := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

	var (
		follower *tui.Follower
		v        view
	)
	if interactive {
		follower = tui.New(&tui.Options{Transcript: index, Location: location, Title: name})
		v = follower
	} else {
		v = tui.NewPlain(os.Stdout, index)
	}

	sess := session.New(session.Options{
		Gateway:      gateway.New(ch.transport, ch.origin),
		Transcript:   index,
		View:         v,
		ScrollMargin: viper.GetInt(key.HighlightScrollMargin),
		PollInterval: time.Duration(viper.GetInt(key.PlayerPollIntervalMs)) * time.Millisecond,
		Start:        start,
		OnState:      v.SetState,
	})

	log.Infof("following %s (%d entries) over %s, session %s", location, index.Len(), ch.origin, sess.ID())

	if !interactive {
		return finished(sess.Run(ctx))
	}

	done := make(chan error, 1)
	go func() {
		done <- sess.Run(ctx)
		cancel()
	}()

	uiErr := follower.Run(ctx, sess)
	cancel()

	if err := finished(<-done); err != nil {
		return err
	}
	return uiErr
}

// finished treats the player going away as a normal end.
func finished(err error) error {
	if errors.Is(err, session.ErrTransportClosed) {
		return nil
	}
	return err
}

// openChannel connects to the configured player transport.
func openChannel(ctx context.Context, cmd *cobra.Command, mediaTitle string) (*channel, error) {
	switch transport := viper.GetString(key.PlayerTransport); transport {
	case constant.TransportMPV:
		return openMPV(cmd, mediaTitle)
	case constant.TransportBridge:
		return openBridge(ctx)
	default:
		return nil, fmt.Errorf("unknown transport %q, expected %s or %s", transport, constant.TransportMPV, constant.TransportBridge)
	}
}

func openMPV(cmd *cobra.Command, mediaTitle string) (*channel, error) {
	var (
		media  = lo.Must(cmd.Flags().GetString("media"))
		socket = lo.Must(cmd.Flags().GetString("socket"))
	)

	mpv := player.NewMPV(player.Options{
		Binary:   viper.GetString(key.PlayerBinary),
		Socket:   socket,
		Property: viper.GetString(key.PlayerProgressProperty),
	})

	var err error
	switch {
	case media != "":
		err = mpv.Launch(media, mediaTitle)
	case socket != "":
		err = mpv.Attach()
	default:
		err = errors.New("mpv needs --media to launch a player or --socket to attach to one")
	}
	if err != nil {
		return nil, err
	}

	return &channel{transport: mpv, origin: mpv.Origin(), close: mpv.Close}, nil
}

func openBridge(ctx context.Context) (*channel, error) {
	origin := viper.GetString(key.PlayerOrigin)
	if origin == "" {
		return nil, fmt.Errorf("the bridge needs a trusted origin, set --origin or %s", key.PlayerOrigin)
	}

	ln, err := net.Listen("tcp", viper.GetString(key.BridgeListen))
	if err != nil {
		return nil, fmt.Errorf("bridge: %w", err)
	}

	b := bridge.New()
	go func() {
		if err := b.Serve(ctx, ln); err != nil {
			log.Error(err)
		}
	}()

	return &channel{
		transport: b,
		origin:    origin,
		close: func() error {
			b.Close()
			return nil
		},
	}, nil
}

// title names the media after the episode the page describes, or failing that
// after where the page came from.
func title(index *transcript.Index, location string) string {
	if label := index.Meta().Label(); label != "" {
		return label
	}

	if u, err := url.Parse(location); err == nil && u.Host != "" {
		return u.Host + u.Path
	}
	return filepath.Base(location)
}
