// =============================================================================
// app.go - Shared Command Setup
// =============================================================================
//
// Every subcommand needs the same things: the merged configuration, a
// logger, the metrics recorder and, for the live commands, a logged-in
// session. app bundles them and tears them down in reverse order.
//
// =============================================================================

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"os/exec"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spacebumper/bumper/bumperprotocol"
	"github.com/spacebumper/bumper/internal/config"
	"github.com/spacebumper/bumper/internal/logging"
	"github.com/spacebumper/bumper/internal/metrics"
)

// gameSession is the part of *bumperprotocol.Session the commands use.
type gameSession interface {
	ID() int
	Accelerate(x, y float64) error
	WaitNext() (bumperprotocol.Event, error)
	Close() error
}

type app struct {
	cfg     *config.Config
	opts    *options
	log     *zap.SugaredLogger
	metrics *metrics.Recorder

	// stopMetrics ends the metrics endpoint, if one is served.
	stopMetrics context.CancelFunc

	// closers run in reverse order on close.
	closers []func()
}

// newApp resolves the configuration and starts logging and metrics.
func newApp(cmd *cobra.Command, opts *options) (*app, error) {
	cfg, err := opts.resolve(cmd.Flags())
	if err != nil {
		return nil, err
	}

	log, err := logging.New(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:         cfg,
		opts:        opts,
		log:         log,
		metrics:     metrics.New(),
		stopMetrics: func() {},
	}

	if addr := cfg.Metrics.Addr; addr != "" {
		ctx, cancel := context.WithCancel(context.Background())
		a.stopMetrics = cancel
		go func() {
			if err := a.metrics.Serve(ctx, addr); err != nil {
				a.log.Errorw("metrics endpoint stopped", "addr", addr, "error", err)
			}
		}()
		a.log.Infow("serving metrics", "addr", addr)
	}
	return a, nil
}

// close releases everything acquired since newApp.
func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
	a.stopMetrics()
	logging.Sync(a.log)
}

// openSession optionally launches a server, connects, starts recording and
// logs in. The session is closed by close.
func (a *app) openSession(ctx context.Context) (*bumperprotocol.Session, error) {
	name, err := bumperprotocol.NewPlayerName(a.cfg.Player.Name)
	if err != nil {
		return nil, err
	}
	color := bumperprotocol.ParseColor(a.cfg.Player.Color)
	if color.String() != a.cfg.Player.Color {
		a.log.Warnw("unknown color, using red", "color", a.cfg.Player.Color)
	}

	if a.opts.launch {
		server, err := launchServer(ctx, a.cfg.Server.Executable, a.cfg.Server.Port)
		if err != nil {
			return nil, err
		}
		fmt.Printf("SpaceBumper server started (PID: %d)\n", server.Process.Pid)
		a.log.Infow("launched server", "pid", server.Process.Pid, "port", a.cfg.Server.Port)
		a.closers = append(a.closers, func() { stopServer(server) })
	}

	conn, err := a.connect(ctx)
	if err != nil {
		return nil, err
	}

	session, err := conn.Login(a.cfg.Player.Password, name, color)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("login as %q: %w", name, err)
	}
	a.closers = append(a.closers, func() { session.Close() })
	a.log.Infow("logged in", "player_id", session.ID(), "name", name.String(), "color", color.String())

	// Close the session on cancellation so a blocked WaitNext returns.
	go func() {
		<-ctx.Done()
		session.Close()
	}()
	return session, nil
}

// connect dials the configured server. With --record the incoming stream
// is copied to the record file as it is read.
func (a *app) connect(ctx context.Context) (*bumperprotocol.Connection, error) {
	host, port := a.cfg.Server.Host, a.cfg.Server.Port
	a.log.Infow("connecting", "addr", a.cfg.Server.Address())

	if a.opts.record == "" {
		return bumperprotocol.ConnectWithContext(ctx, host, port)
	}

	dialCtx, cancel := context.WithTimeout(ctx, bumperprotocol.ConnectionTimeout)
	defer cancel()
	addr := bumperprotocol.Address(host, port)
	var d net.Dialer
	netConn, err := d.DialContext(dialCtx, "tcp", addr)
	if err != nil {
		return nil, bumperprotocol.NewConnectionError("failed to connect to "+addr, err)
	}

	file, err := os.Create(a.opts.record)
	if err != nil {
		netConn.Close()
		return nil, fmt.Errorf("create record file: %w", err)
	}
	a.log.Infow("recording server stream", "file", a.opts.record)
	return bumperprotocol.NewConnection(newRecordingStream(netConn, file)), nil
}

// recordingStream copies everything read from the server into a file.
type recordingStream struct {
	io.Reader
	io.Writer
	conn io.Closer
	file io.Closer
}

func newRecordingStream(conn io.ReadWriteCloser, file io.WriteCloser) *recordingStream {
	return &recordingStream{
		Reader: io.TeeReader(conn, file),
		Writer: conn,
		conn:   conn,
		file:   file,
	}
}

// Close closes the connection, then the record file.
func (r *recordingStream) Close() error {
	return errors.Join(r.conn.Close(), r.file.Close())
}

// stopServer kills a launched server and reaps it.
func stopServer(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}
	cmd.Process.Kill()
	cmd.Wait()
}
