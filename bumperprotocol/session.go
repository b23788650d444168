package bumperprotocol

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"sync/atomic"
)

// Connection is an unauthenticated stream to a SpaceBumper server.
//
// A successful Login hands the stream to the returned Session; the
// Connection cannot log in again while that session exists.
type Connection struct {
	closer io.Closer // nil when the stream is not closable

	writer *bufio.Writer
	reader *bufio.Reader

	session *Session
}

// Connect dials the server at host:port over TCP.
func Connect(host string, port int) (*Connection, error) {
	return ConnectWithContext(context.Background(), host, port)
}

// ConnectWithContext dials the server with a context for cancellation. The
// dial is additionally bounded by ConnectionTimeout.
func ConnectWithContext(ctx context.Context, host string, port int) (*Connection, error) {
	connectCtx, cancel := context.WithTimeout(ctx, ConnectionTimeout)
	defer cancel()

	addr := Address(host, port)
	var d net.Dialer
	conn, err := d.DialContext(connectCtx, "tcp", addr)
	if err != nil {
		return nil, NewConnectionError("failed to connect to "+addr, err)
	}
	return NewConnection(conn), nil
}

// NewConnection wraps an already established stream. The codec reads and
// writes rw but only closes it through Close, and only if it is an
// io.Closer.
func NewConnection(rw io.ReadWriter) *Connection {
	c := &Connection{
		writer: bufio.NewWriter(rw),
		reader: bufio.NewReader(rw),
	}
	if closer, ok := rw.(io.Closer); ok {
		c.closer = closer
	}
	return c
}

// Login authenticates with the server and returns the session that now
// owns the stream.
//
// It writes "<password>|<name>|<color>\n" and reads exactly one reply line.
// I/O faults are Login errors; a reply other than PLAYERID:<id> is a
// LoginResult error carrying the reply. A failed login leaves the
// connection usable for another attempt.
func (c *Connection) Login(password string, name PlayerName, color Color) (*Session, error) {
	if c.session != nil {
		return nil, ErrSessionActive
	}

	id, err := login(c.writer, c.reader, password, name, color)
	if err != nil {
		return nil, err
	}

	c.session = &Session{
		id:     id,
		conn:   c,
		blocks: NewBlockReader(c.reader),
	}
	return c.session, nil
}

// Close closes the underlying stream if it is closable.
func (c *Connection) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer.Close()
}

func login(w *bufio.Writer, r *bufio.Reader, password string, name PlayerName, color Color) (int, error) {
	if _, err := w.WriteString(FormatLogin(password, name, color)); err != nil {
		return 0, newLoginError(err)
	}
	if err := w.Flush(); err != nil {
		return 0, newLoginError(err)
	}

	// A server that closes the stream instead of replying is a rejected
	// login, so a partial line at EOF is still judged by its content.
	line, err := r.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, newLoginError(err)
	}
	return ParseLoginResult(line)
}

// Session is an authenticated game view over one stream.
//
// A Session holds no locks. At most one goroutine may call WaitNext and at
// most one goroutine may call Accelerate at any time; the read and write
// paths are independent of each other.
type Session struct {
	id     int
	conn   *Connection
	blocks *BlockReader
	closed atomic.Bool
}

// ID returns the player id assigned by the server at login.
func (s *Session) ID() int {
	return s.id
}

// Accelerate sends an acceleration command and flushes it immediately. No
// reply is expected.
func (s *Session) Accelerate(x, y float64) error {
	if s.closed.Load() {
		return ErrSessionClosed
	}
	w := s.conn.writer
	if _, err := w.WriteString(FormatAcceleration(x, y)); err != nil {
		return newAccelerationWriteError(err)
	}
	if err := w.Flush(); err != nil {
		return newAccelerationWriteError(err)
	}
	return nil
}

// WaitNext blocks until the server has sent one complete block and returns
// it decoded. When the server closes the stream between blocks, WaitNext
// returns an EventGameEnded event and a nil error.
//
// A malformed block only fails the current call; the next call continues
// with the following block.
func (s *Session) WaitNext() (Event, error) {
	if s.closed.Load() {
		return Event{}, ErrSessionClosed
	}
	block, err := s.blocks.ReadBlock()
	if errors.Is(err, io.EOF) {
		return NewGameEndedEvent(), nil
	}
	if err != nil {
		return Event{}, err
	}
	return ParseBlock(block)
}

// Close ends the session and closes the underlying stream. A blocked
// WaitNext on a closable stream returns once the stream is closed.
func (s *Session) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.conn.Close()
}
