package bumperprotocol

import (
	"bufio"
	"net"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// mockServer is a minimal SpaceBumper server for testing.
//
// It listens on a loopback TCP port and runs handler once per accepted
// connection. The connection is closed when handler returns, which the
// client sees as the end of the game.
type mockServer struct {
	listener net.Listener
	handler  func(conn *mockConn)

	mu          sync.Mutex
	connections []net.Conn

	wg sync.WaitGroup
}

// mockConn is the server side of one client connection.
type mockConn struct {
	net.Conn
	reader *bufio.Reader
}

// readLine reads one line sent by the client, including its line break.
func (c *mockConn) readLine() (string, error) {
	return c.reader.ReadString('\n')
}

// send writes raw protocol text to the client.
func (c *mockConn) send(text string) error {
	_, err := c.Write([]byte(text))
	return err
}

// startMockServer starts a mock server on 127.0.0.1 with an ephemeral port.
// The server is stopped when the test finishes.
func startMockServer(t *testing.T, handler func(conn *mockConn)) *mockServer {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err, "failed to create mock server listener")

	ms := &mockServer{
		listener: listener,
		handler:  handler,
	}

	ms.wg.Add(1)
	go ms.acceptLoop()

	t.Cleanup(ms.stop)
	return ms
}

func (ms *mockServer) acceptLoop() {
	defer ms.wg.Done()

	for {
		conn, err := ms.listener.Accept()
		if err != nil {
			return
		}

		ms.mu.Lock()
		ms.connections = append(ms.connections, conn)
		ms.mu.Unlock()

		ms.wg.Add(1)
		go ms.handleConnection(conn)
	}
}

func (ms *mockServer) handleConnection(conn net.Conn) {
	defer ms.wg.Done()
	defer conn.Close()

	ms.handler(&mockConn{Conn: conn, reader: bufio.NewReader(conn)})
}

// host and port return the address the client should dial.
func (ms *mockServer) host() string {
	host, _, _ := net.SplitHostPort(ms.listener.Addr().String())
	return host
}

func (ms *mockServer) port() int {
	_, port, _ := net.SplitHostPort(ms.listener.Addr().String())
	p, _ := strconv.Atoi(port)
	return p
}

func (ms *mockServer) stop() {
	ms.listener.Close()

	ms.mu.Lock()
	for _, conn := range ms.connections {
		conn.Close()
	}
	ms.connections = nil
	ms.mu.Unlock()

	ms.wg.Wait()
}

// acceptLogin reads the login line and replies with id. It returns the
// login line as received.
func acceptLogin(c *mockConn, id int) string {
	line, err := c.readLine()
	if err != nil {
		return ""
	}
	c.send(FormatLoginResult(id))
	return line
}
