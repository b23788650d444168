// =============================================================================
// mockserver_test.go - Mock SpaceBumper Server for Testing
// =============================================================================
//
// A loopback TCP server that accepts one login per connection, replies
// with a fixed player id and then streams a scripted sequence of blocks.
// Half-closing the connection ends the game for the client.
//
// =============================================================================

package main

import (
	"bufio"
	"io"
	"net"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spacebumper/bumper/bumperprotocol"
)

type mockServer struct {
	listener net.Listener
	playerID int

	// blocks are sent in order after a successful login.
	blocks []string

	mu          sync.Mutex
	connections []net.Conn
	logins      []string

	wg sync.WaitGroup
}

// startMockServer serves blocks to every client that logs in.
func startMockServer(t *testing.T, playerID int, blocks ...string) *mockServer {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err, "failed to create mock server listener")

	ms := &mockServer{
		listener: listener,
		playerID: playerID,
		blocks:   blocks,
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

	reader := bufio.NewReader(conn)
	login, err := reader.ReadString('\n')
	if err != nil {
		return
	}
	ms.mu.Lock()
	ms.logins = append(ms.logins, login)
	ms.mu.Unlock()

	if _, err := conn.Write([]byte(bumperprotocol.FormatLoginResult(ms.playerID))); err != nil {
		return
	}
	for _, block := range ms.blocks {
		if _, err := conn.Write([]byte(block)); err != nil {
			return
		}
	}

	// Half-close so the client sees EOF, then drain its accelerations
	// until it hangs up.
	if tcp, ok := conn.(*net.TCPConn); ok {
		tcp.CloseWrite()
	}
	io.Copy(io.Discard, reader)
}

// port returns the port the server listens on.
func (ms *mockServer) port() string {
	return strconv.Itoa(ms.listener.Addr().(*net.TCPAddr).Port)
}

// receivedLogins returns the login lines received so far.
func (ms *mockServer) receivedLogins() []string {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return append([]string(nil), ms.logins...)
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

// Sample blocks as the server formats them.
var (
	sampleStatus = bumperprotocol.StatusBlock{
		Iteration:     12,
		EndTime:       10800,
		MaxUpdateTime: "1.2ms",
		MaxPlayers:    2,
	}.Format()

	samplePlayers = bumperprotocol.PlayerBlock{Players: []bumperprotocol.Player{{
		ID:            4,
		Name:          "Go Bumper",
		Color:         bumperprotocol.ColorGreen,
		Position:      bumperprotocol.Vec2{X: 820, Y: 180},
		Score:         100,
		TouchingCells: []bumperprotocol.GridPos{{X: 20, Y: 4}},
		Alive:         true,
	}}}.Format()

	sampleMap = "START MAP\n####\n#o.#\n####\nEND MAP\n"

	malformedMap = "START MAP\n#?#\nEND MAP\n"
)
