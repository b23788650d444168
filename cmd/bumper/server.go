// =============================================================================
// server.go - SpaceBumper Server Launcher
// =============================================================================
//
// With --launch the CLI starts its own headless server before connecting:
//
//	spacebumper -port <port> -headless -remote
//
// The executable is taken from --server-executable or BUMPER_EXECUTABLE,
// then looked up next to the bumper binary, in PATH and in common install
// directories. The launcher waits until the port accepts connections.
//
// =============================================================================

package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spacebumper/bumper/bumperprotocol"
)

const (
	// serverExecutableName is the SpaceBumper server binary name.
	serverExecutableName = "spacebumper"

	// serverStartTimeout is how long to wait for the server's port.
	serverStartTimeout = 4 * time.Second

	// serverPollInterval is the delay between connection attempts.
	serverPollInterval = 100 * time.Millisecond
)

// launchServer starts a headless remote-play server on port and waits until
// it accepts connections. The caller stops it with stopServer.
func launchServer(ctx context.Context, configured string, port int) (*exec.Cmd, error) {
	exePath, err := findServerExecutable(configured)
	if err != nil {
		return nil, fmt.Errorf("could not find %s executable: %w", serverExecutableName, err)
	}

	cmd := exec.CommandContext(ctx, exePath, serverArgs(port)...)
	cmd.Stdout = nil
	cmd.Stderr = nil

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to launch %s: %w", serverExecutableName, err)
	}

	addr := bumperprotocol.Address("127.0.0.1", port)
	if err := waitForPort(ctx, addr, serverStartTimeout); err != nil {
		stopServer(cmd)
		return nil, fmt.Errorf("%s started (PID: %d) but is not listening: %w", serverExecutableName, cmd.Process.Pid, err)
	}
	return cmd, nil
}

// serverArgs returns the server flags for headless remote play on port.
func serverArgs(port int) []string {
	return []string{"-port", strconv.Itoa(port), "-headless", "-remote"}
}

// findServerExecutable returns configured if set, otherwise searches the
// CLI's directory, PATH and common install locations.
func findServerExecutable(configured string) (string, error) {
	if configured != "" {
		if isExecutable(configured) {
			return configured, nil
		}
		return "", fmt.Errorf("%s is not an executable file", configured)
	}

	if selfPath, err := os.Executable(); err == nil {
		candidate := filepath.Join(filepath.Dir(selfPath), serverExecutableName)
		if isExecutable(candidate) {
			return candidate, nil
		}
	}

	if path, err := exec.LookPath(serverExecutableName); err == nil {
		return path, nil
	}

	commonPaths := []string{
		"/usr/local/bin",
		filepath.Join(homeDir(), "go", "bin"),
		filepath.Join(homeDir(), ".local", "bin"),
	}
	for _, dir := range commonPaths {
		candidate := filepath.Join(dir, serverExecutableName)
		if isExecutable(candidate) {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("%s not found in PATH or common locations", serverExecutableName)
}

// waitForPort polls addr until a TCP connection succeeds or timeout passes.
func waitForPort(ctx context.Context, addr string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)

	for {
		conn, err := net.DialTimeout("tcp", addr, serverPollInterval)
		if err == nil {
			conn.Close()
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("timeout waiting for %s: %w", addr, err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(serverPollInterval):
		}
	}
}

// isExecutable reports whether path is a regular file with an execute bit.
func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir() && info.Mode().Perm()&0111 != 0
}

// homeDir returns the user's home directory, or "" if unknown.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home
}
