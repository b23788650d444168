// =============================================================================
// lineeditor.go - Line Editor with Dual-Mode Operation
// =============================================================================
//
// The drive prompt reads steering commands through a dual-mode line editor:
//
//   - Interactive mode: ergochat/readline with Emacs keybindings and a
//     persistent history in ~/.bumper_history.
//   - Non-interactive mode: bufio.Scanner on stdin, for piped scripts such
//     as `printf 'up\nstop\n.quit\n' | bumper drive`.
//
// Events printed by the reader goroutine interleave with the prompt.
//
// =============================================================================

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ergochat/readline"
	"golang.org/x/term"
)

const (
	// historyFileName is the history file in the user's home directory.
	historyFileName = ".bumper_history"

	// historySize is the maximum number of history entries kept.
	historySize = 500
)

// LineEditor reads prompt lines from the terminal or from piped input.
type LineEditor struct {
	interactive bool

	// rl is the readline instance, nil in non-interactive mode.
	rl *readline.Instance

	// scanner reads stdin line by line in non-interactive mode.
	scanner *bufio.Scanner

	// source is the scanner's input when it can be closed.
	source io.Closer

	closeOnce sync.Once

	// out receives the prompt in non-interactive mode.
	out io.Writer
}

// NewLineEditor creates a LineEditor on stdin, interactive when stdin is a
// terminal.
func NewLineEditor() *LineEditor {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return newScannerEditor(os.Stdin, os.Stdout)
	}

	rl, err := readline.NewFromConfig(&readline.Config{
		HistoryFile:            historyPath(),
		HistoryLimit:           historySize,
		DisableAutoSaveHistory: true,
		Prompt:                 "",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: readline init failed (%v), using basic input\n", err)
		return newScannerEditor(os.Stdin, os.Stdout)
	}

	return &LineEditor{
		interactive: true,
		rl:          rl,
		out:         os.Stdout,
	}
}

// newScannerEditor creates a non-interactive LineEditor reading from r.
func newScannerEditor(r io.Reader, out io.Writer) *LineEditor {
	le := &LineEditor{
		interactive: false,
		scanner:     bufio.NewScanner(r),
		out:         out,
	}
	if c, ok := r.(io.Closer); ok {
		le.source = c
	}
	return le
}

// historyPath returns the history file location, or "" without a home
// directory, which disables persistent history.
func historyPath() string {
	home := homeDir()
	if home == "" {
		return ""
	}
	return filepath.Join(home, historyFileName)
}

// GetLine shows prompt and returns one line without its line break. It
// returns io.EOF at end of input or when the user presses Ctrl-C or Ctrl-D.
func (le *LineEditor) GetLine(prompt string) (string, error) {
	if le.interactive {
		return le.getInteractiveLine(prompt)
	}
	return le.getNonInteractiveLine(prompt)
}

func (le *LineEditor) getInteractiveLine(prompt string) (string, error) {
	le.rl.SetPrompt(prompt)

	line, err := le.rl.Readline()
	if err != nil {
		if err == readline.ErrInterrupt {
			return "", io.EOF
		}
		return "", err
	}

	if trimmed := strings.TrimSpace(line); trimmed != "" {
		le.rl.SaveToHistory(trimmed)
	}
	return line, nil
}

func (le *LineEditor) getNonInteractiveLine(prompt string) (string, error) {
	fmt.Fprint(le.out, prompt)

	if !le.scanner.Scan() {
		if err := le.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return le.scanner.Text(), nil
}

// Output returns the writer the prompt is printed on.
func (le *LineEditor) Output() io.Writer {
	return le.out
}

// Close releases the terminal or closes the input source, so a GetLine
// blocked in another goroutine returns. It is safe to call more than once
// and from any goroutine.
func (le *LineEditor) Close() {
	le.closeOnce.Do(func() {
		if le.rl != nil {
			le.rl.Close()
		}
		if le.source != nil {
			le.source.Close()
		}
	})
}

// IsInteractive reports whether the editor uses readline.
func (le *LineEditor) IsInteractive() bool {
	return le.interactive
}
