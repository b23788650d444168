package bumperprotocol

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// BlockReader splits a server stream into raw START ... END blocks without
// looking at the block type.
type BlockReader struct {
	reader *bufio.Reader
}

// NewBlockReader creates a BlockReader over r. If r is already a
// *bufio.Reader it is used directly so no buffered bytes are lost.
func NewBlockReader(r io.Reader) *BlockReader {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &BlockReader{reader: br}
}

// ReadBlock reads lines until a complete block has been accumulated and
// returns its text, including the START and END lines.
//
// It returns io.EOF, unwrapped, when the stream ends cleanly before a new
// block starts. A read fault, or the stream ending inside a block, is a
// ServerDidNotSendLine error. A first line that does not start with
// "START " is an InvalidServerMessage error carrying that line.
func (b *BlockReader) ReadBlock() (string, error) {
	line, err := b.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line == "" {
			return "", io.EOF
		}
		return "", lineError(line, err)
	}
	if !isTagLine(line, BlockStartPrefix) {
		return "", newInvalidServerMessageError(line, fmt.Sprintf("expected %q", BlockStartPrefix))
	}

	var text strings.Builder
	text.WriteString(line)
	for {
		line, err := b.reader.ReadString('\n')
		if err != nil {
			return "", lineError(text.String()+line, err)
		}
		text.WriteString(line)
		if isTagLine(line, BlockEndPrefix) {
			return text.String(), nil
		}
	}
}

// lineError reports a failed line read. A stream that ends mid-line or
// mid-block is reported as io.ErrUnexpectedEOF so that io.EOF keeps meaning
// a clean end of stream.
func lineError(partial string, err error) error {
	if errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	return newServerDidNotSendLineError(partial, err)
}

// isTagLine reports whether line is prefix followed by a non-empty name and
// a line break.
func isTagLine(line, prefix string) bool {
	return strings.HasPrefix(line, prefix) &&
		strings.HasSuffix(line, LineTerminator) &&
		len(line) > len(prefix)+len(LineTerminator)
}
