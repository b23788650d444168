package bumperprotocol

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseLoginResult decodes the server's reply to a login request. The reply
// must be exactly PLAYERID:<digits> followed by a line break; anything else,
// including an error text sent by the server, is a LoginResult error carrying
// the raw line.
func ParseLoginResult(line string) (int, error) {
	rest, err := expectTag(line, LoginResultPrefix)
	if err != nil {
		return 0, newLoginResultError(line)
	}
	id, rest, err := lexUint(rest, strconv.IntSize)
	if err != nil {
		return 0, newLoginResultError(line)
	}
	if _, err := expectTag(rest, LineTerminator); err != nil {
		return 0, newLoginResultError(line)
	}
	return id, nil
}

// ParseAcceleration decodes an acceleration command line as written by
// FormatAcceleration. It accepts "\n" or "\r\n" line endings, like the
// server's line reader.
func ParseAcceleration(line string) (Vec2, error) {
	text := strings.TrimSuffix(strings.TrimSuffix(line, LineTerminator), "\r")
	parts := strings.Split(text, FieldSeparator)
	if len(parts) != 2 {
		return Vec2{}, fmt.Errorf("invalid acceleration %q: want <x>|<y>", line)
	}
	x, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return Vec2{}, fmt.Errorf("invalid acceleration x in %q: %w", line, err)
	}
	y, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return Vec2{}, fmt.Errorf("invalid acceleration y in %q: %w", line, err)
	}
	return Vec2{X: x, Y: y}, nil
}
