package bumperprotocol

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// The field parsers below all follow the same contract: given the remaining
// input, consume exactly prefix + value + postfix and return the value and
// what is left. On failure the input is returned unchanged together with an
// InvalidServerMessage error describing what was expected.

// touchingCellsTag opens the touching cells field of a player record.
const touchingCellsTag = "TouchingCells:"

// coordBits bounds touching cell coordinates to the unsigned 32-bit range.
const coordBits = 32

func syntaxErrorf(at, format string, args ...any) error {
	return newInvalidServerMessageError(firstLine(at), fmt.Sprintf(format, args...))
}

// firstLine returns s up to and including its first line break.
func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i+1]
	}
	return s
}

// expectTag consumes the literal tag at the start of s.
func expectTag(s, tag string) (string, error) {
	if !strings.HasPrefix(s, tag) {
		return s, syntaxErrorf(s, "expected %q", tag)
	}
	return s[len(tag):], nil
}

func countDigits(s string) int {
	n := 0
	for n < len(s) && s[n] >= '0' && s[n] <= '9' {
		n++
	}
	return n
}

// lexUint consumes one or more decimal digits. Values that do not fit in
// bitSize bits are reported as errors instead of wrapping.
func lexUint(s string, bitSize int) (int, string, error) {
	n := countDigits(s)
	if n == 0 {
		return 0, s, syntaxErrorf(s, "expected digits")
	}
	value, err := strconv.ParseUint(s[:n], 10, bitSize)
	if err != nil || value > math.MaxInt {
		return 0, s, syntaxErrorf(s, "number %s out of range", s[:n])
	}
	return int(value), s[n:], nil
}

// lexDecimal consumes a signed decimal of the form -?digits.digits.
func lexDecimal(s string) (float64, string, error) {
	rest := strings.TrimPrefix(s, "-")
	intDigits := countDigits(rest)
	if intDigits == 0 {
		return 0, s, syntaxErrorf(s, "expected decimal number")
	}
	rest = rest[intDigits:]
	if !strings.HasPrefix(rest, ".") {
		return 0, s, syntaxErrorf(s, "expected '.' in decimal number")
	}
	fracDigits := countDigits(rest[1:])
	if fracDigits == 0 {
		return 0, s, syntaxErrorf(s, "expected digits after '.'")
	}
	end := len(s) - len(rest) + 1 + fracDigits
	value, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0, s, syntaxErrorf(s, "decimal %s out of range", s[:end])
	}
	return value, s[end:], nil
}

// uintField parses prefix, an unsigned integer and postfix.
func uintField(s, prefix, postfix string) (int, string, error) {
	rest, err := expectTag(s, prefix)
	if err != nil {
		return 0, s, err
	}
	value, rest, err := lexUint(rest, strconv.IntSize)
	if err != nil {
		return 0, s, err
	}
	rest, err = expectTag(rest, postfix)
	if err != nil {
		return 0, s, err
	}
	return value, rest, nil
}

// floatField parses prefix, a signed decimal and postfix.
func floatField(s, prefix, postfix string) (float64, string, error) {
	rest, err := expectTag(s, prefix)
	if err != nil {
		return 0, s, err
	}
	value, rest, err := lexDecimal(rest)
	if err != nil {
		return 0, s, err
	}
	rest, err = expectTag(rest, postfix)
	if err != nil {
		return 0, s, err
	}
	return value, rest, nil
}

// textField parses prefix, a non-empty value and postfix. The value never
// spans a line break.
func textField(s, prefix, postfix string) (string, string, error) {
	rest, err := expectTag(s, prefix)
	if err != nil {
		return "", s, err
	}
	line := firstLine(rest)
	if postfix != LineTerminator {
		line = strings.TrimSuffix(line, LineTerminator)
	}
	end := strings.Index(line, postfix)
	switch {
	case end < 0:
		return "", s, syntaxErrorf(rest, "expected value terminated by %q after %q", postfix, prefix)
	case end == 0:
		return "", s, syntaxErrorf(rest, "empty value after %q", prefix)
	}
	return rest[:end], rest[end+len(postfix):], nil
}

// boolField parses a boolean. Only "true" and "True" are true; any other
// non-empty text is false.
func boolField(s, prefix, postfix string) (bool, string, error) {
	text, rest, err := textField(s, prefix, postfix)
	if err != nil {
		return false, s, err
	}
	return text == "true" || text == "True", rest, nil
}

// colorField parses a color, falling back to ColorRed for unknown text.
func colorField(s, prefix, postfix string) (Color, string, error) {
	text, rest, err := textField(s, prefix, postfix)
	if err != nil {
		return ColorRed, s, err
	}
	return ParseColor(text), rest, nil
}

// pairField parses prefix, "<decimal>,<decimal>" and postfix. The span
// between prefix and postfix must be exactly the pair.
func pairField(s, prefix, postfix string) (Vec2, string, error) {
	text, rest, err := textField(s, prefix, postfix)
	if err != nil {
		return Vec2{}, s, err
	}
	x, inner, err := lexDecimal(text)
	if err != nil {
		return Vec2{}, s, err
	}
	inner, err = expectTag(inner, ",")
	if err != nil {
		return Vec2{}, s, err
	}
	y, inner, err := lexDecimal(inner)
	if err != nil {
		return Vec2{}, s, err
	}
	if inner != "" {
		return Vec2{}, s, syntaxErrorf(inner, "unexpected data after %s pair", strings.TrimSuffix(prefix, ":"))
	}
	return Vec2{X: x, Y: y}, rest, nil
}

// touchingCells parses "TouchingCells:" followed by zero or more "x,y;"
// groups and a closing "|".
func touchingCells(s string) ([]GridPos, string, error) {
	rest, err := expectTag(s, touchingCellsTag)
	if err != nil {
		return nil, s, err
	}
	var cells []GridPos
	for !strings.HasPrefix(rest, FieldSeparator) {
		var pos GridPos
		if pos.X, rest, err = lexUint(rest, coordBits); err != nil {
			return nil, s, err
		}
		if rest, err = expectTag(rest, ","); err != nil {
			return nil, s, err
		}
		if pos.Y, rest, err = lexUint(rest, coordBits); err != nil {
			return nil, s, err
		}
		if rest, err = expectTag(rest, ";"); err != nil {
			return nil, s, err
		}
		cells = append(cells, pos)
	}
	return cells, rest[len(FieldSeparator):], nil
}
