package bumperprotocol

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFloatField(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected float64
		rest     string
	}{
		{"Negative", "NEG:-123.2345\n", -123.2345, ""},
		{"Positive", "NEG:820.000000\n", 820, ""},
		{"Zero", "NEG:0.0\nnext", 0, "next"},
		{"Leading zeros", "NEG:007.50\n", 7.5, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, rest, err := floatField(tt.input, "NEG:", "\n")
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, tt.rest, rest)
		})
	}
}

func TestFloatFieldErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"Missing prefix", "POS:1.0\n"},
		{"Integer", "NEG:1\n"},
		{"No fraction digits", "NEG:1.\n"},
		{"No integer digits", "NEG:.5\n"},
		{"Plus sign", "NEG:+1.0\n"},
		{"Exponent", "NEG:1.0e5\n"},
		{"Double sign", "NEG:--1.0\n"},
		{"Missing postfix", "NEG:1.0"},
		{"Out of range", "NEG:1" + repeatDigits(400) + ".0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, rest, err := floatField(tt.input, "NEG:", "\n")
			require.Error(t, err)
			assert.True(t, IsKind(err, ErrKindInvalidServerMessage), "got %v", err)
			assert.Equal(t, tt.input, rest, "input must not be consumed on failure")
		})
	}
}

// TestDecimalRoundTrip verifies that every token matching -?\d+\.\d+ decodes
// to a value that re-encodes and decodes to the same number.
func TestDecimalRoundTrip(t *testing.T) {
	tokens := []string{"0.0", "-0.0", "1.5", "-123.2345", "820.000000", "3.141592653589793", "-0.000001", "99999.99999"}

	for _, token := range tokens {
		t.Run(token, func(t *testing.T) {
			value, rest, err := lexDecimal(token)
			require.NoError(t, err)
			assert.Empty(t, rest)

			again, err := strconv.ParseFloat(strconv.FormatFloat(value, 'f', -1, 64), 64)
			require.NoError(t, err)
			assert.Equal(t, value, again)
		})
	}
}

func TestUintField(t *testing.T) {
	got, rest, err := uintField("Score:100|Angle", "Score:", "|")
	require.NoError(t, err)
	assert.Equal(t, 100, got)
	assert.Equal(t, "Angle", rest)

	got, rest, err = uintField("Iteration:0\n", "Iteration:", "\n")
	require.NoError(t, err)
	assert.Equal(t, 0, got)
	assert.Empty(t, rest)
}

func TestUintFieldErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"Missing digits", "Score:|"},
		{"Negative", "Score:-1|"},
		{"Decimal", "Score:1.5|"},
		{"Wrong postfix", "Score:100\n"},
		{"Overflow", "Score:" + repeatDigits(30) + "|"},
		{"Above int range", "Score:9223372036854775808|"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := uintField(tt.input, "Score:", "|")
			require.Error(t, err)
			assert.True(t, IsKind(err, ErrKindInvalidServerMessage), "got %v", err)
		})
	}
}

func TestBoolField(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"IsAlive:true\n", true},
		{"IsAlive:True\n", true},
		{"IsAlive:false\n", false},
		{"IsAlive:TRUE\n", false},
		{"IsAlive:yes\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, rest, err := boolField(tt.input, "IsAlive:", "\n")
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
			assert.Empty(t, rest)
		})
	}

	_, _, err := boolField("IsAlive:\n", "IsAlive:", "\n")
	assert.Error(t, err, "empty value must fail")
}

func TestTextField(t *testing.T) {
	got, rest, err := textField("Name:Der rote Baron|Color:red", "Name:", "|")
	require.NoError(t, err)
	assert.Equal(t, "Der rote Baron", got)
	assert.Equal(t, "Color:red", rest)

	got, rest, err = textField("MaxUpdateTime:1.503ms\nMaxPlayers:4\n", "MaxUpdateTime:", "\n")
	require.NoError(t, err)
	assert.Equal(t, "1.503ms", got)
	assert.Equal(t, "MaxPlayers:4\n", rest)
}

func TestTextFieldErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"Empty value", "Name:|"},
		{"Missing postfix", "Name:abc"},
		{"Postfix on next line", "Name:abc\nfoo|"},
		{"Missing prefix", "Nom:abc|"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := textField(tt.input, "Name:", "|")
			assert.Error(t, err)
		})
	}
}

func TestColorField(t *testing.T) {
	got, _, err := colorField("Color:green|", "Color:", "|")
	require.NoError(t, err)
	assert.Equal(t, ColorGreen, got)

	got, _, err = colorField("Color:magenta|", "Color:", "|")
	require.NoError(t, err)
	assert.Equal(t, ColorRed, got)
}

func TestPairField(t *testing.T) {
	got, rest, err := pairField("Position:820.000000,-180.500000|Velocity", "Position:", "|")
	require.NoError(t, err)
	assert.Equal(t, Vec2{X: 820, Y: -180.5}, got)
	assert.Equal(t, "Velocity", rest)
}

func TestPairFieldErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"Single value", "Position:1.0|"},
		{"Trailing data", "Position:1.0,2.0x|"},
		{"Semicolon", "Position:1.0;2.0|"},
		{"Integers", "Position:1,2|"},
		{"Three values", "Position:1.0,2.0,3.0|"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, rest, err := pairField(tt.input, "Position:", "|")
			require.Error(t, err)
			assert.Equal(t, tt.input, rest)
		})
	}
}

func TestTouchingCells(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []GridPos
		rest     string
	}{
		{"Single", "TouchingCells:20,4;|", []GridPos{{20, 4}}, ""},
		{"Empty", "TouchingCells:|", nil, ""},
		{"Two", "TouchingCells:18,14;5,3;|IsAlive:true\n", []GridPos{{18, 14}, {5, 3}}, "IsAlive:true\n"},
		{"Above signed range", "TouchingCells:3000000000,1;|", []GridPos{{3000000000, 1}}, ""},
		{"Largest coordinate", "TouchingCells:4294967295,0;|", []GridPos{{4294967295, 0}}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, rest, err := touchingCells(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, tt.rest, rest)
		})
	}
}

func TestTouchingCellsErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"Missing semicolon", "TouchingCells:1,2|"},
		{"Missing terminator", "TouchingCells:1,2;"},
		{"Negative", "TouchingCells:-1,2;|"},
		{"Single coordinate", "TouchingCells:1;|"},
		{"Overflow", "TouchingCells:4294967296,1;|"},
		{"Overflow second coordinate", "TouchingCells:0,4294967296;|"},
		{"Wrong tag", "Touching:1,2;|"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := touchingCells(tt.input)
			assert.Error(t, err)
		})
	}
}

func repeatDigits(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = '9'
	}
	return string(b)
}
