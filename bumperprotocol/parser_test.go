package bumperprotocol

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const statusBlockText = `START STATUS
Iteration:0
Endtime:33572
MaxUpdateTime:0s
MaxPlayers:4
END STATUS
`

const playerBlockText = `START PLAYER
PlayerID:0|Name:Der rote Baron|Color:red|Position:820.000000,180.000000|Velocity:0.000000,0.000000|Acceleration:0.000000,0.000000|Score:100|Angle:0.000000|TouchingCells:20,4;|IsAlive:true
PlayerID:1|Name:asdads|Color:red|Position:740.000000,580.000000|Velocity:0.000000,0.000000|Acceleration:0.000000,0.000000|Score:100|Angle:0.000000|TouchingCells:18,14;5,3;|IsAlive:true
END PLAYER
`

const mapBlockText = `START MAP
#xb
. o
as.
END MAP
`

func TestParseStatusBlock(t *testing.T) {
	got, err := ParseStatusBlock(statusBlockText)
	require.NoError(t, err)
	assert.Equal(t, StatusBlock{
		Iteration:     0,
		EndTime:       33572,
		MaxUpdateTime: "0s",
		MaxPlayers:    4,
	}, got)
}

func TestParsePlayerBlock(t *testing.T) {
	got, err := ParsePlayerBlock(playerBlockText)
	require.NoError(t, err)
	assert.Equal(t, PlayerBlock{Players: []Player{
		{
			ID:            0,
			Name:          "Der rote Baron",
			Color:         ColorRed,
			Position:      Vec2{820, 180},
			Score:         100,
			TouchingCells: []GridPos{{20, 4}},
			Alive:         true,
		},
		{
			ID:            1,
			Name:          "asdads",
			Color:         ColorRed,
			Position:      Vec2{740, 580},
			Score:         100,
			TouchingCells: []GridPos{{18, 14}, {5, 3}},
			Alive:         true,
		},
	}}, got)
}

func TestParsePlayerBlockEmpty(t *testing.T) {
	got, err := ParsePlayerBlock("START PLAYER\nEND PLAYER\n")
	require.NoError(t, err)
	assert.Empty(t, got.Players)
}

func TestParsePlayerBlockKeepsDuplicates(t *testing.T) {
	line := "PlayerID:3|Name:dup|Color:blue|Position:1.0,2.0|Velocity:0.0,0.0|Acceleration:0.0,0.0|Score:0|Angle:-1.5|TouchingCells:|IsAlive:false\n"
	got, err := ParsePlayerBlock(playerStart + line + line + playerEnd)
	require.NoError(t, err)
	require.Len(t, got.Players, 2)
	assert.Equal(t, got.Players[0], got.Players[1])
	assert.Equal(t, 3, got.Players[0].ID)
	assert.Equal(t, -1.5, got.Players[0].Angle)
	assert.Empty(t, got.Players[0].TouchingCells)
	assert.False(t, got.Players[0].Alive)
}

func TestParseMapBlock(t *testing.T) {
	got, err := ParseMapBlock(mapBlockText)
	require.NoError(t, err)
	assert.Equal(t, MapBlock{Rows: [][]Cell{
		{CellBlock, CellStar, CellBoost},
		{CellGround, CellFallDown, CellSpawn},
		{CellAntiStar, CellSlow, CellGround},
	}}, got)
}

func TestParseMapBlockRaggedRows(t *testing.T) {
	got, err := ParseMapBlock("START MAP\n#\n...\n\nEND MAP\n")
	require.NoError(t, err)
	require.Len(t, got.Rows, 3)
	assert.Len(t, got.Rows[0], 1)
	assert.Len(t, got.Rows[1], 3)
	assert.Empty(t, got.Rows[2])
}

func TestParseMapRow(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Cell
	}{
		{"Block star boost", "#xb\n", []Cell{CellBlock, CellStar, CellBoost}},
		{"CRLF", "o.\r\n", []Cell{CellSpawn, CellGround}},
		{"Empty", "\n", []Cell{}},
		{"Spaces", "  \n", []Cell{CellFallDown, CellFallDown}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMapRow(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseMapRowErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"Unknown cell", "#?b\n"},
		{"Tab", "#\tb\n"},
		{"Lone carriage return", "#\rb\n"},
		{"No line break", "#xb"},
		{"Two rows", "#\n#\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var err error
			require.NotPanics(t, func() { _, err = ParseMapRow(tt.input) })
			require.Error(t, err)
			assert.True(t, IsKind(err, ErrKindInvalidServerMessage), "got %v", err)
		})
	}
}

func TestParsePlayer(t *testing.T) {
	line := "PlayerID:12|Name:Python AI|Color:orange|Position:-1.250000,2.500000|Velocity:0.100000,-0.200000|Acceleration:1.000000,0.000000|Score:95|Angle:-3.141593|TouchingCells:|IsAlive:false\n"
	got, err := ParsePlayer(line)
	require.NoError(t, err)
	assert.Equal(t, Player{
		ID:           12,
		Name:         "Python AI",
		Color:        ColorOrange,
		Position:     Vec2{-1.25, 2.5},
		Velocity:     Vec2{0.1, -0.2},
		Acceleration: Vec2{1, 0},
		Score:        95,
		Angle:        -3.141593,
		Alive:        false,
	}, got)
}

func TestParsePlayerErrors(t *testing.T) {
	valid := "PlayerID:0|Name:a|Color:red|Position:0.0,0.0|Velocity:0.0,0.0|Acceleration:0.0,0.0|Score:1|Angle:0.0|TouchingCells:|IsAlive:true\n"
	require.NotPanics(t, func() {
		_, err := ParsePlayer(valid)
		require.NoError(t, err)
	})

	tests := []struct {
		name  string
		input string
	}{
		{"Fields out of order", strings.Replace(valid, "Name:a|Color:red", "Color:red|Name:a", 1)},
		{"Missing field", strings.Replace(valid, "Score:1|", "", 1)},
		{"Integer position", strings.Replace(valid, "Position:0.0,0.0", "Position:0,0", 1)},
		{"Bad float pair", strings.Replace(valid, "Velocity:0.0,0.0", "Velocity:0.0,x", 1)},
		{"Integer angle", strings.Replace(valid, "Angle:0.0", "Angle:0", 1)},
		{"Missing line break", strings.TrimSuffix(valid, "\n")},
		{"Empty name", strings.Replace(valid, "Name:a", "Name:", 1)},
		{"Trailing data", valid + "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var err error
			require.NotPanics(t, func() { _, err = ParsePlayer(tt.input) })
			require.Error(t, err)
			assert.True(t, IsKind(err, ErrKindInvalidServerMessage), "got %v", err)
		})
	}
}

func TestParseBlockDispatch(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected EventType
	}{
		{"Status", statusBlockText, EventStatus},
		{"Player", playerBlockText, EventPlayer},
		{"Map", mapBlockText, EventMap},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, err := ParseBlock(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, event.Type)
		})
	}
}

func TestParseBlockUnknownType(t *testing.T) {
	block := "START SCORE\nfoo\nEND SCORE\n"
	_, err := ParseBlock(block)
	require.Error(t, err)

	var perr *ProtocolError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, ErrKindInvalidServerMessage, perr.Kind)
	assert.Equal(t, block, perr.Raw)
	assert.Contains(t, perr.Error(), "START SCORE")
}

func TestParseBlockErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"Status fields out of order", "START STATUS\nEndtime:1\nIteration:0\nMaxUpdateTime:0s\nMaxPlayers:4\nEND STATUS\n"},
		{"Status missing field", "START STATUS\nIteration:0\nEndtime:1\nMaxPlayers:4\nEND STATUS\n"},
		{"Status wrong end", "START STATUS\nIteration:0\nEndtime:1\nMaxUpdateTime:0s\nMaxPlayers:4\nEND MAP\n"},
		{"Status extra field", strings.Replace(statusBlockText, "END STATUS", "Extra:1\nEND STATUS", 1)},
		{"Player missing end", "START PLAYER\n"},
		{"Player garbage line", "START PLAYER\nhello\nEND PLAYER\n"},
		{"Map bad cell", "START MAP\n#?#\nEND MAP\n"},
		{"Map missing end", "START MAP\n###\n"},
		{"Trailing data", statusBlockText + "junk\n"},
		{"Lowercase tag", strings.ToLower(statusBlockText)},
		{"Empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var err error
			require.NotPanics(t, func() { _, err = ParseBlock(tt.input) })
			require.Error(t, err)

			var perr *ProtocolError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, ErrKindInvalidServerMessage, perr.Kind)
			assert.Equal(t, tt.input, perr.Raw)
		})
	}
}

// TestParseBlockIdempotent verifies that parsing holds no hidden state.
func TestParseBlockIdempotent(t *testing.T) {
	for _, block := range []string{statusBlockText, playerBlockText, mapBlockText} {
		first, err := ParseBlock(block)
		require.NoError(t, err)
		second, err := ParseBlock(block)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	}
}

// TestFormatParseRoundTrip verifies that formatted blocks decode back to the
// events they were built from.
func TestFormatParseRoundTrip(t *testing.T) {
	events := []Event{
		NewStatusEvent(StatusBlock{Iteration: 42, EndTime: 10800, MaxUpdateTime: "1.503ms", MaxPlayers: 2}),
		NewPlayerEvent(PlayerBlock{Players: []Player{{
			ID:            5,
			Name:          "Local Player",
			Color:         ColorBlue,
			Position:      Vec2{-123.2345, 0.5},
			Velocity:      Vec2{1.25, -2},
			Acceleration:  Vec2{0, 1},
			Score:         7,
			Angle:         -90.5,
			TouchingCells: []GridPos{{1, 2}, {3, 4}},
			Alive:         true,
		}}}),
		NewMapEvent(MapBlock{Rows: [][]Cell{
			{CellBlock, CellBlock, CellBlock},
			{CellBlock, CellSpawn, CellFallDown, CellStar},
			{},
		}}),
	}

	for _, event := range events {
		t.Run(event.Type.String(), func(t *testing.T) {
			got, err := ParseBlock(event.Format())
			require.NoError(t, err)
			assert.Equal(t, event, got)
		})
	}
}

func TestFormatGameEnded(t *testing.T) {
	assert.Empty(t, NewGameEndedEvent().Format())
}

func TestStatusBlockFormat(t *testing.T) {
	got := StatusBlock{Iteration: 0, EndTime: 33572, MaxUpdateTime: "0s", MaxPlayers: 4}.Format()
	assert.Equal(t, statusBlockText, got)
}

func TestPlayerFormat(t *testing.T) {
	got := Player{
		ID:            0,
		Name:          "Der rote Baron",
		Position:      Vec2{820, 180},
		Score:         100,
		TouchingCells: []GridPos{{20, 4}},
		Alive:         true,
	}.Format()
	assert.Equal(t, strings.Split(playerBlockText, "\n")[1]+"\n", got)
}
