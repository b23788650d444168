package bumperprotocol

import (
	"errors"
	"fmt"
	"strings"
)

// blockParser decodes one block type. The first parser whose start tag
// matches the block is used.
type blockParser struct {
	start string
	parse func(block string) (Event, string, error)
}

var blockParsers = []blockParser{
	{start: statusStart, parse: func(s string) (Event, string, error) {
		status, rest, err := parseStatusBlock(s)
		return NewStatusEvent(status), rest, err
	}},
	{start: playerStart, parse: func(s string) (Event, string, error) {
		players, rest, err := parsePlayerBlock(s)
		return NewPlayerEvent(players), rest, err
	}},
	{start: mapStart, parse: func(s string) (Event, string, error) {
		m, rest, err := parseMapBlock(s)
		return NewMapEvent(m), rest, err
	}},
}

// ParseBlock decodes one complete START ... END block into an Event.
// Status, player and map blocks are tried in that order. Any grammar
// mismatch fails the whole block with an InvalidServerMessage error that
// carries the raw block text.
func ParseBlock(block string) (Event, error) {
	for _, bp := range blockParsers {
		if !strings.HasPrefix(block, bp.start) {
			continue
		}
		event, rest, err := bp.parse(block)
		if err = complete(block, rest, err); err != nil {
			return Event{}, err
		}
		return event, nil
	}
	opening := strings.TrimSuffix(firstLine(block), LineTerminator)
	return Event{}, newInvalidServerMessageError(block, fmt.Sprintf("unknown block %q", opening))
}

// ParseStatusBlock decodes a START STATUS ... END STATUS block.
func ParseStatusBlock(block string) (StatusBlock, error) {
	status, rest, err := parseStatusBlock(block)
	if err = complete(block, rest, err); err != nil {
		return StatusBlock{}, err
	}
	return status, nil
}

// ParsePlayerBlock decodes a START PLAYER ... END PLAYER block.
func ParsePlayerBlock(block string) (PlayerBlock, error) {
	players, rest, err := parsePlayerBlock(block)
	if err = complete(block, rest, err); err != nil {
		return PlayerBlock{}, err
	}
	return players, nil
}

// ParseMapBlock decodes a START MAP ... END MAP block.
func ParseMapBlock(block string) (MapBlock, error) {
	m, rest, err := parseMapBlock(block)
	if err = complete(block, rest, err); err != nil {
		return MapBlock{}, err
	}
	return m, nil
}

// ParsePlayer decodes a single player record line, including its line break.
func ParsePlayer(line string) (Player, error) {
	player, rest, err := parsePlayer(line)
	if err = complete(line, rest, err); err != nil {
		return Player{}, err
	}
	return player, nil
}

// ParseMapRow decodes a single map row, including its line break.
func ParseMapRow(line string) ([]Cell, error) {
	row, rest, err := parseMapRow(line)
	if err = complete(line, rest, err); err != nil {
		return nil, err
	}
	return row, nil
}

// complete turns a parser result into the error reported for raw: grammar
// errors are rewrapped to carry the whole input, and unconsumed input is
// rejected.
func complete(raw, rest string, err error) error {
	if err != nil {
		var perr *ProtocolError
		if errors.As(err, &perr) && perr.Kind == ErrKindInvalidServerMessage {
			return newInvalidServerMessageError(raw, fmt.Sprintf("%s near %q", perr.Detail, perr.Raw))
		}
		return err
	}
	if rest != "" {
		return newInvalidServerMessageError(raw, fmt.Sprintf("unexpected data %q after block", firstLine(rest)))
	}
	return nil
}

func parseStatusBlock(s string) (StatusBlock, string, error) {
	var status StatusBlock
	rest, err := expectTag(s, statusStart)
	if err != nil {
		return StatusBlock{}, s, err
	}
	if status.Iteration, rest, err = uintField(rest, "Iteration:", LineTerminator); err != nil {
		return StatusBlock{}, s, err
	}
	if status.EndTime, rest, err = uintField(rest, "Endtime:", LineTerminator); err != nil {
		return StatusBlock{}, s, err
	}
	if status.MaxUpdateTime, rest, err = textField(rest, "MaxUpdateTime:", LineTerminator); err != nil {
		return StatusBlock{}, s, err
	}
	if status.MaxPlayers, rest, err = uintField(rest, "MaxPlayers:", LineTerminator); err != nil {
		return StatusBlock{}, s, err
	}
	if rest, err = expectTag(rest, statusEnd); err != nil {
		return StatusBlock{}, s, err
	}
	return status, rest, nil
}

func parsePlayerBlock(s string) (PlayerBlock, string, error) {
	var block PlayerBlock
	rest, err := expectTag(s, playerStart)
	if err != nil {
		return PlayerBlock{}, s, err
	}
	for !strings.HasPrefix(rest, playerEnd) {
		if rest == "" {
			return PlayerBlock{}, s, syntaxErrorf(rest, "missing %q", playerEnd)
		}
		var player Player
		if player, rest, err = parsePlayer(rest); err != nil {
			return PlayerBlock{}, s, err
		}
		block.Players = append(block.Players, player)
	}
	return block, rest[len(playerEnd):], nil
}

func parseMapBlock(s string) (MapBlock, string, error) {
	var block MapBlock
	rest, err := expectTag(s, mapStart)
	if err != nil {
		return MapBlock{}, s, err
	}
	for !strings.HasPrefix(rest, mapEnd) {
		if rest == "" {
			return MapBlock{}, s, syntaxErrorf(rest, "missing %q", mapEnd)
		}
		var row []Cell
		if row, rest, err = parseMapRow(rest); err != nil {
			return MapBlock{}, s, err
		}
		block.Rows = append(block.Rows, row)
	}
	return block, rest[len(mapEnd):], nil
}

// parsePlayer decodes one record of the form
//
//	PlayerID:<u>|Name:<text>|Color:<c>|Position:<f>,<f>|Velocity:<f>,<f>|
//	Acceleration:<f>,<f>|Score:<u>|Angle:<f>|TouchingCells:<cells>|IsAlive:<bool>\n
func parsePlayer(s string) (Player, string, error) {
	var p Player
	var err error
	rest := s
	if p.ID, rest, err = uintField(rest, "PlayerID:", FieldSeparator); err != nil {
		return Player{}, s, err
	}
	if p.Name, rest, err = textField(rest, "Name:", FieldSeparator); err != nil {
		return Player{}, s, err
	}
	if p.Color, rest, err = colorField(rest, "Color:", FieldSeparator); err != nil {
		return Player{}, s, err
	}
	if p.Position, rest, err = pairField(rest, "Position:", FieldSeparator); err != nil {
		return Player{}, s, err
	}
	if p.Velocity, rest, err = pairField(rest, "Velocity:", FieldSeparator); err != nil {
		return Player{}, s, err
	}
	if p.Acceleration, rest, err = pairField(rest, "Acceleration:", FieldSeparator); err != nil {
		return Player{}, s, err
	}
	if p.Score, rest, err = uintField(rest, "Score:", FieldSeparator); err != nil {
		return Player{}, s, err
	}
	if p.Angle, rest, err = floatField(rest, "Angle:", FieldSeparator); err != nil {
		return Player{}, s, err
	}
	if p.TouchingCells, rest, err = touchingCells(rest); err != nil {
		return Player{}, s, err
	}
	if p.Alive, rest, err = boolField(rest, "IsAlive:", LineTerminator); err != nil {
		return Player{}, s, err
	}
	return p, rest, nil
}

// parseMapRow decodes cell characters up to a "\n" or "\r\n" line ending.
func parseMapRow(s string) ([]Cell, string, error) {
	row := make([]Cell, 0, len(firstLine(s)))
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] == '\n':
			return row, s[i+1:], nil
		case strings.HasPrefix(s[i:], "\r\n"):
			return row, s[i+2:], nil
		}
		cell, ok := ParseCell(s[i])
		if !ok {
			return nil, s, syntaxErrorf(s, "unexpected cell %q at column %d", s[i], i)
		}
		row = append(row, cell)
	}
	return nil, s, syntaxErrorf(s, "map row is not terminated by a line break")
}
