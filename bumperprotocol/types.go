package bumperprotocol

import "fmt"

// Color is a player's ship color.
type Color int

const (
	// ColorRed is also the fallback for unrecognized color text.
	ColorRed Color = iota
	ColorBlue
	ColorGreen
	ColorOrange
)

// ParseColor converts protocol color text into a Color. Unknown text maps to
// ColorRed rather than failing, matching the server's lenient handling.
func ParseColor(text string) Color {
	switch text {
	case "blue":
		return ColorBlue
	case "green":
		return ColorGreen
	case "orange":
		return ColorOrange
	default:
		return ColorRed
	}
}

// String returns the lowercase protocol name of the color.
func (c Color) String() string {
	switch c {
	case ColorBlue:
		return "blue"
	case ColorGreen:
		return "green"
	case ColorOrange:
		return "orange"
	default:
		return "red"
	}
}

// PlayerName is a name accepted by the server: non-empty and shorter than
// MaxPlayerNameLength bytes. The zero value is not a valid name; obtain one
// through NewPlayerName.
type PlayerName struct {
	name string
}

// NewPlayerName validates name and returns it as a PlayerName.
func NewPlayerName(name string) (PlayerName, error) {
	if name == "" || len(name) >= MaxPlayerNameLength {
		return PlayerName{}, newUsernameLengthError(name)
	}
	return PlayerName{name: name}, nil
}

// String returns the name text.
func (n PlayerName) String() string {
	return n.name
}

// Cell is one terrain square of the map grid.
type Cell int

const (
	CellGround   Cell = iota // '.' flat ground that can be driven on
	CellFallDown             // ' ' ships on this cell fall into the void
	CellBlock                // '#' ships crash and rebound
	CellSlow                 // 's' slows velocity on contact
	CellBoost                // 'b' boosts velocity on contact
	CellStar                 // 'x' increases the score, then turns into ground
	CellAntiStar             // 'a' reduces the score, then turns into ground
	CellSpawn                // 'o' players are placed here
)

// cellBytes maps each Cell to its wire character.
var cellBytes = [...]byte{
	CellGround:   '.',
	CellFallDown: ' ',
	CellBlock:    '#',
	CellSlow:     's',
	CellBoost:    'b',
	CellStar:     'x',
	CellAntiStar: 'a',
	CellSpawn:    'o',
}

// ParseCell converts a wire character into a Cell. Unlike ParseColor it
// reports unknown characters instead of substituting a default.
func ParseCell(b byte) (Cell, bool) {
	for cell, c := range cellBytes {
		if c == b {
			return Cell(cell), true
		}
	}
	return 0, false
}

// Byte returns the wire character of the cell.
func (c Cell) Byte() byte {
	if c < 0 || int(c) >= len(cellBytes) {
		return '?'
	}
	return cellBytes[c]
}

// String returns the name of the cell kind.
func (c Cell) String() string {
	switch c {
	case CellGround:
		return "Ground"
	case CellFallDown:
		return "FallDown"
	case CellBlock:
		return "Block"
	case CellSlow:
		return "Slow"
	case CellBoost:
		return "Boost"
	case CellStar:
		return "Star"
	case CellAntiStar:
		return "AntiStar"
	case CellSpawn:
		return "Spawn"
	default:
		return fmt.Sprintf("Cell(%d)", int(c))
	}
}

// Vec2 is a signed (x, y) pair used for positions, velocities and
// accelerations.
type Vec2 struct {
	X, Y float64
}

// GridPos is a (column, row) coordinate on the map grid.
type GridPos struct {
	X, Y int
}

// Player is a snapshot of one ship as reported in a PLAYER block.
type Player struct {
	ID            int
	Name          string
	Color         Color
	Position      Vec2
	Velocity      Vec2
	Acceleration  Vec2
	Score         int
	Angle         float64
	TouchingCells []GridPos
	Alive         bool
}

// StatusBlock is the payload of a STATUS block.
type StatusBlock struct {
	Iteration     int
	EndTime       int
	MaxUpdateTime string // Server duration text such as "0s" or "1.2ms"
	MaxPlayers    int
}

// PlayerBlock is the payload of a PLAYER block, in the order received.
type PlayerBlock struct {
	Players []Player
}

// MapBlock is the payload of a MAP block. Rows may differ in length.
type MapBlock struct {
	Rows [][]Cell
}

// EventType represents the kind of event produced by Session.WaitNext.
type EventType int

const (
	// EventStatus carries a StatusBlock.
	EventStatus EventType = iota
	// EventPlayer carries a PlayerBlock.
	EventPlayer
	// EventMap carries a MapBlock.
	EventMap
	// EventGameEnded reports that the server closed the stream.
	EventGameEnded
)

// String returns the lowercase name of the event type.
func (t EventType) String() string {
	switch t {
	case EventStatus:
		return "status"
	case EventPlayer:
		return "player"
	case EventMap:
		return "map"
	case EventGameEnded:
		return "game_ended"
	default:
		return "unknown"
	}
}

// Event is one decoded unit of the server stream. Only the field matching
// Type is set.
type Event struct {
	Type EventType

	// For EventStatus
	Status StatusBlock

	// For EventPlayer
	Players PlayerBlock

	// For EventMap
	Map MapBlock
}

// NewStatusEvent creates a status event.
func NewStatusEvent(status StatusBlock) Event {
	return Event{Type: EventStatus, Status: status}
}

// NewPlayerEvent creates a player event.
func NewPlayerEvent(players PlayerBlock) Event {
	return Event{Type: EventPlayer, Players: players}
}

// NewMapEvent creates a map event.
func NewMapEvent(m MapBlock) Event {
	return Event{Type: EventMap, Map: m}
}

// NewGameEndedEvent creates the end-of-stream event.
func NewGameEndedEvent() Event {
	return Event{Type: EventGameEnded}
}
