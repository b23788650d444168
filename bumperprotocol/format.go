package bumperprotocol

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatLogin returns the login request line for the given credentials.
func FormatLogin(password string, name PlayerName, color Color) string {
	return password + FieldSeparator + name.String() + FieldSeparator + color.String() + LineTerminator
}

// FormatLoginResult returns the server's reply line for a successful login.
func FormatLoginResult(id int) string {
	return LoginResultPrefix + strconv.Itoa(id) + LineTerminator
}

// FormatAcceleration returns the acceleration command line for (x, y).
// Values use the shortest decimal text that parses back to the same value.
func FormatAcceleration(x, y float64) string {
	return formatShort(x) + FieldSeparator + formatShort(y) + LineTerminator
}

func formatShort(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Format returns the block formatted for transmission, as the server emits it.
func (s StatusBlock) Format() string {
	sb := new(strings.Builder)
	sb.WriteString(statusStart)
	fmt.Fprintf(sb, "Iteration:%d\n", s.Iteration)
	fmt.Fprintf(sb, "Endtime:%d\n", s.EndTime)
	fmt.Fprintf(sb, "MaxUpdateTime:%s\n", s.MaxUpdateTime)
	fmt.Fprintf(sb, "MaxPlayers:%d\n", s.MaxPlayers)
	sb.WriteString(statusEnd)
	return sb.String()
}

// Format returns the player record line, including its line break.
func (p Player) Format() string {
	sb := new(strings.Builder)
	fmt.Fprintf(sb, "PlayerID:%d", p.ID)
	fmt.Fprintf(sb, "|Name:%s", p.Name)
	fmt.Fprintf(sb, "|Color:%s", p.Color)
	fmt.Fprintf(sb, "|Position:%.6f,%.6f", p.Position.X, p.Position.Y)
	fmt.Fprintf(sb, "|Velocity:%.6f,%.6f", p.Velocity.X, p.Velocity.Y)
	fmt.Fprintf(sb, "|Acceleration:%.6f,%.6f", p.Acceleration.X, p.Acceleration.Y)
	fmt.Fprintf(sb, "|Score:%d", p.Score)
	fmt.Fprintf(sb, "|Angle:%.6f", p.Angle)
	sb.WriteString("|" + touchingCellsTag)
	for _, pos := range p.TouchingCells {
		fmt.Fprintf(sb, "%d,%d;", pos.X, pos.Y)
	}
	fmt.Fprintf(sb, "|IsAlive:%t\n", p.Alive)
	return sb.String()
}

// Format returns the block formatted for transmission.
func (b PlayerBlock) Format() string {
	sb := new(strings.Builder)
	sb.WriteString(playerStart)
	for _, p := range b.Players {
		sb.WriteString(p.Format())
	}
	sb.WriteString(playerEnd)
	return sb.String()
}

// Format returns the block formatted for transmission.
func (m MapBlock) Format() string {
	sb := new(strings.Builder)
	sb.WriteString(mapStart)
	for _, row := range m.Rows {
		for _, cell := range row {
			sb.WriteByte(cell.Byte())
		}
		sb.WriteByte('\n')
	}
	sb.WriteString(mapEnd)
	return sb.String()
}

// Format returns the event's block formatted for transmission. A game ended
// event has no wire form and formats as the empty string.
func (e Event) Format() string {
	switch e.Type {
	case EventStatus:
		return e.Status.Format()
	case EventPlayer:
		return e.Players.Format()
	case EventMap:
		return e.Map.Format()
	default:
		return ""
	}
}
