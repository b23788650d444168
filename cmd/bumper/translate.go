// =============================================================================
// translate.go - Drive Prompt Input Parsing
// =============================================================================
//
// Translates what the user types at the drive prompt into a command:
//
//	0.5 -1        acceleration (x, y)
//	0.5,-1        same, comma separated
//	0.5|-1        same, in wire format
//	up [m]        direction word with optional magnitude (default 1)
//	stop          zero acceleration
//	.help [topic] show help
//	.quit         leave the prompt
//
// Screen coordinates grow downward, so "up" is negative y.
//
// =============================================================================

package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spacebumper/bumper/bumperprotocol"
)

// driveAction is the kind of a parsed prompt line.
type driveAction int

const (
	actionNone driveAction = iota
	actionAccelerate
	actionHelp
	actionQuit
)

// driveCommand is one parsed prompt line.
type driveCommand struct {
	action driveAction
	accel  bumperprotocol.Vec2
	topic  string
}

// directions maps direction words to unit vectors.
var directions = map[string]bumperprotocol.Vec2{
	"up":    {X: 0, Y: -1},
	"down":  {X: 0, Y: 1},
	"left":  {X: -1, Y: 0},
	"right": {X: 1, Y: 0},
	"stop":  {X: 0, Y: 0},
}

// translateInput parses one line typed at the drive prompt.
func translateInput(line string) (driveCommand, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return driveCommand{action: actionNone}, nil
	}

	if strings.HasPrefix(trimmed, ".") {
		return translateDotCommand(trimmed)
	}

	fields := strings.Fields(strings.ToLower(trimmed))
	if dir, ok := directions[fields[0]]; ok {
		return translateDirection(dir, fields[1:])
	}
	return translateVector(trimmed)
}

func translateDotCommand(trimmed string) (driveCommand, error) {
	parts := strings.SplitN(trimmed, " ", 2)
	keyword := strings.ToLower(parts[0])
	args := ""
	if len(parts) > 1 {
		args = strings.TrimSpace(parts[1])
	}

	switch keyword {
	case ".quit", ".exit":
		return driveCommand{action: actionQuit}, nil
	case ".help":
		return driveCommand{action: actionHelp, topic: args}, nil
	default:
		return driveCommand{}, fmt.Errorf("unknown command %s (type .help)", parts[0])
	}
}

func translateDirection(dir bumperprotocol.Vec2, args []string) (driveCommand, error) {
	magnitude := 1.0
	switch len(args) {
	case 0:
	case 1:
		m, err := parseComponent(args[0])
		if err != nil {
			return driveCommand{}, err
		}
		magnitude = m
	default:
		return driveCommand{}, fmt.Errorf("expected at most one magnitude, got %d values", len(args))
	}
	// Zero components stay 0 so a negative magnitude never sends "-0".
	accel := bumperprotocol.Vec2{X: dir.X * magnitude, Y: dir.Y * magnitude}
	if dir.X == 0 {
		accel.X = 0
	}
	if dir.Y == 0 {
		accel.Y = 0
	}
	return driveCommand{action: actionAccelerate, accel: accel}, nil
}

// translateVector parses "x y", "x,y" or "x|y".
func translateVector(trimmed string) (driveCommand, error) {
	var parts []string
	switch {
	case strings.Contains(trimmed, bumperprotocol.FieldSeparator):
		parts = strings.Split(trimmed, bumperprotocol.FieldSeparator)
	case strings.Contains(trimmed, ","):
		parts = strings.Split(trimmed, ",")
	default:
		parts = strings.Fields(trimmed)
	}
	if len(parts) != 2 {
		return driveCommand{}, fmt.Errorf("expected two numbers or a direction, got %q", trimmed)
	}

	x, err := parseComponent(strings.TrimSpace(parts[0]))
	if err != nil {
		return driveCommand{}, err
	}
	y, err := parseComponent(strings.TrimSpace(parts[1]))
	if err != nil {
		return driveCommand{}, err
	}
	return driveCommand{action: actionAccelerate, accel: bumperprotocol.Vec2{X: x, Y: y}}, nil
}

// parseComponent parses one finite acceleration component.
func parseComponent(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("acceleration must be finite, got %q", s)
	}
	return v, nil
}
