// Package bumperprotocol implements the line-oriented text protocol spoken by
// the SpaceBumper game server to its remote players.
//
// Protocol Format:
//
//	Login (Client -> Server):   <password>|<name>|<color>\n
//	Login reply:                PLAYERID:<id>\n
//	Acceleration:               <x>|<y>\n
//	Event block (Server -> Client):
//	    START <TYPE>\n
//	    ...body lines...
//	    END <TYPE>\n
//
// Example Session:
//
//	CLI: pass|Der rote Baron|red
//	SRV: PLAYERID:0
//	SRV: START STATUS
//	SRV: Iteration:0
//	SRV: Endtime:33572
//	SRV: MaxUpdateTime:0s
//	SRV: MaxPlayers:4
//	SRV: END STATUS
//	CLI: 0.5|-1
package bumperprotocol

import (
	"net"
	"strconv"
	"time"
)

// Protocol constants matching the SpaceBumper server.
const (
	// LoginResultPrefix starts the server's reply to a successful login.
	LoginResultPrefix = "PLAYERID:"

	// FieldSeparator separates the parts of login and acceleration lines and
	// the tagged fields of a player record.
	FieldSeparator = "|"

	// LineTerminator ends every protocol line.
	LineTerminator = "\n"

	// BlockStartPrefix opens every event block.
	BlockStartPrefix = "START "

	// BlockEndPrefix closes every event block.
	BlockEndPrefix = "END "

	// DefaultHost is the address the server listens on by default.
	DefaultHost = "localhost"

	// DefaultPort is the port the server listens on by default.
	DefaultPort = 3333

	// MaxPlayerNameLength is the exclusive upper bound on the byte length of a
	// player name.
	MaxPlayerNameLength = 20

	// ConnectionTimeout is the timeout for establishing connections.
	ConnectionTimeout = 5 * time.Second
)

// Block type names as they appear after START/END.
const (
	BlockTypeStatus = "STATUS"
	BlockTypePlayer = "PLAYER"
	BlockTypeMap    = "MAP"
)

// Opening and closing tags of each block type.
const (
	statusStart = BlockStartPrefix + BlockTypeStatus + LineTerminator
	statusEnd   = BlockEndPrefix + BlockTypeStatus + LineTerminator
	playerStart = BlockStartPrefix + BlockTypePlayer + LineTerminator
	playerEnd   = BlockEndPrefix + BlockTypePlayer + LineTerminator
	mapStart    = BlockStartPrefix + BlockTypeMap + LineTerminator
	mapEnd      = BlockEndPrefix + BlockTypeMap + LineTerminator
)

// Address joins host and port into a dialable TCP address.
func Address(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}
