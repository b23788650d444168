package bumperprotocol

import (
	"errors"
	"fmt"
)

// Sentinel errors for session ownership.
var (
	// ErrSessionActive indicates Login was called on a connection that has
	// already handed its stream to a session.
	ErrSessionActive = errors.New("connection already has an active session")

	// ErrSessionClosed indicates an operation on a closed session.
	ErrSessionClosed = errors.New("session closed")
)

// ErrorKind categorizes protocol errors.
type ErrorKind int

const (
	// ErrKindConnection indicates the transport could not be established.
	ErrKindConnection ErrorKind = iota
	// ErrKindUsernameLength indicates a player name that is empty or too long.
	ErrKindUsernameLength
	// ErrKindLogin indicates an I/O fault while writing the login line or
	// reading its reply.
	ErrKindLogin
	// ErrKindLoginResult indicates a login reply that is not PLAYERID:<id>.
	ErrKindLoginResult
	// ErrKindAccelerationWrite indicates an I/O fault sending an acceleration.
	ErrKindAccelerationWrite
	// ErrKindServerDidNotSendLine indicates an I/O fault while reading a line
	// of an event block.
	ErrKindServerDidNotSendLine
	// ErrKindInvalidServerMessage indicates text that does not match the
	// block or field grammar.
	ErrKindInvalidServerMessage
)

// String returns a short name for the kind.
func (k ErrorKind) String() string {
	switch k {
	case ErrKindConnection:
		return "connection"
	case ErrKindUsernameLength:
		return "username length"
	case ErrKindLogin:
		return "login"
	case ErrKindLoginResult:
		return "login result"
	case ErrKindAccelerationWrite:
		return "acceleration write"
	case ErrKindServerDidNotSendLine:
		return "server did not send line"
	case ErrKindInvalidServerMessage:
		return "invalid server message"
	default:
		return "unknown"
	}
}

// ProtocolError is returned by every codec operation that fails.
type ProtocolError struct {
	Kind   ErrorKind
	Raw    string // The offending text received from the server, if any
	Detail string // Additional context
	Cause  error  // Underlying I/O error, if any
}

// Error implements the error interface.
func (e *ProtocolError) Error() string {
	switch e.Kind {
	case ErrKindConnection:
		return fmt.Sprintf("connection failed: %s: %v", e.Detail, e.Cause)
	case ErrKindUsernameLength:
		return fmt.Sprintf("player name must be 1 to %d bytes long, got %d", MaxPlayerNameLength-1, len(e.Raw))
	case ErrKindLogin:
		return fmt.Sprintf("login failed: %v", e.Cause)
	case ErrKindLoginResult:
		return fmt.Sprintf("unexpected login reply %q", e.Raw)
	case ErrKindAccelerationWrite:
		return fmt.Sprintf("failed to send acceleration: %v", e.Cause)
	case ErrKindServerDidNotSendLine:
		return fmt.Sprintf("server did not send a line: %v", e.Cause)
	case ErrKindInvalidServerMessage:
		if e.Detail != "" {
			return fmt.Sprintf("invalid server message: %s: %q", e.Detail, e.Raw)
		}
		return fmt.Sprintf("invalid server message %q", e.Raw)
	default:
		return fmt.Sprintf("protocol error: %s", e.Detail)
	}
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *ProtocolError) Unwrap() error {
	return e.Cause
}

// IsKind reports whether err is a *ProtocolError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var perr *ProtocolError
	return errors.As(err, &perr) && perr.Kind == kind
}

// NewConnectionError creates a new connection error.
func NewConnectionError(message string, cause error) error {
	return &ProtocolError{Kind: ErrKindConnection, Detail: message, Cause: cause}
}

func newUsernameLengthError(name string) error {
	return &ProtocolError{Kind: ErrKindUsernameLength, Raw: name}
}

func newLoginError(cause error) error {
	return &ProtocolError{Kind: ErrKindLogin, Cause: cause}
}

func newLoginResultError(line string) error {
	return &ProtocolError{Kind: ErrKindLoginResult, Raw: line}
}

func newAccelerationWriteError(cause error) error {
	return &ProtocolError{Kind: ErrKindAccelerationWrite, Cause: cause}
}

func newServerDidNotSendLineError(partial string, cause error) error {
	return &ProtocolError{Kind: ErrKindServerDidNotSendLine, Raw: partial, Cause: cause}
}

func newInvalidServerMessageError(raw, detail string) error {
	return &ProtocolError{Kind: ErrKindInvalidServerMessage, Raw: raw, Detail: detail}
}
