package kenwood

import (
	"errors"
	"fmt"
)

// ErrChannelNotFound indicates the radio rejected a memory channel read
// because the channel has never been written.
var ErrChannelNotFound = errors.New("memory channel not found")

// ErrRejected indicates the radio answered a command with "?" or "N".
var ErrRejected = errors.New("command rejected by radio")

// ProtocolError indicates a response that parsed as a line but did not match
// the expected record shape. It is never retried: it means a codec bug or a
// firmware mismatch, not a transient fault.
type ProtocolError struct {
	Command  string
	Response string
	Reason   string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("protocol mismatch for %q: %s (got %q)", e.Command, e.Reason, e.Response)
}

// UnsupportedValueError indicates the caller asked for a tone, step, mode or
// shift that is not in the radio's capability tables. It is detected before
// any radio transaction is issued.
type UnsupportedValueError struct {
	What  string
	Value interface{}
}

func (e *UnsupportedValueError) Error() string {
	return fmt.Sprintf("unsupported %s value: %v", e.What, e.Value)
}
