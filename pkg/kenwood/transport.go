package kenwood

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/tarm/serial"
)

// Transport carries one command/response exchange with the radio. The
// protocol is strictly half duplex: every command gets exactly one reply
// line, so Transact serializes callers internally.
type Transport interface {
	Transact(cmd string) (string, error)
	Close() error
}

// SerialPort is the subset of a serial connection the transport needs,
// split out so tests can substitute a mock.
type SerialPort interface {
	io.ReadWriteCloser
}

// SerialTransport talks to the radio over its PC port. Commands go out as
// a single ASCII line terminated by CR, and the reply is read up to the
// next CR.
type SerialTransport struct {
	mu     sync.Mutex
	port   SerialPort
	reader *bufio.Reader
	trace  bool
}

// OpenSerial opens the radio's serial port. The TM-V71 PC port defaults to
// 9600 baud; 19200, 38400 and 57600 are menu options.
func OpenSerial(device string, baud int, timeout time.Duration) (*SerialTransport, error) {
	port, err := serial.OpenPort(&serial.Config{
		Name:        device,
		Baud:        baud,
		ReadTimeout: timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", device, err)
	}
	return NewSerialTransport(port), nil
}

// NewSerialTransport wraps an already open port.
func NewSerialTransport(port SerialPort) *SerialTransport {
	return &SerialTransport{
		port:   port,
		reader: bufio.NewReader(port),
	}
}

// SetTrace enables logging of every exchanged line.
func (t *SerialTransport) SetTrace(on bool) {
	t.mu.Lock()
	t.trace = on
	t.mu.Unlock()
}

// Transact sends one command and returns the radio's reply line with the
// terminator stripped. A "?" or "N" reply means the radio refused the
// command and maps to ErrRejected.
func (t *SerialTransport) Transact(cmd string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.trace {
		log.Printf("radio <- %q", cmd)
	}
	if _, err := t.port.Write([]byte(cmd + "\r")); err != nil {
		return "", fmt.Errorf("failed to send %q: %w", cmd, err)
	}

	line, err := t.reader.ReadString('\r')
	if err != nil {
		return "", fmt.Errorf("failed to read reply to %q: %w", cmd, err)
	}
	line = strings.TrimRight(line, "\r\n")
	if t.trace {
		log.Printf("radio -> %q", line)
	}

	switch line {
	case "?", "N":
		return "", fmt.Errorf("%q: %w", cmd, ErrRejected)
	}
	return line, nil
}

// Close closes the underlying port.
func (t *SerialTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.port.Close()
}
