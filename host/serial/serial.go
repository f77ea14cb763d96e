// Package serial opens the firmware's USB CDC console.
package serial

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
)

// Port represents a serial port interface
// Native ports come from Open; tests pass any io.ReadWriteCloser.
type Port interface {
	io.ReadWriteCloser

	// Flush flushes any buffered data
	Flush() error
}

// Config holds serial port configuration
type Config struct {
	// Device path (e.g., "/dev/ttyACM0", "COM3")
	Device string

	// Baud rate (USB CDC ignores this)
	Baud int

	// Read timeout in milliseconds (0 = blocking)
	ReadTimeout int
}

// DefaultConfig returns the console configuration for a drive board
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        115200,
		ReadTimeout: 100,
	}
}

// ReadLines calls fn for every non-empty line read from r until ctx is
// cancelled, r ends or fn returns an error. When r is a Port, read timeouts
// are retried instead of ending the stream.
func ReadLines(ctx context.Context, r io.Reader, fn func(string) error) error {
	_, live := r.(Port)
	br := bufio.NewReader(r)
	var pending string
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		chunk, err := br.ReadString('\n')
		pending += chunk
		switch {
		case err == nil:
			line := strings.TrimRight(pending, "\r\n")
			pending = ""
			if line == "" {
				continue
			}
			if err := fn(line); err != nil {
				return err
			}
		case live && (errors.Is(err, io.EOF) || errors.Is(err, io.ErrNoProgress)):
			// Timed out with no data
		case errors.Is(err, io.EOF):
			if line := strings.TrimRight(pending, "\r\n"); line != "" {
				return fn(line)
			}
			return nil
		default:
			return err
		}
	}
}
