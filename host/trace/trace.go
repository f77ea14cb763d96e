// Package trace parses the firmware's debug console lines.
package trace

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"pulsedrive/core"
)

const (
	tickPrefix = "[TICK] "
	loopPrefix = "[LOOP] "
)

// ErrNotTrace is returned for lines the firmware did not emit as trace output.
var ErrNotTrace = errors.New("not a trace line")

// Status is one "[LOOP]" status line.
type Status struct {
	Ticks        uint32
	Overruns     uint32
	Guarded      uint32
	DriverErrors uint32
	Rotations    int32
}

// Record is one parsed line. Exactly one of Event and Status is set, or
// neither for dump headers.
type Record struct {
	Event  *core.TimingEvent
	Status *Status
	Header string
}

// ParseLine parses one console line, without its line terminator.
func ParseLine(line string) (Record, error) {
	line = strings.TrimRight(line, "\r\n")
	switch {
	case strings.HasPrefix(line, tickPrefix):
		return parseTick(strings.TrimPrefix(line, tickPrefix))
	case strings.HasPrefix(line, loopPrefix):
		st, err := parseStatus(strings.TrimPrefix(line, loopPrefix))
		if err != nil {
			return Record{}, err
		}
		return Record{Status: &st}, nil
	}
	return Record{}, ErrNotTrace
}

func parseTick(body string) (Record, error) {
	if strings.HasPrefix(body, "===") || strings.HasPrefix(body, "Total ticks:") {
		return Record{Header: body}, nil
	}

	fields := strings.Fields(body)
	if len(fields) == 0 {
		return Record{}, fmt.Errorf("empty tick line")
	}
	evt := core.TimingEvent{EventType: eventCode(fields[0])}
	if evt.EventType == 0 {
		return Record{}, fmt.Errorf("unknown event %q", fields[0])
	}

	for _, f := range fields[1:] {
		key, val, ok := strings.Cut(f, "=")
		if !ok {
			return Record{}, fmt.Errorf("malformed field %q", f)
		}
		n, err := strconv.ParseUint(val, 10, 32)
		if err != nil {
			return Record{}, fmt.Errorf("field %s: %w", key, err)
		}
		switch key {
		case "ch":
			evt.Channel = uint8(n)
		case "clock":
			evt.Clock = uint32(n)
		case "v1":
			evt.Value1 = uint32(n)
		case "v2":
			evt.Value2 = uint32(n)
		}
	}
	return Record{Event: &evt}, nil
}

func parseStatus(body string) (Status, error) {
	var st Status
	for _, f := range strings.Fields(body) {
		key, val, ok := strings.Cut(f, "=")
		if !ok {
			return st, fmt.Errorf("malformed field %q", f)
		}
		if key == "rotations" {
			n, err := strconv.ParseInt(val, 10, 32)
			if err != nil {
				return st, fmt.Errorf("field %s: %w", key, err)
			}
			st.Rotations = int32(n)
			continue
		}
		n, err := strconv.ParseUint(val, 10, 32)
		if err != nil {
			return st, fmt.Errorf("field %s: %w", key, err)
		}
		switch key {
		case "ticks":
			st.Ticks = uint32(n)
		case "overruns":
			st.Overruns = uint32(n)
		case "guarded":
			st.Guarded = uint32(n)
		case "driver_errors":
			st.DriverErrors = uint32(n)
		}
	}
	return st, nil
}

// eventCode maps an event label back onto its code, or 0.
func eventCode(name string) uint8 {
	for code := uint8(core.EvtLoopStart); code <= core.EvtWatchdog; code++ {
		if core.EventName(code) == name {
			return code
		}
	}
	return 0
}
