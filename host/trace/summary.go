package trace

import (
	"fmt"

	"pulsedrive/core"
)

// Summary accumulates parsed records.
type Summary struct {
	Lines    int
	Skipped  int
	Events   map[uint8]int
	Last     Status
	HaveLast bool

	// Largest lateness reported by an overrun, in timer ticks
	WorstLate uint32
}

// NewSummary returns an empty summary.
func NewSummary() *Summary {
	return &Summary{Events: make(map[uint8]int)}
}

// Add parses one line and folds it in. Lines that are not trace output are
// counted as skipped; malformed trace lines return the parse error.
func (s *Summary) Add(line string) (Record, error) {
	s.Lines++
	rec, err := ParseLine(line)
	if err != nil {
		s.Skipped++
		if err == ErrNotTrace {
			return rec, nil
		}
		return rec, err
	}
	switch {
	case rec.Event != nil:
		s.Events[rec.Event.EventType]++
		if rec.Event.EventType == core.EvtOverrun && rec.Event.Value1 > s.WorstLate {
			s.WorstLate = rec.Event.Value1
		}
	case rec.Status != nil:
		s.Last = *rec.Status
		s.HaveLast = true
	}
	return rec, nil
}

// OverrunRate returns overruns per tick from the last status line.
func (s *Summary) OverrunRate() float64 {
	if !s.HaveLast || s.Last.Ticks == 0 {
		return 0
	}
	return float64(s.Last.Overruns) / float64(s.Last.Ticks)
}

func (s *Summary) String() string {
	return fmt.Sprintf("lines=%d skipped=%d overruns=%d rotations=%d guards=%d driver_errors=%d watchdog=%d worst_late_us=%d",
		s.Lines, s.Skipped,
		s.Events[core.EvtOverrun], s.Events[core.EvtRotation], s.Events[core.EvtGuard],
		s.Events[core.EvtDriverError], s.Events[core.EvtWatchdog],
		core.TimerToUS(s.WorstLate))
}
