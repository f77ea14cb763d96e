package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// TimingEvent captures a control-loop event for post-mortem analysis
type TimingEvent struct {
	EventType uint8  // Event type code
	Channel   uint8  // Output channel, or 0 when not channel specific
	Clock     uint32 // System clock at event
	Value1    uint32 // Context-dependent value
	Value2    uint32 // Context-dependent value
}

// Event type codes
const (
	EvtLoopStart   = 1 // v1=period ticks
	EvtLoopStop    = 2 // v1=total ticks
	EvtOverrun     = 3 // v1=late by ticks, v2=tick count
	EvtGuard       = 4 // supply unusable, v1=supply mV
	EvtRotation    = 5 // v1=rotations (int32 bits), v2=tick count
	EvtDriverError = 6 // PWM driver rejected the duties
	EvtWatchdog    = 7 // outputs forced off, v1=ticks since last update
)

// EventName returns the label used in ring dumps.
func EventName(evt uint8) string {
	switch evt {
	case EvtLoopStart:
		return "LOOP_START"
	case EvtLoopStop:
		return "LOOP_STOP"
	case EvtOverrun:
		return "OVERRUN!"
	case EvtGuard:
		return "GUARD"
	case EvtRotation:
		return "ROTATION"
	case EvtDriverError:
		return "DRIVER_ERR!"
	case EvtWatchdog:
		return "WATCHDOG!"
	default:
		return "UNKNOWN"
	}
}

const (
	TimingRingSize = 32 // Keep last 32 events for post-mortem
)

var (
	// debugPrintln is the global debug print function (can be set by platform code)
	debugPrintln DebugWriter = func(s string) {} // No-op by default

	// debugEnabled controls whether debug output is active
	debugEnabled bool = false

	// Timing capture ring buffer (non-blocking, safe to use from the tick)
	timingRing     [TimingRingSize]TimingEvent
	timingRingHead uint8
	timingEnabled  bool = true

	// Async debug output channel
	debugChan chan string
)

// SetDebugWriter sets the platform-specific debug output function
// This allows platforms to redirect debug output to UART, USB, etc.
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled
func IsDebugEnabled() bool {
	return debugEnabled
}

// SetTimingEnabled turns event capture on or off.
func SetTimingEnabled(enabled bool) {
	timingEnabled = enabled
}

// InitAsyncDebug starts the async debug output goroutine
// Call this from main() after SetDebugWriter
func InitAsyncDebug() {
	debugChan = make(chan string, 16)
	go debugOutputWorker()
}

func debugOutputWorker() {
	for msg := range debugChan {
		if debugPrintln != nil {
			debugPrintln(msg)
		}
	}
}

// DebugPrintln writes a debug message using the platform-specific writer
// Blocks if debug is enabled (use DebugAsync for non-blocking)
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil {
		debugPrintln(msg)
	}
}

// DebugAsync queues a debug message for async output (non-blocking)
// Returns immediately even if channel is full (drops message)
func DebugAsync(msg string) {
	if debugChan != nil {
		select {
		case debugChan <- msg:
		default:
		}
	}
}

// RecordTiming captures an event in the ring buffer. It never blocks or
// allocates.
func RecordTiming(eventType, channel uint8, clock, value1, value2 uint32) {
	if !timingEnabled {
		return
	}
	idx := timingRingHead
	timingRing[idx] = TimingEvent{
		EventType: eventType,
		Channel:   channel,
		Clock:     clock,
		Value1:    value1,
		Value2:    value2,
	}
	timingRingHead = (idx + 1) % TimingRingSize
}

// TimingEvents copies the ring, oldest first, skipping empty slots.
func TimingEvents() []TimingEvent {
	events := make([]TimingEvent, 0, TimingRingSize)
	start := timingRingHead
	for i := uint8(0); i < TimingRingSize; i++ {
		evt := timingRing[(start+i)%TimingRingSize]
		if evt.EventType != 0 {
			events = append(events, evt)
		}
	}
	return events
}

// FormatTimingEvent renders one ring entry as a trace line.
func FormatTimingEvent(evt TimingEvent) string {
	return "[TICK] " + EventName(evt.EventType) +
		" ch=" + utoa(uint32(evt.Channel)) +
		" clock=" + utoa(evt.Clock) +
		" v1=" + utoa(evt.Value1) +
		" v2=" + utoa(evt.Value2)
}

// DumpTimingRing outputs the timing ring buffer (call on shutdown/error)
func DumpTimingRing(totalTicks uint32) {
	if debugPrintln == nil {
		return
	}

	debugPrintln("[TICK] === Timing Ring Dump ===")
	debugPrintln("[TICK] Total ticks: " + utoa(totalTicks))
	for _, evt := range TimingEvents() {
		debugPrintln(FormatTimingEvent(evt))
	}
	debugPrintln("[TICK] === End Dump ===")
}

// ClearTimingRing clears the timing buffer
func ClearTimingRing() {
	for i := range timingRing {
		timingRing[i] = TimingEvent{}
	}
	timingRingHead = 0
}
