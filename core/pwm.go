package core

// OutputWatchdog turns the PWM outputs off when the control loop stops
// ticking for longer than MaxDuration timer ticks.
type OutputWatchdog struct {
	MaxDuration uint32

	loop      *ControlLoop
	timer     Timer
	lastSeen  uint32
	lastTicks uint32
	tripped   bool
}

// NewOutputWatchdog returns a watchdog for loop. Call Arm to start it.
func NewOutputWatchdog(loop *ControlLoop, maxDuration uint32) *OutputWatchdog {
	w := &OutputWatchdog{MaxDuration: maxDuration, loop: loop}
	w.timer.Handler = w.event
	return w
}

// Arm schedules the first check MaxDuration from now.
func (w *OutputWatchdog) Arm() {
	now := GetTime()
	w.lastSeen = now
	w.lastTicks = w.loop.Stats().Ticks
	w.tripped = false
	w.timer.WakeTime = now + w.MaxDuration
	ScheduleTimer(&w.timer)
}

// Disarm cancels the pending check.
func (w *OutputWatchdog) Disarm() {
	CancelTimer(&w.timer)
}

// Tripped reports whether the watchdog has forced the outputs off.
func (w *OutputWatchdog) Tripped() bool { return w.tripped }

func (w *OutputWatchdog) event(t *Timer) uint8 {
	s := w.loop.Stats()
	if s.Ticks != w.lastTicks {
		w.lastTicks = s.Ticks
		w.lastSeen = s.LastTickTime
	}

	since := currentTime - w.lastSeen
	if since >= w.MaxDuration {
		w.tripped = true
		RecordTiming(EvtWatchdog, 0, currentTime, since, s.Ticks)
		if err := w.loop.pwm.Disable(); err != nil {
			state := disableInterrupts()
			w.loop.stats.DriverErrors++
			restoreInterrupts(state)
			RecordTiming(EvtDriverError, 0, currentTime, s.Ticks, 0)
		}
		return SF_DONE
	}

	t.WakeTime = w.lastSeen + w.MaxDuration
	return SF_RESCHEDULE
}
