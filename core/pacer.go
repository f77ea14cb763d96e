package core

// Pacer calls tick once per period until stopped. late is how far past its
// deadline the call started, in timer ticks. When tick returns true the
// pacer restarts its schedule from the current time.
type Pacer interface {
	Start(period uint32, tick func(late uint32) (realign bool)) error
	Stop()
}

// timerPacer paces from the timer list. Targets that run ProcessTimers from
// a polled main loop get tick jitter equal to the loop latency.
type timerPacer struct {
	timer  Timer
	period uint32
	tick   func(late uint32) bool
}

func (p *timerPacer) Start(period uint32, tick func(late uint32) bool) error {
	p.period = period
	p.tick = tick
	p.timer.Handler = p.event
	p.timer.WakeTime = GetTime() + period
	ScheduleTimer(&p.timer)
	return nil
}

func (p *timerPacer) Stop() {
	CancelTimer(&p.timer)
}

func (p *timerPacer) event(t *Timer) uint8 {
	if p.tick(currentTime - t.WakeTime) {
		t.WakeTime = currentTime
	}
	t.WakeTime += p.period
	return SF_RESCHEDULE
}
