//go:build rp2040

package main

import (
	"device/rp"
	"errors"
	"runtime/interrupt"
)

// The TinyGo runtime sleeps on alarm 0; the control tick owns alarm 1.

// Closest an alarm may be set ahead of the counter and still fire
const minAlarmLeadUS = 2

var (
	errTickTooShort = errors.New("tick period shorter than the alarm resolution")

	activePacer *alarmPacer
)

// alarmPacer implements core.Pacer on timer alarm 1. The tick runs in the
// alarm interrupt so blocking I2C and USB work in the main loop cannot
// delay it.
type alarmPacer struct {
	periodUS uint32
	next     uint32 // scheduled deadline, microseconds
	tick     func(late uint32) bool
	running  bool
}

func (p *alarmPacer) Start(period uint32, tick func(late uint32) bool) error {
	us := period / ticksPerMicrosecond
	if us < 2*minAlarmLeadUS {
		return errTickTooShort
	}
	p.periodUS = us
	p.tick = tick
	activePacer = p

	intr := interrupt.New(rp.IRQ_TIMER_IRQ_1, alarmHandler)
	intr.SetPriority(0x00)
	rp.TIMER.INTR.Set(rp.TIMER_INTR_ALARM_1)
	rp.TIMER.INTE.SetBits(rp.TIMER_INTE_ALARM_1)
	intr.Enable()

	p.running = true
	p.next = timerRAWL.Get() + us
	rp.TIMER.ALARM1.Set(p.next)
	return nil
}

func (p *alarmPacer) Stop() {
	p.running = false
	rp.TIMER.INTE.ClearBits(rp.TIMER_INTE_ALARM_1)
	// Writing 1 disarms the alarm
	rp.TIMER.ARMED.Set(1 << 1)
	rp.TIMER.INTR.Set(rp.TIMER_INTR_ALARM_1)
}

func alarmHandler(interrupt.Interrupt) {
	rp.TIMER.INTR.Set(rp.TIMER_INTR_ALARM_1)
	p := activePacer
	if p == nil || !p.running {
		return
	}

	UpdateSystemTime()
	late := timerRAWL.Get() - p.next
	if p.tick(late * ticksPerMicrosecond) {
		p.next = timerRAWL.Get()
	}
	p.next += p.periodUS

	// An alarm already in the past would not fire until the counter wraps.
	// Fire as soon as possible; the lateness shows up as an overrun.
	target := p.next
	if now := timerRAWL.Get(); int32(target-now) < minAlarmLeadUS {
		target = now + minAlarmLeadUS
	}
	rp.TIMER.ALARM1.Set(target)
}
