package core

import (
	"errors"

	"pulsedrive/control"
)

var (
	ErrLoopRunning = errors.New("control loop already running")
	ErrZeroPeriod  = errors.New("control loop period must be greater than 0")
)

// LoopStats counts control loop events since the loop was built.
type LoopStats struct {
	Ticks        uint32
	Overruns     uint32
	Guarded      uint32
	DriverErrors uint32
	LastTickTime uint32
}

// ControlLoop runs a control.Context once per period and hands the duties to
// a PWMDriver. Inputs are staged in a mailbox written through Update; each
// tick copies the mailbox, computes, and publishes the result with
// interrupts disabled. With an interrupt pacer the compute step runs with
// interrupts enabled; on the timer list the whole dispatch is masked.
type ControlLoop struct {
	ctx   *control.Context
	pwm   PWMDriver
	pacer Pacer

	inputs  control.Inputs
	outputs control.Outputs
	stats   LoopStats

	period  uint32
	running bool
	guarded bool
}

// NewControlLoop wraps ctx. A nil pwm uses the registered driver. The loop
// is paced from the timer list until SetPacer installs another source.
func NewControlLoop(ctx *control.Context, pwm PWMDriver) *ControlLoop {
	if pwm == nil {
		pwm = MustPWM()
	}
	return &ControlLoop{ctx: ctx, pwm: pwm, pacer: &timerPacer{}}
}

// SetPacer replaces the tick source. Only call it while the loop is stopped.
func (l *ControlLoop) SetPacer(p Pacer) {
	l.pacer = p
}

// Update lets non-tick code change the inputs. fn runs with interrupts
// disabled and must not block.
func (l *ControlLoop) Update(fn func(in *control.Inputs)) {
	state := disableInterrupts()
	fn(&l.inputs)
	restoreInterrupts(state)
}

// Inputs returns a copy of the staged inputs.
func (l *ControlLoop) Inputs() control.Inputs {
	state := disableInterrupts()
	in := l.inputs
	restoreInterrupts(state)
	return in
}

// Outputs returns a copy of the last published outputs.
func (l *ControlLoop) Outputs() control.Outputs {
	state := disableInterrupts()
	out := l.outputs
	restoreInterrupts(state)
	return out
}

// Stats returns a copy of the loop counters.
func (l *ControlLoop) Stats() LoopStats {
	state := disableInterrupts()
	s := l.stats
	restoreInterrupts(state)
	return s
}

// Running reports whether the pacer is started.
func (l *ControlLoop) Running() bool { return l.running }

// Tick runs one control cycle. A PWM driver error is counted and returned;
// the controller state is kept. The pacer calls it; tests and bench code may
// call it directly.
func (l *ControlLoop) Tick() error {
	state := disableInterrupts()
	in := l.inputs
	restoreInterrupts(state)

	prevRotations := l.outputs.Position.Rotations
	out := l.ctx.Tick(in)
	now := GetTime()

	state = disableInterrupts()
	l.outputs = out
	l.stats.Ticks++
	l.stats.LastTickTime = now
	if out.Guarded {
		l.stats.Guarded++
	}
	err := l.pwm.SetDuties(out.Duty.Compare, out.Duty.Enabled)
	if err != nil {
		l.stats.DriverErrors++
	}
	ticks := l.stats.Ticks
	restoreInterrupts(state)

	if out.Guarded && !l.guarded {
		RecordTiming(EvtGuard, 0, now, uint32(in.Supply.SupplyMV), ticks)
	}
	l.guarded = out.Guarded
	if out.Position.Rotations != prevRotations {
		RecordTiming(EvtRotation, 0, now, uint32(out.Position.Rotations), ticks)
	}
	if err != nil {
		RecordTiming(EvtDriverError, 0, now, ticks, 0)
		return err
	}
	return nil
}

// Start resets the controller state and starts the pacer. period is in
// timer ticks.
func (l *ControlLoop) Start(period uint32) error {
	if period == 0 {
		return ErrZeroPeriod
	}
	if l.running {
		return ErrLoopRunning
	}
	l.ctx.Reset()
	l.period = period
	l.guarded = false

	l.running = true
	if err := l.pacer.Start(period, l.paced); err != nil {
		l.running = false
		return err
	}
	RecordTiming(EvtLoopStart, 0, GetTime(), period, 0)
	return nil
}

// Stop stops the pacer and turns every output off.
func (l *ControlLoop) Stop() error {
	if !l.running {
		return nil
	}
	l.running = false
	l.pacer.Stop()
	RecordTiming(EvtLoopStop, 0, GetTime(), l.Stats().Ticks, 0)
	return l.pwm.Disable()
}

// paced is the pacer callback. A tick that starts a whole period late is an
// overrun; the pacer is told to realign instead of trying to catch up.
func (l *ControlLoop) paced(late uint32) bool {
	if !l.running {
		return false
	}
	overrun := late >= l.period
	if overrun {
		state := disableInterrupts()
		l.stats.Overruns++
		ticks := l.stats.Ticks
		restoreInterrupts(state)
		RecordTiming(EvtOverrun, 0, GetTime(), late, ticks)
	}

	// Driver errors are already counted and recorded by Tick.
	_ = l.Tick()
	return overrun
}

// StatusLine renders the counters and last position for the debug writer.
func (l *ControlLoop) StatusLine() string {
	s := l.Stats()
	out := l.Outputs()
	return "[LOOP] ticks=" + utoa(s.Ticks) +
		" overruns=" + utoa(s.Overruns) +
		" guarded=" + utoa(s.Guarded) +
		" driver_errors=" + utoa(s.DriverErrors) +
		" rotations=" + itoa(out.Position.Rotations)
}
