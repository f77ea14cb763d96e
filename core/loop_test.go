package core

import (
	"errors"
	"testing"

	"pulsedrive/control"
	"pulsedrive/fixmath"
)

// fakePWM records what the loop writes.
type fakePWM struct {
	duty     [PWMChannels]uint16
	enabled  [PWMChannels]bool
	writes   int
	disabled int
	fail     error
	failOff  error
}

func (f *fakePWM) Configure(resolution uint16, periodNs uint64) (uint16, error) {
	return resolution, nil
}

func (f *fakePWM) SetDuties(duty [PWMChannels]uint16, enabled [PWMChannels]bool) error {
	if f.fail != nil {
		return f.fail
	}
	f.duty = duty
	f.enabled = enabled
	f.writes++
	return nil
}

func (f *fakePWM) Disable() error {
	f.disabled++
	if f.failOff != nil {
		return f.failOff
	}
	f.enabled = [PWMChannels]bool{}
	return nil
}

// fakePacer stands in for an interrupt tick source.
type fakePacer struct {
	period  uint32
	tick    func(late uint32) bool
	started int
	stopped int
	fail    error
}

func (p *fakePacer) Start(period uint32, tick func(late uint32) bool) error {
	if p.fail != nil {
		return p.fail
	}
	p.period = period
	p.tick = tick
	p.started++
	return nil
}

func (p *fakePacer) Stop() { p.stopped++ }

var loopSupply = control.VoltageContext{
	Normalized: fixmath.NormalizeVoltage(12000, 69000),
	SupplyMV:   12000,
	MaxSenseMV: 69000,
}

func newTestLoop(pwm *fakePWM) *ControlLoop {
	ctx := control.NewContext(control.Params{
		ResistanceMOhm: 6500,
		PWMResolution:  3000,
		Brake:          control.Disabled,
		TickHz:         20000,
	})
	return NewControlLoop(ctx, pwm)
}

func resetCoreState() {
	resetTimers()
	SetTime(0)
	ClearTimingRing()
}

func TestLoopTickWritesDuties(t *testing.T) {
	resetCoreState()
	pwm := &fakePWM{}
	l := newTestLoop(pwm)
	l.Update(func(in *control.Inputs) {
		in.Mode = control.FOCVoltageEstimation
		in.Topology = control.DualCoil
		in.Pattern = control.PatternABCD
		in.VoltageTarget = control.AxisPair{Sin: 6000, Cos: -6000}
		in.Supply = loopSupply
	})

	if err := l.Tick(); err != nil {
		t.Fatalf("Tick failed: %v", err)
	}
	if pwm.writes != 1 {
		t.Fatalf("Expected 1 write, got %d", pwm.writes)
	}
	if pwm.duty[0] == 0 || pwm.duty[1] != 0 || pwm.duty[2] != 0 || pwm.duty[3] == 0 {
		t.Errorf("Unexpected duties %v", pwm.duty)
	}
	if pwm.duty[0] != pwm.duty[3] {
		t.Errorf("Expected symmetric coil duties, got %v", pwm.duty)
	}
	if out := l.Outputs(); out.Duty.Compare != pwm.duty {
		t.Errorf("Published outputs %v differ from driver %v", out.Duty.Compare, pwm.duty)
	}
}

func TestLoopGuardRecordedOnce(t *testing.T) {
	resetCoreState()
	pwm := &fakePWM{}
	l := newTestLoop(pwm)
	l.Update(func(in *control.Inputs) {
		in.Topology = control.ThreePhase
	})
	for i := 0; i < 5; i++ {
		l.Tick()
	}
	if s := l.Stats(); s.Guarded != 5 {
		t.Errorf("Expected 5 guarded ticks, got %d", s.Guarded)
	}
	if pwm.enabled != [PWMChannels]bool{} {
		t.Errorf("Expected every channel disabled, got %v", pwm.enabled)
	}
	guards := 0
	for _, evt := range TimingEvents() {
		if evt.EventType == EvtGuard {
			guards++
		}
	}
	if guards != 1 {
		t.Errorf("Expected one guard event, got %d", guards)
	}
}

func TestLoopDriverError(t *testing.T) {
	resetCoreState()
	boom := errors.New("bus fault")
	pwm := &fakePWM{fail: boom}
	l := newTestLoop(pwm)
	if err := l.Tick(); !errors.Is(err, boom) {
		t.Errorf("Expected driver error, got %v", err)
	}
	if s := l.Stats(); s.DriverErrors != 1 || s.Ticks != 1 {
		t.Errorf("Unexpected stats %+v", s)
	}
}

func TestLoopTimerPacing(t *testing.T) {
	resetCoreState()
	pwm := &fakePWM{}
	l := newTestLoop(pwm)

	if err := l.Start(0); !errors.Is(err, ErrZeroPeriod) {
		t.Errorf("Expected ErrZeroPeriod, got %v", err)
	}
	if err := l.Start(100); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := l.Start(100); !errors.Is(err, ErrLoopRunning) {
		t.Errorf("Expected ErrLoopRunning, got %v", err)
	}

	for now := uint32(0); now <= 1000; now += 50 {
		SetTime(now)
		ProcessTimers()
	}
	if s := l.Stats(); s.Ticks != 10 || s.Overruns != 0 {
		t.Errorf("Expected 10 ticks and no overruns, got %+v", s)
	}

	// Skip ahead three periods.
	SetTime(1350)
	ProcessTimers()
	if s := l.Stats(); s.Overruns != 1 || s.Ticks != 11 {
		t.Errorf("Expected 1 overrun after a stall, got %+v", s)
	}
	SetTime(1400)
	ProcessTimers()
	if s := l.Stats(); s.Ticks != 11 {
		t.Errorf("Expected realigned schedule, got %+v", s)
	}
	SetTime(1450)
	ProcessTimers()
	if s := l.Stats(); s.Ticks != 12 {
		t.Errorf("Expected tick at 1450, got %+v", s)
	}

	if err := l.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if pwm.disabled != 1 {
		t.Errorf("Expected outputs disabled on stop")
	}
	SetTime(5000)
	ProcessTimers()
	if s := l.Stats(); s.Ticks != 12 {
		t.Errorf("Expected no ticks after stop, got %+v", s)
	}
}

func TestLoopTimerWraparound(t *testing.T) {
	resetCoreState()
	pwm := &fakePWM{}
	l := newTestLoop(pwm)

	SetTime(0xFFFFFF00)
	if err := l.Start(0x80); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	for _, now := range []uint32{0xFFFFFF80, 0x00000000, 0x00000080} {
		SetTime(now)
		ProcessTimers()
	}
	if s := l.Stats(); s.Ticks != 3 || s.Overruns != 0 {
		t.Errorf("Expected 3 ticks across the counter wrap, got %+v", s)
	}
	l.Stop()
}

func TestLoopRotationEvent(t *testing.T) {
	resetCoreState()
	l := newTestLoop(&fakePWM{})
	for _, raw := range []uint32{0xC0000000, 0xF0000000, 0x10000000} {
		l.Update(func(in *control.Inputs) { in.RawAngle = raw })
		l.Tick()
	}
	found := false
	for _, evt := range TimingEvents() {
		if evt.EventType == EvtRotation && int32(evt.Value1) == 1 {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected a rotation event, got %v", TimingEvents())
	}
	t.Log(l.StatusLine())
}

func TestWatchdogTrips(t *testing.T) {
	resetCoreState()
	pwm := &fakePWM{}
	l := newTestLoop(pwm)
	w := NewOutputWatchdog(l, 500)
	w.Arm()

	// Manual ticks keep the watchdog fed.
	for now := uint32(100); now <= 1000; now += 100 {
		SetTime(now)
		l.Tick()
		ProcessTimers()
	}
	if w.Tripped() {
		t.Fatalf("Watchdog tripped while the loop was ticking")
	}

	SetTime(1600)
	ProcessTimers()
	if !w.Tripped() {
		t.Fatalf("Expected watchdog to trip after a stall")
	}
	if pwm.disabled != 1 {
		t.Errorf("Expected outputs disabled once, got %d", pwm.disabled)
	}
}

func TestWatchdogRecordsDisableError(t *testing.T) {
	resetCoreState()
	pwm := &fakePWM{failOff: errors.New("bus fault")}
	l := newTestLoop(pwm)
	w := NewOutputWatchdog(l, 500)
	w.Arm()

	SetTime(600)
	ProcessTimers()
	if !w.Tripped() {
		t.Fatalf("Expected watchdog to trip")
	}
	if s := l.Stats(); s.DriverErrors != 1 {
		t.Errorf("Expected 1 driver error, got %+v", s)
	}
	found := false
	for _, evt := range TimingEvents() {
		if evt.EventType == EvtDriverError {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected a driver error event, got %v", TimingEvents())
	}
}

func TestLoopExternalPacer(t *testing.T) {
	resetCoreState()
	pwm := &fakePWM{}
	l := newTestLoop(pwm)
	p := &fakePacer{}
	l.SetPacer(p)

	if err := l.Start(600); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if p.started != 1 || p.period != 600 {
		t.Fatalf("Expected pacer started with period 600, got %+v", p)
	}

	// The timer list must not drive the loop any more.
	SetTime(5000)
	ProcessTimers()
	if s := l.Stats(); s.Ticks != 0 {
		t.Errorf("Expected no timer-list ticks, got %+v", s)
	}

	if p.tick(10) {
		t.Errorf("Expected no realign for an on-time tick")
	}
	if !p.tick(600) {
		t.Errorf("Expected realign for a tick one period late")
	}
	if s := l.Stats(); s.Ticks != 2 || s.Overruns != 1 {
		t.Errorf("Expected 2 ticks and 1 overrun, got %+v", s)
	}
	if pwm.writes != 2 {
		t.Errorf("Expected 2 duty writes, got %d", pwm.writes)
	}

	if err := l.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if p.stopped != 1 {
		t.Errorf("Expected pacer stopped")
	}
	if p.tick(0) {
		t.Errorf("Expected no realign after stop")
	}
	if s := l.Stats(); s.Ticks != 2 {
		t.Errorf("Expected no tick after stop, got %+v", s)
	}
}

func TestLoopPacerStartError(t *testing.T) {
	resetCoreState()
	l := newTestLoop(&fakePWM{})
	fail := errors.New("alarm busy")
	l.SetPacer(&fakePacer{fail: fail})

	if err := l.Start(600); !errors.Is(err, fail) {
		t.Errorf("Expected pacer error, got %v", err)
	}
	if l.Running() {
		t.Errorf("Expected loop stopped after a failed start")
	}
}
