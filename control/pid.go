package control

import (
	"math"

	"pulsedrive/fixmath"
)

// GainScale is the fixed-point denominator of every PID gain.
const GainScale = 1000

// DefaultIntegralLimit keeps Ki*integral inside int32 for gains up to 1000.
const DefaultIntegralLimit = math.MaxInt32 / GainScale

// PIDGains are fixed-point multipliers scaled by GainScale.
// Gains must be in [0, MaxInt32/GainScale].
type PIDGains struct {
	Kp  int32
	Ki  int32
	Kd  int32
	Kff int32
}

// PID is a discrete PID controller with feed-forward and a clamped
// integrator. The zero value is ready to use with DefaultIntegralLimit.
type PID struct {
	IntegralLimit int32 // symmetric clamp on the accumulated error, 0 means default

	integral  int32
	prevError int32
}

// NewPID returns a controller with the given integrator clamp.
func NewPID(integralLimit int32) PID {
	return PID{IntegralLimit: integralLimit}
}

// Tick runs one controller step and returns the clamped output and the
// error it acted on. limit must not be negative.
func (p *PID) Tick(actual, reference, feedforward int32, g PIDGains, limit int32) (output, err int32) {
	err = reference - actual

	lim := p.IntegralLimit
	if lim <= 0 {
		lim = DefaultIntegralLimit
	}
	p.integral = int32(fixmath.Clamp(int64(p.integral)+int64(err), -int64(lim), int64(lim)))

	prop := int64(g.Kp) * int64(err) / GainScale
	integ := int64(g.Ki) * int64(p.integral) / GainScale
	deriv := int64(g.Kd) * (int64(err) - int64(p.prevError)) / GainScale
	ff := int64(g.Kff) * int64(feedforward) / GainScale

	output = int32(fixmath.Clamp(prop+integ+deriv+ff, -int64(limit), int64(limit)))
	p.prevError = err
	return output, err
}

// Integral returns the accumulated error.
func (p *PID) Integral() int32 { return p.integral }

// Reset clears the integrator and derivative history. Only call it while the
// loop is stopped.
func (p *PID) Reset() {
	p.integral = 0
	p.prevError = 0
}
