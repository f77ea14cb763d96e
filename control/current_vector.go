package control

import "pulsedrive/fixmath"

// VectorInput is what the current-vector stage reads on each tick.
type VectorInput struct {
	Mode            EstimationMode
	VoltageTarget   AxisPair    // mV, used when Mode.DirectVoltage()
	CurrentTarget   PolarTarget // mA
	CurrentMeasured AxisPair    // mA
	ResistanceMOhm  int32
	Supply          VoltageContext
	Gains           PIDGains
}

// CurrentVector produces the normalized two-axis phase voltage.
type CurrentVector struct {
	ctrl CurrentController
}

// NewCurrentVector returns a stage whose current controllers clamp their
// integrators at integralLimit.
func NewCurrentVector(integralLimit int32) CurrentVector {
	return CurrentVector{ctrl: NewCurrentController(integralLimit)}
}

// Tick computes the normalized voltage. in.Supply.MaxSenseMV must be positive.
func (cv *CurrentVector) Tick(in VectorInput) AxisPair16 {
	if in.Mode.DirectVoltage() {
		return normalize(in.VoltageTarget, in.Supply.MaxSenseMV)
	}

	sin, cos := fixmath.PolarToAxes(in.CurrentTarget.Angle, in.CurrentTarget.Magnitude)
	target := AxisPair{Sin: sin, Cos: cos}
	v := cv.ctrl.Tick(in.Mode, target, in.CurrentMeasured, in.ResistanceMOhm, in.Supply.SupplyMV, in.Gains)
	return normalize(v, in.Supply.MaxSenseMV)
}

// Reset clears the controller state.
func (cv *CurrentVector) Reset() {
	cv.ctrl.Reset()
}

func normalize(v AxisPair, maxMV int32) AxisPair16 {
	return AxisPair16{
		Sin: fixmath.NormalizeVoltage(v.Sin, maxMV),
		Cos: fixmath.NormalizeVoltage(v.Cos, maxMV),
	}
}
