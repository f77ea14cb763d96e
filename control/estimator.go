package control

import "pulsedrive/fixmath"

// CurrentController turns a current target (mA) into a phase voltage (mV),
// either open loop through the winding resistance or closed loop through one
// PID per axis.
type CurrentController struct {
	sin PID
	cos PID
}

// NewCurrentController returns a controller whose integrators clamp at
// integralLimit.
func NewCurrentController(integralLimit int32) CurrentController {
	return CurrentController{sin: NewPID(integralLimit), cos: NewPID(integralLimit)}
}

// Tick produces the voltage for one tick. The closed-loop output is limited
// to the supply voltage.
func (c *CurrentController) Tick(mode EstimationMode, target, measured AxisPair, resistanceMOhm, supplyMV int32, g PIDGains) AxisPair {
	if mode.Feedback() {
		vs, _ := c.sin.Tick(measured.Sin, target.Sin, 0, g, supplyMV)
		vc, _ := c.cos.Tick(measured.Cos, target.Cos, 0, g, supplyMV)
		return AxisPair{Sin: vs, Cos: vc}
	}
	return AxisPair{
		Sin: ohmic(target.Sin, resistanceMOhm),
		Cos: ohmic(target.Cos, resistanceMOhm),
	}
}

// Reset clears both integrators.
func (c *CurrentController) Reset() {
	c.sin.Reset()
	c.cos.Reset()
}

// ohmic returns mA * mOhm / 1000, in mV.
func ohmic(currentMA, resistanceMOhm int32) int32 {
	return fixmath.SaturateInt32(int64(currentMA) * int64(resistanceMOhm) / 1000)
}
