package control

import "pulsedrive/fixmath"

// DutyDriver converts normalized channel voltages into timer compare values.
type DutyDriver struct {
	Resolution uint16 // timer period in counts
	Bias       int16  // added to every positive duty, e.g. dead-time compensation
	Alignment  PWMAlignment
}

// Duty is one tick's PWM output.
type Duty struct {
	Compare [4]uint16
	Enabled [4]bool
}

// Compute returns duty = v * Resolution / supply (+ Bias) per channel,
// clamped to [0, Resolution]. Disabled channels are not enabled and publish
// 0. Non-positive values, or a non-positive supply, give zero duty.
func (d DutyDriver) Compute(q ChannelQuad, supply int16) Duty {
	var out Duty
	res := int32(d.Resolution)
	for i, v := range q {
		if v == Disabled {
			continue
		}
		out.Enabled[i] = true

		var duty int32
		if v > 0 && supply > 0 {
			duty = int32(v)*res/int32(supply) + int32(d.Bias)
			duty = fixmath.Clamp(duty, 0, res)
		}
		if d.Alignment == SupplyAligned {
			duty = res - duty
		}
		out.Compare[i] = uint16(duty)
	}
	return out
}
