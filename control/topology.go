package control

import "pulsedrive/fixmath"

// CoilSplit drives one H-bridge coil from a signed value: positive values go
// to the first output, negative magnitudes to the second. A Disabled reference
// leaves both outputs as they were.
func CoilSplit(ref, prev1, prev2 int16) (out1, out2 int16) {
	switch {
	case ref == Disabled:
		return prev1, prev2
	case ref < 0:
		return 0, -ref
	default:
		return ref, 0
	}
}

// TopologySelector maps the normalized voltage onto the four channels
// according to the motor topology. It remembers the last quad so that a
// Disabled coil reference keeps its previous outputs.
type TopologySelector struct {
	quad ChannelQuad
}

// NewTopologySelector returns a selector whose outputs start disabled.
func NewTopologySelector() TopologySelector {
	return TopologySelector{quad: AllDisabled()}
}

// Tick computes the channel quad. supply is the normalized supply voltage
// used to center three-phase outputs. Unused channels get brake.
func (s *TopologySelector) Tick(t MotorTopology, v AxisPair16, supply, brake int16) ChannelQuad {
	q := s.quad
	switch t {
	case SingleCoil:
		q[ChA], q[ChB] = CoilSplit(v.Sin, q[ChA], q[ChB])
		q[ChC], q[ChD] = brake, brake
	case DualCoil:
		q[ChA], q[ChB] = CoilSplit(v.Sin, q[ChA], q[ChB])
		q[ChC], q[ChD] = CoilSplit(v.Cos, q[ChC], q[ChD])
	case ThreePhase:
		a, b, c := fixmath.Clarke(int32(v.Sin), int32(v.Cos))
		a, b, c = fixmath.CenterSpaceVector(a, b, c, int32(supply))
		q[ChA] = fixmath.SaturateInt16(int64(a))
		q[ChB] = fixmath.SaturateInt16(int64(b))
		q[ChC] = fixmath.SaturateInt16(int64(c))
		q[ChD] = brake
	default:
		q = AllDisabled()
	}
	s.quad = q
	return q
}

// Reset disables every channel.
func (s *TopologySelector) Reset() { s.quad = AllDisabled() }
