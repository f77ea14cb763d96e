package control

import "math"

// Disabled marks a channel as off (high impedance). It is never combined
// arithmetically with real channel values.
const Disabled int16 = math.MinInt16

// AxisPair is a two-axis vector in either the stationary (alpha/beta) or the
// rotating (d/q) frame. Currents are in mA and voltages in mV.
type AxisPair struct {
	Sin int32
	Cos int32
}

// AxisPair16 is an AxisPair after normalization against the supply voltage.
type AxisPair16 struct {
	Sin int16
	Cos int16
}

// PolarTarget is a polar command. Angle is Int1.31 ([-1, 1) * pi).
type PolarTarget struct {
	Angle     int32
	Magnitude int32
}

// VoltageContext describes the supply for one tick.
type VoltageContext struct {
	Normalized int16 // supply in the same scale as normalized phase voltages
	SupplyMV   int32
	MaxSenseMV int32 // largest voltage the sense path can measure
}

// Valid reports whether the supply can be used as a divisor and limit.
func (v VoltageContext) Valid() bool {
	return v.MaxSenseMV > 0 && v.SupplyMV > 0 && v.Normalized > 0
}

// ChannelQuad holds one value per output channel, in A, B, C, D order.
type ChannelQuad [4]int16

// AllDisabled returns a quad with every channel off.
func AllDisabled() ChannelQuad {
	return ChannelQuad{Disabled, Disabled, Disabled, Disabled}
}

// Channel names for indexing a ChannelQuad.
const (
	ChA = iota
	ChB
	ChC
	ChD
)
