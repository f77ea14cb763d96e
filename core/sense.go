package core

import (
	"pulsedrive/control"
	"pulsedrive/fixmath"
)

// SenseConfig converts raw sense samples into the units the control tick
// consumes.
type SenseConfig struct {
	CurrentMidpoint    ADCValue // raw reading at 0 mA
	CurrentFullScaleMA int32    // current at half a raw span above the midpoint
	SupplyFullScaleMV  int32    // supply voltage at raw full scale
}

// Current returns the phase current in mA.
func (c SenseConfig) Current(raw ADCValue) int32 {
	delta := int64(raw) - int64(c.CurrentMidpoint)
	return int32(delta * int64(c.CurrentFullScaleMA) >> 15)
}

// Supply returns the supply context for a raw supply sample.
func (c SenseConfig) Supply(raw ADCValue) control.VoltageContext {
	mv := int32(uint64(raw) * uint64(c.SupplyFullScaleMV) >> 16)
	return SupplyFromMV(mv, c.SupplyFullScaleMV)
}

// SupplyFromMV builds a supply context from a measured voltage. maxMV is the
// largest voltage the sense path can report. A non-positive maxMV gives an
// invalid context.
func SupplyFromMV(mv, maxMV int32) control.VoltageContext {
	if maxMV <= 0 {
		return control.VoltageContext{SupplyMV: mv}
	}
	return control.VoltageContext{
		Normalized: fixmath.NormalizeVoltage(mv, maxMV),
		SupplyMV:   mv,
		MaxSenseMV: maxMV,
	}
}

// SenseSample is one pass over the sense channels.
type SenseSample struct {
	Phase          control.AxisPair
	Supply         control.VoltageContext
	RawTemperature ADCValue
}

// ReadSense samples every channel through the registered ADC driver.
func ReadSense(cfg SenseConfig) (SenseSample, error) {
	adc := MustADC()
	var s SenseSample

	a, err := adc.ReadRaw(ADCPhaseA)
	if err != nil {
		return s, err
	}
	b, err := adc.ReadRaw(ADCPhaseB)
	if err != nil {
		return s, err
	}
	sup, err := adc.ReadRaw(ADCSupply)
	if err != nil {
		return s, err
	}
	temp, err := adc.ReadRaw(ADCTemperature)
	if err != nil {
		return s, err
	}

	s.Phase = control.AxisPair{Sin: cfg.Current(a), Cos: cfg.Current(b)}
	s.Supply = cfg.Supply(sup)
	s.RawTemperature = temp
	return s, nil
}
