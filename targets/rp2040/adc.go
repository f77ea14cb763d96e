//go:build rp2040

package main

import (
	"device/rp"
	"errors"
	"machine"

	"pulsedrive/core"
)

// RpAdcDriver implements core.ADCDriver using TinyGo's machine.ADC.
// Phase A, phase B and the supply divider sit on ADC0..ADC2.
type RpAdcDriver struct {
	channels [3]machine.ADC
}

// NewRPAdcDriver constructs the driver but does not Init() it yet.
func NewRPAdcDriver() *RpAdcDriver {
	return &RpAdcDriver{
		channels: [3]machine.ADC{
			core.ADCPhaseA: {Pin: machine.ADC0},
			core.ADCPhaseB: {Pin: machine.ADC1},
			core.ADCSupply: {Pin: machine.ADC2},
		},
	}
}

func (d *RpAdcDriver) Init() error {
	machine.InitADC()
	for i := range d.channels {
		if err := d.channels[i].Configure(machine.ADCConfig{}); err != nil {
			return err
		}
	}
	return nil
}

// ReadRaw returns a left-aligned 16-bit sample.
func (d *RpAdcDriver) ReadRaw(ch core.ADCChannelID) (core.ADCValue, error) {
	if ch == core.ADCTemperature {
		return core.ADCValue(rawInternalTemp() << 4), nil
	}
	if int(ch) >= len(d.channels) {
		return 0, errors.New("unsupported ADC channel")
	}
	// TinyGo already scales the 12-bit result to 16 bits
	return core.ADCValue(d.channels[ch].Get()), nil
}

// rawInternalTemp returns the 12-bit raw ADC value from the internal temp sensor (0-4095).
func rawInternalTemp() uint16 {
	if rp.ADC.CS.Get()&rp.ADC_CS_EN == 0 {
		machine.InitADC()
	}

	rp.ADC.CS.SetBits(rp.ADC_CS_TS_EN)

	// Channel 4 is the internal temperature sensor
	const tempChannel = 4
	rp.ADC.CS.ReplaceBits(
		uint32(tempChannel)<<rp.ADC_CS_AINSEL_Pos,
		rp.ADC_CS_AINSEL_Msk,
		0,
	)

	rp.ADC.CS.SetBits(rp.ADC_CS_START_ONCE)
	for !rp.ADC.CS.HasBits(rp.ADC_CS_READY) {
	}

	return uint16(rp.ADC.RESULT.Get())
}
