//go:build rp2040

package main

import (
	"errors"
	"machine"

	"pulsedrive/core"
)

var errPWMNotConfigured = errors.New("PWM output not configured")

// pwmPeripheral is an interface for PWM hardware peripherals
// This abstracts over TinyGo's unexported *pwmGroup type
type pwmPeripheral interface {
	Configure(config machine.PWMConfig) error
	Channel(pin machine.Pin) (uint8, error)
	Top() uint32
	Set(channel uint8, value uint32)
}

// pwmOutput is one bridge input driven by a hardware slice channel.
type pwmOutput struct {
	pin     machine.Pin
	slice   pwmPeripheral
	channel uint8
	enabled bool
}

// RP2040PWMDriver implements core.PWMDriver on the hardware PWM slices.
// Output i drives pins[i]. Pins sharing a slice share its period.
type RP2040PWMDriver struct {
	outputs    [core.PWMChannels]pwmOutput
	resolution uint16
	configured bool
}

// NewRP2040PWMDriver creates a driver for four output pins.
func NewRP2040PWMDriver(pins [core.PWMChannels]machine.Pin) *RP2040PWMDriver {
	d := &RP2040PWMDriver{}
	for i, pin := range pins {
		d.outputs[i] = pwmOutput{
			pin:   pin,
			slice: getPWMPeripheral(uint8((uint32(pin) >> 1) & 0x7)),
		}
	}
	return d
}

// Configure sets every slice to the requested period. Compare values are
// later scaled from resolution onto the slice's counter top.
func (d *RP2040PWMDriver) Configure(resolution uint16, periodNs uint64) (uint16, error) {
	if resolution == 0 {
		return 0, errors.New("PWM resolution must be positive")
	}
	for i := range d.outputs {
		out := &d.outputs[i]
		// RP2040: GPIO pin N maps to slice (N >> 1) & 0x7, channel N & 1
		if err := out.slice.Configure(machine.PWMConfig{Period: periodNs}); err != nil {
			return 0, err
		}
		ch, err := out.slice.Channel(out.pin)
		if err != nil {
			return 0, err
		}
		out.channel = ch
		out.slice.Set(ch, 0)
		out.enabled = true
	}
	d.resolution = resolution
	d.configured = true
	return resolution, nil
}

// SetDuties latches the four compare values.
func (d *RP2040PWMDriver) SetDuties(duty [core.PWMChannels]uint16, enabled [core.PWMChannels]bool) error {
	if !d.configured {
		return errPWMNotConfigured
	}
	for i := range d.outputs {
		out := &d.outputs[i]
		if !enabled[i] {
			d.release(out)
			continue
		}
		if !out.enabled {
			// Reclaim the pin for the slice after high impedance
			ch, err := out.slice.Channel(out.pin)
			if err != nil {
				return err
			}
			out.channel = ch
			out.enabled = true
		}
		top := out.slice.Top()
		out.slice.Set(out.channel, uint32(duty[i])*top/uint32(d.resolution))
	}
	return nil
}

// Disable puts every output in high impedance.
func (d *RP2040PWMDriver) Disable() error {
	for i := range d.outputs {
		d.release(&d.outputs[i])
	}
	return nil
}

func (d *RP2040PWMDriver) release(out *pwmOutput) {
	if !out.enabled {
		return
	}
	out.slice.Set(out.channel, 0)
	out.pin.Configure(machine.PinConfig{Mode: machine.PinInput})
	out.enabled = false
}

// getPWMPeripheral returns the PWM peripheral for a given slice number
// RP2040 has 8 PWM slices: PWM0-PWM7
func getPWMPeripheral(sliceNum uint8) pwmPeripheral {
	switch sliceNum {
	case 0:
		return machine.PWM0
	case 1:
		return machine.PWM1
	case 2:
		return machine.PWM2
	case 3:
		return machine.PWM3
	case 4:
		return machine.PWM4
	case 5:
		return machine.PWM5
	case 6:
		return machine.PWM6
	default:
		return machine.PWM7
	}
}
