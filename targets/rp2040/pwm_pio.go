//go:build rp2040

package main

// PIO PWM backend using tinygo-org/pio package
// Each output runs its own state machine so the four edges are independent
// of the hardware slice pairing.

import (
	"errors"
	"machine"

	rp2pio "github.com/tinygo-org/pio/rp2-pio"

	"pulsedrive/core"
)

var errPIOFIFOFull = errors.New("PIO PWM FIFO full")

// PIO program for one PWM period
// Command word format:
//
//	Bits 0-15:  high cycles
//	Bits 16-31: low cycles
//
// Program flow:
//  1. Pull 32-bit command from FIFO (blocks, output held low)
//  2. Extract high count into X and low count into Y
//  3. Drive the pin high for X cycles, then low for Y cycles
//
// buildPWMProgram creates the PWM PIO program using AssemblerV0
func buildPWMProgram() []uint16 {
	asm := rp2pio.AssemblerV0{SidesetBits: 0}
	return []uint16{
		// .wrap_target
		asm.Pull(false, true).Encode(),          // 0: pull block
		asm.Out(rp2pio.OutDestX, 16).Encode(),   // 1: out x, 16 (high cycles)
		asm.Out(rp2pio.OutDestY, 16).Encode(),   // 2: out y, 16 (low cycles)
		asm.Jmp(6, rp2pio.JmpXZero).Encode(),    // 3: jmp !x, low
		asm.Set(rp2pio.SetDestPins, 1).Encode(), // 4: set pins, 1
		// high_loop:
		asm.Jmp(5, rp2pio.JmpXNZeroDec).Encode(), // 5: jmp x--, high_loop
		// low:
		asm.Set(rp2pio.SetDestPins, 0).Encode(), // 6: set pins, 0
		// low_loop:
		asm.Jmp(7, rp2pio.JmpYNZeroDec).Encode(), // 7: jmp y--, low_loop
		// .wrap
	}
}

const (
	pwmPIOOrigin = 0 // Load at offset 0 for correct jump addresses

	// Fixed instructions per period outside the two counting loops
	pwmPIOOverhead = 6
)

// PIOPWMDriver implements core.PWMDriver with four PIO state machines.
type PIOPWMDriver struct {
	pio        *rp2pio.PIO
	sms        [core.PWMChannels]rp2pio.StateMachine
	pins       [core.PWMChannels]machine.Pin
	enabled    [core.PWMChannels]bool
	resolution uint16
	offset     uint8
	loaded     bool
	configured bool
}

// NewPIOPWMDriver creates a driver on PIO block pioNum (0 or 1).
func NewPIOPWMDriver(pioNum uint8, pins [core.PWMChannels]machine.Pin) *PIOPWMDriver {
	var pioHW *rp2pio.PIO
	if pioNum == 0 {
		pioHW = rp2pio.PIO0
	} else {
		pioHW = rp2pio.PIO1
	}
	d := &PIOPWMDriver{pio: pioHW, pins: pins}
	for i := range d.sms {
		d.sms[i] = pioHW.StateMachine(uint8(i))
	}
	return d
}

// Configure loads the program once and sets the clock divider so that
// resolution plus the fixed overhead spans one period.
func (d *PIOPWMDriver) Configure(resolution uint16, periodNs uint64) (uint16, error) {
	if resolution == 0 || periodNs == 0 {
		return 0, errors.New("PIO PWM needs a resolution and a period")
	}

	program := buildPWMProgram()
	if !d.loaded {
		offset, err := d.pio.AddProgram(program, pwmPIOOrigin)
		if err != nil {
			return 0, err
		}
		d.offset = offset
		d.loaded = true
	}

	// Clock divider in 8.8 fixed point
	cycles := uint64(resolution) + pwmPIOOverhead
	div := uint64(machine.CPUFrequency()) * periodNs * 256 / (cycles * 1000000000)
	if div < 256 {
		return 0, errors.New("PIO PWM period too short for resolution")
	}
	if div > 0xffffff {
		return 0, errors.New("PIO PWM period too long for resolution")
	}

	for i := range d.sms {
		sm := d.sms[i]
		pin := d.pins[i]

		// Claim the state machine before touching it
		sm.TryClaim()
		sm.SetEnabled(false)
		pin.Configure(machine.PinConfig{Mode: d.pio.PinMode()})

		cfg := rp2pio.DefaultStateMachineConfig()
		cfg.SetSetPins(pin, 1)
		cfg.SetOutShift(true, false, 32)
		cfg.SetWrap(d.offset+uint8(len(program))-1, d.offset)
		cfg.SetClkDivIntFrac(uint16(div>>8), uint8(div&0xff))

		// Pin directions must be set after Init
		sm.Init(d.offset, cfg)
		sm.SetPindirsConsecutive(pin, 1, true)
		sm.SetPinsConsecutive(pin, 1, false)
		sm.ClearFIFOs()
		sm.SetEnabled(true)
		d.enabled[i] = true
	}
	d.resolution = resolution
	d.configured = true
	return resolution, nil
}

// SetDuties queues one period per channel. A channel whose FIFO is still
// full keeps its previous duty and the call reports errPIOFIFOFull.
func (d *PIOPWMDriver) SetDuties(duty [core.PWMChannels]uint16, enabled [core.PWMChannels]bool) error {
	if !d.configured {
		return errPWMNotConfigured
	}
	var err error
	for i := range d.sms {
		sm := d.sms[i]
		if !enabled[i] {
			if d.enabled[i] {
				sm.ClearFIFOs()
				sm.SetPinsConsecutive(d.pins[i], 1, false)
				sm.SetPindirsConsecutive(d.pins[i], 1, false)
				d.enabled[i] = false
			}
			continue
		}
		if !d.enabled[i] {
			sm.SetPindirsConsecutive(d.pins[i], 1, true)
			d.enabled[i] = true
		}
		if sm.IsTxFIFOFull() {
			err = errPIOFIFOFull
			continue
		}
		sm.TxPut(pwmWord(duty[i], d.resolution))
	}
	return err
}

// Disable drains every FIFO and releases the pins.
func (d *PIOPWMDriver) Disable() error {
	for i := range d.sms {
		sm := d.sms[i]
		sm.ClearFIFOs()
		sm.Restart()
		sm.SetPinsConsecutive(d.pins[i], 1, false)
		sm.SetPindirsConsecutive(d.pins[i], 1, false)
		d.enabled[i] = false
	}
	return nil
}

// pwmWord packs the high and low cycle counts for one period.
func pwmWord(duty, resolution uint16) uint32 {
	if duty > resolution {
		duty = resolution
	}
	return uint32(duty) | uint32(resolution-duty)<<16
}
