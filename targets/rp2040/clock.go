//go:build rp2040

package main

import (
	"runtime/volatile"
	"unsafe"

	"pulsedrive/core"
)

// RP2040 Timer peripheral memory map
const (
	timerBase     = 0x40054000
	timerTIMERAWH = timerBase + 0x08 // Raw timer high word
	timerTIMERAWL = timerBase + 0x0C // Raw timer low word
)

// The hardware timer counts microseconds; core runs at TimerFreq.
const ticksPerMicrosecond = core.TimerFreq / 1000000

var (
	timerRAWH = (*volatile.Register32)(unsafe.Pointer(uintptr(timerTIMERAWH)))
	timerRAWL = (*volatile.Register32)(unsafe.Pointer(uintptr(timerTIMERAWL)))
)

// GetHardwareUptime reads the full 64-bit microsecond counter
func GetHardwareUptime() uint64 {
	// Read high, low, high to detect a carry between the two words
	for {
		high1 := timerRAWH.Get()
		low := timerRAWL.Get()
		high2 := timerRAWH.Get()
		if high1 == high2 {
			return (uint64(high1) << 32) | uint64(low)
		}
	}
}

// UpdateSystemTime updates the core timer with hardware time
// Called from the main loop before every ProcessTimers
func UpdateSystemTime() {
	core.SetTime(uint32(GetHardwareUptime() * ticksPerMicrosecond))
}
