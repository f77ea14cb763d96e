//go:build tinygo

package core

import "runtime/interrupt"

// disableInterrupts masks interrupts and returns the previous mask.
// The control loop uses it to stage inputs and outputs around a tick.
func disableInterrupts() interrupt.State {
	return interrupt.Disable()
}

// restoreInterrupts puts back a mask returned by disableInterrupts
func restoreInterrupts(state interrupt.State) {
	interrupt.Restore(state)
}
