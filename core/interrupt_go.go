//go:build !tinygo

package core

// State stands in for the saved interrupt mask on regular Go
type State uintptr

// disableInterrupts is a no-op on regular Go (for host tests)
func disableInterrupts() State {
	return 0
}

// restoreInterrupts is a no-op on regular Go (for host tests)
func restoreInterrupts(State) {}
