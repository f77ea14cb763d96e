//go:build tinygo

package core

import "sync/atomic"

// The counter is written from the main loop and read from timer handlers.
func getSystemTicks() uint32 {
	return atomic.LoadUint32(&systemTicks)
}

func setSystemTicks(ticks uint32) {
	atomic.StoreUint32(&systemTicks, ticks)
}
