package core

// TimerFreq is the rate of the system tick counter.
const (
	TimerFreq = 12000000 // 12MHz default timer frequency
)

var systemTicks uint32

// GetTime returns the current system time in timer ticks
func GetTime() uint32 {
	return getSystemTicks()
}

// SetTime sets the current system time (for testing/hardware integration)
func SetTime(ticks uint32) {
	setSystemTicks(ticks)
}

// TimerFromUS converts microseconds to timer ticks
func TimerFromUS(us uint32) uint32 {
	return uint32(uint64(us) * TimerFreq / 1000000)
}

// TimerToUS converts timer ticks to microseconds
func TimerToUS(ticks uint32) uint32 {
	return uint32(uint64(ticks) * 1000000 / TimerFreq)
}

// PeriodFromHz returns the number of timer ticks in one period of hz.
func PeriodFromHz(hz uint32) uint32 {
	if hz == 0 {
		return 0
	}
	return TimerFreq / hz
}

// timeBefore reports whether a comes before b, allowing for counter wrap.
func timeBefore(a, b uint32) bool {
	return int32(a-b) < 0
}

// ProcessTimers runs every timer that is due. Targets call it from their
// main loop after refreshing the system time.
func ProcessTimers() {
	currentTime = GetTime()
	TimerDispatch()
}
