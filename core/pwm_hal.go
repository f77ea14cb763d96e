package core

// PWMChannels is the number of outputs a PWMDriver serves.
const PWMChannels = 4

// PWMDriver is the abstract four-channel PWM interface the control loop
// writes to. Platform-specific implementations handle the hardware.
type PWMDriver interface {
	// Configure sets the counter period (resolution) and the PWM period in ns.
	// Returns the resolution actually in use.
	Configure(resolution uint16, periodNs uint64) (uint16, error)

	// SetDuties latches one compare value per channel. Channels with
	// enabled[i] false are put in high impedance.
	SetDuties(duty [PWMChannels]uint16, enabled [PWMChannels]bool) error

	// Disable turns every channel off.
	Disable() error
}

// Global singleton used by core code.
var pwmDriver PWMDriver

// SetPWMDriver is called by target-specific code to register its driver.
func SetPWMDriver(d PWMDriver) {
	pwmDriver = d
}

// MustPWM returns the configured driver or panics if missing.
func MustPWM() PWMDriver {
	if pwmDriver == nil {
		panic("PWM driver not configured")
	}
	return pwmDriver
}
