package core

// ADCChannelID identifies a logical sense channel.
type ADCChannelID uint8

const (
	ADCPhaseA ADCChannelID = iota
	ADCPhaseB
	ADCSupply
	ADCTemperature
)

// ADCValue is the "raw" ADC reading as seen by the rest of the firmware.
// Convention here: 16-bit left-aligned value, even if the hardware is 12 bits.
type ADCValue uint16

// ADCDriver is the abstract ADC interface that core code uses.
type ADCDriver interface {
	// Init powers up the converter and configures every sense channel.
	Init() error

	// ReadRaw performs a one-shot sample from the given channel.
	ReadRaw(ch ADCChannelID) (ADCValue, error)
}

// Global singleton used by core code.
var adcDriver ADCDriver

// SetADCDriver is called by target-specific code to register its driver.
func SetADCDriver(d ADCDriver) {
	adcDriver = d
}

// MustADC returns the configured driver or panics if missing.
func MustADC() ADCDriver {
	if adcDriver == nil {
		panic("ADC driver not configured")
	}
	return adcDriver
}
