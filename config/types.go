package config

// DriveConfig is the complete drive configuration as loaded from JSON.
type DriveConfig struct {
	Motor      string `json:"motor"`      // none, dc, stepper, bldc
	Estimation string `json:"estimation"` // voltage_estimation, current_feedback, foc_voltage_estimation, foc_current_feedback
	Pattern    string `json:"pattern"`    // ABCD, ACDB, ADBC, DCAB
	Alignment  string `json:"alignment"`  // ground, supply
	Brake      string `json:"brake"`      // off (high impedance) or low

	ResistanceMOhm int32     `json:"resistance_mohm"`
	PID            PIDConfig `json:"pid"`
	IntegralLimit  int32     `json:"integral_limit"`

	TickHz     uint32 `json:"tick_hz"`
	WatchdogUS uint32 `json:"watchdog_us"`

	PWM     PWMConfig     `json:"pwm"`
	Supply  SupplyConfig  `json:"supply"`
	Sense   SenseConfig   `json:"sense"`
	Sensors SensorsConfig `json:"sensors"`
}

// PIDConfig holds gains scaled by 1000.
type PIDConfig struct {
	Kp  int32 `json:"kp"`
	Ki  int32 `json:"ki"`
	Kd  int32 `json:"kd"`
	Kff int32 `json:"kff"`
}

// PWMConfig describes the output stage.
type PWMConfig struct {
	Backend     string    `json:"backend"` // hardware or pio
	Resolution  uint16    `json:"resolution"`
	Bias        int16     `json:"bias"`
	FrequencyHz uint32    `json:"frequency_hz"`
	Pins        [4]string `json:"pins"` // output A..D after remapping
}

// SupplyConfig describes the supply rail and its sense range.
type SupplyConfig struct {
	NominalMV  int32 `json:"nominal_mv"`
	MaxSenseMV int32 `json:"max_sense_mv"`
}

// SenseConfig calibrates the phase current ADC inputs.
type SenseConfig struct {
	CurrentMidpoint    uint16 `json:"current_midpoint"`
	CurrentFullScaleMA int32  `json:"current_full_scale_ma"`
}

// SensorsConfig lists the I2C sensors. Zero addresses keep the defaults.
type SensorsConfig struct {
	Angle         bool   `json:"angle"`
	AngleAddress  uint8  `json:"angle_address"`
	Supply        bool   `json:"supply"`
	SupplyAddress uint16 `json:"supply_address"`
}
