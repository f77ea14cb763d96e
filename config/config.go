package config

import (
	"encoding/json"
	"fmt"

	"pulsedrive/control"
	"pulsedrive/core"
)

// LoadConfig parses a JSON configuration and returns a validated DriveConfig
func LoadConfig(jsonData []byte) (*DriveConfig, error) {
	var config DriveConfig

	err := json.Unmarshal(jsonData, &config)
	if err != nil {
		return nil, err
	}

	applyDefaults(&config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// MaxTickHz is the fastest control tick the firmware sustains: the full
// pipeline plus interrupt entry within one period on a 125 MHz RP2040.
const MaxTickHz = 25000

// applyDefaults fills in missing configuration values with the bench defaults
func applyDefaults(config *DriveConfig) {
	if config.Motor == "" {
		config.Motor = "stepper"
	}
	if config.Estimation == "" {
		config.Estimation = "voltage_estimation"
	}
	if config.Pattern == "" {
		config.Pattern = "ABCD"
	}
	if config.Alignment == "" {
		config.Alignment = "ground"
	}
	if config.Brake == "" {
		config.Brake = "off"
	}

	if config.ResistanceMOhm == 0 {
		config.ResistanceMOhm = 6500
	}
	if config.IntegralLimit == 0 {
		config.IntegralLimit = control.DefaultIntegralLimit
	}
	if config.TickHz == 0 {
		config.TickHz = 10000
	}
	if config.WatchdogUS == 0 {
		config.WatchdogUS = 5000
	}

	if config.PWM.Backend == "" {
		config.PWM.Backend = "hardware"
	}
	if config.PWM.Resolution == 0 {
		config.PWM.Resolution = 3000
	}
	if config.PWM.FrequencyHz == 0 {
		// The PIO back end is fed one period per tick
		if config.PWM.Backend == "pio" {
			config.PWM.FrequencyHz = config.TickHz
		} else {
			config.PWM.FrequencyHz = 20000
		}
	}

	if config.Supply.NominalMV == 0 {
		config.Supply.NominalMV = 12000
	}
	if config.Supply.MaxSenseMV == 0 {
		config.Supply.MaxSenseMV = 69000
	}

	if config.Sense.CurrentMidpoint == 0 {
		config.Sense.CurrentMidpoint = 0x8000
	}
	if config.Sense.CurrentFullScaleMA == 0 {
		config.Sense.CurrentFullScaleMA = 5000
	}
}

// Validate checks every mode name and range.
func (c *DriveConfig) Validate() error {
	if _, err := ParseTopology(c.Motor); err != nil {
		return err
	}
	if _, err := ParseEstimation(c.Estimation); err != nil {
		return err
	}
	if _, err := ParsePattern(c.Pattern); err != nil {
		return err
	}
	if _, err := ParseAlignment(c.Alignment); err != nil {
		return err
	}
	if _, err := parseBrake(c.Brake); err != nil {
		return err
	}
	switch c.PWM.Backend {
	case "hardware", "pio":
	default:
		return fmt.Errorf("pwm.backend: unknown backend %q", c.PWM.Backend)
	}
	if c.ResistanceMOhm < 0 {
		return fmt.Errorf("resistance_mohm: must not be negative, got %d", c.ResistanceMOhm)
	}
	if c.IntegralLimit < 0 {
		return fmt.Errorf("integral_limit: must not be negative, got %d", c.IntegralLimit)
	}
	if err := c.PID.validate(); err != nil {
		return err
	}
	if c.Supply.MaxSenseMV <= 0 {
		return fmt.Errorf("supply.max_sense_mv: must be positive, got %d", c.Supply.MaxSenseMV)
	}
	if c.Supply.NominalMV > c.Supply.MaxSenseMV {
		return fmt.Errorf("supply.nominal_mv: %d exceeds max_sense_mv %d", c.Supply.NominalMV, c.Supply.MaxSenseMV)
	}
	if c.TickHz == 0 || c.TickHz > MaxTickHz {
		return fmt.Errorf("tick_hz: %d out of range [1, %d]", c.TickHz, MaxTickHz)
	}
	if c.PWM.Backend == "pio" && c.PWM.FrequencyHz != c.TickHz {
		return fmt.Errorf("pwm.frequency_hz: pio backend needs %d (tick_hz), got %d", c.TickHz, c.PWM.FrequencyHz)
	}
	return nil
}

func (p PIDConfig) validate() error {
	for _, g := range []struct {
		name string
		v    int32
	}{{"kp", p.Kp}, {"ki", p.Ki}, {"kd", p.Kd}, {"kff", p.Kff}} {
		if g.v < 0 || g.v > control.DefaultIntegralLimit {
			return fmt.Errorf("pid.%s: %d out of range [0, %d]", g.name, g.v, control.DefaultIntegralLimit)
		}
	}
	return nil
}

// Params returns the control parameters. The config must be valid.
func (c *DriveConfig) Params() control.Params {
	brake, _ := parseBrake(c.Brake)
	return control.Params{
		ResistanceMOhm: c.ResistanceMOhm,
		Gains: control.PIDGains{
			Kp:  c.PID.Kp,
			Ki:  c.PID.Ki,
			Kd:  c.PID.Kd,
			Kff: c.PID.Kff,
		},
		IntegralLimit: c.IntegralLimit,
		PWMResolution: c.PWM.Resolution,
		DutyBias:      c.PWM.Bias,
		Brake:         brake,
		TickHz:        int32(c.TickHz),
	}
}

// Inputs returns the initial loop inputs: the configured modes and the
// nominal supply. The config must be valid.
func (c *DriveConfig) Inputs() control.Inputs {
	topo, _ := ParseTopology(c.Motor)
	mode, _ := ParseEstimation(c.Estimation)
	pattern, _ := ParsePattern(c.Pattern)
	align, _ := ParseAlignment(c.Alignment)
	return control.Inputs{
		Mode:      mode,
		Topology:  topo,
		Pattern:   pattern,
		Alignment: align,
		Supply:    core.SupplyFromMV(c.Supply.NominalMV, c.Supply.MaxSenseMV),
	}
}

// SenseConfig returns the ADC calibration.
func (c *DriveConfig) SenseConfig() core.SenseConfig {
	return core.SenseConfig{
		CurrentMidpoint:    core.ADCValue(c.Sense.CurrentMidpoint),
		CurrentFullScaleMA: c.Sense.CurrentFullScaleMA,
		SupplyFullScaleMV:  c.Supply.MaxSenseMV,
	}
}

// TickPeriod returns the control period in timer ticks.
func (c *DriveConfig) TickPeriod() uint32 {
	return core.PeriodFromHz(c.TickHz)
}

// WatchdogTicks returns the output watchdog timeout in timer ticks.
func (c *DriveConfig) WatchdogTicks() uint32 {
	return core.TimerFromUS(c.WatchdogUS)
}

// DefaultStepperConfig returns the bench configuration for a two-phase stepper
func DefaultStepperConfig() *DriveConfig {
	config := &DriveConfig{
		Motor:      "stepper",
		Estimation: "voltage_estimation",
		Pattern:    "ABCD",
		Alignment:  "ground",
		Brake:      "off",
		PWM: PWMConfig{
			Backend: "hardware",
			Pins:    [4]string{"gpio16", "gpio17", "gpio18", "gpio19"},
		},
		Sensors: SensorsConfig{
			Angle:  true,
			Supply: true,
		},
	}
	applyDefaults(config)
	return config
}
