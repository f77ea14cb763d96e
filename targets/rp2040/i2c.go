//go:build rp2040

package main

import (
	"machine"

	"pulsedrive/config"
	"pulsedrive/control"
	"pulsedrive/core"
	"pulsedrive/sensors"
)

const sensorBusHz = 400000

// sensorSet holds the optional I2C feedback sensors.
type sensorSet struct {
	angle  *sensors.AngleSensor
	supply *sensors.SupplySensor
}

// initSensors brings up I2C0 (SDA=GP4, SCL=GP5) and every sensor the config
// enables. A sensor that fails to configure is left out and reported.
func initSensors(cfg *config.DriveConfig) sensorSet {
	var set sensorSet
	if !cfg.Sensors.Angle && !cfg.Sensors.Supply {
		return set
	}

	bus := machine.I2C0
	if err := bus.Configure(machine.I2CConfig{Frequency: sensorBusHz}); err != nil {
		core.DebugPrintln("[SENSE] I2C0 configure failed: " + err.Error())
		return set
	}

	if cfg.Sensors.Angle {
		s := sensors.NewAngleSensor(bus)
		if err := s.Configure(cfg.Sensors.AngleAddress); err != nil {
			core.DebugPrintln("[SENSE] angle sensor: " + err.Error())
		} else {
			set.angle = s
		}
	}
	if cfg.Sensors.Supply {
		s := sensors.NewSupplySensor(bus, cfg.Supply.MaxSenseMV)
		if err := s.Configure(cfg.Sensors.SupplyAddress); err != nil {
			core.DebugPrintln("[SENSE] supply sensor: " + err.Error())
		} else {
			set.supply = s
		}
	}
	return set
}

// poll reads every present sensor and the ADC, then hands the results to
// the loop in one update.
func (s sensorSet) poll(loop *core.ControlLoop, sense core.SenseConfig) {
	var (
		raw   uint32
		rawOK bool
	)
	if s.angle != nil {
		if v, err := s.angle.RawAngle(); err == nil {
			raw, rawOK = v, true
		}
	}
	var supply control.VoltageContext
	if s.supply != nil {
		supply = s.supply.Context()
	}

	sample, err := core.ReadSense(sense)
	loop.Update(func(in *control.Inputs) {
		if rawOK {
			in.RawAngle = raw
		}
		if s.supply != nil {
			in.Supply = supply
		} else if err == nil {
			in.Supply = sample.Supply
		}
		if err == nil {
			in.CurrentMeasured = sample.Phase
		}
	})
}
