package sensors

import (
	"errors"

	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/ina260"

	"pulsedrive/control"
	"pulsedrive/core"
)

var ErrSupplyNotFound = errors.New("supply sensor: INA260 not found")

// SupplySensor measures the bridge supply with an INA260.
type SupplySensor struct {
	dev        ina260.Device
	maxSenseMV int32
}

// NewSupplySensor returns a sensor on bus. maxSenseMV is the voltage that
// normalizes to full scale.
func NewSupplySensor(bus drivers.I2C, maxSenseMV int32) *SupplySensor {
	return &SupplySensor{dev: ina260.New(bus), maxSenseMV: maxSenseMV}
}

// Configure checks the device ID and selects fast continuous conversion.
// address 0 keeps the default.
func (s *SupplySensor) Configure(address uint16) error {
	if address != 0 {
		s.dev.Address = address
	}
	if !s.dev.Connected() {
		return ErrSupplyNotFound
	}
	s.dev.Configure(ina260.Config{
		AverageMode:     ina260.AVGMODE_4,
		VoltConvTime:    ina260.CONVTIME_140USEC,
		CurrentConvTime: ina260.CONVTIME_140USEC,
		Mode:            ina260.MODE_CONTINUOUS | ina260.MODE_VOLTAGE | ina260.MODE_CURRENT,
	})
	return nil
}

// SupplyMV returns the bus voltage in mV.
func (s *SupplySensor) SupplyMV() int32 {
	return s.dev.Voltage() / 1000
}

// BusCurrentMA returns the supply current in mA.
func (s *SupplySensor) BusCurrentMA() int32 {
	return s.dev.Current() / 1000
}

// Context returns the supply description for the next control tick.
func (s *SupplySensor) Context() control.VoltageContext {
	return core.SupplyFromMV(s.SupplyMV(), s.maxSenseMV)
}
