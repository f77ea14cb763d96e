package sensors

import (
	"errors"

	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/as560x"
)

// angleShift moves the 12-bit sensor reading into the top of a 32-bit turn.
const angleShift = 32 - 12

var (
	ErrNoMagnet     = errors.New("angle sensor: no magnet detected")
	ErrMagnetWeak   = errors.New("angle sensor: magnet too weak")
	ErrMagnetStrong = errors.New("angle sensor: magnet too strong")
)

// AngleSensor reads shaft angle from an AS5600 magnetic encoder and reports
// it as a wrapping 32-bit turn fraction for the position tracker.
type AngleSensor struct {
	dev as560x.AS5600Device
}

// NewAngleSensor returns a sensor on bus. Call Configure before reading.
func NewAngleSensor(bus drivers.I2C) *AngleSensor {
	return &AngleSensor{dev: as560x.NewAS5600(bus)}
}

// Configure sets the I2C address (0 selects the default) and checks that a
// usable magnet is in front of the sensor.
func (s *AngleSensor) Configure(address uint8) error {
	if err := s.dev.Configure(as560x.Config{Address: address}); err != nil {
		return err
	}
	detected, strength, err := s.dev.MagnetStatus()
	if err != nil {
		return err
	}
	if !detected {
		return ErrNoMagnet
	}
	switch strength {
	case as560x.MagnetTooWeak:
		return ErrMagnetWeak
	case as560x.MagnetTooStrong:
		return ErrMagnetStrong
	}
	return nil
}

// RawAngle returns the unscaled angle, left-justified so that one full
// turn spans the uint32 range.
func (s *AngleSensor) RawAngle() (uint32, error) {
	v, _, err := s.dev.RawAngle(as560x.ANGLE_NATIVE)
	if err != nil {
		return 0, err
	}
	return uint32(v) << angleShift, nil
}
