package config

import (
	"fmt"
	"strings"

	"pulsedrive/control"
)

// ParseTopology maps a motor name onto a topology.
func ParseTopology(s string) (control.MotorTopology, error) {
	switch strings.ToLower(s) {
	case "none":
		return control.TopologyNone, nil
	case "dc":
		return control.SingleCoil, nil
	case "stepper":
		return control.DualCoil, nil
	case "bldc":
		return control.ThreePhase, nil
	}
	return 0, fmt.Errorf("motor: unknown type %q", s)
}

// ParseEstimation maps an estimation mode name onto its code.
func ParseEstimation(s string) (control.EstimationMode, error) {
	for _, m := range []control.EstimationMode{
		control.VoltageEstimation,
		control.CurrentFeedback,
		control.FOCVoltageEstimation,
		control.FOCCurrentFeedback,
	} {
		if strings.EqualFold(s, m.String()) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("estimation: unknown mode %q", s)
}

// ParsePattern maps a four-letter channel order onto an interconnect pattern.
func ParsePattern(s string) (control.InterconnectPattern, error) {
	for _, p := range []control.InterconnectPattern{
		control.PatternABCD,
		control.PatternACDB,
		control.PatternADBC,
		control.PatternDCAB,
	} {
		if strings.EqualFold(s, p.String()) {
			return p, nil
		}
	}
	return 0, fmt.Errorf("pattern: unknown channel order %q", s)
}

// ParseAlignment maps an alignment name onto its value.
func ParseAlignment(s string) (control.PWMAlignment, error) {
	switch strings.ToLower(s) {
	case "ground":
		return control.GroundAligned, nil
	case "supply":
		return control.SupplyAligned, nil
	}
	return 0, fmt.Errorf("alignment: unknown value %q", s)
}

func parseBrake(s string) (int16, error) {
	switch strings.ToLower(s) {
	case "off":
		return control.Disabled, nil
	case "low":
		return 0, nil
	}
	return 0, fmt.Errorf("brake: unknown value %q", s)
}
