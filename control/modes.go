package control

// EstimationMode selects how the phase voltage is derived. Bit 0 enables
// closed-loop current feedback, bit 1 takes the voltage target as is.
type EstimationMode uint8

const (
	VoltageEstimation    EstimationMode = 0b00
	CurrentFeedback      EstimationMode = 0b01
	FOCVoltageEstimation EstimationMode = 0b10
	FOCCurrentFeedback   EstimationMode = 0b11
)

// Feedback reports whether the current loop runs closed.
func (m EstimationMode) Feedback() bool { return m&0b01 != 0 }

// DirectVoltage reports whether the voltage target bypasses the current path.
func (m EstimationMode) DirectVoltage() bool { return m&0b10 != 0 }

func (m EstimationMode) String() string {
	switch m {
	case VoltageEstimation:
		return "voltage_estimation"
	case CurrentFeedback:
		return "current_feedback"
	case FOCVoltageEstimation:
		return "foc_voltage_estimation"
	case FOCCurrentFeedback:
		return "foc_current_feedback"
	default:
		return "unknown"
	}
}

// MotorTopology selects how the two-axis voltage is laid onto the channels.
type MotorTopology uint8

const (
	TopologyNone MotorTopology = iota
	SingleCoil                 // brushed DC on A/B
	DualCoil                   // two-phase stepper, A/B and C/D
	ThreePhase                 // BLDC on A/B/C
)

func (t MotorTopology) String() string {
	switch t {
	case TopologyNone:
		return "none"
	case SingleCoil:
		return "dc"
	case DualCoil:
		return "stepper"
	case ThreePhase:
		return "bldc"
	default:
		return "unknown"
	}
}

// PWMAlignment selects which rail a duty value is referenced to.
type PWMAlignment uint8

const (
	GroundAligned PWMAlignment = iota
	SupplyAligned
)

func (a PWMAlignment) String() string {
	switch a {
	case GroundAligned:
		return "ground"
	case SupplyAligned:
		return "supply"
	default:
		return "unknown"
	}
}
