package fixmath

import "math"

// Angles are Int1.31: the int32 range covers [-1, 1) * pi, so a full turn
// is 1<<32 and wraps with plain integer overflow.
const QuarterTurn = 1 << 30

const (
	tableBits  = 8 // entries per quarter wave
	tableShift = 30 - tableBits
	fracBits   = 8
)

// sinTable is a Q15 quarter sine wave, sinTable[256] == sin(pi/2).
var sinTable [1<<tableBits + 1]int16

func init() {
	for i := range sinTable {
		s := math.Sin(float64(i) * math.Pi / 2 / (1 << tableBits))
		sinTable[i] = int16(math.Round(s * Int16Max))
	}
}

// quarterSin returns sin for a phase in [0, QuarterTurn].
func quarterSin(p uint32) int32 {
	if p >= QuarterTurn {
		return int32(sinTable[1<<tableBits])
	}
	idx := p >> tableShift
	frac := int32(p>>(tableShift-fracBits)) & (1<<fracBits - 1)
	a := int32(sinTable[idx])
	b := int32(sinTable[idx+1])
	return a + ((b-a)*frac)>>fracBits
}

func sinQ15(u uint32) int16 {
	p := u & (QuarterTurn - 1)
	switch u >> 30 {
	case 0:
		return int16(quarterSin(p))
	case 1:
		return int16(quarterSin(QuarterTurn - p))
	case 2:
		return int16(-quarterSin(p))
	default:
		return int16(-quarterSin(QuarterTurn - p))
	}
}

// SinCos returns Q15 sine and cosine of an Int1.31 angle.
func SinCos(angle int32) (sin, cos int16) {
	u := uint32(angle)
	return sinQ15(u), sinQ15(u + QuarterTurn)
}

// PolarToAxes projects a polar magnitude onto the sin/cos axes.
func PolarToAxes(angle, magnitude int32) (sin, cos int32) {
	s, c := SinCos(angle)
	sin = int32((int64(magnitude) * int64(s)) >> 15)
	cos = int32((int64(magnitude) * int64(c)) >> 15)
	return sin, cos
}
