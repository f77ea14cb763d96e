package fixmath

import (
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		v, lo, hi, want int32
	}{
		{5, 0, 10, 5},
		{-5, 0, 10, 0},
		{15, 0, 10, 10},
		{10, 0, 10, 10},
	}
	for _, tt := range tests {
		if got := Clamp(tt.v, tt.lo, tt.hi); got != tt.want {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tt.v, tt.lo, tt.hi, got, tt.want)
		}
	}
}

func TestSaturateInt16NeverReturnsMin(t *testing.T) {
	for _, v := range []int64{math.MinInt64, math.MinInt32, -40000, math.MinInt16} {
		if got := SaturateInt16(v); got != -Int16Max {
			t.Errorf("SaturateInt16(%d) = %d, expected %d", v, got, -Int16Max)
		}
	}
	if got := SaturateInt16(1 << 20); got != Int16Max {
		t.Errorf("SaturateInt16(1<<20) = %d, expected %d", got, Int16Max)
	}
	if got := SaturateInt16(-1234); got != -1234 {
		t.Errorf("SaturateInt16(-1234) = %d", got)
	}
}

func TestNormalizeVoltage(t *testing.T) {
	tests := []struct {
		mv, max int32
		want    int16
	}{
		{0, 69000, 0},
		{12000, 69000, int16((12000 << 15) / 69000)},
		{-12000, 69000, int16((-12000 << 15) / 69000)},
		{69000, 69000, Int16Max},  // exactly 1.0 saturates
		{100000, 69000, Int16Max}, // over range
		{34500, 69000, 1 << 14},   // half scale
	}
	for _, tt := range tests {
		if got := NormalizeVoltage(tt.mv, tt.max); got != tt.want {
			t.Errorf("NormalizeVoltage(%d, %d) = %d, expected %d", tt.mv, tt.max, got, tt.want)
		}
	}
}

func TestSinCosCardinalPoints(t *testing.T) {
	tests := []struct {
		name     string
		angle    int32
		sin, cos int16
	}{
		{"zero", 0, 0, Int16Max},
		{"quarter", QuarterTurn, Int16Max, 0},
		{"half", math.MinInt32, 0, -Int16Max},
		{"minus quarter", -QuarterTurn, -Int16Max, 0},
	}
	for _, tt := range tests {
		s, c := SinCos(tt.angle)
		if s != tt.sin || c != tt.cos {
			t.Errorf("%s: SinCos(%d) = (%d, %d), expected (%d, %d)", tt.name, tt.angle, s, c, tt.sin, tt.cos)
		}
	}
}

func TestSinCosAccuracy(t *testing.T) {
	const steps = 4096
	worst := 0.0
	for i := 0; i < steps; i++ {
		angle := int32(uint32(i) * (1 << 32 / steps))
		s, c := SinCos(angle)
		rad := float64(angle) / (1 << 31) * math.Pi
		ds := math.Abs(float64(s) - math.Sin(rad)*Int16Max)
		dc := math.Abs(float64(c) - math.Cos(rad)*Int16Max)
		worst = max(worst, ds, dc)
	}
	if worst > 2 {
		t.Errorf("Worst SinCos error %.2f LSB, expected <= 2", worst)
	}
	t.Logf("Worst SinCos error: %.2f LSB", worst)
}

func TestPolarToAxes(t *testing.T) {
	s, c := PolarToAxes(0, 1000)
	if s != 0 || c != 999 {
		t.Errorf("PolarToAxes(0, 1000) = (%d, %d), expected (0, 999)", s, c)
	}
	s, c = PolarToAxes(QuarterTurn, -1000)
	if s != -1000 || c != 0 {
		t.Errorf("PolarToAxes(quarter, -1000) = (%d, %d), expected (-1000, 0)", s, c)
	}
}

func TestClarke(t *testing.T) {
	a, b, c := Clarke(1000, 0)
	if a != 1000 || b != -500 || c != -500 {
		t.Errorf("Clarke(1000, 0) = (%d, %d, %d)", a, b, c)
	}
	a, b, c = Clarke(0, 1000)
	if a != 0 || b != 866 || c != -866 {
		t.Errorf("Clarke(0, 1000) = (%d, %d, %d)", a, b, c)
	}
	// Balanced phases sum to roughly zero.
	for _, angle := range []int32{0, 1 << 28, 1 << 29, -1 << 30, 3 << 29} {
		alpha, beta := PolarToAxes(angle, 10000)
		a, b, c := Clarke(alpha, beta)
		if sum := a + b + c; sum < -2 || sum > 2 {
			t.Errorf("Clarke phases at angle %d sum to %d", angle, sum)
		}
	}
}

func TestCenterSpaceVectorBounds(t *testing.T) {
	const supply = 5698
	for _, mag := range []int32{0, 1000, supply / 2, 3290} {
		for i := 0; i < 256; i++ {
			angle := int32(uint32(i) << 24)
			alpha, beta := PolarToAxes(angle, mag)
			a, b, c := Clarke(alpha, beta)
			if max(a, b, c)-min(a, b, c) > supply {
				continue
			}
			a, b, c = CenterSpaceVector(a, b, c, supply)
			if lo := min(a, b, c); lo < 0 {
				t.Errorf("mag=%d angle=%d: min phase %d below 0", mag, angle, lo)
			}
			if hi := max(a, b, c); hi > supply {
				t.Errorf("mag=%d angle=%d: max phase %d above supply", mag, angle, hi)
			}
		}
	}
}
