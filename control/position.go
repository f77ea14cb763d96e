package control

// RotationSpan is how much Combined grows per full turn.
const RotationSpan = 1 << 32

// AbsPosition is an unwrapped shaft position: a wrapping Int1.31 angle plus a
// signed turn count.
type AbsPosition struct {
	Angle     int32
	Rotations int32
}

// Combined packs the position into one monotonic int64.
func (p AbsPosition) Combined() int64 {
	return int64(p.Rotations)<<32 | int64(uint32(p.Angle))
}

// PositionFromCombined is the inverse of Combined.
func PositionFromCombined(v int64) AbsPosition {
	return AbsPosition{Angle: int32(uint32(v)), Rotations: int32(v >> 32)}
}

// Add returns p + o in combined units.
func (p AbsPosition) Add(o AbsPosition) AbsPosition {
	return PositionFromCombined(p.Combined() + o.Combined())
}

// PositionTracker unwraps a raw sensor angle into an absolute position by
// watching the top two bits. Only direct jumps between the first and last
// quadrant count as a turn; a sample that skips two quadrants in one tick is
// not detected.
type PositionTracker struct {
	raw       AbsPosition
	prevQuad  int8
	lastSpeed int64
}

// NewPositionTracker returns a tracker at zero. The quadrant cache starts at
// 2 so that the first sample can never register a turn.
func NewPositionTracker() PositionTracker {
	return PositionTracker{prevQuad: 2}
}

// Tick feeds one raw angle sample. It returns the position with offset
// applied and the speed in combined units per second.
func (t *PositionTracker) Tick(rawAngle uint32, offset AbsPosition, tickHz int32) (inst AbsPosition, speed int64) {
	old := t.raw.Combined()

	t.raw.Angle = int32(rawAngle)
	quad := int8(rawAngle >> 30)
	switch t.prevQuad - quad {
	case 3:
		t.raw.Rotations++
	case -3:
		t.raw.Rotations--
	}
	t.prevQuad = quad

	t.lastSpeed = (t.raw.Combined() - old) * int64(tickHz)
	return t.raw.Add(offset), t.lastSpeed
}

// Raw returns the unwrapped position without offset.
func (t *PositionTracker) Raw() AbsPosition { return t.raw }

// Reset zeroes the turn count. Only call it while the loop is stopped.
func (t *PositionTracker) Reset() {
	*t = NewPositionTracker()
}
