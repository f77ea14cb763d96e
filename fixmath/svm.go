package fixmath

// Sqrt3Div2 is sqrt(3)/2 scaled by 1<<16.
const Sqrt3Div2 = 56755

// Clarke maps a two-axis vector onto three phases 120 degrees apart.
func Clarke(alpha, beta int32) (a, b, c int32) {
	half := -alpha / 2
	scaled := int32((int64(Sqrt3Div2) * int64(beta)) >> 16)
	return alpha, half + scaled, half - scaled
}

// CenterSpaceVector shifts three phase voltages by a common offset so that
// they sit in the middle of [0, supply]. When max-min <= supply the result
// stays within that range.
func CenterSpaceVector(a, b, c, supply int32) (int32, int32, int32) {
	hi := max(a, b, c)
	lo := min(a, b, c)
	off := int32((int64(supply) - int64(hi) - int64(lo)) >> 1)
	return a + off, b + off, c + off
}
