package control

// InterconnectPattern remaps logical channels onto physical outputs. Slot i
// of the output takes input channel (p >> 2i) & 3.
type InterconnectPattern uint8

const (
	PatternABCD InterconnectPattern = 0b11100100
	PatternACDB InterconnectPattern = 0b01111000
	PatternADBC InterconnectPattern = 0b10011100
	PatternDCAB InterconnectPattern = 0b01001011
)

// Source returns the input channel routed to output slot i.
func (p InterconnectPattern) Source(i int) int {
	return int(p>>(2*uint(i))) & 0b11
}

// Apply permutes q.
func (p InterconnectPattern) Apply(q ChannelQuad) ChannelQuad {
	var out ChannelQuad
	for i := range out {
		out[i] = q[p.Source(i)]
	}
	return out
}

// Valid reports whether every input channel is used exactly once.
func (p InterconnectPattern) Valid() bool {
	var seen uint8
	for i := 0; i < 4; i++ {
		seen |= 1 << p.Source(i)
	}
	return seen == 0b1111
}

// Inverse returns the pattern that undoes p. p must be Valid.
func (p InterconnectPattern) Inverse() InterconnectPattern {
	var inv InterconnectPattern
	for i := 0; i < 4; i++ {
		inv |= InterconnectPattern(i) << (2 * uint(p.Source(i)))
	}
	return inv
}

func (p InterconnectPattern) String() string {
	const names = "ABCD"
	b := make([]byte, 4)
	for i := range b {
		b[i] = names[p.Source(i)]
	}
	return string(b)
}
