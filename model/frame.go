package model

// Frame holds one color per strip position for a single point in time
type Frame []Color

// Hex returns the '#' prefixed hex form of every pixel
func (f Frame) Hex() (hexes []string) {
	hexes = make([]string, 0, len(f))
	for _, c := range f {
		hexes = append(hexes, c.HexWeb())
	}
	return hexes
}

// Clone returns an independent copy of the frame
func (f Frame) Clone() Frame {
	return append(Frame(nil), f...)
}
