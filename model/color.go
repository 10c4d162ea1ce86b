package model

// This module implements the color value type.  Channels are nominally in
// the range [0, 1] but are never clamped by the arithmetic so that multi
// stage blends mix correctly, clamping only happens when a color leaves the
// program as hex text or raw bytes

import (
	"encoding/hex"
	"math"
	"strings"

	"github.com/go-stack/stack"
	"github.com/karlmutch/errors"

	"github.com/lucasb-eyer/go-colorful"
)

type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
}

// Black is the zero color
var Black = Color{}

// RGB255 builds a color from byte channel values
func RGB255(r, g, b uint8) Color {
	return Color{R: float64(r) / 255.0, G: float64(g) / 255.0, B: float64(b) / 255.0}
}

func (c Color) Add(o Color) Color {
	return Color{R: c.R + o.R, G: c.G + o.G, B: c.B + o.B}
}

// Multiply multiplies component-wise
func (c Color) Multiply(o Color) Color {
	return Color{R: c.R * o.R, G: c.G * o.G, B: c.B * o.B}
}

func (c Color) Scale(factor float64) Color {
	return Color{R: c.R * factor, G: c.G * factor, B: c.B * factor}
}

// Blend linearly interpolates from c (at 0) to o (at 1)
func (c Color) Blend(o Color, f float64) Color {
	return c.Scale(1 - f).Add(o.Scale(f))
}

// ToHSV returns hue in degrees [0,360), saturation and value
func (c Color) ToHSV() (h, s, v float64) {
	return colorful.Color(c).Hsv()
}

// FromHSV builds a color from hue in degrees, saturation and value, hue is
// wrapped into [0,360)
func FromHSV(h, s, v float64) Color {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	return Color(colorful.Hsv(h, s, v))
}

func clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}

// Clamped returns the color with every channel forced into [0,1]
func (c Color) Clamped() Color {
	return Color{R: clamp01(c.R), G: clamp01(c.G), B: clamp01(c.B)}
}

// ToHex returns the 6 digit lower case hex form, without a leading '#'
func (c Color) ToHex() string {
	return strings.TrimPrefix(c.HexWeb(), "#")
}

// HexWeb returns the '#' prefixed hex form used by previews
func (c Color) HexWeb() string {
	return colorful.Color(c.Clamped()).Hex()
}

// RawCorrected returns gamma corrected R, G, B bytes for hardware output
func (c Color) RawCorrected() [3]byte {
	r, g, b := colorful.Color(c.Clamped()).RGB255()
	return [3]byte{Gamma(r), Gamma(g), Gamma(b)}
}

// FromHex parses exactly 6 hex digits with an optional leading '#'
func FromHex(text string) (c Color, err errors.Error) {
	digits := strings.TrimPrefix(text, "#")
	if len(digits) != 6 {
		return Black, NewFault(InvalidFormat, errors.New("color must be 6 hex digits").With("color", text).With("stack", stack.Trace().TrimRuntime()))
	}
	raw, errGo := hex.DecodeString(digits)
	if errGo != nil {
		return Black, NewFault(InvalidFormat, errors.Wrap(errGo).With("color", text).With("stack", stack.Trace().TrimRuntime()))
	}
	return RGB255(raw[0], raw[1], raw[2]), nil
}

// MustHex is FromHex for literals known to be valid
func MustHex(text string) Color {
	c, err := FromHex(text)
	if err != nil {
		panic(err.Error())
	}
	return c
}
