package model

import "math"

// ledGamma is the exponent used to map linear intensity onto the perceived
// brightness of the strip LEDs
const ledGamma = 2.5

var gammaTable [256]byte

func init() {
	for i := range gammaTable {
		gammaTable[i] = byte(math.Round(255.0 * math.Pow(float64(i)/255.0, ledGamma)))
	}
}

// Gamma returns the corrected output level for a linear byte level
func Gamma(level byte) byte {
	return gammaTable[level]
}
