package pilight

// This module defines the output device abstraction, a device is selected
// from configuration at startup and receives one frame per tick

import (
	"github.com/karlmutch/errors"

	"github.com/TeamNorCal/pilight/model"
)

// Device is the capability set of an output sink
type Device interface {
	// Init prepares the device, a failure means the device cannot be used
	Init() errors.Error
	// SetColors hands the device a complete frame
	SetColors(frame model.Frame)
	// Finish completes the tick, flushing anything buffered by SetColors
	Finish() errors.Error
	Close() errors.Error
}

// PixelDevice is implemented by devices that can also be addressed one
// physical pixel at a time
type PixelDevice interface {
	Device
	SetColor(index int, c model.Color)
}

// Geometry describes the physical strip, every logical pixel is expanded to
// Scale adjacent LEDs and the whole pattern is repeated Repeat times
type Geometry struct {
	NumLEDs int `yaml:"num_leds" json:"numLeds"`
	Scale   int `yaml:"scale" json:"scale"`
	Repeat  int `yaml:"repeat" json:"repeat"`
}

// Size is the number of physical LEDs
func (g Geometry) Size() int {
	return g.NumLEDs * g.Scale * g.Repeat
}
