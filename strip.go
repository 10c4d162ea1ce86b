package pilight

// This module implements the device for a strip attached locally through a
// bus such as SPI or a fadecandy board

import (
	"github.com/go-stack/stack"
	"github.com/karlmutch/errors"

	"github.com/TeamNorCal/pilight/model"
)

// Bus moves raw R,G,B bytes for the whole strip to the hardware
type Bus interface {
	Write(data []byte) error
	Close() error
}

// BusOpener opens a bus able to drive size LEDs
type BusOpener func(size int) (Bus, errors.Error)

type Strip struct {
	geometry Geometry
	open     BusOpener
	bus      Bus
	buffer   []byte
}

func NewStrip(geometry Geometry, open BusOpener) (strip *Strip) {
	return &Strip{
		geometry: geometry,
		open:     open,
	}
}

// Init opens the bus, then clears and shows the strip
func (strip *Strip) Init() (err errors.Error) {
	size := strip.geometry.Size()
	if size <= 0 {
		return model.NewFault(model.DeviceInitFailed, errors.New("strip has no LEDs").With("geometry", strip.geometry).With("stack", stack.Trace().TrimRuntime()))
	}

	bus, err := strip.open(size)
	if err != nil {
		return model.NewFault(model.DeviceInitFailed, err.With("size", size))
	}

	strip.bus = bus
	strip.buffer = make([]byte, size*3)

	if errGo := strip.bus.Write(strip.buffer); errGo != nil {
		strip.bus.Close()
		strip.bus = nil
		return model.NewFault(model.DeviceInitFailed, errors.Wrap(errGo).With("size", size).With("stack", stack.Trace().TrimRuntime()))
	}
	return nil
}

// SetColor places the corrected bytes of c at a physical LED position
func (strip *Strip) SetColor(index int, c model.Color) {
	if index < 0 || 3*index+3 > len(strip.buffer) {
		return
	}
	raw := c.RawCorrected()
	copy(strip.buffer[3*index:], raw[:])
}

// SetColors expands the frame across the scale and repeat of the strip
func (strip *Strip) SetColors(frame model.Frame) {
	g := strip.geometry
	for i, c := range frame {
		if i >= g.NumLEDs {
			break
		}
		for rep := 0; rep < g.Repeat; rep++ {
			for s := 0; s < g.Scale; s++ {
				strip.SetColor(rep*g.NumLEDs*g.Scale+i*g.Scale+s, c)
			}
		}
	}
}

// Finish shows the buffered colors
func (strip *Strip) Finish() (err errors.Error) {
	if strip.bus == nil {
		return errors.New("strip not initialized").With("stack", stack.Trace().TrimRuntime())
	}
	if errGo := strip.bus.Write(strip.buffer); errGo != nil {
		return errors.Wrap(errGo).With("stack", stack.Trace().TrimRuntime())
	}
	return nil
}

func (strip *Strip) Close() (err errors.Error) {
	if strip.bus == nil {
		return nil
	}
	bus := strip.bus
	strip.bus = nil
	if errGo := bus.Close(); errGo != nil {
		return errors.Wrap(errGo).With("stack", stack.Trace().TrimRuntime())
	}
	return nil
}
