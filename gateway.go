package pilight

// This module wires the configured device, the render loop and the frame
// fan-out together

import (
	"fmt"
	"time"

	"github.com/go-stack/stack"
	"github.com/karlmutch/errors"

	"github.com/TeamNorCal/pilight/model"
)

// NewDevice builds the device selected by the configuration
func NewDevice(cfg *Config) (device Device, err errors.Error) {
	switch cfg.Device {
	case DeviceStrip:
		var open BusOpener
		switch cfg.Bus.Kind {
		case BusSPI:
			open = OpenSPI(cfg.Bus.SPIPort, cfg.Bus.SPIHz)
		case BusOPC:
			open = OpenOPC(cfg.Bus.OPCServer, cfg.Bus.OPCChannel)
		default:
			return nil, errors.Wrap(fmt.Errorf("unknown bus kind %q", cfg.Bus.Kind)).With("stack", stack.Trace().TrimRuntime())
		}
		return NewStrip(cfg.Lights, open), nil

	case DeviceStream:
		dial, err := NewDialer(cfg.Broker.URL, cfg.Broker.PublishTimeout)
		if err != nil {
			return nil, err
		}
		ch := NewChannel("colors", dial, cfg.Broker.PublishTimeout)
		return NewStreamer(ch, cfg.Broker.ColorsQueue, cfg.Lights.NumLEDs, cfg.Broker.Base64, cfg.Backlog), nil
	}
	return nil, errors.Wrap(fmt.Errorf("unknown device %q", cfg.Device)).With("stack", stack.Trace().TrimRuntime())
}

// NewControlCommander builds a Commander publishing on the control queue
func NewControlCommander(cfg *Config) (cmdr *Commander, err errors.Error) {
	dial, err := NewDialer(cfg.Broker.URL, cfg.Broker.PublishTimeout)
	if err != nil {
		return nil, err
	}
	return NewCommander(NewChannel("control", dial, cfg.Broker.PublishTimeout), cfg.Broker.ControlQueue), nil
}

type Gateway struct {
	Driver     *Driver
	SubscribeC chan chan *FrameMsg
	SceneC     chan *model.Scene
}

// Start builds the driver around device, loads the configured scene and
// starts rendering.  The result of the render loop, nil or the failure to
// initialize the device, is sent on the returned channel once it stops
func (gw *Gateway) Start(cfg *Config, device Device, errorC chan<- errors.Error, quitC <-chan struct{}) (doneC <-chan errors.Error, err errors.Error) {

	frameC, subscribeC := StartFanOut(250*time.Millisecond, quitC)

	gw.SubscribeC = subscribeC
	gw.SceneC = make(chan *model.Scene, 1)
	gw.Driver = NewDriver(device, cfg.Lights.NumLEDs, cfg.TickInterval(), frameC, errorC)

	if _, err = gw.Driver.Load(&cfg.Scene); err != nil {
		return nil, err
	}

	go gw.Driver.LoadFrom(gw.SceneC, quitC)

	resultC := make(chan errors.Error, 1)
	go func() {
		resultC <- gw.Driver.Run(quitC)
		close(resultC)
	}()

	return resultC, nil
}
