package pilight

// This file contains the bus used to drive LEDs attached to one or more
// fadecandy device(s) through an Open Pixel Control server

import (
	"io"

	"github.com/go-stack/stack"
	"github.com/karlmutch/errors"

	"github.com/kellydunn/go-opc"
)

type OPCBus struct {
	server  string
	channel uint8
	oc      *opc.Client
}

// OpenOPC returns a BusOpener connecting to the OPC server, e.g. localhost:7890
func OpenOPC(server string, channel uint8) BusOpener {
	return func(size int) (Bus, errors.Error) {
		if size*3 > 0xFFFF {
			return nil, errors.New("strip too long for a single OPC message").With("size", size).With("stack", stack.Trace().TrimRuntime())
		}
		oc := opc.NewClient()
		if errGo := oc.Connect("tcp", server); errGo != nil {
			return nil, errors.Wrap(errGo).With("url", server).With("stack", stack.Trace().TrimRuntime())
		}
		return &OPCBus{
			server:  server,
			channel: channel,
			oc:      oc,
		}, nil
	}
}

func (bus *OPCBus) Write(data []byte) error {
	if bus.oc == nil {
		return errors.New("opc bus closed").With("server", bus.server)
	}
	m := opc.NewMessage(bus.channel)
	m.SetLength(uint16(len(data)))
	for i := 0; i < len(data)/3; i++ {
		m.SetPixelColor(i, data[3*i], data[3*i+1], data[3*i+2])
	}
	return bus.oc.Send(m)
}

// Close releases the connection to the OPC server.  Releases of go-opc
// before the client gained a Close method keep their socket until the
// process exits, only one bus is ever opened per device so nothing builds up
func (bus *OPCBus) Close() error {
	oc := bus.oc
	bus.oc = nil
	if closer, isCloser := interface{}(oc).(io.Closer); isCloser && oc != nil {
		return closer.Close()
	}
	return nil
}
