package pilight

// This file contains the bus for WS2801 strips clocked directly from an SPI
// port, the strip latches the data once the clock has been idle for 500us

import (
	"time"

	"github.com/go-stack/stack"
	"github.com/karlmutch/errors"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

const ws2801Latch = time.Millisecond

type SPIBus struct {
	port spi.PortCloser
	conn spi.Conn
}

// OpenSPI returns a BusOpener for the named SPI port, e.g. /dev/spidev0.0,
// clocked at hz
func OpenSPI(name string, hz int64) BusOpener {
	return func(size int) (Bus, errors.Error) {
		if _, errGo := host.Init(); errGo != nil {
			return nil, errors.Wrap(errGo).With("port", name).With("stack", stack.Trace().TrimRuntime())
		}
		port, errGo := spireg.Open(name)
		if errGo != nil {
			return nil, errors.Wrap(errGo).With("port", name).With("stack", stack.Trace().TrimRuntime())
		}
		conn, errGo := port.Connect(physic.Frequency(hz)*physic.Hertz, spi.Mode0, 8)
		if errGo != nil {
			port.Close()
			return nil, errors.Wrap(errGo).With("port", name).With("hz", hz).With("stack", stack.Trace().TrimRuntime())
		}
		return &SPIBus{port: port, conn: conn}, nil
	}
}

func (bus *SPIBus) Write(data []byte) error {
	if err := bus.conn.Tx(data, nil); err != nil {
		return err
	}
	time.Sleep(ws2801Latch)
	return nil
}

func (bus *SPIBus) Close() error {
	return bus.port.Close()
}
