package pilight

// This module implements the single threaded render loop.  Once per tick the
// current renderer computes a frame which is handed to the device, scenes can
// be swapped between ticks without stopping the loop

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/cnf/structhash"
	"github.com/karlmutch/errors"

	"github.com/TeamNorCal/pilight/model"
)

type scene struct {
	renderer *Renderer
	hash     []byte
	sync.Mutex
}

// sceneKey is the hashed identity of a scene, parameters are compared in their
// canonical JSON form
type sceneKey struct {
	BaseColors []string
	Transforms []transformKey
}

type transformKey struct {
	Kind   string
	Order  int
	Params string
}

func hashScene(sc *model.Scene) []byte {
	key := sceneKey{BaseColors: sc.BaseColors}
	for _, inst := range sc.Transforms {
		params, _ := json.Marshal(inst.Params)
		key.Transforms = append(key.Transforms, transformKey{Kind: inst.Kind, Order: inst.Order, Params: string(params)})
	}
	return structhash.Md5(key, 1)
}

type Driver struct {
	device   Device
	numLEDs  int
	interval time.Duration

	current scene

	// frameC optionally receives every rendered frame, sends never block
	frameC chan<- *FrameMsg
	errorC chan<- errors.Error
}

func NewDriver(device Device, numLEDs int, interval time.Duration, frameC chan<- *FrameMsg, errorC chan<- errors.Error) (d *Driver) {
	d = &Driver{
		device:   device,
		numLEDs:  numLEDs,
		interval: interval,
		frameC:   frameC,
		errorC:   errorC,
	}
	d.current.renderer = NewRenderer(make(model.Frame, numLEDs), nil)
	return d
}

// Load replaces the scene being rendered, a scene identical to the current
// one is ignored and changed is returned as false
func (d *Driver) Load(sc *model.Scene) (changed bool, err errors.Error) {
	hash := hashScene(sc)

	d.current.Lock()
	same := bytes.Equal(d.current.hash, hash)
	d.current.Unlock()
	if same {
		return false, nil
	}

	base, err := sc.Colors(d.numLEDs)
	if err != nil {
		return false, err
	}
	renderer := NewRenderer(base, sc.Transforms)

	d.current.Lock()
	d.current.renderer = renderer
	d.current.hash = hash
	d.current.Unlock()

	logger.Info("scene loaded", "transforms", renderer.pipe.Len(), "skipped", len(renderer.pipe.Skipped()))
	return true, nil
}

func (d *Driver) renderer() *Renderer {
	d.current.Lock()
	defer d.current.Unlock()
	return d.current.renderer
}

// Tick renders the frame for time t, in seconds, and delivers it
func (d *Driver) Tick(t float64) {
	frame := d.renderer().Frame(t)

	d.device.SetColors(frame)
	if err := d.device.Finish(); err != nil {
		d.report(err)
	}

	if d.frameC != nil {
		select {
		case d.frameC <- &FrameMsg{Time: t, Frame: frame}:
		default:
		}
	}
}

// Run initializes the device and renders a frame every interval until quitC
// is closed.  The only error returned is a device that could not be used
func (d *Driver) Run(quitC <-chan struct{}) (err errors.Error) {
	if err = d.device.Init(); err != nil {
		return err
	}
	defer func() {
		if err := d.device.Close(); err != nil {
			d.report(err)
		}
	}()

	tick := time.NewTicker(d.interval)
	defer tick.Stop()

	start := time.Now()
	for {
		select {
		case <-tick.C:
			d.Tick(time.Since(start).Seconds())
		case <-quitC:
			return nil
		}
	}
}

// LoadFrom applies scenes received on sceneC until quitC is closed
func (d *Driver) LoadFrom(sceneC <-chan *model.Scene, quitC <-chan struct{}) {
	for {
		select {
		case sc := <-sceneC:
			if sc == nil {
				continue
			}
			if _, err := d.Load(sc); err != nil {
				d.report(err)
			}
		case <-quitC:
			return
		}
	}
}

func (d *Driver) report(err errors.Error) {
	if d.errorC == nil {
		logger.Warn("driver error", "error", err.Error())
		return
	}
	select {
	case d.errorC <- err:
	case <-time.After(20 * time.Millisecond):
		fmt.Fprintln(os.Stderr, err.Error())
	}
}
