package pilight

import (
	"sync"
	"time"

	"github.com/TeamNorCal/pilight/model"
)

// FrameMsg carries a rendered frame to observers of the render loop
type FrameMsg struct {
	Time  float64
	Frame model.Frame
}

type subs struct {
	subs []chan *FrameMsg
	sync.Mutex
}

// StartFanOut implements a broadcast mechanism for relaying rendered frames
// to subscribers.  The function returns a single channel to which frames get
// sent, and a channel that can be used to add listeners.  Subscribers that
// cannot accept a frame within the timeout miss that frame, and a subscriber
// that closes its channel is dropped
func StartFanOut(timeout time.Duration, quitC <-chan struct{}) (inC chan *FrameMsg, subC chan chan *FrameMsg) {

	inC = make(chan *FrameMsg, 1)
	subC = make(chan chan *FrameMsg, 1)

	listeners := &subs{
		subs: []chan *FrameMsg{},
	}

	go func(quitC <-chan struct{}) {
		for {
			select {
			case <-quitC:
				return
			case sub := <-subC:
				if nil != sub {
					listeners.Lock()
					listeners.subs = append(listeners.subs, sub)
					listeners.Unlock()
				}
			case msg := <-inC:
				// Subscribers are groomed out on unrecoverable failures using
				// https://github.com/golang/go/wiki/SliceTricks#filtering-without-allocating
				listeners.Lock()
				newSubs := listeners.subs[:0]
				for _, ch := range listeners.subs {
					if deliver(ch, msg, timeout) {
						newSubs = append(newSubs, ch)
					}
				}
				listeners.subs = newSubs
				listeners.Unlock()
			}
		}
	}(quitC)

	return inC, subC
}

// deliver returns false once the subscriber channel has been closed
func deliver(ch chan *FrameMsg, msg *FrameMsg, timeout time.Duration) (alive bool) {
	defer func() {
		if r := recover(); r != nil {
			logger.Debug("frame subscription dropped")
			alive = false
		}
	}()
	select {
	case ch <- msg:
	case <-time.After(timeout):
	}
	return true
}
