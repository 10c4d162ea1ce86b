package main

import (
	"strings"

	"github.com/TeamNorCal/pilight"
)

// This file implements a monitor that subscribes to and displays
// the rendered frames using the frame fan-out

func runMonitoring(subscribeC chan chan *pilight.FrameMsg, quitC <-chan struct{}) {

	frameC := make(chan *pilight.FrameMsg, 1)
	subscribeC <- frameC

	for {
		select {
		case msg := <-frameC:
			logger.Debug("frame", "time", msg.Time, "colors", strings.Join(msg.Frame.Hex(), " "))
		case <-quitC:
			return
		}
	}
}
