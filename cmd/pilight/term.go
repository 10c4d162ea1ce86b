package main

import (
	"fmt"
	"os"

	"github.com/karlmutch/errors"
)

var (
	errV = os.Stderr
)

// runTUI starts printing the errors reported while rendering
func runTUI(errC chan errors.Error, quitC <-chan struct{}) {
	go errWatch(errC, quitC)
}

func errWatch(errorC <-chan errors.Error, quitC <-chan struct{}) {
	for {
		select {
		case err := <-errorC:
			if errV != nil {
				fmt.Fprintln(errV, err.Error())
			}
		case <-quitC:
			return
		}
	}
}
