package pilight

import (
	logxi "github.com/mgutz/logxi/v1"
)

var (
	logger = logxi.New("pilight")
)

// SetLogger replaces the logger used by the package
func SetLogger(l logxi.Logger) {
	logger = l
}
