package pilight

import (
	"github.com/karlmutch/errors"
)

// RetryOnce runs op and, if it fails, calls reset and runs op a second and
// final time.  reset is also called when the second attempt fails so that a
// broken resource is never kept.  The number of attempts made and the error
// of the last attempt are returned
func RetryOnce(op func() errors.Error, reset func()) (attempts int, err errors.Error) {
	for attempts = 1; attempts <= 2; attempts++ {
		if err = op(); err == nil {
			return attempts, nil
		}
		reset()
	}
	return 2, err
}
