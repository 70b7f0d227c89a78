// Package guard keeps binaries from starting real servers when imported by
// their tests.
package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("WARDLINE_TEST_MODE") == "" {
			_ = os.Setenv("WARDLINE_TEST_MODE", "1")
		}
	})
}
