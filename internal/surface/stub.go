//go:build !windows

package surface

import "fmt"

// New returns an error on non-Windows platforms. The knobs this tool turns
// (powercfg, sc, the registry) only exist on Windows; everything above the
// Surface boundary still builds and tests everywhere via the Fake.
func New() (Surface, error) {
	return nil, fmt.Errorf("the system control surface is only supported on Windows")
}
