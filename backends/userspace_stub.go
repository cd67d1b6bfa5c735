//go:build !linux

package backends

import "fmt"

func newUserSpace() (Backend, error) {
	return nil, fmt.Errorf("%w: user-space injection is only implemented on linux", ErrUnavailable)
}
