//go:build !linux && !darwin

package fixedpool

import "github.com/pkg/errors"

func mapAnonymous(size int) ([]byte, func() error, error) {
	return nil, nil, errors.Wrap(ErrBackingUnsupported, "mmap backing requires linux or darwin")
}
