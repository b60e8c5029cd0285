package envelope

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedVersion = errors.New("unsupported envelope version")
	ErrDuplicateName      = errors.New("duplicate catalog entry")
)

// UnsupportedVersionError reports an envelope version with no read or
// write strategy.
type UnsupportedVersionError struct {
	Version int64
	Path    string
}

func (e *UnsupportedVersionError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("unsupported envelope version %d at %s", e.Version, e.Path)
	}
	return fmt.Sprintf("unsupported envelope version %d", e.Version)
}

func (e *UnsupportedVersionError) Is(target error) bool { return target == ErrUnsupportedVersion }
