package pattern

import "github.com/pkg/errors"

var (
	ErrInvalidMinimumSupport = errors.New("minimum support must be positive")
	ErrInvalidMaxLength      = errors.New("max length must be positive when set")
	ErrInvalidTopNumber      = errors.New("top number must be positive when set")
	ErrInvalidTieBreak       = errors.New("unknown tie break")
	ErrInvalidNumRoutines    = errors.New("num routines must not be negative")
)

// IsConfigurationError reports whether err was caused by invalid options.
func IsConfigurationError(err error) bool {
	switch errors.Cause(err) {
	case ErrInvalidMinimumSupport, ErrInvalidMaxLength, ErrInvalidTopNumber,
		ErrInvalidTieBreak, ErrInvalidNumRoutines:
		return true
	}
	return false
}
