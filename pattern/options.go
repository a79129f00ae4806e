package pattern

import (
	"fmt"

	"github.com/pkg/errors"
)

// TieBreak decides which of equally long results survive a top number cut.
type TieBreak string

const (
	// TieBreakDiscovery keeps the results discovered first.
	TieBreakDiscovery TieBreak = "discovery"
	// TieBreakSupport keeps the results with the higher support, then the
	// lower canonical pattern.
	TieBreakSupport TieBreak = "support"
)

func ParseTieBreak(s string) (TieBreak, error) {
	switch TieBreak(s) {
	case "", TieBreakDiscovery:
		return TieBreakDiscovery, nil
	case TieBreakSupport:
		return TieBreakSupport, nil
	}
	return "", errors.Wrapf(ErrInvalidTieBreak, "%q", s)
}

// Options configures a mining run. Zero MaxLength and TopNumber mean unset.
type Options struct {
	MinimumSupport int      `json:"min_support" yaml:"min_support"`
	MaxLength      int      `json:"max_length" yaml:"max_length"`
	TopNumber      int      `json:"top_number" yaml:"top_number"`
	Sort           bool     `json:"sort" yaml:"sort"`
	TieBreak       TieBreak `json:"tie_break" yaml:"tie_break"`
	// Root classes are split across NumRoutines goroutines. 0 or 1 mines
	// serially.
	NumRoutines int `json:"num_routines" yaml:"num_routines"`
}

func (o Options) Validate() error {
	if o.MinimumSupport <= 0 {
		return errors.Wrapf(ErrInvalidMinimumSupport, "got %d", o.MinimumSupport)
	}
	if o.MaxLength < 0 {
		return errors.Wrapf(ErrInvalidMaxLength, "got %d", o.MaxLength)
	}
	if o.TopNumber < 0 {
		return errors.Wrapf(ErrInvalidTopNumber, "got %d", o.TopNumber)
	}
	if _, err := ParseTieBreak(string(o.TieBreak)); err != nil {
		return err
	}
	if o.NumRoutines < 0 {
		return errors.Wrapf(ErrInvalidNumRoutines, "got %d", o.NumRoutines)
	}
	return nil
}

// reachedMaxLength reports whether a pattern of the given length must not grow.
func (o Options) reachedMaxLength(length int) bool {
	return o.MaxLength > 0 && length >= o.MaxLength
}

func (o Options) String() string {
	return fmt.Sprintf("min_support=%d max_length=%d top_number=%d sort=%t tie_break=%s",
		o.MinimumSupport, o.MaxLength, o.TopNumber, o.Sort, o.TieBreak)
}
