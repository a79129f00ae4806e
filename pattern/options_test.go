package pattern

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestParseTieBreak(t *testing.T) {
	tieBreak, err := ParseTieBreak("")
	assert.Nil(t, err)
	assert.Equal(t, TieBreakDiscovery, tieBreak)

	tieBreak, err = ParseTieBreak("support")
	assert.Nil(t, err)
	assert.Equal(t, TieBreakSupport, tieBreak)

	_, err = ParseTieBreak("length")
	assert.Equal(t, ErrInvalidTieBreak, errors.Cause(err))
}

func TestOptionsValidate(t *testing.T) {
	assert.Nil(t, Options{MinimumSupport: 1}.Validate())
	assert.Nil(t, Options{MinimumSupport: 3, MaxLength: 4, TopNumber: 2, Sort: true,
		TieBreak: TieBreakSupport, NumRoutines: 4}.Validate())

	assert.Equal(t, ErrInvalidMinimumSupport, errors.Cause(Options{}.Validate()))
	assert.Equal(t, ErrInvalidMaxLength, errors.Cause(Options{MinimumSupport: 1, MaxLength: -3}.Validate()))
	assert.Equal(t, ErrInvalidTopNumber, errors.Cause(Options{MinimumSupport: 1, TopNumber: -1}.Validate()))
	assert.Equal(t, ErrInvalidNumRoutines, errors.Cause(Options{MinimumSupport: 1, NumRoutines: -1}.Validate()))
	assert.False(t, IsConfigurationError(errors.New("disk full")))
}

func TestOptionsReachedMaxLength(t *testing.T) {
	assert.False(t, Options{}.reachedMaxLength(100))
	assert.False(t, Options{MaxLength: 3}.reachedMaxLength(2))
	assert.True(t, Options{MaxLength: 3}.reachedMaxLength(3))
}
