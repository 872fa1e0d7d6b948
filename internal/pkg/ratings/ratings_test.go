package ratings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFoldIsArithmeticMean(t *testing.T) {
	sequence := []int{5, 3, 4, 1, 2, 5, 5}

	avg, count := 0.0, 0
	sum := 0
	for _, r := range sequence {
		var err error
		avg, count, err = Fold(avg, count, r)
		require.NoError(t, err)
		sum += r
	}

	assert.Equal(t, len(sequence), count)
	assert.InDelta(t, float64(sum)/float64(len(sequence)), avg, 1e-9)
}

func TestFoldRejectsOutOfRange(t *testing.T) {
	for _, r := range []int{0, 6, -1} {
		avg, count, err := Fold(4.5, 2, r)
		assert.ErrorIs(t, err, ErrOutOfRange)
		assert.Equal(t, 4.5, avg)
		assert.Equal(t, 2, count)
	}
}

func TestFoldFirstRating(t *testing.T) {
	avg, count, err := Fold(0, 0, 4)
	require.NoError(t, err)
	assert.Equal(t, 4.0, avg)
	assert.Equal(t, 1, count)
}
