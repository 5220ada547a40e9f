package preferences

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandDecadePlain(t *testing.T) {
	years, err := ExpandDecade("1990s")
	require.NoError(t, err)

	require.Len(t, years, 10)
	assert.Equal(t, 1990, years[0])
	assert.Equal(t, 1999, years[9])
}

func TestExpandDecadeBefore(t *testing.T) {
	years, err := ExpandDecade("before 1990s")
	require.NoError(t, err)

	require.Len(t, years, 70)
	assert.Equal(t, 1920, years[0])
	assert.Equal(t, 1989, years[len(years)-1])
}

func TestExpandDecadeAndLater(t *testing.T) {
	years, err := ExpandDecade("2010s and later")
	require.NoError(t, err)

	assert.Equal(t, 2010, years[0])
	assert.Equal(t, 2029, years[len(years)-1])
}

func TestExpandDecadeNormalizesInput(t *testing.T) {
	years, err := ExpandDecade("  Before 2000s ")
	require.NoError(t, err)
	assert.Equal(t, 1999, years[len(years)-1])
}

func TestExpandDecadeUnknownLabel(t *testing.T) {
	for _, label := range []string{"", "nineties", "199s", "sometime in the 1990s", "1990"} {
		_, err := ExpandDecade(label)
		assert.ErrorIs(t, err, ErrUnknownDecade, "label %q", label)
	}
}

func TestExpandDecadeYearsAreOrdered(t *testing.T) {
	years, err := ExpandDecade("before 1980s")
	require.NoError(t, err)

	for i := 1; i < len(years); i++ {
		assert.Equal(t, years[i-1]+1, years[i])
	}
}
