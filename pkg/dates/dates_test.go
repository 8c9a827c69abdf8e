package dates

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"larsbees/pkg/apperr"
)

func TestParseLayouts(t *testing.T) {
	want := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{"2024-03-10", "2024-03-10 00:00:00", "2024-03-10T00:00:00Z", "2024-03-10T00:00"} {
		got, err := Parse(in)
		require.NoError(t, err, in)
		assert.True(t, want.Equal(got), in)
	}
	_, err := Parse("10/03/2024")
	assert.True(t, errors.Is(err, apperr.ErrInvalid))
}

func TestRangeExtendsBareDay(t *testing.T) {
	from, to, err := Range("2024-01-01", "2024-01-31")
	require.NoError(t, err)
	assert.Equal(t, 1, from.Day())
	assert.Equal(t, 31, to.Day())
	assert.Equal(t, 23, to.Hour())

	from, to, err = Range("", "")
	require.NoError(t, err)
	assert.Nil(t, from)
	assert.Nil(t, to)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "", Format(nil))
	d := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	assert.Equal(t, "2024-05-01 09:30:00", Format(&d))
}
