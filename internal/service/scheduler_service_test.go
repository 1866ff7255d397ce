package service

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildWeekdaySpec(t *testing.T) {
	spec, err := buildWeekdaySpec("16:00")
	require.NoError(t, err)
	require.Equal(t, "0 0 16 * * 1-5", spec)

	spec, err = buildWeekdaySpec("9:05")
	require.NoError(t, err)
	require.Equal(t, "0 5 9 * * 1-5", spec)

	for _, bad := range []string{"", "16", "24:00", "16:60", "noon"} {
		_, err := buildWeekdaySpec(bad)
		require.Error(t, err, "input %q", bad)
	}
}
