package bot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFullNameValidation(t *testing.T) {
	accepted := []string{
		"Иванов И.И.",
		"Петров П.О.",
		"Ёлкина Ё.Ё.",
	}
	for _, name := range accepted {
		require.True(t, validFullName(name), "expected %q to be accepted", name)
	}

	rejected := []string{
		"иванов И.И.", // surname not capitalized
		"Иванов ИИ",   // initials without periods
		"Иванов",      // no initials at all
		"Иванов И.И",  // missing trailing period
		"Ivanov I.I.", // latin letters
		"",
	}
	for _, name := range rejected {
		require.False(t, validFullName(name), "expected %q to be rejected", name)
	}
}

func TestParseMealDateFormats(t *testing.T) {
	want := time.Date(2025, time.December, 25, 0, 0, 0, 0, time.UTC)

	for _, input := range []string{"25.12.2025", "25.12.25", "25/12/2025", "25/12/25", "2025-12-25"} {
		got, err := parseMealDate(input)
		require.NoError(t, err, "input %q", input)
		require.True(t, got.Equal(want), "input %q parsed to %s", input, got)
	}
}

func TestParseMealDateRejectsGarbage(t *testing.T) {
	for _, input := range []string{"", "завтра", "31.02.2025", "2025/12/25", "25-12-2025"} {
		_, err := parseMealDate(input)
		require.Error(t, err, "input %q", input)
	}
}

func TestDateOnlyStripsClockAndZone(t *testing.T) {
	loc := time.FixedZone("MSK", 3*60*60)
	stamp := time.Date(2025, time.December, 25, 23, 59, 0, 0, loc)
	require.Equal(t, time.Date(2025, time.December, 25, 0, 0, 0, 0, time.UTC), dateOnly(stamp))
}
