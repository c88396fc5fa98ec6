package timefmt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"2024-05-01T10:00:00":        "2024-05-01T10:00:00Z",
		"2024-05-01T10:00:00.123456": "2024-05-01T10:00:00.123456Z",
		"2024-05-01T10:00:00Z":       "2024-05-01T10:00:00Z",
		"2024-05-01T10:00:00+00:00":  "2024-05-01T10:00:00+00:00",
		"2024-05-01T07:00:00-03:00":  "2024-05-01T07:00:00-03:00",
		"2024-05-01 10:00:00.5+0000": "2024-05-01 10:00:00.5+0000",
		"2024-05-01 10:00:00":        "2024-05-01 10:00:00Z",
		"  2024-05-01T10:00:00  ":    "2024-05-01T10:00:00Z",
		"":                           "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Normalize(in), in)
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	for _, s := range []string{"2024-05-01T10:00:00", "2024-05-01T10:00:00Z", "2024-05-01T10:00:00+02:00"} {
		once := Normalize(s)
		assert.Equal(t, once, Normalize(once))
	}
}

func TestFormatTreatsZoneLessAsUTC(t *testing.T) {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	naive := Format("2024-05-01T10:00:00", loc)
	require.Equal(t, naive, Format("2024-05-01T10:00:00Z", loc))
	require.Equal(t, "2024-05-01 07:00:00", naive)
}

func TestFormatOffsets(t *testing.T) {
	require.Equal(t, "2024-05-01 10:00:00", Format("2024-05-01T07:00:00-03:00", time.UTC))
	require.Equal(t, "2024-05-01 10:00:00", Format("2024-05-01 10:00:00.123456", time.UTC))
}

func TestFormatFallbacks(t *testing.T) {
	require.Equal(t, "-", Format("", time.UTC))
	require.Equal(t, "yesterday", Format("yesterday", time.UTC))
}
