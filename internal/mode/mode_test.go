package mode

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFollow(t *testing.T) {
	for _, f := range Follows() {
		got, err := ParseFollow(f.String())
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}

	_, err := ParseFollow("Sideways")
	assert.ErrorIs(t, err, ErrUnknownMode)
	assert.Equal(t, FollowNone, FollowOrDefault(""))
	assert.Equal(t, FollowNone, FollowOrDefault("mousecenter"))
}

func TestParseCapture(t *testing.T) {
	got, err := ParseCapture("SafeMode30")
	require.NoError(t, err)
	assert.Equal(t, SafeMode30, got)

	_, err = ParseCapture("Turbo")
	assert.ErrorIs(t, err, ErrUnknownMode)
	assert.Equal(t, SafeMode2, CaptureOrDefault("Turbo"))
}

func TestCapture_Interval(t *testing.T) {
	tests := []struct {
		mode Capture
		want time.Duration
	}{
		{SafeMode2, 500 * time.Millisecond},
		{SafeMode5, 200 * time.Millisecond},
		{SafeMode10, 100 * time.Millisecond},
		{SafeMode15, 66 * time.Millisecond},
		{SafeMode30, 33 * time.Millisecond},
		{SafeMode60, 16 * time.Millisecond},
		{FastMode, 500 * time.Millisecond},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, tc.mode.Interval(), tc.mode.String())
	}
}

func TestCapture_FindMe(t *testing.T) {
	for _, tier := range Tiers() {
		assert.Equal(t, tier.Mode != FastMode, tier.Mode.FindMe(), tier.Label)
	}
}

func TestToggles(t *testing.T) {
	assert.Equal(t, FollowNone, NextActiveWindowToggle(FollowActiveWindow))
	assert.Equal(t, FollowActiveWindow, NextActiveWindowToggle(FollowMouseFrameBound))

	assert.Equal(t, FollowMouseFrameBound, NextMouseToggle(FollowMouseCenter))
	assert.Equal(t, FollowMouseCenter, NextMouseToggle(FollowMouseFrameBound))
	assert.Equal(t, FollowMouseCenter, NextMouseToggle(FollowNone))
	assert.True(t, FollowMouseFrameBound.TracksPointer())
	assert.False(t, FollowActiveWindow.TracksPointer())
}
