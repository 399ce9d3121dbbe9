package portalgun

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChannel(t *testing.T) {
	testCases := []struct {
		ch    Channel
		valid bool
		name  string
	}{
		{ChannelA, true, "blue"},
		{ChannelB, true, "orange"},
		{Channel(2), false, "channel(2)"},
		{Channel(-1), false, "channel(-1)"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.valid, tc.ch.Valid())
			assert.Equal(t, tc.name, tc.ch.String())
		})
	}

	assert.Equal(t, ChannelB, ChannelA.Other())
	assert.Equal(t, ChannelA, ChannelB.Other())
}

func TestCueNames(t *testing.T) {
	names := CueNames()
	assert.Len(t, names, 5)
	assert.Contains(t, names, CueTeleport)
	for _, ch := range Channels {
		assert.Contains(t, names, ch.ShootCue())
		assert.Contains(t, names, ch.OpenCue())
	}
}
