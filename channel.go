package portalgun

import (
	"fmt"
	"image/color"
)

// Channel identifies one of the two linked portals.
type Channel int

const (
	ChannelA Channel = iota
	ChannelB
)

// Channels lists both portal channels in the order they are evaluated each tick.
var Channels = [2]Channel{ChannelA, ChannelB}

// CueTeleport is played whenever a body passes through a portal.
const CueTeleport = "portal"

var (
	channelNames = [2]string{"blue", "orange"}
	shootCues    = [2]string{"shoot_blue", "shoot_orange"}
	openCues     = [2]string{"open_blue", "open_orange"}
	borderColors = [2]color.RGBA{
		{R: 0x00, G: 0x00, B: 0xff, A: 0xff},
		{R: 0xff, G: 0xa5, B: 0x00, A: 0xff},
	}
)

// Valid reports whether c names one of the two portals.
func (c Channel) Valid() bool {
	return c == ChannelA || c == ChannelB
}

// Other returns the partner channel.
func (c Channel) Other() Channel {
	return 1 - c
}

func (c Channel) String() string {
	if !c.Valid() {
		return fmt.Sprintf("channel(%d)", int(c))
	}
	return channelNames[c]
}

// ShootCue is the cue played when the gun fires on this channel.
func (c Channel) ShootCue() string {
	return shootCues[c]
}

// OpenCue is the cue played once the portal opens.
func (c Channel) OpenCue() string {
	return openCues[c]
}

// BorderColor is the colour of the ring drawn around the portal surface.
func (c Channel) BorderColor() color.RGBA {
	return borderColors[c]
}

// CueNames lists every cue the subsystem can ask the audio service to play.
func CueNames() []string {
	return []string{shootCues[0], shootCues[1], openCues[0], openCues[1], CueTeleport}
}
