package session

import (
	"time"

	"github.com/mrreacto/reacto/internal/pubsub"
)

// Event types published on the session broker.
const (
	EventStarted        pubsub.EventType = "session.started"
	EventTick           pubsub.EventType = "session.tick"
	EventCue            pubsub.EventType = "session.cue"
	EventPulseOff       pubsub.EventType = "session.pulse_off"
	EventPlaybackFailed pubsub.EventType = "session.playback_failed"
	EventStopped        pubsub.EventType = "session.stopped"
)

// StopReason says why a session ended.
type StopReason string

const (
	ReasonExpired StopReason = "expired"
	ReasonUser    StopReason = "user"
)

// Event is the payload of every session broker message. Fields that do not
// apply to a given event type are zero.
type Event struct {
	SessionID   string
	Remaining   int
	PulseActive bool
	NextCue     time.Duration // EventCue: delay until the following cue
	Reason      StopReason    // EventStopped
	Err         string        // EventPlaybackFailed
}

// Snapshot is a consistent view of session state for rendering.
type Snapshot struct {
	ID          string
	Params      Params
	Remaining   int
	Display     string
	PulseActive bool
	Active      bool
}
