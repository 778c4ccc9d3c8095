package tracing

// TracerName is the instrumentation scope for reacto spans.
const TracerName = "github.com/mrreacto/reacto"

// Span names.
const (
	SpanSessionRun = "session.run"
)

// Span attribute keys.
const (
	AttrSessionID   = "session.id"
	AttrDuration    = "session.duration_s"
	AttrMinInterval = "session.min_interval_s"
	AttrMaxInterval = "session.max_interval_s"
	AttrStopReason  = "session.stop_reason"
	AttrDelayMs     = "delay_ms"
)

// Span event names.
const (
	EventCue            = "cue"
	EventPlaybackFailed = "playback_failed"
)
