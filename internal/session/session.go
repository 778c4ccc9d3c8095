// Package session runs a reaction training session.
//
// A session owns two processes scheduled on a timeline.Timeline: a countdown
// that ticks once per second until the configured duration has elapsed, and
// a cue generator that fires after a random whole-second delay within
// [min, max], plays the cue sound, raises a 250ms visual pulse and schedules
// itself again. Stop (or expiry) cancels every outstanding timer, silences
// the cue and calls the onStopped callback exactly once.
//
// Timer callbacks carry the generation of the session that scheduled them
// and become no-ops once that session is over, so a callback that was
// already queued when Stop ran can never mutate a newer session.
package session

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/mrreacto/reacto/internal/log"
	"github.com/mrreacto/reacto/internal/pubsub"
	"github.com/mrreacto/reacto/internal/sound"
	"github.com/mrreacto/reacto/internal/timeline"
	"github.com/mrreacto/reacto/internal/tracing"
)

const (
	tickInterval  = time.Second
	pulseDuration = 250 * time.Millisecond
)

// Rand is the source of uniform values in [0, 1) used for cue delays.
type Rand interface {
	Float64() float64
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }

// Option configures a Session.
type Option func(*Session)

// WithRand replaces the random source.
func WithRand(r Rand) Option {
	return func(s *Session) { s.rng = r }
}

// WithCuePlayer sets the cue sound player. Defaults to sound.Noop.
func WithCuePlayer(p sound.CuePlayer) Option {
	return func(s *Session) { s.player = p }
}

// WithTracer records each session as a span.
func WithTracer(t trace.Tracer) Option {
	return func(s *Session) { s.tracer = t }
}

// WithIDGenerator overrides session ID generation.
func WithIDGenerator(fn func() string) Option {
	return func(s *Session) { s.newID = fn }
}

// Session is the lifecycle owner for one training session at a time.
// A Session may be started again after it stops.
type Session struct {
	tl     timeline.Timeline
	rng    Rand
	player sound.CuePlayer
	tracer trace.Tracer
	newID  func() string
	broker *pubsub.Broker[Event]

	// fx serializes cue playback against Stop so a cue never starts after
	// the session silenced it. Lock order: fx before mu.
	fx sync.Mutex

	mu          sync.Mutex
	gen         uint64
	id          string
	params      Params
	active      bool
	remaining   int
	pulseActive bool
	startedAt   time.Time
	ticks       int
	onStopped   func()
	span        trace.Span
	tick        timeline.Handle
	cue         timeline.Handle
	pulse       timeline.Handle
}

// New creates an idle Session scheduling on tl.
func New(tl timeline.Timeline, opts ...Option) *Session {
	s := &Session{
		tl:     tl,
		rng:    globalRand{},
		player: sound.Noop{},
		tracer: noop.NewTracerProvider().Tracer(tracing.TracerName),
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.broker = pubsub.NewBroker[Event](pubsub.WithClock(tl.Now))
	return s
}

// Broker returns the event stream for this Session.
func (s *Session) Broker() *pubsub.Broker[Event] {
	return s.broker
}

// Start begins a session. onStopped, which may be nil, is called exactly once
// when the session ends by expiry or Stop.
func (s *Session) Start(params Params, onStopped func()) error {
	if err := params.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	if s.active {
		id := s.id
		s.mu.Unlock()
		return fmt.Errorf("starting session: %w (id=%s)", ErrAlreadyActive, id)
	}

	s.gen++
	gen := s.gen
	s.id = s.newID()
	s.params = params
	s.active = true
	s.remaining = params.DurationSeconds
	s.pulseActive = false
	s.startedAt = s.tl.Now()
	s.ticks = 0
	s.onStopped = onStopped

	_, s.span = s.tracer.Start(context.Background(), tracing.SpanSessionRun,
		trace.WithAttributes(
			attribute.String(tracing.AttrSessionID, s.id),
			attribute.Int(tracing.AttrDuration, params.DurationSeconds),
			attribute.Int(tracing.AttrMinInterval, params.MinIntervalSeconds),
			attribute.Int(tracing.AttrMaxInterval, params.MaxIntervalSeconds),
		))

	s.tick = s.tl.AfterFunc(tickInterval, func() { s.onTick(gen) })
	delay := s.nextDelayLocked()
	s.cue = s.tl.AfterFunc(delay, func() { s.onCue(gen) })

	ev := Event{SessionID: s.id, Remaining: s.remaining, NextCue: delay}
	s.mu.Unlock()

	log.Info(log.CatSession, "Session started",
		"id", ev.SessionID,
		"duration", params.DurationSeconds,
		"min", params.MinIntervalSeconds,
		"max", params.MaxIntervalSeconds)
	log.Debug(log.CatCue, "First cue scheduled", "id", ev.SessionID, "delay", delay)
	s.broker.Publish(EventStarted, ev)
	return nil
}

// Stop ends the active session. Calling it when no session is active is a
// no-op, so a late Stop after expiry never repeats onStopped.
func (s *Session) Stop() {
	s.stop(ReasonUser)
}

// Close stops any active session and closes the event stream.
func (s *Session) Close() {
	s.Stop()
	s.broker.Close()
}

// SetCuePlayer swaps the cue sound player, silencing the old one. Takes
// effect from the next cue.
func (s *Session) SetCuePlayer(p sound.CuePlayer) {
	s.fx.Lock()
	defer s.fx.Unlock()
	s.player.Stop()
	s.player = p
}

// Snapshot returns the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		ID:          s.id,
		Params:      s.params,
		Remaining:   s.remaining,
		Display:     FormatRemaining(s.remaining),
		PulseActive: s.pulseActive,
		Active:      s.active,
	}
}

// Active reports whether a session is running.
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Pending returns the number of outstanding timer handles. It is zero
// whenever no session is active.
func (s *Session) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, h := range []timeline.Handle{s.tick, s.cue, s.pulse} {
		if h != nil {
			n++
		}
	}
	return n
}

// currentLocked reports whether a callback from generation gen still owns
// the session. Must hold s.mu.
func (s *Session) currentLocked(gen uint64) bool {
	return s.active && s.gen == gen
}

func (s *Session) onTick(gen uint64) {
	s.mu.Lock()
	if !s.currentLocked(gen) {
		s.mu.Unlock()
		log.Debug(log.CatSession, "Stale tick ignored", "gen", gen)
		return
	}

	s.tick = nil
	s.ticks++
	s.remaining--
	if s.remaining <= 0 {
		s.remaining = 0
		ev := Event{SessionID: s.id, Remaining: 0, PulseActive: s.pulseActive}
		s.mu.Unlock()

		s.broker.Publish(EventTick, ev)
		s.stop(ReasonExpired)
		return
	}

	// Absolute deadlines keep the countdown from drifting on a real clock.
	next := s.startedAt.Add(time.Duration(s.ticks+1) * tickInterval)
	s.tick = s.tl.AfterFunc(next.Sub(s.tl.Now()), func() { s.onTick(gen) })
	ev := Event{SessionID: s.id, Remaining: s.remaining, PulseActive: s.pulseActive}
	s.mu.Unlock()

	s.broker.Publish(EventTick, ev)
}

func (s *Session) onCue(gen uint64) {
	s.mu.Lock()
	if !s.currentLocked(gen) {
		s.mu.Unlock()
		log.Debug(log.CatCue, "Stale cue ignored", "gen", gen)
		return
	}

	s.pulseActive = true
	if s.pulse != nil {
		s.pulse.Cancel()
	}
	s.pulse = s.tl.AfterFunc(pulseDuration, func() { s.onPulseOff(gen) })

	delay := s.nextDelayLocked()
	s.cue = s.tl.AfterFunc(delay, func() { s.onCue(gen) })

	span := s.span
	ev := Event{SessionID: s.id, Remaining: s.remaining, PulseActive: true, NextCue: delay}
	s.mu.Unlock()

	span.AddEvent(tracing.EventCue, trace.WithAttributes(attribute.Int64(tracing.AttrDelayMs, delay.Milliseconds())))
	log.Debug(log.CatCue, "Cue fired", "id", ev.SessionID, "remaining", ev.Remaining, "next", delay)
	s.broker.Publish(EventCue, ev)

	if err := s.playCue(gen); err != nil {
		log.Warn(log.CatAudio, "Cue playback failed", "id", ev.SessionID, "error", err.Error())
		span.AddEvent(tracing.EventPlaybackFailed, trace.WithAttributes(attribute.String("error", err.Error())))
		s.broker.Publish(EventPlaybackFailed, Event{SessionID: ev.SessionID, Remaining: ev.Remaining, PulseActive: true, Err: err.Error()})
	}
}

// playCue restarts the cue sound unless the session ended in the meantime.
func (s *Session) playCue(gen uint64) error {
	s.fx.Lock()
	defer s.fx.Unlock()

	s.mu.Lock()
	current := s.currentLocked(gen)
	s.mu.Unlock()
	if !current {
		return nil
	}
	return s.player.Play()
}

func (s *Session) onPulseOff(gen uint64) {
	s.mu.Lock()
	if !s.currentLocked(gen) {
		s.mu.Unlock()
		return
	}
	s.pulseActive = false
	s.pulse = nil
	ev := Event{SessionID: s.id, Remaining: s.remaining}
	s.mu.Unlock()

	s.broker.Publish(EventPulseOff, ev)
}

func (s *Session) stop(reason StopReason) {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}

	s.active = false
	s.pulseActive = false
	for _, h := range []*timeline.Handle{&s.tick, &s.cue, &s.pulse} {
		if *h != nil {
			(*h).Cancel()
			*h = nil
		}
	}

	onStopped := s.onStopped
	s.onStopped = nil
	span := s.span
	s.span = nil
	ev := Event{SessionID: s.id, Remaining: s.remaining, Reason: reason}
	elapsed := s.tl.Now().Sub(s.startedAt)
	s.mu.Unlock()

	s.fx.Lock()
	s.player.Stop()
	s.fx.Unlock()

	span.SetAttributes(attribute.String(tracing.AttrStopReason, string(reason)))
	span.SetStatus(codes.Ok, "")
	span.End()

	log.Info(log.CatSession, "Session stopped",
		"id", ev.SessionID,
		"reason", reason,
		"remaining", ev.Remaining,
		"elapsed", elapsed)
	s.broker.Publish(EventStopped, ev)

	if onStopped != nil {
		onStopped()
	}
}

// nextDelayLocked picks a whole number of seconds uniformly from
// [min, max]. Must hold s.mu.
func (s *Session) nextDelayLocked() time.Duration {
	lo, hi := s.params.MinIntervalSeconds, s.params.MaxIntervalSeconds
	n := int(math.Floor(s.rng.Float64()*float64(hi-lo+1))) + lo
	if n > hi {
		n = hi
	}
	return time.Duration(n) * time.Second
}
