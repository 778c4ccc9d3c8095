package session

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParams is returned by Start when Params violate their bounds.
	ErrInvalidParams = errors.New("invalid session params")
	// ErrAlreadyActive is returned by Start while a session is running.
	ErrAlreadyActive = errors.New("session already active")
)

// Params configures one training session. All values are whole seconds.
type Params struct {
	DurationSeconds    int `json:"duration"`
	MinIntervalSeconds int `json:"minInterval"`
	MaxIntervalSeconds int `json:"maxInterval"`
}

// DefaultParams is the 60/2/5 configuration used when nothing is stored.
func DefaultParams() Params {
	return Params{DurationSeconds: 60, MinIntervalSeconds: 2, MaxIntervalSeconds: 5}
}

// Validate checks the bounds the scheduler depends on. Values are never
// clamped; the first violation is reported.
func (p Params) Validate() error {
	switch {
	case p.DurationSeconds <= 0:
		return fmt.Errorf("%w: duration must be positive, got %d", ErrInvalidParams, p.DurationSeconds)
	case p.MinIntervalSeconds <= 0:
		return fmt.Errorf("%w: min interval must be positive, got %d", ErrInvalidParams, p.MinIntervalSeconds)
	case p.MaxIntervalSeconds < p.MinIntervalSeconds:
		return fmt.Errorf("%w: max interval %d is below min interval %d",
			ErrInvalidParams, p.MaxIntervalSeconds, p.MinIntervalSeconds)
	}
	return nil
}

// FormatRemaining renders seconds as zero padded MM:SS. Minutes are not
// capped at 59 and negative input renders as 00:00.
func FormatRemaining(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
