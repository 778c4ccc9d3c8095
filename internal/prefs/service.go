package prefs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mrreacto/reacto/internal/cachemanager"
	"github.com/mrreacto/reacto/internal/i18n"
	"github.com/mrreacto/reacto/internal/log"
	"github.com/mrreacto/reacto/internal/session"
)

// Defaults are returned when nothing valid is stored.
type Defaults struct {
	Params   session.Params
	Language i18n.Language

	// MinDuration and MaxDuration bound a stored session length in
	// seconds, matching the configuration form. Zero means 30 and 3600.
	MinDuration int
	MaxDuration int
}

func (d Defaults) durationLimits() (int, int) {
	lo, hi := d.MinDuration, d.MaxDuration
	if lo <= 0 {
		lo = 30
	}
	if hi <= 0 {
		hi = 3600
	}
	return lo, hi
}

// acceptable reports why the form would reject p, or nil.
func (d Defaults) acceptable(p session.Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	lo, hi := d.durationLimits()
	switch {
	case p.DurationSeconds < lo || p.DurationSeconds > hi:
		return fmt.Errorf("%w: duration %d outside %d..%d",
			session.ErrInvalidParams, p.DurationSeconds, lo, hi)
	case p.MaxIntervalSeconds <= p.MinIntervalSeconds:
		return fmt.Errorf("%w: max interval %d must exceed min interval %d",
			session.ErrInvalidParams, p.MaxIntervalSeconds, p.MinIntervalSeconds)
	}
	return nil
}

// Service reads and writes typed preferences.
type Service struct {
	repo     Repository
	cache    *cachemanager.ReadThroughCache[string, string, string]
	defaults Defaults
}

// NewService creates a Service over repo.
func NewService(repo Repository, defaults Defaults) *Service {
	mgr := cachemanager.NewInMemoryCacheManager[string, string]("prefs",
		cachemanager.NoExpiration, cachemanager.DefaultCleanupInterval)
	return &Service{
		repo:     repo,
		cache:    cachemanager.NewReadThroughCache[string, string, string](mgr, repo.Get, false),
		defaults: defaults,
	}
}

// Defaults returns the fallback values.
func (s *Service) Defaults() Defaults {
	return s.defaults
}

func (s *Service) get(ctx context.Context, key string) (string, bool) {
	value, err := s.cache.Get(ctx, key, key, cachemanager.NoExpiration)
	if err != nil {
		if !IsNotFound(err) {
			log.ErrorErr(log.CatPrefs, "Reading preference failed", err, "key", key)
		}
		return "", false
	}
	return value, true
}

func (s *Service) set(ctx context.Context, key, value string) error {
	if err := s.repo.Set(ctx, key, value); err != nil {
		return fmt.Errorf("saving %s: %w", key, err)
	}
	if err := s.cache.Invalidate(ctx, key); err != nil {
		log.ErrorErr(log.CatPrefs, "Cache invalidation failed", err, "key", key)
	}
	log.Debug(log.CatPrefs, "Preference saved", "key", key, "value", value)
	return nil
}

// Params returns the stored session parameters, or the defaults when none
// are stored or the stored value is corrupt or one the form would reject.
func (s *Service) Params(ctx context.Context) session.Params {
	raw, ok := s.get(ctx, KeySessionParams)
	if !ok {
		return s.defaults.Params
	}
	var p session.Params
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		log.Warn(log.CatPrefs, "Stored params unreadable, using defaults", "error", err.Error())
		return s.defaults.Params
	}
	if err := s.defaults.acceptable(p); err != nil {
		log.Warn(log.CatPrefs, "Stored params invalid, using defaults", "error", err.Error())
		return s.defaults.Params
	}
	return p
}

// SaveParams stores p. Parameters the form would reject are refused.
func (s *Service) SaveParams(ctx context.Context, p session.Params) error {
	if err := s.defaults.acceptable(p); err != nil {
		return err
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encoding params: %w", err)
	}
	return s.set(ctx, KeySessionParams, string(data))
}

// Language returns the stored UI language. An unknown stored value falls
// back to the default language.
func (s *Service) Language(ctx context.Context) i18n.Language {
	raw, ok := s.get(ctx, KeyLanguage)
	if !ok {
		return s.defaults.Language
	}
	lang, ok := i18n.ParseLanguage(raw)
	if !ok {
		log.Warn(log.CatPrefs, "Stored language unknown, using default", "value", raw)
		return i18n.DefaultLanguage
	}
	return lang
}

// SaveLanguage stores lang.
func (s *Service) SaveLanguage(ctx context.Context, lang i18n.Language) error {
	return s.set(ctx, KeyLanguage, string(lang))
}

// List returns every stored preference.
func (s *Service) List(ctx context.Context) ([]Entry, error) {
	entries, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing preferences: %w", err)
	}
	return entries, nil
}

// Reset deletes all stored preferences.
func (s *Service) Reset(ctx context.Context) error {
	for _, key := range []string{KeySessionParams, KeyLanguage} {
		if err := s.repo.Delete(ctx, key); err != nil {
			return fmt.Errorf("deleting %s: %w", key, err)
		}
		if err := s.cache.Invalidate(ctx, key); err != nil {
			log.ErrorErr(log.CatPrefs, "Cache invalidation failed", err, "key", key)
		}
	}
	log.Info(log.CatPrefs, "Preferences reset")
	return nil
}
