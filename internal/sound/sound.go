// Package sound plays the audible training cue.
//
// A cue is short and restartable: Play rewinds and starts it again even if
// the previous playback has not finished. Players never block the caller
// for the duration of the sound.
package sound

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/mrreacto/reacto/internal/log"
)

// CuePlayer plays and stops the cue sound.
type CuePlayer interface {
	Play() error
	Stop()
}

// Player names accepted in configuration.
const (
	PlayerAuto = "auto"
	PlayerBell = "bell"
	PlayerNone = "none"
)

// Config selects and configures a player.
type Config struct {
	Enabled bool
	Player  string // auto, bell, none or an executable name
	Asset   string // sound file passed to command players
}

// candidates are tried in order by PlayerAuto.
var candidates = []struct {
	name string
	args []string
}{
	{"afplay", nil},
	{"paplay", nil},
	{"aplay", []string{"-q"}},
	{"ffplay", []string{"-nodisp", "-autoexit", "-loglevel", "quiet"}},
}

// LookPathFunc resolves an executable name, as exec.LookPath does.
type LookPathFunc func(string) (string, error)

// New builds the player described by cfg. Anything that cannot be resolved
// degrades to the terminal bell, and a disabled config yields Noop.
func New(cfg Config, lookPath LookPathFunc) CuePlayer {
	if !cfg.Enabled || cfg.Player == PlayerNone {
		return Noop{}
	}
	if lookPath == nil {
		lookPath = exec.LookPath
	}

	switch cfg.Player {
	case PlayerBell:
		return NewBell(os.Stdout)
	case "", PlayerAuto:
		if !assetExists(cfg.Asset) {
			log.Warn(log.CatAudio, "Cue asset missing, using bell", "asset", cfg.Asset)
			return NewBell(os.Stdout)
		}
		for _, c := range candidates {
			if path, err := lookPath(c.name); err == nil {
				log.Debug(log.CatAudio, "Selected cue player", "player", c.name)
				return NewCommand(path, c.args, cfg.Asset)
			}
		}
		log.Warn(log.CatAudio, "No audio player found, using bell")
		return NewBell(os.Stdout)
	default:
		path, err := lookPath(cfg.Player)
		if err != nil {
			log.Warn(log.CatAudio, "Configured player not found, using bell", "player", cfg.Player)
			return NewBell(os.Stdout)
		}
		return NewCommand(path, nil, cfg.Asset)
	}
}

func assetExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Noop discards cues.
type Noop struct{}

func (Noop) Play() error { return nil }
func (Noop) Stop()       {}

// Bell rings the terminal bell.
type Bell struct {
	mu sync.Mutex
	w  io.Writer
}

// NewBell creates a Bell writing to w.
func NewBell(w io.Writer) *Bell {
	return &Bell{w: w}
}

func (b *Bell) Play() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, err := io.WriteString(b.w, "\a"); err != nil {
		return fmt.Errorf("ringing bell: %w", err)
	}
	return nil
}

func (b *Bell) Stop() {}

// Command plays the asset through an external program. Each Play kills the
// previous process so the cue always starts from the beginning.
type Command struct {
	path  string
	args  []string
	asset string

	mu      sync.Mutex
	current *exec.Cmd
}

// NewCommand creates a player that runs path with args followed by asset.
func NewCommand(path string, args []string, asset string) *Command {
	return &Command{path: path, args: args, asset: asset}
}

func (c *Command) Play() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.killLocked()

	args := append(append([]string{}, c.args...), c.asset)
	cmd := exec.Command(c.path, args...) //nolint:gosec // G204: player and asset come from user config
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", c.path, err)
	}
	c.current = cmd
	go func() {
		_ = cmd.Wait()
		c.mu.Lock()
		if c.current == cmd {
			c.current = nil
		}
		c.mu.Unlock()
	}()
	return nil
}

func (c *Command) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.killLocked()
}

// Playing reports whether a playback process is still running.
func (c *Command) Playing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current != nil
}

func (c *Command) killLocked() {
	if c.current == nil || c.current.Process == nil {
		return
	}
	_ = c.current.Process.Kill()
	c.current = nil
}
