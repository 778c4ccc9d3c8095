package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mrreacto/reacto/internal/config"
	"github.com/mrreacto/reacto/internal/log"
	"github.com/mrreacto/reacto/internal/session"
	"github.com/mrreacto/reacto/internal/sound"
	"github.com/mrreacto/reacto/internal/timeline"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a session without the TUI",
	Long: `Run one training session in the terminal without the interactive UI.

The remaining time is printed once per second and CUE is printed whenever
the cue sound plays. Ctrl+C stops the session early.

Values not given as flags come from the config file.

Examples:
  reacto run
  reacto run --duration 120 --min 1 --max 4
  reacto run --no-sound`,
	RunE: runHeadless,
}

var (
	runDuration int
	runMin      int
	runMax      int
	runNoSound  bool
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().IntVarP(&runDuration, "duration", "d", 0, "session length in seconds")
	runCmd.Flags().IntVar(&runMin, "min", 0, "minimum seconds between cues")
	runCmd.Flags().IntVar(&runMax, "max", 0, "maximum seconds between cues")
	runCmd.Flags().BoolVar(&runNoSound, "no-sound", false, "print cues without playing a sound")
}

// runParams overlays the flags that were set on the configured defaults.
func runParams(cmd *cobra.Command, cfg config.Config) session.Params {
	p := cfg.SessionParams()
	if cmd.Flags().Changed("duration") {
		p.DurationSeconds = runDuration
	}
	if cmd.Flags().Changed("min") {
		p.MinIntervalSeconds = runMin
	}
	if cmd.Flags().Changed("max") {
		p.MaxIntervalSeconds = runMax
	}
	return p
}

func runHeadless(cmd *cobra.Command, _ []string) error {
	cleanup, _, err := initLogging("reacto-run")
	if err != nil {
		return err
	}
	defer cleanup()

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	params := runParams(cmd, cfg)

	soundCfg := cfg.SoundConfig()
	if runNoSound {
		soundCfg.Enabled = false
	}

	provider, shutdown, err := newTracer(cfg)
	if err != nil {
		return err
	}
	defer shutdown()

	loop := timeline.NewLoop()
	defer loop.Close()

	sess := session.New(loop,
		session.WithCuePlayer(sound.New(soundCfg, nil)),
		session.WithTracer(provider.Tracer()),
	)
	defer sess.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runSession(ctx, cmd.OutOrStdout(), sess, params)
}

// runSession starts sess and prints its progress to out until it ends.
// Cancelling ctx stops the session.
func runSession(ctx context.Context, out io.Writer, sess *session.Session, params session.Params) error {
	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	events := sess.Broker().Subscribe(subCtx)

	if err := sess.Start(params, nil); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(out, session.FormatRemaining(params.DurationSeconds))

	for {
		select {
		case <-ctx.Done():
			log.Info(log.CatSession, "Headless run interrupted")
			sess.Stop()
			_, _ = fmt.Fprintln(out, "stopped")
			return nil

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev.Type {
			case session.EventTick:
				_, _ = fmt.Fprintln(out, session.FormatRemaining(ev.Payload.Remaining))
			case session.EventCue:
				_, _ = fmt.Fprintln(out, "CUE")
			case session.EventPlaybackFailed:
				_, _ = fmt.Fprintf(out, "sound failed: %s\n", ev.Payload.Err)
			case session.EventStopped:
				if ev.Payload.Reason == session.ReasonExpired {
					_, _ = fmt.Fprintln(out, "done")
				} else {
					_, _ = fmt.Fprintln(out, "stopped")
				}
				return nil
			}
		}
	}
}
