package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/macrokeys/macrod/agent"
	"github.com/macrokeys/macrod/backends"
	"github.com/macrokeys/macrod/input"
	"github.com/macrokeys/macrod/profile"
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a recorded event stream through the pipeline",
	Long: `Feeds a recorded normalized event stream through gesture detection,
binding resolution and execution, printing every classified gesture and
execution event. With --dry-run the mock backend is used and no input is
injected.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := profile.Load(profilePath)
		if err != nil {
			return err
		}

		preference := backendName
		if replayDryRun {
			preference = string(backends.KindMock)
		}
		result, err := backends.Create(preference)
		if err != nil {
			return fmt.Errorf("no usable injection backend: %w", err)
		}
		defer func() { _ = result.Backend.Destroy() }()

		session, err := agent.NewSession(p, result.Backend, !replayDryRun)
		if err != nil {
			return err
		}
		defer session.Close()

		done := make(chan struct{})
		gestures := session.Gestures()
		executions := session.Events()
		go func() {
			for {
				select {
				case <-done:
					return
				case gev := <-gestures:
					fmt.Printf("gesture: %s\n", gev)
				case eev := <-executions:
					if eev.Err != "" {
						fmt.Printf("execution: %s %s (%s)\n", eev.Type, eev.Binding, eev.Err)
					} else {
						fmt.Printf("execution: %s %s\n", eev.Type, eev.Binding)
					}
				}
			}
		}()
		defer close(done)

		f, err := os.Open(eventsPath)
		if err != nil {
			return fmt.Errorf("failed to open event stream: %w", err)
		}
		defer f.Close()

		if err := input.NewReplayReader(f, replayPaced).Run(session.HandleEvent); err != nil {
			return err
		}

		// gesture finalization lags the last event by the multi-press
		// window; give pending timers a chance to fire
		settings := p.GestureSettings()
		time.Sleep(time.Duration(settings.MultiPressWindowMs+50) * time.Millisecond)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(replayCmd)

	replayCmd.Flags().StringVar(&profilePath, "profile", "", "path to the profile file")
	replayCmd.Flags().StringVar(&eventsPath, "events", "", "recorded event stream (jsonl)")
	replayCmd.Flags().StringVar(&backendName, "backend", "auto", "injection backend for real replay")
	replayCmd.Flags().BoolVar(&replayPaced, "paced", false, "pace delivery to recorded timestamp gaps")
	replayCmd.Flags().BoolVar(&replayDryRun, "dry-run", false, "use the mock backend, inject nothing")
	_ = replayCmd.MarkFlagRequired("profile")
	_ = replayCmd.MarkFlagRequired("events")
}
