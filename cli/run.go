package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/macrokeys/macrod/agent"
	"github.com/macrokeys/macrod/backends"
	"github.com/macrokeys/macrod/commands"
	"github.com/macrokeys/macrod/config"
	"github.com/macrokeys/macrod/input"
	"github.com/macrokeys/macrod/profile"
	"github.com/macrokeys/macrod/server"
	"github.com/macrokeys/macrod/utils"
)

var runServe bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the macro agent",
	Long: `Runs the agent against a live normalized event feed. The capture
collaborator writes one JSON event per line to the feed (default stdin);
classified gestures trigger the profile's macro bindings.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfgPath, err := config.DefaultPath()
		if err != nil {
			return err
		}
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}

		preference := cfg.Backend
		if backendName != "" {
			preference = backendName
		}

		result, err := backends.Create(preference)
		if err != nil {
			return fmt.Errorf("no usable injection backend: %w", err)
		}
		for _, diag := range result.Skipped {
			utils.Info("backend %s skipped: %s", diag.Kind, diag.Err)
		}
		if registry := commands.GetRegistry(); registry != nil {
			registry.Register(result.Backend)
		}

		p, err := profile.Load(profilePath)
		if err != nil {
			return err
		}

		session, err := agent.NewSession(p, result.Backend, cfg.Jitter)
		if err != nil {
			return err
		}
		defer session.Close()
		commands.SetSession(session)

		watcher, err := profile.NewWatcher(profilePath)
		if err != nil {
			return fmt.Errorf("failed to watch profile: %w", err)
		}
		defer watcher.Close()
		go func() {
			for reloaded := range watcher.Profiles() {
				if err := session.Reload(reloaded); err != nil {
					utils.Warn("profile reload failed: %v", err)
				}
			}
		}()

		if runServe {
			go func() {
				if err := server.StartServer(cfg.Listen, false, false); err != nil {
					utils.Error("rpc server stopped: %v", err)
				}
			}()
		}

		feed := os.Stdin
		if eventsPath != "" && eventsPath != "-" {
			f, err := os.Open(eventsPath)
			if err != nil {
				return fmt.Errorf("failed to open event feed: %w", err)
			}
			defer f.Close()
			feed = f
		}

		// the feed carries live timestamps already; no pacing
		return input.NewReplayReader(feed, false).Run(session.HandleEvent)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&profilePath, "profile", "", "path to the profile file (json, toml or yaml)")
	runCmd.Flags().StringVar(&eventsPath, "events", "-", "normalized event feed, '-' for stdin")
	runCmd.Flags().StringVar(&backendName, "backend", "", "injection backend (user-space, kernel-level, mock or auto)")
	runCmd.Flags().BoolVar(&runServe, "serve", false, "expose the RPC/event server while running")
	_ = runCmd.MarkFlagRequired("profile")
}
