package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/macrokeys/macrod/commands"
)

var backendsCmd = &cobra.Command{
	Use:   "backends",
	Short: "Probe injection backend availability",
	Long: `Probes the injection backends in the same priority order agent startup
uses and reports which one would be selected and why the others were skipped.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		response := commands.BackendsCommand(commands.BackendsRequest{Backend: backendName})
		printJson(response)
		if response.Status == "error" {
			return fmt.Errorf("%s", response.Error)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(backendsCmd)

	backendsCmd.Flags().StringVar(&backendName, "backend", "", "probe a specific backend instead of auto order")
}
