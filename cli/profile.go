package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/macrokeys/macrod/commands"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Profile inspection commands",
	Long:  `Commands for validating profiles and inspecting macro timing plans offline.`,
}

var profileValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a profile's bindings",
	Long:  `Loads a profile and reports which bindings pass the timing constraints.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		response := commands.ValidateCommand(commands.ValidateRequest{Path: profilePath})
		printJson(response)
		if response.Status == "error" {
			return fmt.Errorf("%s", response.Error)
		}
		return nil
	},
}

var profileDryrunCmd = &cobra.Command{
	Use:   "dryrun",
	Short: "Compute a binding's timing plan without injecting input",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		response := commands.DryRunCommand(commands.DryRunRequest{
			Path:    profilePath,
			Binding: dryrunBinding,
		})
		printJson(response)
		if response.Status == "error" {
			return fmt.Errorf("%s", response.Error)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileValidateCmd)
	profileCmd.AddCommand(profileDryrunCmd)

	profileValidateCmd.Flags().StringVar(&profilePath, "profile", "", "path to the profile file")
	_ = profileValidateCmd.MarkFlagRequired("profile")

	profileDryrunCmd.Flags().StringVar(&profilePath, "profile", "", "path to the profile file")
	profileDryrunCmd.Flags().StringVar(&dryrunBinding, "binding", "", "binding name to plan")
	_ = profileDryrunCmd.MarkFlagRequired("profile")
	_ = profileDryrunCmd.MarkFlagRequired("binding")
}
