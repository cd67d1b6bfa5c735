package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/macrokeys/macrod/config"
	"github.com/macrokeys/macrod/daemon"
	"github.com/macrokeys/macrod/server"
	"github.com/macrokeys/macrod/utils"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Server management commands",
	Long:  `Commands for managing the macrod RPC/event server.`,
}

var serverStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the macrod server",
	Long:  `Starts the RPC and event-stream server without an input feed; use 'run --serve' for the full agent.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		listenAddr := cmd.Flag("listen").Value.String()
		if listenAddr == "" {
			listenAddr = config.DefaultListenAddress
		}

		// GetBool cannot fail for defined flags
		enableCORS, _ := cmd.Flags().GetBool("cors")
		requireAuth, _ := cmd.Flags().GetBool("auth")
		isDaemon, _ := cmd.Flags().GetBool("daemon")

		if isDaemon && !daemon.IsChild() {
			if !utils.IsAddressAvailable(listenAddr) {
				return fmt.Errorf("%s is already in use", listenAddr)
			}

			_, err := daemon.Daemonize()
			if err != nil {
				return fmt.Errorf("failed to start daemon: %w", err)
			}

			fmt.Printf("Server daemon spawned, attempting to listen on %s\n", listenAddr)
			return nil
		}

		return server.StartServer(listenAddr, enableCORS, requireAuth)
	},
}

var serverKillCmd = &cobra.Command{
	Use:   "kill",
	Short: "Stop the daemonized macrod server",
	Long:  `Connects to the server and sends a shutdown command via JSON-RPC.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// GetString cannot fail for defined flags
		addr, _ := cmd.Flags().GetString("listen")
		if addr == "" {
			addr = config.DefaultListenAddress
		}

		err := daemon.KillServer(addr)
		if err != nil {
			return err
		}

		fmt.Printf("Server shutdown command sent successfully\n")
		return nil
	},
}

var serverTokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage the RPC access token",
}

var serverTokenNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Generate and store a fresh RPC access token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		token, err := server.NewToken()
		if err != nil {
			return err
		}
		fmt.Println(token)
		return nil
	},
}

var serverTokenClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the stored RPC access token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.ClearToken()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	// add server subcommands
	serverCmd.AddCommand(serverStartCmd)
	serverCmd.AddCommand(serverKillCmd)
	serverCmd.AddCommand(serverTokenCmd)
	serverTokenCmd.AddCommand(serverTokenNewCmd)
	serverTokenCmd.AddCommand(serverTokenClearCmd)

	// server start flags
	serverStartCmd.Flags().String("listen", "", fmt.Sprintf("Address to listen on (default: %s)", config.DefaultListenAddress))
	serverStartCmd.Flags().Bool("cors", false, "Enable CORS support")
	serverStartCmd.Flags().Bool("auth", false, "Require the keyring-stored bearer token on every request")
	serverStartCmd.Flags().BoolP("daemon", "d", false, "Run server in daemon mode (background)")

	// server kill flags
	serverKillCmd.Flags().String("listen", "", fmt.Sprintf("Address of server to kill (default: %s)", config.DefaultListenAddress))
}
