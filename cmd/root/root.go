package root

import (
	"fmt"

	cmdRun "github.com/BerryBytes/credchain/cmd/run"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// Set at build time with -ldflags "-X github.com/BerryBytes/credchain/cmd/root.Version=...".
var (
	Version  = "dev"
	Revision = "unknown"
)

func NewRootCmd(runDeps cmdRun.RunDependencies) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "credchain",
		Short: "Staff credential chain checker",
		Long:  `A CLI tool that verifies the staff login to service account to Drive access chain end to end.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			verbose, _ := cmd.Flags().GetBool("verbose")
			if verbose {
				log.SetLevel(log.DebugLevel)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.Println("No subcommand provided. Showing help...")
			return cmd.Help()
		},
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(cmdRun.NewRunCmd(runDeps))
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "credchain %s (%s)\n", Version, Revision)
		},
	}
}
