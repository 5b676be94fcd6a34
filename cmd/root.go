package cmd

import (
	"fmt"
	"os"

	"github.com/ValentinKolb/critsec/cmd/stress"
	"github.com/ValentinKolb/critsec/cmd/util"
	"github.com/ValentinKolb/critsec/lib/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	Version = "1.0.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "critsec",
		Short: "critical-section workbench",
		Long: fmt.Sprintf(`critsec (v%s)

A workbench for the critsec library: one process-wide critical region
with a build-time selected provider. The subcommands stress and benchmark
the region and verify its mutual-exclusion guarantees.`, Version),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := util.BindCommandFlags(cmd); err != nil {
				return err
			}
			logging.InitLoggers(viper.GetString("log-level"))
			return nil
		},
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of critsec",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("critsec v%s\n", Version)
		},
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitConfig)

	// Add Commands
	RootCmd.AddCommand(stress.StressCmd)
	RootCmd.AddCommand(stress.BenchCmd)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	key := "log-level"
	RootCmd.PersistentFlags().String(key, "info", util.WrapString("log level to use (debug, info, warn, error)"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
