package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"fleetgate-hq/fleetgate/pkg/cli"
	"fleetgate-hq/fleetgate/pkg/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Long: `Load the configuration file, apply environment overrides and report
whether the result is valid. Nothing is started.

Examples:
  fleetgate validate
  fleetgate validate --config /etc/fleetgate/config.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
		if err != nil {
			return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
		}

		fmt.Println("✓ Configuration valid")
		fmt.Printf("  listen address: %s\n", cfg.Server.ListenAddress)
		fmt.Printf("  tessie configured: %t\n", cfg.Upstream.Tessie.APIKey != "")
		fmt.Printf("  telemetry configured: %t\n", cfg.Upstream.Telemetry.APIKey != "")
		fmt.Printf("  fleet configured: %t (region %s)\n", cfg.Upstream.Fleet.APIKey != "", cfg.Upstream.Fleet.Region)
		fmt.Printf("  call log enabled: %t\n", cfg.CallLog.Enabled)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
