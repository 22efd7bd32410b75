package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "fleetgate",
	Short: "Fleetgate - unified vehicle telematics API gateway",
	Long: `Fleetgate is an authenticated HTTP gateway that unifies three vehicle
telematics APIs behind one surface:

  - Tessie vehicle REST API     (/api/tessie/...)
  - Teslemetry API              (/api/telemetry/...)
  - Official Tesla Fleet API    (/api/fleet/...)

Callers authenticate with an HMAC-SHA256 JWT; the gateway injects the
per-family upstream credentials on outbound calls. Health and status
documents aggregate per-family probes, and an optional call log records
upstream call metadata.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
