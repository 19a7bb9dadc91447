package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/relaydesk/discord-relay/internal/cli/api"
)

var (
	version   string
	commit    string
	buildDate string

	// Global flags
	relayURL     string
	outputFormat string
	noColor      bool
)

var rootCmd = &cobra.Command{
	Use:   "relayctl",
	Short: "Discord relay admin CLI",
	Long: `relayctl manages tenants on a running Discord relay.

It provides commands to initialize tenant credentials, check that a
stored bot token is still valid, and fetch a tenant's public key.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&relayURL, "relay-url", getEnvOrDefault("RELAY_URL", "http://localhost:8080"), "Relay HTTP URL")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "output", "table", "Output format: json|table")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
}

func initClient() api.Client {
	return api.NewHTTPClient(relayURL)
}

func Execute() error {
	client := initClient()

	rootCmd.AddCommand(newInitCmd(client))
	rootCmd.AddCommand(newCheckCmd(client))
	rootCmd.AddCommand(newPublicKeyCmd(client))

	return rootCmd.Execute()
}

func SetVersion(v, c, d string) {
	version = v
	commit = c
	buildDate = d
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
