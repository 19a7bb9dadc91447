package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/relaydesk/discord-relay/internal/cli/api"
	"github.com/relaydesk/discord-relay/internal/cli/output"
)

func newInitCmd(client api.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "init <application-id> <public-key> <bot-token>",
		Short: "Initialize a tenant",
		Long: `Initialize a tenant with its Discord application ID, interaction
public key, and bot token.

On success the relay registers the default /ping command and prints the
interactions endpoint URL to configure in the Discord developer portal.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			appID, publicKey, botToken := args[0], args[1], args[2]

			styler := output.NewStyler(noColor)
			styler.FprintInfo(cmd.OutOrStdout(), fmt.Sprintf("Initializing tenant '%s'...", appID))

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			resp, err := client.InitTenant(ctx, &api.InitRequest{
				ApplicationID: appID,
				PublicKey:     publicKey,
				Token:         botToken,
			})
			if err != nil {
				styler.FprintError(cmd.OutOrStderr(), fmt.Sprintf("Failed to initialize tenant: %v", err))
				return err
			}

			if outputFormat == "json" {
				jsonStr, err := output.FormatJSON(resp)
				if err != nil {
					return fmt.Errorf("failed to format output: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), jsonStr)
				return nil
			}

			styler.FprintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Tenant '%s' initialized", appID))
			if resp.Message != "" {
				fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
			}
			return nil
		},
	}
}
