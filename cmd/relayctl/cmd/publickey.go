package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/relaydesk/discord-relay/internal/cli/api"
	"github.com/relaydesk/discord-relay/internal/cli/output"
)

func newPublicKeyCmd(client api.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "public-key <application-id>",
		Short: "Fetch a tenant's interaction public key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			appID := args[0]

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			resp, err := client.GetPublicKey(ctx, appID)
			if err != nil {
				styler := output.NewStyler(noColor)
				styler.FprintError(cmd.OutOrStderr(), fmt.Sprintf("Failed to fetch public key: %v", err))
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

			fmt.Fprintln(cmd.OutOrStdout(), resp.PublicKey)
			return nil
		},
	}
}
