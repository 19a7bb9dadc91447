package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/relaydesk/discord-relay/internal/cli/api"
	"github.com/relaydesk/discord-relay/internal/cli/output"
)

func newCheckCmd(client api.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "check <application-id>",
		Short: "Check a tenant's Discord credentials",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			appID := args[0]
			styler := output.NewStyler(noColor)

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			resp, err := client.CheckTenant(ctx, appID)
			if err != nil {
				styler.FprintError(cmd.OutOrStderr(), fmt.Sprintf("Failed to check tenant: %v", err))
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

			if resp.Success {
				styler.FprintSuccess(cmd.OutOrStdout(), resp.Message)
				return nil
			}
			styler.FprintError(cmd.OutOrStderr(), resp.Message)
			return errors.New(resp.Message)
		},
	}
}
