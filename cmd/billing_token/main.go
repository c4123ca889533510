// Command billing_token mints a bearer token for local development against the billing API.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/SscSPs/billing_app/internal/platform/config"
	"github.com/SscSPs/billing_app/internal/utils"
	"github.com/spf13/cobra"
)

func main() {
	var (
		userID string
		ttl    time.Duration
	)

	rootCmd := &cobra.Command{
		Use:   "billing_token",
		Short: "Issue a development access token for the billing API",
		Long: `billing_token signs a JWT with the JWT_SECRET and JWT_ISSUER the API server
is configured with. The token subject is the user every request is scoped to.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cfg.IsProduction {
				return fmt.Errorf("refusing to mint tokens with IS_PRODUCTION set")
			}

			token, err := utils.IssueAccessToken(userID, cfg.JWTSecret, cfg.JWTIssuer, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	rootCmd.Flags().StringVarP(&userID, "user", "u", "", "user ID to put in the token subject")
	rootCmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	_ = rootCmd.MarkFlagRequired("user")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
