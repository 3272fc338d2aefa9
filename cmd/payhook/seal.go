package main

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-payhooks/core"
	"github.com/goliatone/go-payhooks/security"
	"github.com/spf13/cobra"
)

func newSealCmd(root *rootOptions) *cobra.Command {
	var appKey string
	cmd := &cobra.Command{
		Use:   "seal <token>",
		Short: "Encrypt a processor token for the client file",
		Long: `Seals token with security.app_key so it can be stored in the processor
client file. Sealed values are opened at startup.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := strings.TrimSpace(appKey)
			if key == "" {
				cfg, err := root.loadConfig(cmd.Context(), core.Config{})
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				key = strings.TrimSpace(cfg.Security.AppKey)
			}
			if key == "" {
				return fmt.Errorf("security.app_key is required (set PAYHOOKS_SECURITY_APP_KEY or --app-key)")
			}
			provider, err := security.NewAppKeySecretProviderFromString(key)
			if err != nil {
				return err
			}
			sealed, err := provider.Seal(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), sealed)
			return nil
		},
	}
	cmd.Flags().StringVar(&appKey, "app-key", "", "encryption key (defaults to security.app_key)")
	return cmd
}
