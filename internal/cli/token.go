package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iyunix/go-chatsync/internal/auth"
)

// NewTokenCommand mints a bearer token for an owner, for local testing in jwt mode.
func NewTokenCommand(root *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token <owner-id>",
		Short: "Mint a bearer token for an owner",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}
			if cfg.JWTSecretKey == "" {
				return fmt.Errorf("JWT_SECRET_KEY is not set")
			}

			token, err := auth.GenerateJWT(args[0], []byte(cfg.JWTSecretKey), cfg.TokenTTL)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	return cmd
}
