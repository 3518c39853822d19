package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"storefront/internal/config"
	"storefront/internal/middleware"
)

var (
	tokenSubject int64
	tokenRole    string
	tokenTTL     time.Duration
)

// 管理API（/admin/catalog/reload）用のトークンを発行する
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a bearer token for the admin endpoints",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if cfg.JWTSecret == "" {
			return errors.New("JWT_SECRET is required")
		}
		if tokenSubject <= 0 {
			return errors.New("--sub must be positive")
		}

		tok, err := middleware.IssueToken(cfg.JWTSecret, tokenSubject, tokenRole, time.Now(), tokenTTL)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), tok)
		return nil
	},
}

func init() {
	tokenCmd.Flags().Int64Var(&tokenSubject, "sub", 1, "user id stored in the sub claim")
	tokenCmd.Flags().StringVar(&tokenRole, "role", middleware.RoleAdmin, "role claim")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 15*time.Minute, "token lifetime")
}
