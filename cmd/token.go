package main

import (
	"fmt"
	"time"

	"github.com/jekabolt/woometrics/config"
	"github.com/jekabolt/woometrics/internal/auth/jwt"
	"github.com/spf13/cobra"
)

var (
	tokenCmd = &cobra.Command{
		Use:   "token [subject]",
		Short: "Issue a bearer token for the metrics API",
		Args:  cobra.ExactArgs(1),
		RunE:  runToken,
	}

	tokenTTL time.Duration
)

func init() {
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 0, "token lifetime (default from auth.jwt_ttl)")
}

func runToken(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("cannot load a config %v", err.Error())
	}
	jwtAuth := jwt.New(cfg.Auth)
	if jwtAuth == nil {
		return fmt.Errorf("auth.jwt_secret is not set, the API runs without tokens")
	}
	ttl := tokenTTL
	if ttl == 0 {
		ttl = cfg.Auth.JWTTTL
	}
	token, err := jwt.NewTokenWithSubject(jwtAuth, ttl, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
