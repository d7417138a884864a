package main

import (
	"fmt"
	"time"

	"github.com/mohammad-safakhou/factcheck/config"
	srv "github.com/mohammad-safakhou/factcheck/internal/server"
	"github.com/spf13/cobra"
)

func tokenCMD() *cobra.Command {
	var cfgPath string
	var ttl time.Duration

	var token = &cobra.Command{
		Use:   "token [subject]",
		Short: "Issue a bearer token for the verify API",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(cfgPath)
			if err != nil {
				return err
			}
			tok, err := srv.SignToken(args[0], []byte(cfg.Server.JWTSecret), ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	token.Flags().DurationVar(&ttl, "ttl", 30*24*time.Hour, "token lifetime")
	token.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (default is .)")
	return token
}
