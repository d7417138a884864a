package main

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"github.com/mohammad-safakhou/factcheck/config"
	"github.com/mohammad-safakhou/factcheck/internal/factcheck"
	"github.com/mohammad-safakhou/factcheck/internal/runtime"
	"github.com/spf13/cobra"
)

func verifyCMD() *cobra.Command {
	var cfgPath string
	var verify = &cobra.Command{
		Use:   "verify <statement>",
		Short: "Verify one statement and print the verdict as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(cfgPath)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			tele, _, err := runtime.SetupTelemetry(ctx, cfg.Telemetry, runtime.TelemetryOptions{ServiceName: cfg.Telemetry.ServiceName})
			if err != nil {
				return err
			}
			defer tele.Shutdown(context.Background())

			logger := log.New(cmd.ErrOrStderr(), "[VERIFY] ", log.LstdFlags)
			orch, err := factcheck.NewFromConfig(cfg, logger)
			if err != nil {
				return err
			}
			verdict, err := orch.Verify(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(verdict)
		},
	}
	verify.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (default is .)")

	return verify
}
