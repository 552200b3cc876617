// Command pulse runs the Zetruc Pulse API and its maintenance tasks.
//
// @title                       Zetruc Pulse API
// @version                     1.0
// @description                 Multi-tenant brand reputation dashboard.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/zetruc/pulse/internal/pkg/config"
	"github.com/zetruc/pulse/pkg/logger"
)

const serviceName = "pulse"

var (
	cfg *config.Config
	log zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:           serviceName,
	Short:         "Zetruc Pulse brand reputation API",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		var err error
		cfg, err = config.Load(cmd.Context())
		if err != nil {
			return err
		}
		log = logger.Init(logger.Options{
			Level:   cfg.LogLevel,
			Pretty:  cfg.IsDevelopment(),
			Service: serviceName,
			Env:     cfg.Env,
		})
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, seedCmd, indexesCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "pulse:", err)
		os.Exit(1)
	}
}
