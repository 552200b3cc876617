package main

import (
	"github.com/spf13/cobra"

	mongodb "github.com/zetruc/pulse/internal/infrastructure/db/mongo"
)

var indexesCmd = &cobra.Command{
	Use:   "indexes",
	Short: "Create the MongoDB indexes",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		client, db, err := openMongo(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = client.Disconnect(ctx) }()

		if err := mongodb.EnsureIndexes(ctx, db); err != nil {
			return err
		}
		log.Info().Msg("indexes ensured")
		return nil
	},
}
