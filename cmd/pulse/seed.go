package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/zetruc/pulse/internal/core/domain"
	"github.com/zetruc/pulse/internal/core/ports"
	"github.com/zetruc/pulse/internal/core/service"
	mongodb "github.com/zetruc/pulse/internal/infrastructure/db/mongo"
)

const seedPassword = "password123"

var seedUsers = []ports.CreateUserInput{
	{Email: "admin@zetruc.dev", Name: "Admin", Password: seedPassword, Role: domain.RoleAdmin},
	{Email: "user@zetruc.dev", Name: "Demo User", Password: seedPassword, Role: domain.RoleUser},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the demo admin and user accounts",
	Long:  "Creates admin@zetruc.dev and user@zetruc.dev. Existing accounts are left untouched.",
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
		users := service.NewUserService(mongodb.NewUserRepository(db), log)
		for _, in := range seedUsers {
			_, err := users.Create(ctx, in)
			switch {
			case errors.Is(err, domain.ErrUserExists):
				log.Info().Str("email", in.Email).Msg("seed user already exists")
			case err != nil:
				return err
			default:
				log.Info().Str("email", in.Email).Str("role", in.Role).Msg("seed user created")
			}
		}
		return nil
	},
}
