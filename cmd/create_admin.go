package cmd

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/usario/creators-services/internal/authn"
	"github.com/usario/creators-services/models"
)

var (
	adminEmail string
	adminName  string
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an admin user",
	Long:  `Creates the first admin user. The password is read from ADMIN_PASSWORD.`,
	Run: func(cmd *cobra.Command, args []string) {

		commonSetUp()
		connectDB(newChangeFeed())
		defer crmDB.Close()

		password := os.Getenv("ADMIN_PASSWORD")
		hash, err := authn.HashPassword(password)
		if err != nil {
			log.Fatal().Err(err).Msg("Invalid ADMIN_PASSWORD")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		user, err := crmDB.CreateUser(ctx, models.User{
			Email:    adminEmail,
			FullName: adminName,
			Role:     models.RoleAdmin,
		}, hash)
		if err != nil {
			log.Fatal().Err(err).Str("email", adminEmail).Msg("Failed to create admin user")
		}

		log.Info().Str("user_id", user.ID.String()).Str("email", user.Email).Msg("Admin user created")
	},
}

func init() {
	rootCmd.AddCommand(createAdminCmd)
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "admin email address")
	createAdminCmd.Flags().StringVar(&adminName, "name", "Administrator", "admin full name")
	_ = createAdminCmd.MarkFlagRequired("email")
}
