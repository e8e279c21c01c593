package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"projekthub/internal/auth"
	"projekthub/internal/entity"
)

var (
	createAdminEmail    string
	createAdminPassword string
	createAdminName     string
)

// createInitialAdminCmd bootstraps the very first admin account. It is
// idempotent so running it on an already bootstrapped database is safe.
var createInitialAdminCmd = &cobra.Command{
	Use:   "create-initial-admin",
	Short: "Create the initial admin account if it does not exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		repo, _, err := openRepository(ctx)
		if err != nil {
			return err
		}

		adminRole, err := repo.EnsureRole(ctx, entity.RoleAdmin)
		if err != nil {
			return fmt.Errorf("ensure ADMIN role: %w", err)
		}

		if existing, err := repo.GetUserByEmail(ctx, createAdminEmail); err == nil {
			fmt.Printf("Admin-användare %s finns redan (id %d).\n", existing.Email, existing.ID)
			return nil
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("lookup admin user: %w", err)
		}

		hash, err := auth.HashPassword(createAdminPassword)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}

		user := &entity.DbUser{
			Email:        createAdminEmail,
			Name:         createAdminName,
			PasswordHash: hash,
			IsVerified:   true,
			RoleID:       adminRole.ID,
		}
		if err := repo.CreateUserWithProject(ctx, user, entity.DefaultProjectName); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				fmt.Printf("Admin-användare %s finns redan.\n", createAdminEmail)
				return nil
			}
			return fmt.Errorf("create admin user: %w", err)
		}

		fmt.Printf("Admin-användare skapad: %s (id %d)\n", user.Email, user.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(createInitialAdminCmd)
	createInitialAdminCmd.Flags().StringVar(&createAdminEmail, "email", "admin@example.com", "email for the initial admin")
	createInitialAdminCmd.Flags().StringVar(&createAdminPassword, "password", "", "password for the initial admin")
	createInitialAdminCmd.Flags().StringVar(&createAdminName, "name", "Initial Admin", "display name for the initial admin")
	_ = createInitialAdminCmd.MarkFlagRequired("password")
}
