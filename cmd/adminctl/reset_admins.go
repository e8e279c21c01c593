package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"projekthub/internal/entity"
)

// resetAdminsCmd deletes every ADMIN user together with their projects and
// audit rows. Recovery tool for a lost or compromised admin account; follow
// up with create-initial-admin.
var resetAdminsCmd = &cobra.Command{
	Use:   "reset-admins",
	Short: "Delete every admin account and everything they own",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		repo, _, err := openRepository(ctx)
		if err != nil {
			return err
		}

		adminRole, err := repo.GetRoleByName(ctx, entity.RoleAdmin)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				fmt.Println("Ingen ADMIN-roll hittades.")
				return nil
			}
			return fmt.Errorf("lookup ADMIN role: %w", err)
		}

		admins, err := repo.ListUsersByRole(ctx, adminRole.ID)
		if err != nil {
			return fmt.Errorf("list admin users: %w", err)
		}

		for idx := range admins {
			user := &admins[idx]
			if err := repo.DeleteUserCascade(ctx, user.ID); err != nil {
				return fmt.Errorf("delete admin %s: %w", user.Email, err)
			}
			fmt.Printf("Admin-användare %s borttagen.\n", user.Email)
		}

		fmt.Println("Alla admin-användare har nollställts.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resetAdminsCmd)
}
