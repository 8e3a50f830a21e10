package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/senecapartners/seneca-cms-backend/internal/auth"
)

var (
	staffUsername string
	staffFullName string
	staffPassword string
)

// createStaffCmd adds an admin account
var createStaffCmd = &cobra.Command{
	Use:   "create-staff",
	Short: "Create a staff account",
	Long: `Create a staff account that can sign in to /admin.

Examples:
  senecactl create-staff --username manager --full-name "Айгерим С." --password 's3cret-pass'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCreateStaff(cmd.Context())
	},
}

func init() {
	createStaffCmd.Flags().StringVar(&staffUsername, "username", "", "Login name")
	createStaffCmd.Flags().StringVar(&staffFullName, "full-name", "", "Display name")
	createStaffCmd.Flags().StringVar(&staffPassword, "password", "", "Password, at least 8 characters")
	_ = createStaffCmd.MarkFlagRequired("username")
	_ = createStaffCmd.MarkFlagRequired("password")
	rootCmd.AddCommand(createStaffCmd)
}

func runCreateStaff(ctx context.Context) error {
	cfg, db, err := connect()
	if err != nil {
		return err
	}
	svc := auth.NewService(auth.NewRepository(db), cfg.JWTAccessSecret, time.Duration(cfg.JWTAccessTTLHours)*time.Hour)
	user, err := svc.CreateStaff(ctx, staffUsername, staffFullName, staffPassword)
	if err != nil {
		return fmt.Errorf("failed to create staff user: %w", err)
	}
	if jsonOutput {
		return printJSON(user)
	}
	fmt.Printf("✅ Staff user #%d %s created\n", user.ID, user.Username)
	return nil
}
