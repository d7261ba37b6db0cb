package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"bookstore-admin/internal/repo"
	"bookstore-admin/internal/service"
)

var (
	userName     string
	userEmail    string
	userPassword string
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an admin account",
	Long: `Create an admin account. Fails when the email is already registered.

Examples:
  bookstore-admin create-admin --name "Jane" --email jane@bookstore.com --password s3cret!`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := open()
		if err != nil {
			return err
		}
		defer a.Close()

		svc := service.NewAuthService(repo.NewUserRepo(a.DB), a.JWT, a.Log)
		u, err := svc.CreateAdmin(cmd.Context(), userName, userEmail, userPassword)
		if err != nil {
			return fmt.Errorf("create admin %s: %w", userEmail, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "admin created: id=%d email=%s\n", u.ID, u.Email)
		return nil
	},
}

var resetPasswordCmd = &cobra.Command{
	Use:   "reset-password",
	Short: "Set a new password for an existing account",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := open()
		if err != nil {
			return err
		}
		defer a.Close()

		svc := service.NewAuthService(repo.NewUserRepo(a.DB), a.JWT, a.Log)
		if err := svc.ResetPassword(cmd.Context(), userEmail, userPassword); err != nil {
			return fmt.Errorf("reset password for %s: %w", userEmail, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "password updated: %s\n", userEmail)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(createAdminCmd, resetPasswordCmd)

	createAdminCmd.Flags().StringVar(&userName, "name", "Admin User", "Display name")
	for _, c := range []*cobra.Command{createAdminCmd, resetPasswordCmd} {
		c.Flags().StringVar(&userEmail, "email", "", "Account email")
		c.Flags().StringVar(&userPassword, "password", "", fmt.Sprintf("Password (min %d chars)", service.MinPasswordLen))
		_ = c.MarkFlagRequired("email")
		_ = c.MarkFlagRequired("password")
	}
}
