package commands

import (
	"context"
	"fmt"

	"github.com/dossiman/coursera-fullstack-web-dev/internal/service"
	"github.com/spf13/cobra"
)

var (
	// Admin create flags
	adminUsername string
	adminPassword string
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage administrator accounts",
}

var adminCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an administrator",
	Long: `Create a user holding the admin role. Admins may create, replace and
delete dishes and clear their comments.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAdminCreate(cmd)
	},
}

func init() {
	rootCmd.AddCommand(adminCmd)
	adminCmd.AddCommand(adminCreateCmd)

	adminCreateCmd.Flags().StringVarP(&adminUsername, "username", "u", "", "Username of the new admin")
	adminCreateCmd.Flags().StringVarP(&adminPassword, "password", "p", "", "Password of the new admin")
	adminCreateCmd.MarkFlagRequired("username")
	adminCreateCmd.MarkFlagRequired("password")
}

func runAdminCreate(cmd *cobra.Command) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	ctx := context.Background()
	st, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.close(ctx)

	services := service.NewServices(st.repos, cfg, log)
	user, err := services.User.CreateAdmin(ctx, adminUsername, adminPassword)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "created admin %s (%s)\n", user.Username, user.ID)
	return nil
}
