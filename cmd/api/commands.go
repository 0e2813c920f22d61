package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/asset-inventory/internal/domain"
	"github.com/spec-kit/asset-inventory/internal/persistence"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		rt, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.close()
		if err := persistence.RunMigrations(cmd.Context(), rt.pg.PoolHandle(), rt.logger); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		rt.logger.Info("migrate up: ok")
		return nil
	},
}

var seedCategoriesCmd = &cobra.Command{
	Use:   "seed-categories",
	Short: "Install the default asset categories on an empty inventory",
	RunE: func(cmd *cobra.Command, _ []string) error {
		rt, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.close()
		n, err := rt.assetService().SeedCategories(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "seeded %d categories\n", n)
		return nil
	},
}

var reconcileRepair bool

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Check that asset statuses agree with active assignments",
	RunE: func(cmd *cobra.Command, _ []string) error {
		rt, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.close()
		issues, err := rt.assetService().Reconcile(cmd.Context(), reconcileRepair)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, issue := range issues {
			state := "unrepaired"
			if issue.Repaired {
				state = "repaired"
			}
			fmt.Fprintf(out, "%s\t%s\t%s\t%s\n", issue.AssetID, issue.Barcode, state, issue.Detail)
		}
		rt.logger.Info("reconcile finished", zap.Int("issues", len(issues)), zap.Bool("repair", reconcileRepair))
		if len(issues) > 0 && !reconcileRepair {
			return fmt.Errorf("%d inconsistent assets found", len(issues))
		}
		return nil
	},
}

var createUser struct {
	name     string
	email    string
	password string
	role     string
}

var createUserCmd = &cobra.Command{
	Use:   "create-user",
	Short: "Create a user with any role, typically the first manager",
	RunE: func(cmd *cobra.Command, _ []string) error {
		rt, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.close()
		user, err := rt.authService().CreateUser(cmd.Context(), createUser.name, createUser.email, createUser.password, domain.UserRole(createUser.role))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created %s %s (%s)\n", user.Role, user.Email, user.ID)
		return nil
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd)

	reconcileCmd.Flags().BoolVar(&reconcileRepair, "repair", false, "fix assets whose status disagrees with their assignments")

	createUserCmd.Flags().StringVar(&createUser.name, "name", "", "display name")
	createUserCmd.Flags().StringVar(&createUser.email, "email", "", "login email")
	createUserCmd.Flags().StringVar(&createUser.password, "password", "", "initial password")
	createUserCmd.Flags().StringVar(&createUser.role, "role", string(domain.UserRoleManager), "MANAGER, TECHNICIAN or EMPLOYEE")
	_ = createUserCmd.MarkFlagRequired("email")
	_ = createUserCmd.MarkFlagRequired("password")
}
