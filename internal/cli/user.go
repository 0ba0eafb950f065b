package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.rowdb/internal/auth"
)

var (
	newUserRole string
	newUserDBs  []string
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage the user file",
}

var userCreateCmd = &cobra.Command{
	Use:   "create <username>",
	Short: "Create a user; once any user exists, opening a database requires credentials",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if passwordFlag == "" {
			return errors.New("a password is required (--password)")
		}

		role := auth.Role(newUserRole)
		if role != auth.RoleSuperuser && role != auth.RoleStandard {
			return fmt.Errorf("unknown role %q", newUserRole)
		}

		store, err := auth.NewFileStore(cfg.UserFile)
		if err != nil {
			return err
		}

		hash, err := auth.HashPassword(passwordFlag)
		if err != nil {
			return err
		}

		u := &auth.User{
			Username:  args[0],
			Password:  hash,
			Role:      role,
			Databases: newUserDBs,
		}
		if err := store.CreateUser(u); err != nil {
			return err
		}

		fmt.Printf("user %s created\n", u.Username)
		return nil
	},
}

var userDeleteCmd = &cobra.Command{
	Use:   "delete <username>",
	Short: "Delete a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := auth.NewFileStore(cfg.UserFile)
		if err != nil {
			return err
		}
		if err := store.DeleteUser(args[0]); err != nil {
			return err
		}

		fmt.Printf("user %s deleted\n", args[0])
		return nil
	},
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := auth.NewFileStore(cfg.UserFile)
		if err != nil {
			return err
		}
		for _, u := range store.Users() {
			fmt.Printf("%s (%s) %v\n", u.Username, u.Role, u.Databases)
		}
		return nil
	},
}

func init() {
	userCreateCmd.Flags().StringVar(&newUserRole, "role", string(auth.RoleStandard), "role: superuser or standard")
	userCreateCmd.Flags().StringSliceVar(&newUserDBs, "db", nil, "databases the user may open")

	userCmd.AddCommand(userCreateCmd)
	userCmd.AddCommand(userDeleteCmd)
	userCmd.AddCommand(userListCmd)
}
