package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.rowdb/internal/auth"
	"go.rowdb/internal/config"
	"go.rowdb/internal/engine"
)

var (
	cfg *config.Config
	db  *engine.Database

	homeFlag     string
	configFlag   string
	userFlag     string
	passwordFlag string
)

var rootCmd = &cobra.Command{
	Use:   "rowdb <database>",
	Short: "RowDB - single-file B+ tree row store",
	Long: "RowDB stores one table of (id, username, email) rows in a single\n" +
		"file of fixed-size pages organized as a B+ tree. Opening a database\n" +
		"starts an interactive session.",
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cfg != nil {
			return nil
		}
		var err error
		cfg, err = config.Load(homeFlag, configFlag)
		return err
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if db != nil {
			// A session is already running; this is a mistyped statement
			// the REPL fed back to us.
			return fmt.Errorf("unrecognized keyword at start of %q", args[0])
		}

		name := args[0]
		if err := checkAccess(name); err != nil {
			return err
		}

		var err error
		db, err = engine.Open(name, cfg)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}

		startREPL(cmd.Root())
		return nil
	},
}

// checkAccess enforces the user file when it has entries; an empty store
// means access control is off.
func checkAccess(dbName string) error {
	store, err := auth.NewFileStore(cfg.UserFile)
	if err != nil {
		return err
	}
	if store.Empty() {
		return nil
	}

	u, err := auth.NewAuthenticator(store).Authenticate(userFlag, passwordFlag)
	if err != nil {
		return err
	}
	if !u.CanOpenDB(dbName) {
		return fmt.Errorf("user %s may not open %s", u.Username, dbName)
	}
	return nil
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&homeFlag, "home", "", "app home directory (default $ROWDB_HOME)")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "path to config.yaml")
	rootCmd.PersistentFlags().StringVarP(&userFlag, "user", "u", "", "username for protected databases")
	rootCmd.PersistentFlags().StringVarP(&passwordFlag, "password", "p", "", "password for protected databases")

	rootCmd.AddCommand(insertCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(selectCmd)
	rootCmd.AddCommand(findCmd)
	rootCmd.AddCommand(userCmd)
}
