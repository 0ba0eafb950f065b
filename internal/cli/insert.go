package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.rowdb/internal/storage"
	"go.rowdb/internal/table"
)

var insertCmd = &cobra.Command{
	Use:   "insert <id> <username> <email>",
	Short: "Insert a new row",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireOpen(); err != nil {
			return err
		}

		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		row := table.Row{ID: id, Username: args[1], Email: args[2]}
		if err := db.Insert(row); err != nil {
			if errors.Is(err, storage.ErrDuplicateKey) {
				return fmt.Errorf("duplicate key %d", id)
			}
			if errors.Is(err, storage.ErrTableFull) {
				return errors.New("table full")
			}
			return err
		}

		fmt.Println("Executed.")
		return nil
	},
}
