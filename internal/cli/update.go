package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.rowdb/internal/storage"
	"go.rowdb/internal/table"
)

var updateCmd = &cobra.Command{
	Use:   "update <username> <email> where id=<n>",
	Short: "Overwrite the username and email of an existing row",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireOpen(); err != nil {
			return err
		}

		id, err := parseWhereID(args[2:])
		if err != nil {
			return err
		}

		row := table.Row{ID: id, Username: args[0], Email: args[1]}
		if err := db.Update(row); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("no row found with id %d", id)
			}
			return err
		}

		fmt.Println("Executed.")
		return nil
	},
}
