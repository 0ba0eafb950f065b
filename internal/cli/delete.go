package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.rowdb/internal/storage"
)

var deleteCmd = &cobra.Command{
	Use:   "delete where id=<n>",
	Short: "Delete the row with the given id",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireOpen(); err != nil {
			return err
		}

		id, err := parseWhereID(args)
		if err != nil {
			return err
		}

		if err := db.Delete(id); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("no row found with id %d", id)
			}
			return err
		}

		fmt.Printf("deleted %d\n", id)
		return nil
	},
}
