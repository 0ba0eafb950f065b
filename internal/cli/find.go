package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var findCmd = &cobra.Command{
	Use:   "find <id>",
	Short: "Print the row with the given id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireOpen(); err != nil {
			return err
		}

		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		row, found, err := db.Find(id)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("no row found with id %d", id)
		}

		fmt.Println(row)
		return nil
	},
}
