package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.rowdb/internal/table"
)

var selectCmd = &cobra.Command{
	Use:   "select",
	Short: "Print every row in ascending id order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireOpen(); err != nil {
			return err
		}

		if err := db.Scan(func(r table.Row) error {
			fmt.Println(r)
			return nil
		}); err != nil {
			return err
		}

		fmt.Println("Executed.")
		return nil
	},
}
