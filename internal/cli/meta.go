package cli

import (
	"fmt"
	"os"

	"go.rowdb/internal/storage"
)

// Meta commands bypass the statement grammar and talk to the session
// itself.
func runMeta(input string) {
	switch input {
	case ".exit":
		runExit()
	case ".btree":
		fmt.Println("Tree:")
		if err := db.DumpTree(os.Stdout); err != nil {
			fmt.Println("Error:", err)
		}
	case ".constant", ".constants":
		fmt.Println("Constants:")
		storage.DumpConstants(os.Stdout)
	default:
		fmt.Printf("Unrecognized command %q\n", input)
	}
}

func runExit() {
	if db != nil {
		if err := db.Close(); err != nil {
			fmt.Fprintln(os.Stderr, "Error closing database:", err)
			os.Exit(1)
		}
	}
	os.Exit(0)
}
