package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.rowdb/internal/storage"
)

// startREPL runs the interactive session. Meta commands (leading dot)
// are handled here; statements are tokenized and dispatched back through
// cobra.
func startREPL(root *cobra.Command) {
	reader := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("rowdb> ")

		if !reader.Scan() {
			runExit()
		}

		input := strings.TrimSpace(reader.Text())
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, ".") {
			runMeta(input)
			continue
		}

		root.SetArgs(strings.Fields(input))
		if err := root.Execute(); err != nil {
			// Corruption and I/O failures end the process; every other
			// error is reported and the session goes on.
			var pathErr *fs.PathError
			if errors.Is(err, storage.ErrCorruptFile) || errors.Is(err, storage.ErrInvalidPointer) ||
				errors.Is(err, storage.ErrChildOutOfRange) || errors.As(err, &pathErr) {
				fmt.Fprintln(os.Stderr, "Error:", err)
				os.Exit(1)
			}
			fmt.Println("Error:", err)
		}
	}
}
