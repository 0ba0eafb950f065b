package main

import "go.rowdb/internal/cli"

func main() {
	cli.Execute()
}
