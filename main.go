package main

import (
	"os"

	"github.com/notesview/notesview/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
