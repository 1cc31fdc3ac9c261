package main

import (
	"os"

	"github.com/treasury-ledger/treasury/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
