package main

import (
	"os"

	"github.com/djscruggs/cardlessid-sub002/cmd/cardctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
