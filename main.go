package main

import (
	"os"

	"github.com/ridewise/ridewise/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
