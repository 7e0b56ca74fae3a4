package main

import (
	"os"

	"github.com/cahier-numerique/cahier/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
