package main

import (
	"os"

	"github.com/solatis/enigma/cmd/enigma/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
