package main

import (
	"os"

	"github.com/qaforge/qaforge/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
