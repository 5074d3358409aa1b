package main

import (
	"os"

	"github.com/Madhumita-crypto/campus-energy-optimizer/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
