package main

import (
	"os"

	"github.com/fcasibu/logic-sim/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
