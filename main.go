package main

import (
	"os"

	"github.com/banditlab/mabsim/cmd"
)

func main() {
	if err := cmd.RootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
