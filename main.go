package main

import (
	"os"

	"github.com/concertbot/concertbot/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
