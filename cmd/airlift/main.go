package main

import (
	"fmt"
	"os"

	"github.com/offlinekit/airlift"
	"github.com/offlinekit/airlift/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(airlift.ExitCode(err))
	}
}
