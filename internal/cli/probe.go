// internal/cli/probe.go
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/offlinekit/airlift/pkg/hostinfo"
)

var probeCmd = &cobra.Command{
	Use:   "probe [path]",
	Short: "Print the host capability report",
	Long:  `Inspect the host and print what an installation would see: OS, architecture and free disk space at the given path (default: the temp directory).`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runProbe,
}

func runProbe(cmd *cobra.Command, args []string) error {
	path := os.TempDir()
	if len(args) == 1 {
		path = args[0]
	}

	caps := hostinfo.Probe(path)

	fmt.Printf("OS:         %s\n", caps.OS)
	fmt.Printf("OS version: %s\n", orUnknown(caps.OSVersion))
	fmt.Printf("Arch:       %s\n", caps.Arch)
	fmt.Printf("Free space: %s (at %s)\n", caps.Space, path)
	for _, w := range caps.Warnings {
		fmt.Println(warnStyle.Render("warning: " + w))
	}

	return nil
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
