// internal/cli/plan.go
package cli

import (
	"github.com/spf13/cobra"
)

// planCmd is shorthand for install --dry-run: it shares the install
// flags, so `airlift plan --system dir` previews a system install.
var planCmd = &cobra.Command{
	Use:   "plan [staging-dir]",
	Short: "Show what an install would do, without mutating the host",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInstall(args, true)
	},
}

func init() {
	planCmd.Flags().AddFlagSet(installCmd.Flags())
}
