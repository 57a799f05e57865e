// internal/cli/install.go
package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/offlinekit/airlift"
	"github.com/offlinekit/airlift/pkg/plan"
	"github.com/offlinekit/airlift/pkg/report"
	"github.com/offlinekit/airlift/pkg/runlog"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// modeSelection tracks the requested install mode across the three
// mutually exclusive selector flags. pflag calls Set in command-line
// order, so when selectors are repeated the last one wins.
type modeSelection struct {
	mode   plan.Mode
	prefix string
}

// modeFlag is the --user / --system boolean selector.
type modeFlag struct {
	sel  *modeSelection
	mode plan.Mode
}

func (f *modeFlag) String() string { return strconv.FormatBool(f.sel != nil && f.sel.mode == f.mode) }
func (f *modeFlag) Type() string   { return "bool" }

func (f *modeFlag) Set(s string) error {
	on, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	if on {
		f.sel.mode = f.mode
	}
	return nil
}

// prefixFlag is the --prefix selector; giving it a value selects
// custom mode.
type prefixFlag struct {
	sel *modeSelection
}

func (f *prefixFlag) String() string {
	if f.sel == nil {
		return ""
	}
	return f.sel.prefix
}
func (f *prefixFlag) Type() string { return "string" }

func (f *prefixFlag) Set(s string) error {
	f.sel.mode = plan.ModeCustom
	f.sel.prefix = s
	return nil
}

var (
	selection     modeSelection
	installSilent bool
	installForce  bool
	installDryRun bool
)

var installCmd = &cobra.Command{
	Use:   "install [staging-dir]",
	Short: "Install a staged runtime bundle",
	Long: `Install the runtime bundle found in the staging directory
(default: current directory).

Examples:
  airlift install /media/usb/bundle
  airlift install --system /media/usb/bundle
  airlift install --prefix /srv/py311 --silent --force /media/usb/bundle
  airlift install --dry-run /media/usb/bundle`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInstall(args, installDryRun)
	},
}

func init() {
	fl := installCmd.Flags()
	fl.Var(&modeFlag{sel: &selection, mode: plan.ModeUser}, "user", "install into the current user's home directory")
	fl.Lookup("user").NoOptDefVal = "true"
	fl.Var(&modeFlag{sel: &selection, mode: plan.ModeSystem}, "system", "install machine-wide (requires elevated privilege)")
	fl.Lookup("system").NoOptDefVal = "true"
	fl.Var(&prefixFlag{sel: &selection}, "prefix", "install into a custom directory")
	fl.BoolVar(&installSilent, "silent", false, "disable interactive prompts")
	fl.BoolVar(&installForce, "force", false, "replace an existing installation without prompting")
	fl.BoolVar(&installDryRun, "dry-run", false, "print the plan without mutating the host")
}

func runInstall(args []string, dryRun bool) error {
	ctx := context.Background()

	stagingDir := "."
	if len(args) == 1 {
		stagingDir = args[0]
	}

	mode, prefix := resolveModeSelection()

	// The durable log lives next to the bundle so a crash mid-run
	// still leaves a trail where the operator will look.
	log, err := runlog.Open(stagingDir, config.Debug)
	if err != nil {
		fmt.Fprintln(os.Stderr, warnStyle.Render(fmt.Sprintf("warning: %v; continuing without durable log", err)))
		log = runlog.Discard()
	}
	defer log.Close()

	opts := &airlift.Options{
		StagingDir:          stagingDir,
		Mode:                mode,
		Prefix:              prefix,
		Silent:              installSilent,
		Force:               installForce,
		DryRun:              dryRun,
		SpaceThreshold:      uint64(config.SpaceThresholdGiB) << 30,
		AbortOnUnknownSpace: config.OnUnknownDiskSpace == "abort",
		Log:                 log,
	}

	rep, err := airlift.Run(ctx, opts)
	if err != nil {
		if path := log.Path(); path != "" {
			fmt.Fprintln(os.Stderr, dimStyle.Render("log: "+path))
		}
		return err
	}

	fmt.Print(report.Render(rep))
	printSummary(rep)
	return nil
}

// resolveModeSelection folds flags and config into the final mode.
func resolveModeSelection() (plan.Mode, string) {
	if selection.mode != "" {
		return selection.mode, selection.prefix
	}
	switch config.DefaultMode {
	case "system":
		return plan.ModeSystem, ""
	case "custom":
		return plan.ModeCustom, config.InstallPath
	default:
		return plan.ModeUser, ""
	}
}

func printSummary(rep *report.InstallationReport) {
	switch {
	case rep.DryRun:
		fmt.Println(dimStyle.Render("dry run: nothing was installed"))
	case rep.Status == report.StatusSuccess && len(rep.Warnings) == 0:
		fmt.Println(successStyle.Render("installation complete"))
	case rep.Status == report.StatusSuccess:
		fmt.Println(warnStyle.Render("installation complete, with warnings"))
	case rep.Status == report.StatusPartial:
		_, failed, _ := report.Counts(rep.Packages)
		fmt.Println(warnStyle.Render(fmt.Sprintf("installation finished with %d failed package(s)", failed)))
	default:
		fmt.Println(errorStyle.Render("installation failed"))
	}
}
