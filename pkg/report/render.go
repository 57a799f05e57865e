// pkg/report/render.go
package report

import (
	"fmt"
	"strings"
	"time"
)

// Render turns a report into plain text. It is a pure function: same
// report in, same text out, no I/O.
func Render(r *InstallationReport) string {
	var b strings.Builder

	title := "airlift installation report"
	if r.DryRun {
		title = "airlift installation plan (dry run)"
	}
	fmt.Fprintf(&b, "%s\n%s\n", title, strings.Repeat("=", len(title)))

	fmt.Fprintf(&b, "status:    %s\n", r.Status)
	fmt.Fprintf(&b, "target:    %s\n", r.Target)
	if r.Installer != "" {
		fmt.Fprintf(&b, "installer: %s\n", r.Installer)
	}
	if r.Host != nil {
		fmt.Fprintf(&b, "host:      %s\n", r.Host)
	}
	if r.Elapsed > 0 {
		fmt.Fprintf(&b, "elapsed:   %s\n", r.Elapsed.Round(10*time.Millisecond))
	}

	installed, failed, planned := Counts(r.Packages)
	switch {
	case r.DryRun:
		fmt.Fprintf(&b, "packages:  %d planned\n", planned)
	default:
		fmt.Fprintf(&b, "packages:  %d installed, %d failed (%d total)\n",
			installed, failed, len(r.Packages))
	}
	for _, o := range r.Packages {
		b.WriteString("  " + renderOutcome(o) + "\n")
	}

	if len(r.Checks) > 0 {
		b.WriteString("verification:\n")
		for _, c := range r.Checks {
			mark := "ok "
			if !c.OK {
				mark = "warn"
			}
			fmt.Fprintf(&b, "  [%s] %s", mark, c.Name)
			if c.Detail != "" {
				fmt.Fprintf(&b, ": %s", c.Detail)
			}
			b.WriteString("\n")
		}
	}

	if len(r.Warnings) > 0 {
		b.WriteString("warnings:\n")
		for _, w := range r.Warnings {
			fmt.Fprintf(&b, "  - %s\n", w)
		}
	}

	if r.LogPath != "" {
		fmt.Fprintf(&b, "log:       %s\n", r.LogPath)
	}

	return b.String()
}

func renderOutcome(o PackageOutcome) string {
	name := o.Name
	if o.Version != "" {
		name += " " + o.Version
	}

	switch o.Status {
	case OutcomeInstalled:
		return fmt.Sprintf("+ %-30s via %s", name, o.Manager)
	case OutcomePlanned:
		return fmt.Sprintf("~ %-30s planned", name)
	default:
		line := fmt.Sprintf("! %-30s FAILED", name)
		if o.Detail != "" {
			line += " (" + o.Detail + ")"
		}
		return line
	}
}
