// pkg/hostinfo/diskspace.go
package hostinfo

import (
	"os/exec"
	"strconv"
	"strings"
)

// strategy is one way of asking the host's df tool for free space.
// Strategies are tried in order; the first one whose invocation
// succeeds and whose output parses wins.
type strategy struct {
	name  string
	args  []string
	parse func(output string) (uint64, bool)
}

var spaceStrategies = []strategy{
	// GNU coreutils: a single bare byte count.
	{name: "gnu-df-bytes", args: []string{"-B1", "--output=avail"}, parse: parseAvailColumn},
	// POSIX portable layout: available KiB in the fourth column.
	{name: "posix-df-kib", args: []string{"-Pk"}, parse: parseTabularKiB},
	// Plain df -k for hosts whose df rejects -P (busybox and friends);
	// the device column may wrap onto its own line.
	{name: "plain-df-kib", args: []string{"-k"}, parse: parseWrappedKiB},
}

// runDF invokes the host df tool. Overridable in tests.
var runDF = func(args []string, path string) (string, error) {
	out, err := exec.Command("df", append(args, path)...).Output()
	return string(out), err
}

// FreeSpace measures available bytes at path. Every strategy failing
// means the measurement is unknown, not zero.
func FreeSpace(path string) Space {
	for _, s := range spaceStrategies {
		out, err := runDF(s.args, path)
		if err != nil {
			continue
		}
		if bytes, ok := s.parse(out); ok {
			return KnownSpace(bytes)
		}
	}
	return UnknownSpace()
}

// parseAvailColumn handles `df -B1 --output=avail`:
//
//	       Avail
//	123456789012
func parseAvailColumn(output string) (uint64, bool) {
	lines := nonEmptyLines(output)
	if len(lines) < 2 {
		return 0, false
	}
	n, err := strconv.ParseUint(strings.TrimSpace(lines[len(lines)-1]), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// parseTabularKiB handles the POSIX `df -Pk` layout:
//
//	Filesystem 1024-blocks    Used Available Capacity Mounted on
//	/dev/sda2    488245288 1234567 456789012      12% /
func parseTabularKiB(output string) (uint64, bool) {
	lines := nonEmptyLines(output)
	if len(lines) < 2 {
		return 0, false
	}
	fields := strings.Fields(lines[len(lines)-1])
	if len(fields) < 4 {
		return 0, false
	}
	n, err := strconv.ParseUint(fields[3], 10, 64)
	if err != nil {
		return 0, false
	}
	return n * 1024, true
}

// parseWrappedKiB handles df -k output where a long device name pushes
// the numbers onto the following line:
//
//	Filesystem           1K-blocks      Used Available Use% Mounted on
//	/dev/mapper/vg0-very--long--name
//	                     488245288   1234567 456789012  12% /
func parseWrappedKiB(output string) (uint64, bool) {
	lines := nonEmptyLines(output)
	if len(lines) < 2 {
		return 0, false
	}

	// Re-join wrapped rows: a row holding only the device name gets
	// merged with the numbers on the next line.
	var rows []string
	for i := 1; i < len(lines); i++ {
		row := lines[i]
		if len(strings.Fields(row)) == 1 && i+1 < len(lines) {
			i++
			row += " " + lines[i]
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return 0, false
	}

	fields := strings.Fields(rows[len(rows)-1])
	if len(fields) < 4 {
		return 0, false
	}
	n, err := strconv.ParseUint(fields[3], 10, 64)
	if err != nil {
		return 0, false
	}
	return n * 1024, true
}

func nonEmptyLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
