package harness

import (
	"regexp"
	"strings"

	"github.com/muesli/ansi"
)

var (
	csiRegex = regexp.MustCompile(`\x1b\[[0-9;?]*[a-zA-Z]`)
	oscRegex = regexp.MustCompile(`\x1b\]8;;[^\x1b]*\x1b\\`)
)

// StripANSI removes all ANSI escape codes from a string
func StripANSI(s string) string {
	s = csiRegex.ReplaceAllString(s, "")
	return oscRegex.ReplaceAllString(s, "")
}

// Lines returns the line count of the rendered output
func Lines(s string) int {
	return len(strings.Split(s, "\n"))
}

// Width returns the widest line of the rendered output in cells.
func Width(s string) int {
	w := 0
	for _, line := range strings.Split(s, "\n") {
		w = max(w, ansi.PrintableRuneWidth(line))
	}
	return w
}

// Plain returns the current view without styling and with trailing spaces
// removed from every line.
func (h *Harness) Plain() string {
	lines := strings.Split(StripANSI(h.View()), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
