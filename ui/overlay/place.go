package overlay

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/ansi"
	"github.com/muesli/reflow/truncate"
)

// WhitespaceOption styles the area around a rendered overlay.
type WhitespaceOption = lipgloss.WhitespaceOption

// PlaceOverlay draws fg on top of bg with its top-left corner at (x, y), in
// cells. With center set, x and y are ignored and fg is centered on bg. Both
// strings may contain ANSI styling.
func PlaceOverlay(x, y int, fg, bg string, center bool) string {
	fgLines := strings.Split(fg, "\n")
	bgLines := strings.Split(bg, "\n")

	fgWidth := 0
	for _, l := range fgLines {
		fgWidth = max(fgWidth, ansi.PrintableRuneWidth(l))
	}
	bgWidth := 0
	for _, l := range bgLines {
		bgWidth = max(bgWidth, ansi.PrintableRuneWidth(l))
	}

	if fgWidth >= bgWidth && len(fgLines) >= len(bgLines) {
		return fg
	}
	if center {
		x = max((bgWidth-fgWidth)/2, 0)
		y = max((len(bgLines)-len(fgLines))/2, 0)
	}

	var b strings.Builder
	for i, bgLine := range bgLines {
		if i > 0 {
			b.WriteByte('\n')
		}
		if i < y || i >= y+len(fgLines) {
			b.WriteString(bgLine)
			continue
		}

		pos := 0
		if x > 0 {
			left := truncate.String(bgLine, uint(x))
			pos = ansi.PrintableRuneWidth(left)
			b.WriteString(left)
			if pos < x {
				b.WriteString(strings.Repeat(" ", x-pos))
				pos = x
			}
		}

		fgLine := fgLines[i-y]
		b.WriteString(fgLine)
		pos += ansi.PrintableRuneWidth(fgLine)

		b.WriteString(cutLeft(bgLine, pos))
	}
	return b.String()
}

// cutLeft drops the first cells printable cells of s, keeping any styling
// sequences so the remainder renders the same.
func cutLeft(s string, cells int) string {
	var (
		b      strings.Builder
		inSeq  bool
		width  int
		styles strings.Builder
	)
	for _, r := range s {
		if r == ansi.Marker {
			inSeq = true
		}
		if inSeq {
			if width < cells {
				styles.WriteRune(r)
			} else {
				b.WriteRune(r)
			}
			if ansi.IsTerminator(r) {
				inSeq = false
			}
			continue
		}
		if width >= cells {
			b.WriteRune(r)
			continue
		}
		width += runewidth.RuneWidth(r)
	}
	return styles.String() + b.String()
}
