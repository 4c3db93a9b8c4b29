package overlay

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// SnapshotEntry is a directory or a snapshot file in the browser.
type SnapshotEntry struct {
	Name    string
	Path    string
	IsDir   bool
	ModTime time.Time
}

// FileBrowserOverlay lists exported snapshots (*.json) in a directory and
// lets the user pick one to import. Directories can be entered.
type FileBrowserOverlay struct {
	dir           string
	entries       []SnapshotEntry
	selectedIdx   int
	Submitted     bool
	Canceled      bool
	SelectedPath  string
	width, height int
	scrollOffset  int
	message       string    // Feedback message to display
	messageTime   time.Time // When the message was set
	// now dates snapshot ages.
	now func() time.Time
}

// NewFileBrowserOverlay creates a browser rooted at startPath.
func NewFileBrowserOverlay(startPath string) (*FileBrowserOverlay, error) {
	fb := &FileBrowserOverlay{width: 60, height: 20, now: time.Now}
	if err := fb.NavigateToPath(startPath); err != nil {
		return nil, err
	}
	return fb, nil
}

// loadEntries lists dir: the parent link first, then directories, then
// snapshots with the newest first.
func loadEntries(dir string) ([]SnapshotEntry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var dirs, files []SnapshotEntry
	for _, de := range dirEntries {
		name := de.Name()
		// Skip hidden files
		if strings.HasPrefix(name, ".") {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		e := SnapshotEntry{Name: name, Path: filepath.Join(dir, name), IsDir: de.IsDir(), ModTime: info.ModTime()}
		switch {
		case e.IsDir:
			dirs = append(dirs, e)
		case strings.EqualFold(filepath.Ext(name), ".json"):
			files = append(files, e)
		}
	}

	sort.Slice(dirs, func(i, j int) bool { return dirs[i].Name < dirs[j].Name })
	sort.Slice(files, func(i, j int) bool {
		if !files[i].ModTime.Equal(files[j].ModTime) {
			return files[i].ModTime.After(files[j].ModTime)
		}
		return files[i].Name < files[j].Name
	})

	entries := make([]SnapshotEntry, 0, len(dirs)+len(files)+1)
	if parent := filepath.Dir(dir); parent != dir {
		entries = append(entries, SnapshotEntry{Name: "..", Path: parent, IsDir: true})
	}
	entries = append(entries, dirs...)
	return append(entries, files...), nil
}

// NavigateToPath shows the contents of path. A leading ~ is expanded.
func (fb *FileBrowserOverlay) NavigateToPath(path string) error {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		path = filepath.Join(home, path[1:])
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	entries, err := loadEntries(abs)
	if err != nil {
		return err
	}
	fb.dir = abs
	fb.entries = entries
	fb.selectedIdx = 0
	fb.scrollOffset = 0
	return nil
}

// Dir returns the directory being shown.
func (fb *FileBrowserOverlay) Dir() string {
	return fb.dir
}

// Entries returns the listed entries.
func (fb *FileBrowserOverlay) Entries() []SnapshotEntry {
	return fb.entries
}

// SetSize sets the size of the file browser
func (fb *FileBrowserOverlay) SetSize(width, height int) {
	fb.width = width
	fb.height = height
}

// setMessage sets a temporary feedback message
func (fb *FileBrowserOverlay) setMessage(msg string) {
	fb.message = msg
	fb.messageTime = time.Now()
}

// getMessage returns the current message if it's still valid (within 2 seconds)
func (fb *FileBrowserOverlay) getMessage() string {
	if fb.message != "" && time.Since(fb.messageTime) < 2*time.Second {
		return fb.message
	}
	fb.message = ""
	return ""
}

func (fb *FileBrowserOverlay) move(delta int) {
	if len(fb.entries) == 0 {
		return
	}
	fb.selectedIdx = min(max(fb.selectedIdx+delta, 0), len(fb.entries)-1)
	fb.adjustScroll()
}

// HandleKeyPress processes a key press and updates the state accordingly
// Returns true if the overlay should be closed
func (fb *FileBrowserOverlay) HandleKeyPress(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "up", "k":
		fb.move(-1)
	case "down", "j":
		fb.move(1)
	case "g":
		fb.move(-len(fb.entries))
	case "G":
		fb.move(len(fb.entries))
	case "u", "backspace":
		if err := fb.NavigateToPath(filepath.Dir(fb.dir)); err != nil {
			fb.setMessage(err.Error())
		}
	case "enter":
		if len(fb.entries) == 0 {
			return false
		}
		entry := fb.entries[fb.selectedIdx]
		if entry.IsDir {
			if err := fb.NavigateToPath(entry.Path); err != nil {
				fb.setMessage(fmt.Sprintf("cannot open %s: %v", entry.Name, err))
			}
			return false
		}
		fb.SelectedPath = entry.Path
		fb.Submitted = true
		return true
	case "esc":
		fb.Canceled = true
		return true
	}
	return false
}

// adjustScroll adjusts the scroll offset to keep the selected item visible
func (fb *FileBrowserOverlay) adjustScroll() {
	visibleRows := fb.getVisibleRows()
	if visibleRows <= 0 {
		return
	}

	if fb.selectedIdx < fb.scrollOffset {
		fb.scrollOffset = fb.selectedIdx
	} else if fb.selectedIdx >= fb.scrollOffset+visibleRows {
		fb.scrollOffset = fb.selectedIdx - visibleRows + 1
	}
}

// getVisibleRows returns the number of list rows that fit.
func (fb *FileBrowserOverlay) getVisibleRows() int {
	// Title, path, border, padding, help text and message.
	return fb.height - 10
}

// IsSubmitted returns whether a snapshot was picked
func (fb *FileBrowserOverlay) IsSubmitted() bool {
	return fb.Submitted
}

// IsCanceled returns whether the browser was closed without a pick
func (fb *FileBrowserOverlay) IsCanceled() bool {
	return fb.Canceled
}

// GetSelectedPath returns the selected path
func (fb *FileBrowserOverlay) GetSelectedPath() string {
	return fb.SelectedPath
}

// Render renders the file browser overlay
func (fb *FileBrowserOverlay) Render(opts ...WhitespaceOption) string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(1, 2).
		Width(fb.width)

	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("62")).
		Bold(true)

	pathStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666666"))

	selectedStyle := lipgloss.NewStyle().
		Background(lipgloss.Color("62")).
		Foreground(lipgloss.Color("0")).
		Bold(true)

	dirStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888"))

	fileStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#51bd73"))

	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666666"))

	messageStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#F59E0B")).
		Italic(true)

	var content strings.Builder
	content.WriteString(titleStyle.Render("Import Snapshot"))
	content.WriteString("\n")
	content.WriteString(pathStyle.Render(fb.dir))
	content.WriteString("\n\n")

	if len(fb.entries) == 0 {
		content.WriteString(dirStyle.Render("(no snapshots here)"))
		content.WriteString("\n")
	}

	rows := fb.getVisibleRows()
	if rows <= 0 {
		rows = len(fb.entries)
	}
	end := min(fb.scrollOffset+rows, len(fb.entries))
	for i := fb.scrollOffset; i < end; i++ {
		e := fb.entries[i]
		line := e.Name
		lineStyle := fileStyle
		if e.IsDir {
			line += "/"
			lineStyle = dirStyle
		} else {
			line += "  " + e.ModTime.Format("2006-01-02 15:04") + "  " + formatAge(e.ModTime, fb.now())
		}
		if i == fb.selectedIdx {
			lineStyle = selectedStyle
		}
		content.WriteString(lineStyle.Render(line))
		content.WriteString("\n")
	}

	if msg := fb.getMessage(); msg != "" {
		content.WriteString("\n")
		content.WriteString(messageStyle.Render(msg))
	}
	content.WriteString("\n")
	content.WriteString(helpStyle.Render("[Enter] Open/Import  [u] Up  [Esc] Cancel  [↑/↓] Navigate"))

	box := style.Render(content.String())
	if len(opts) == 0 {
		return box
	}
	return lipgloss.Place(lipgloss.Width(box), lipgloss.Height(box), lipgloss.Center, lipgloss.Center, box, opts...)
}
