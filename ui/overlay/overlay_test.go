package overlay

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"cockpitview/ui/scale"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestFormatAge(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{10 * time.Second, "just now"},
		{5 * time.Minute, "5m ago"},
		{3 * time.Hour, "3h ago"},
		{4 * 24 * time.Hour, "4d ago"},
		{65 * 24 * time.Hour, "2mo ago"},
		{800 * 24 * time.Hour, "2y ago"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatAge(now.Add(-tt.ago), now), tt.ago.String())
	}
}

func TestPlaceOverlayCenters(t *testing.T) {
	bg := strings.Repeat(".....\n", 4) + "....."
	out := PlaceOverlay(0, 0, "ab\ncd", bg, true)

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, ".....", lines[0])
	assert.Equal(t, ".ab..", lines[1])
	assert.Equal(t, ".cd..", lines[2])
	assert.Equal(t, ".....", lines[3])
}

func TestPlaceOverlayAtPosition(t *testing.T) {
	out := PlaceOverlay(3, 0, "xy", "......\n......", false)
	assert.Equal(t, "...xy.\n......", out)

	// Overlays larger than the background replace it.
	assert.Equal(t, "wide\nwide", PlaceOverlay(0, 0, "wide\nwide", "ab", true))
}

func TestResolutionPickerSkipsUnavailable(t *testing.T) {
	// A 100x100 window is below the minimum, so fullscreen is unavailable.
	p := NewResolutionPickerOverlay(scale.PresetAuto, 100, 100, scale.DefaultResolution)
	assert.Equal(t, scale.PresetAuto, p.Cursor())

	p.HandleKeyPress(key("down"))
	assert.Equal(t, "720p", p.Cursor())
	p.HandleKeyPress(key("up"))
	assert.Equal(t, scale.PresetAuto, p.Cursor())

	// Wraps around to the last option.
	p.HandleKeyPress(key("k"))
	assert.Equal(t, scale.PresetCustom, p.Cursor())

	assert.True(t, p.HandleKeyPress(key("enter")))
	assert.Equal(t, scale.PresetCustom, p.Selected)
	assert.Contains(t, p.Render(), "Virtual Resolution")
}

func TestResolutionPickerStartsOnActive(t *testing.T) {
	p := NewResolutionPickerOverlay("4k", 1920, 1080, scale.Resolution{})
	assert.Equal(t, "4k", p.Cursor())

	assert.True(t, p.HandleKeyPress(key("esc")))
	assert.True(t, p.Dismissed)
	assert.Empty(t, p.Selected)
}

func TestFileBrowserListsSnapshots(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	write := func(name string, age time.Duration) {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte("{}"), 0644))
		require.NoError(t, os.Chtimes(path, now.Add(-age), now.Add(-age)))
	}
	write("old.json", 3*time.Hour)
	write("new.json", 5*time.Minute)
	write("notes.txt", time.Minute)
	write(".hidden.json", time.Minute)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0755))

	fb, err := NewFileBrowserOverlay(dir)
	require.NoError(t, err)
	fb.now = func() time.Time { return now }
	fb.SetSize(120, 30)

	var names []string
	for _, e := range fb.Entries() {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"..", "sub", "new.json", "old.json"}, names)

	out := fb.Render()
	assert.Contains(t, out, "Import Snapshot")
	assert.Contains(t, out, "5m ago")
	assert.Contains(t, out, "3h ago")

	fb.HandleKeyPress(key("G"))
	assert.True(t, fb.HandleKeyPress(key("enter")))
	assert.True(t, fb.IsSubmitted())
	assert.Equal(t, filepath.Join(dir, "old.json"), fb.GetSelectedPath())
}

func TestFileBrowserNavigates(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0755))

	fb, err := NewFileBrowserOverlay(dir)
	require.NoError(t, err)

	fb.HandleKeyPress(key("j"))
	assert.False(t, fb.HandleKeyPress(key("enter")))
	assert.Equal(t, sub, fb.Dir())

	fb.HandleKeyPress(key("u"))
	assert.Equal(t, dir, fb.Dir())

	assert.True(t, fb.HandleKeyPress(key("esc")))
	assert.True(t, fb.IsCanceled())
	assert.False(t, fb.IsSubmitted())
}
