package main

import (
	"bytes"
	"cockpitview/panel"
	"cockpitview/ui/scale"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSize(t *testing.T) {
	r, err := parseSize("1920x1080")
	require.NoError(t, err)
	assert.Equal(t, scale.Resolution{Width: 1920, Height: 1080}, r)

	r, err = parseSize(" 800X600 ")
	require.NoError(t, err)
	assert.Equal(t, scale.Resolution{Width: 800, Height: 600}, r)

	for _, bad := range []string{"", "1920", "x1080", "0x10", "-5x10", "axb", "1920x1080junk", "1920x1080x2", "19 20x1080"} {
		_, err := parseSize(bad)
		assert.Error(t, err, bad)
	}
}

func TestWriteCompute(t *testing.T) {
	var buf bytes.Buffer
	err := writeCompute(&buf, scale.DefaultResolution, 1920, 1200, 0.1)
	require.NoError(t, err)

	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3+len(scale.Policies))
	assert.Contains(t, lines[0], "virtual 1920x1080  window 1920x1200")
	// 1920x1200 is wider in height: contain 1.0, cover 1200/1080.
	assert.Contains(t, lines[2], "contain 1.000000")
	assert.Contains(t, lines[2], "cover 1.111111")
	assert.True(t, strings.HasPrefix(lines[3], "cropTolerant"))
	assert.Contains(t, lines[4], "offset 0.0,60.0")

	assert.Error(t, writeCompute(&buf, scale.DefaultResolution, 0, 100, 0.1))
}

func TestRenderPanel(t *testing.T) {
	reg := panel.DefaultRegistry()
	dir := t.TempDir()

	pngPath := filepath.Join(dir, "console.png")
	require.NoError(t, renderPanel(reg, "console", scale.Resolution{Width: 320, Height: 200}, pngPath))
	f, err := os.Open(pngPath)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 320, img.Bounds().Dx())
	assert.Equal(t, 200, img.Bounds().Dy())

	webpPath := filepath.Join(dir, "radar.webp")
	require.NoError(t, renderPanel(reg, "radar", scale.Resolution{Width: 200, Height: 200}, webpPath))
	info, err := os.Stat(webpPath)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	assert.Error(t, renderPanel(reg, "nope", scale.Resolution{Width: 10, Height: 10}, pngPath))
	assert.Error(t, renderPanel(reg, "mfd", scale.Resolution{Width: 10, Height: 10}, filepath.Join(dir, "mfd.gif")))
}
