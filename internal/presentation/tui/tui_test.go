package tui

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintBanner(t *testing.T) {
	var out bytes.Buffer
	PrintBanner(&out)

	lines := strings.Split(strings.Trim(out.String(), "\n"), "\n")
	assert.Len(t, lines, len(bannerLines))
	// A buffer is not a terminal: no escape sequences.
	assert.NotContains(t, out.String(), "\x1b[")
}

func TestHyperlink(t *testing.T) {
	got := Hyperlink("GDPR text", "https://gdpr-info.eu")
	assert.Contains(t, got, "https://gdpr-info.eu")
	assert.Contains(t, got, "GDPR text")
	assert.True(t, strings.HasPrefix(got, "\x1b]8;;"))

	assert.Contains(t, Hyperlink("", "/pricing"), "/pricing")
}

func TestNewRenderer(t *testing.T) {
	render := NewRenderer()
	out, err := render("**GDPR** applies to *EU* residents.")
	require.NoError(t, err)
	assert.Contains(t, out, "GDPR")
	assert.Contains(t, out, "residents.")
}

func TestWidth_NotATerminal(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "width")
	require.NoError(t, err)
	defer f.Close()

	assert.False(t, IsTerminal(f))
	assert.Equal(t, defaultWidth, Width(f))
}
