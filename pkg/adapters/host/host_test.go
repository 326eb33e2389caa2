package host_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/guidebot/pkg/adapters/host"
	"github.com/aretw0/guidebot/pkg/ports"
)

var (
	_ ports.Visibility = (*host.Toggle)(nil)
	_ ports.Visibility = host.Always{}
	_ ports.Navigator  = (*host.WriterNavigator)(nil)
	_ ports.Navigator  = (*host.Recorder)(nil)
)

func TestToggle(t *testing.T) {
	v := host.NewToggle(false)
	assert.False(t, v.IsOpen())
	v.Show()
	assert.True(t, v.IsOpen())
	v.Close()
	assert.False(t, v.IsOpen())
}

func TestWriterNavigator(t *testing.T) {
	var out bytes.Buffer
	n := host.NewWriterNavigator(&out, host.WithBaseURL("https://example.com/"))

	require.NoError(t, n.Navigate("/toolkit/checklists"))
	require.NoError(t, n.Navigate("pricing"))
	require.NoError(t, n.OpenExternal("https://gdpr-info.eu"))

	assert.Equal(t,
		"[navigate] https://example.com/toolkit/checklists\n[navigate] https://example.com/pricing\n[open] https://gdpr-info.eu\n",
		out.String())
}

func TestOpenExternal_RejectsUnsafeSchemes(t *testing.T) {
	var out bytes.Buffer
	n := host.NewWriterNavigator(&out)
	r := &host.Recorder{}

	for _, raw := range []string{"javascript:alert(1)", "file:///etc/passwd", "/relative"} {
		assert.ErrorIs(t, n.OpenExternal(raw), host.ErrUnsafeURL, raw)
		assert.ErrorIs(t, r.OpenExternal(raw), host.ErrUnsafeURL, raw)
	}
	assert.Empty(t, out.String())
	assert.Empty(t, r.Visits())
}

func TestRecorder(t *testing.T) {
	r := &host.Recorder{}
	require.NoError(t, r.Navigate("/a"))
	require.NoError(t, r.OpenExternal("mailto:dpo@example.com"))

	assert.Equal(t, []host.Visit{{URL: "/a"}, {URL: "mailto:dpo@example.com", External: true}}, r.Visits())
}
