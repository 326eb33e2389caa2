package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/guidebot/internal/config"
	"github.com/aretw0/guidebot/internal/logging"
)

func testConfig() config.Config {
	return config.Config{LogLevel: "error", Addr: ":0", MaxInputSize: 4096}
}

func TestNewEngine(t *testing.T) {
	eng, err := NewEngine(testConfig(), logging.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "catalog", eng.Name)

	cfg := testConfig()
	cfg.GraphDir = filepath.Join(t.TempDir(), "missing")
	_, err = NewEngine(cfg, logging.NewNop())
	assert.ErrorContains(t, err, "graph directory")

	file := filepath.Join(t.TempDir(), "file.md")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))
	cfg.GraphDir = file
	_, err = NewEngine(cfg, logging.NewNop())
	assert.ErrorContains(t, err, "not a directory")
}

func TestNewEngine_FallbackMessage(t *testing.T) {
	cfg := testConfig()
	cfg.FallbackMessage = "Pardon?"
	eng, err := NewEngine(cfg, logging.NewNop())
	require.NoError(t, err)

	node, ok := eng.Resolve("fallback")
	require.True(t, ok)
	assert.Equal(t, "Pardon?", node.Message)
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	cfg := testConfig()
	cfg.LogLevel = "loud"
	_, err := NewLogger(cfg)
	assert.Error(t, err)
}

func TestRunChat_Plain(t *testing.T) {
	var out bytes.Buffer
	err := RunChat(context.Background(), ChatOptions{
		Config:  testConfig(),
		Plain:   true,
		BaseURL: "https://example.com",
		In:      strings.NewReader("gdpr\n/open 2\n"),
		Out:     &out,
		Logger:  logging.NewNop(),
	})
	require.NoError(t, err)

	got := out.String()
	assert.Contains(t, got, "Assistant: ")
	assert.Contains(t, got, "[1] Privacy Regulations")
	assert.Contains(t, got, "[navigate] https://example.com/toolkit/checklists")
}

func TestRunChat_JSON(t *testing.T) {
	var out bytes.Buffer
	err := RunChat(context.Background(), ChatOptions{
		Config: testConfig(),
		JSON:   true,
		In:     strings.NewReader(`{"text":"pricing"}` + "\n"),
		Out:    &out,
		Logger: logging.NewNop(),
	})
	require.NoError(t, err)

	dec := json.NewDecoder(&out)
	var types []string
	for dec.More() {
		var ev struct {
			Type string `json:"type"`
		}
		require.NoError(t, dec.Decode(&ev))
		types = append(types, ev.Type)
	}
	assert.Equal(t, "entry", types[0])
	assert.Contains(t, types, "entry")
}

func TestServe(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, ServeOptions{Config: testConfig(), Listener: ln, Logger: logging.NewNop()})
	}()

	base := "http://" + ln.Addr().String()
	require.Eventually(t, func() bool {
		resp, err := http.Get(base + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	resp, err := http.Post(base+"/classify", "application/json", strings.NewReader(`{"text":"gdpr"}`))
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = http.Get(base + "/metrics")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(body), `guidebot_classifications_total{rule="gdpr",target="regulations"} 1`)
	assert.Contains(t, string(body), "go_goroutines")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestDebugHooks_MasksPII(t *testing.T) {
	hooks, err := debugHooks(context.Background(), logging.NewNop())
	require.NoError(t, err)
	assert.Empty(t, hooks, "no log hooks above debug level")

	var buf bytes.Buffer
	hooks, err = debugHooks(context.Background(), logging.NewWithWriter(&buf, slog.LevelDebug))
	require.NoError(t, err)
	require.Len(t, hooks, 1)

	eng, err := NewEngine(testConfig(), logging.NewNop(), hooks...)
	require.NoError(t, err)
	s := eng.NewSession()
	defer s.Close()

	require.True(t, s.SubmitText("gdpr question from jane@example.com"))
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.Flush(ctx))

	assert.Contains(t, buf.String(), "***")
	assert.NotContains(t, buf.String(), "jane@example.com")
}
