package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/guidebot"
	httpAdapter "github.com/aretw0/guidebot/pkg/adapters/http"
	"github.com/aretw0/guidebot/pkg/domain"
	"github.com/aretw0/guidebot/pkg/intent"
)

func newHandler(t *testing.T, opts ...httpAdapter.Option) http.Handler {
	t.Helper()
	eng, err := guidebot.New("")
	require.NoError(t, err)
	h, err := httpAdapter.NewHandler(eng, append([]httpAdapter.Option{httpAdapter.WithGraphName(eng.Name)}, opts...)...)
	require.NoError(t, err)
	return h
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestGetSwagger(t *testing.T) {
	doc, err := httpAdapter.GetSwagger()
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", doc.Info.Version)
	assert.NotNil(t, doc.Paths.Find("/reply"))
}

func TestHealthAndInfo(t *testing.T) {
	h := newHandler(t, httpAdapter.WithVersion("1.2.3\n"))

	rec := do(t, h, "GET", "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = do(t, h, "GET", "/info", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var info httpAdapter.Info
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, httpAdapter.AppName, info.App)
	assert.Equal(t, "1.2.3", info.Version)
	assert.Equal(t, "1.0.0", info.APIVersion)
	assert.Equal(t, "catalog", info.Graph)
	assert.Greater(t, info.Nodes, 0)
}

func TestGetNode(t *testing.T) {
	h := newHandler(t)

	rec := do(t, h, "GET", "/nodes/welcome", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var node domain.Node
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &node))
	assert.Equal(t, "welcome", node.Key)
	assert.NotEmpty(t, node.Options)

	rec = do(t, h, "GET", "/nodes/fallback", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, "GET", "/nodes/ghost", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "node not found")
}

func TestGetGraph(t *testing.T) {
	h := newHandler(t)

	rec := do(t, h, "GET", "/graph", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var nodes []domain.Node
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &nodes))
	assert.NotEmpty(t, nodes)

	rec = do(t, h, "GET", "/graph?format=mermaid", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "graph TD\n"))
	assert.Contains(t, rec.Body.String(), "input -. \"gdpr\" .-> regulations")

	rec = do(t, h, "GET", "/graph?format=svg", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClassify(t *testing.T) {
	h := newHandler(t)

	rec := do(t, h, "POST", "/classify", `{"text":"Tell me about GDPR"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var res intent.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "regulations", res.Target)
	assert.Equal(t, "gdpr", res.Rule)

	rec = do(t, h, "POST", "/classify", `{"text":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "rejected by schema")

	rec = do(t, h, "POST", "/classify", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClassify_WithoutValidation(t *testing.T) {
	h := newHandler(t, httpAdapter.WithRequestValidation(false), httpAdapter.WithMaxInputSize(8))

	rec := do(t, h, "POST", "/classify", `{"text":"   "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "empty input")

	rec = do(t, h, "POST", "/classify", `{"text":"way more than eight bytes"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "exceeds maximum")
}

func TestReply(t *testing.T) {
	h := newHandler(t)

	rec := do(t, h, "POST", "/reply", `{"text":"xyzzy"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var reply httpAdapter.Reply
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reply))
	require.NotNil(t, reply.Classification)
	assert.True(t, reply.Classification.Fallback)
	assert.Equal(t, domain.FallbackKey, reply.Node.Key)
	assert.NotEmpty(t, reply.Node.Options)

	rec = do(t, h, "POST", "/reply", `{"option":"pricing","text":"ignored"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	reply = httpAdapter.Reply{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reply))
	assert.Nil(t, reply.Classification)
	assert.Equal(t, "pricing", reply.Node.Key)

	rec = do(t, h, "POST", "/reply", `{"option":"ghost"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetricsAndSpec(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("guidebot_sessions_closed_total 0\n"))
	})
	h := newHandler(t, httpAdapter.WithMetricsHandler(metrics))

	rec := do(t, h, "GET", "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "guidebot_sessions_closed_total")

	rec = do(t, h, "GET", "/openapi.yaml", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "title: GuideBot API")
}

func TestSubscribeEvents(t *testing.T) {
	h := newHandler(t)
	rec := do(t, h, "GET", "/events", "")
	assert.Equal(t, http.StatusNotImplemented, rec.Code)

	h = newHandler(t, httpAdapter.WithWatch(func(ctx context.Context) (<-chan string, error) {
		ch := make(chan string, 1)
		ch <- "regulations.md"
		close(ch)
		return ch, nil
	}))
	rec = do(t, h, "GET", "/events", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "event: ping")
	assert.Contains(t, rec.Body.String(), "data: regulations.md")
}

func TestCORSPreflight(t *testing.T) {
	h := newHandler(t)
	rec := do(t, h, "OPTIONS", "/reply", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestClassifiedHook(t *testing.T) {
	var rules []string
	h := newHandler(t, httpAdapter.WithLifecycleHooks(domain.LifecycleHooks{
		OnClassified: func(_ context.Context, e *domain.ClassifiedEvent) { rules = append(rules, e.Rule) },
	}))

	do(t, h, "POST", "/classify", `{"text":"cookie banner"}`)
	do(t, h, "POST", "/reply", `{"text":"nothing matches"}`)
	do(t, h, "POST", "/reply", `{"option":"pricing"}`)

	assert.Equal(t, []string{"consent", "fallback"}, rules)
}
