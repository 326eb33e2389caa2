package http

import (
	_ "embed"
	"fmt"
	"net/http"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"github.com/aretw0/guidebot/pkg/domain"
	"github.com/aretw0/guidebot/pkg/intent"
)

//go:embed openapi.yaml
var specYAML []byte

// Graph output formats.
const (
	FormatJSON    = "json"
	FormatMermaid = "mermaid"
)

// GetGraphParams defines parameters for GetGraph.
type GetGraphParams struct {
	Format *string `form:"format,omitempty" json:"format,omitempty"`
}

// TextRequest is the body of POST /classify.
type TextRequest struct {
	Text string `json:"text"`
}

// ReplyRequest is the body of POST /reply. Option takes precedence over Text.
type ReplyRequest struct {
	Text   string `json:"text,omitempty"`
	Option string `json:"option,omitempty"`
}

// Reply is the response of POST /reply.
type Reply struct {
	Classification *intent.Result `json:"classification,omitempty"`
	Node           domain.Node    `json:"node"`
}

// Info is the response of GET /info.
type Info struct {
	App        string `json:"app"`
	Version    string `json:"version"`
	APIVersion string `json:"api_version"`
	Graph      string `json:"graph"`
	Nodes      int    `json:"nodes"`
}

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ServerInterface represents all server handlers.
type ServerInterface interface {
	GetHealth(w http.ResponseWriter, r *http.Request)
	GetInfo(w http.ResponseWriter, r *http.Request)
	GetGraph(w http.ResponseWriter, r *http.Request, params GetGraphParams)
	GetNode(w http.ResponseWriter, r *http.Request, key string)
	Classify(w http.ResponseWriter, r *http.Request)
	Reply(w http.ResponseWriter, r *http.Request)
	SubscribeEvents(w http.ResponseWriter, r *http.Request)
}

// HandlerFromMux registers the API routes of si on r.
func HandlerFromMux(si ServerInterface, r chi.Router) http.Handler {
	r.Get("/health", si.GetHealth)
	r.Get("/info", si.GetInfo)
	r.Get("/graph", func(w http.ResponseWriter, req *http.Request) {
		var params GetGraphParams
		if err := runtime.BindQueryParameter("form", true, false, "format", req.URL.Query(), &params.Format); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid format parameter: %w", err))
			return
		}
		si.GetGraph(w, req, params)
	})
	r.Get("/nodes/{key}", func(w http.ResponseWriter, req *http.Request) {
		var key string
		err := runtime.BindStyledParameterWithOptions("simple", "key", chi.URLParam(req, "key"), &key,
			runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid key parameter: %w", err))
			return
		}
		si.GetNode(w, req, key)
	})
	r.Post("/classify", si.Classify)
	r.Post("/reply", si.Reply)
	r.Get("/events", si.SubscribeEvents)
	return r
}

// rawSpec returns the embedded OpenAPI document.
func rawSpec() ([]byte, error) {
	return specYAML, nil
}

var (
	swaggerOnce sync.Once
	swagger     *openapi3.T
	swaggerErr  error
)

// GetSwagger returns the parsed and validated OpenAPI document.
func GetSwagger() (*openapi3.T, error) {
	swaggerOnce.Do(func() {
		loader := openapi3.NewLoader()
		doc, err := loader.LoadFromData(specYAML)
		if err != nil {
			swaggerErr = fmt.Errorf("error loading spec: %w", err)
			return
		}
		if err := doc.Validate(loader.Context); err != nil {
			swaggerErr = fmt.Errorf("invalid spec: %w", err)
			return
		}
		swagger = doc
	})
	return swagger, swaggerErr
}
