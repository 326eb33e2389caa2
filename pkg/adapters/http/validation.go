package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"
)

// requestValidator rejects requests that do not match the OpenAPI document.
// Paths outside the document (metrics, spec, docs) pass through.
func requestValidator(logger *slog.Logger) (func(http.Handler) http.Handler, error) {
	doc, err := GetSwagger()
	if err != nil {
		return nil, err
	}
	router, err := legacy.NewRouter(doc)
	if err != nil {
		return nil, err
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route, pathParams, err := router.FindRoute(r)
			if err != nil {
				if !errors.Is(err, routers.ErrPathNotFound) && !errors.Is(err, routers.ErrMethodNotAllowed) {
					logger.Debug("Route lookup failed", "path", r.URL.Path, "error", err)
				}
				next.ServeHTTP(w, r)
				return
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    r,
				PathParams: pathParams,
				Route:      route,
				Options: &openapi3filter.Options{
					MultiError:         false,
					AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
				},
			}
			if err := openapi3filter.ValidateRequest(r.Context(), input); err != nil {
				logger.Warn("Request rejected by schema", "path", r.URL.Path, "error", err)
				writeError(w, http.StatusBadRequest, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}, nil
}
