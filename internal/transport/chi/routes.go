package chi

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// ServerInterface is the search API surface.
type ServerInterface interface {
	// Search handles GET /search.
	Search(w http.ResponseWriter, r *http.Request, params SearchParams)
	// Classify handles GET /classify.
	Classify(w http.ResponseWriter, r *http.Request, params ClassifyParams)
	// HealthCheck handles GET /health.
	HealthCheck(w http.ResponseWriter, r *http.Request)
	// Metrics handles GET /metrics.
	Metrics(w http.ResponseWriter, r *http.Request)
}

// InvalidParamFormatError reports a query parameter that failed to bind.
type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error { return e.Err }

// ChiServerOptions configures HandlerWithOptions.
type ChiServerOptions struct {
	BaseRouter       chi.Router
	Middlewares      []func(http.Handler) http.Handler
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// HandlerWithOptions mounts the search API routes on options.BaseRouter.
func HandlerWithOptions(si ServerInterface, options ChiServerOptions) http.Handler {
	r := options.BaseRouter
	if r == nil {
		r = chi.NewRouter()
	}
	if options.ErrorHandlerFunc == nil {
		options.ErrorHandlerFunc = func(w http.ResponseWriter, _ *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
	}
	w := &wrapper{handler: si, middlewares: options.Middlewares, errorHandlerFunc: options.ErrorHandlerFunc}

	r.Get("/search", w.search)
	r.Get("/classify", w.classify)
	r.Get("/health", w.healthCheck)
	r.Get("/metrics", w.metrics)
	return r
}

type wrapper struct {
	handler          ServerInterface
	middlewares      []func(http.Handler) http.Handler
	errorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

func (sw *wrapper) serve(w http.ResponseWriter, r *http.Request, h http.Handler) {
	for _, mw := range sw.middlewares {
		h = mw(h)
	}
	h.ServeHTTP(w, r)
}

func (sw *wrapper) search(w http.ResponseWriter, r *http.Request) {
	var params SearchParams
	q := r.URL.Query()

	bindings := []struct {
		name string
		dest any
	}{
		{"q", &params.Q},
		{"mode", &params.Mode},
		{"section", &params.Section},
		{"category", &params.Category},
		{"tag", &params.Tag},
		{"price_min", &params.PriceMin},
		{"price_max", &params.PriceMax},
		{"rows", &params.Rows},
		{"limit", &params.Limit},
	}
	for _, b := range bindings {
		if err := runtime.BindQueryParameter("form", true, false, b.name, q, b.dest); err != nil {
			sw.errorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: b.name, Err: err})
			return
		}
	}

	sw.serve(w, r, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw.handler.Search(w, r, params)
	}))
}

func (sw *wrapper) classify(w http.ResponseWriter, r *http.Request) {
	var params ClassifyParams
	if err := runtime.BindQueryParameter("form", true, false, "q", r.URL.Query(), &params.Q); err != nil {
		sw.errorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "q", Err: err})
		return
	}

	sw.serve(w, r, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw.handler.Classify(w, r, params)
	}))
}

func (sw *wrapper) healthCheck(w http.ResponseWriter, r *http.Request) {
	sw.serve(w, r, http.HandlerFunc(sw.handler.HealthCheck))
}

func (sw *wrapper) metrics(w http.ResponseWriter, r *http.Request) {
	sw.serve(w, r, http.HandlerFunc(sw.handler.Metrics))
}
