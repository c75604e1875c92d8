// internal/server/router.go
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"certification-intake/internal/common/config"
	httpclient "certification-intake/internal/common/http"
	"certification-intake/internal/common/logger"
	"certification-intake/internal/common/observability"
	"certification-intake/internal/form"
	"certification-intake/internal/i18n"
	"certification-intake/internal/relay"
	"certification-intake/internal/web"
)

// ReadinessCheck reports whether one dependency can serve traffic.
type ReadinessCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// Deps are the collaborators built by main.
type Deps struct {
	Config      *config.Config
	Logger      logger.Logger
	Obs         *observability.Observability
	Catalog     *i18n.Catalog
	Issuer      relay.IDIssuer
	Destination relay.Destination
	Readiness   []ReadinessCheck
}

// NewRouter mounts the relay, the form, health probes and /metrics, all
// behind the request ID and access log middleware.
func NewRouter(deps Deps) (http.Handler, error) {
	log := deps.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	cfg := deps.Config

	mux := http.NewServeMux()
	mux.Handle("/api/submit", relay.NewHandler(deps.Issuer, deps.Destination, log.WithFields(map[string]interface{}{
		"component": "relay",
	}), deps.Obs))

	submitter := form.NewSubmitter(
		httpclient.NewClient(config.GetDuration(cfg.Form.RequestTimeout)),
		cfg.Form.RelayURL,
		form.NewTranslator(deps.Catalog),
		log.WithFields(map[string]interface{}{"component": "form"}),
	)
	formHandler, err := web.NewHandler(deps.Catalog, submitter, web.Config{
		DefaultLanguage: i18n.Language(cfg.Form.DefaultLanguage),
		PayloadLanguage: i18n.Language(cfg.Form.PayloadLanguage),
	}, log)
	if err != nil {
		return nil, err
	}
	formHandler.Register(mux)

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, map[string]interface{}{"status": "healthy"})
	})
	mux.HandleFunc("GET /ready", readyHandler(deps.Readiness))
	mux.Handle("GET /metrics", promhttp.Handler())

	return httpclient.Middleware(log, mux), nil
}

func readyHandler(checks []ReadinessCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		failed := map[string]string{}
		for _, c := range checks {
			if err := c.Check(ctx); err != nil {
				failed[c.Name] = err.Error()
			}
		}
		if len(failed) > 0 {
			writeStatus(w, http.StatusServiceUnavailable, map[string]interface{}{
				"status": "not ready",
				"checks": failed,
			})
			return
		}
		writeStatus(w, http.StatusOK, map[string]interface{}{"status": "ready"})
	}
}

func writeStatus(w http.ResponseWriter, status int, body map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
