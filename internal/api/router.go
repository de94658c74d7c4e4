package api

import (
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/AlexZinkM/webthree/docs"
	"github.com/AlexZinkM/webthree/internal/handler"
)

// SetupRouter sets up router with handlers.
// Everything outside the API, swagger and metrics paths is served from staticDir.
func SetupRouter(sessionHandler *handler.SessionHandler, staticDir string, gatherer prometheus.Gatherer) (http.Handler, error) {
	info, err := os.Stat(staticDir)
	if err != nil {
		return nil, fmt.Errorf("static dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("static dir %s is not a directory", staticDir)
	}

	mux := http.NewServeMux()

	// Swagger UI
	mux.HandleFunc("/swagger/", httpSwagger.WrapHandler)

	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Session endpoints
	mux.HandleFunc("/api/session", sessionHandler.GetSession)
	mux.HandleFunc("/api/session/connect", sessionHandler.Connect)
	mux.HandleFunc("/api/session/refresh", sessionHandler.Refresh)
	mux.HandleFunc("/api/session/qr", sessionHandler.QR)

	// Static site
	mux.Handle("/", http.FileServer(http.Dir(staticDir)))

	return mux, nil
}
