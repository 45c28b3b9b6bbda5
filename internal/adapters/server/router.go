package server

import (
	"net/http"

	"github.com/gorilla/mux"

	"home-vault/internal/config"
	"home-vault/internal/metrics"
)

// NewRouter регистрирует маршруты из конфига. health и metrics опциональны: пустой путь их отключает.
func NewRouter(h *Handler, routes config.RoutesConfig, allowedOrigin string) *mux.Router {
	r := mux.NewRouter()
	r.Use(maxBytesMiddleware(h.maxUploadSize), requestIDMiddleware, accessLogMiddleware, corsMiddleware(allowedOrigin))

	r.HandleFunc(routes.List, h.List).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc(routes.Upload, h.Upload).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc(routes.Download, h.Download).Methods(http.MethodGet, http.MethodHead, http.MethodOptions)

	if routes.Health != "" {
		r.HandleFunc(routes.Health, h.Health).Methods(http.MethodGet)
	}
	if routes.Metrics != "" {
		r.Handle(routes.Metrics, metrics.Handler()).Methods(http.MethodGet)
	}

	return r
}
