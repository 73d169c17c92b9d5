// Package server wires the HTTP handlers into a ServeMux for the GoQuiz
// application via routing helpers.
package server

import "net/http"

// SetupRoutes configures and returns an HTTP ServeMux with all application
// routes: the WebSocket endpoint, the health check, and the static asset
// directory at the root path.
func SetupRoutes(h *Handler, staticDir string) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.WebSocket)
	mux.HandleFunc("/healthz", h.Health)
	mux.Handle("/", http.FileServer(http.Dir(staticDir)))
	return mux
}
