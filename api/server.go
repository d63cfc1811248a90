/*
server.go - HTTP router and middleware setup

PURPOSE:
  Wires the handlers into a chi router with logging, panic recovery,
  request IDs and CORS. The server itself stays in cmd/server; this
  package only builds the http.Handler.

SEE ALSO:
  - handlers.go: Endpoint implementations
  - cmd/server/main.go: Process entry point
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter assembles the full API surface.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/calc", func(r chi.Router) {
			r.Post("/wire", h.CalculateWire)
			r.Post("/panels/area", h.PackPanels)
			r.Post("/panels/consumption", h.PanelsFromConsumption)
			r.Post("/inverter", h.SizeInverter)
			r.Post("/battery", h.SizeBattery)
			r.Post("/strings", h.ConfigureString)
			r.Post("/strings/advanced", h.ConfigureStringAdvanced)
			r.Post("/tariff", h.ComputeTariff)
			r.Post("/financial", h.RunFinancials)
		})

		r.Post("/design/optimal", h.OptimalDesign)
		r.Post("/assistant/chat", h.Chat)

		r.Get("/locations", h.ListLocations)
		r.Get("/tariffs", h.ListTariffs)
	})

	return r
}
