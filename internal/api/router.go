package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func SetupRouter(apiHandler *APIHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/data", apiHandler.HandleData)
	r.Get("/history", apiHandler.HandleHistory)
	r.Get("/alerts", apiHandler.HandleAlerts)
	r.Get("/thresholds", apiHandler.HandleGetThresholds)
	r.Post("/thresholds", apiHandler.HandleSetThresholds)
	r.Get("/export", apiHandler.HandleExport)
	r.Get("/stats", apiHandler.HandleStats)
	r.Get("/status", apiHandler.HandleStatus)
	r.Get("/ws", apiHandler.HandleWebSocket)

	return r
}
