package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	gwebsocket "github.com/gorilla/websocket" // Alias to avoid name conflict

	"github.com/SamsonGulma/mini-weather-station-prototype-arduino/internal/analysis"
	"github.com/SamsonGulma/mini-weather-station-prototype-arduino/internal/data"
	"github.com/SamsonGulma/mini-weather-station-prototype-arduino/internal/export"
	"github.com/SamsonGulma/mini-weather-station-prototype-arduino/internal/ingest"
	"github.com/SamsonGulma/mini-weather-station-prototype-arduino/internal/storage"
	"github.com/SamsonGulma/mini-weather-station-prototype-arduino/internal/websocket"
)

const maxThresholdBody = 1 << 16

var upgrader = gwebsocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true }, // dashboard may be served from another origin
}

// StatusProvider reports ingestion counters.
type StatusProvider interface {
	Stats() ingest.Stats
}

type APIHandler struct {
	store  *storage.MemoryStore
	status StatusProvider
	hub    *websocket.Hub // nil disables /ws
}

func NewAPIHandler(store *storage.MemoryStore, status StatusProvider, hub *websocket.Hub) *APIHandler {
	return &APIHandler{
		store:  store,
		status: status,
		hub:    hub,
	}
}

// HandleData returns the latest reading.
func (h *APIHandler) HandleData(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Latest())
}

// HandleHistory returns stored readings, oldest first, each with its time of
// day. ?limit=N keeps only the last N; a missing or invalid limit returns all.
func (h *APIHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	history := h.store.Recent(limit)
	entries := make([]data.HistoryEntry, 0, len(history))
	for _, reading := range history {
		entries = append(entries, data.NewHistoryEntry(reading))
	}
	writeJSON(w, http.StatusOK, entries)
}

// HandleAlerts returns stored alerts, oldest first, each with its time of day.
func (h *APIHandler) HandleAlerts(w http.ResponseWriter, r *http.Request) {
	alerts := h.store.Alerts()
	entries := make([]data.AlertEntry, 0, len(alerts))
	for _, alert := range alerts {
		entries = append(entries, data.NewAlertEntry(alert))
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *APIHandler) HandleGetThresholds(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Thresholds())
}

// HandleSetThresholds merges a JSON object of metric -> limit into the
// configuration. Rejected fields are reported with 422 alongside the
// configuration that is now in effect.
func (h *APIHandler) HandleSetThresholds(w http.ResponseWriter, r *http.Request) {
	var updates map[string]any
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxThresholdBody))
	if err := dec.Decode(&updates); err != nil {
		log.Printf("Error decoding thresholds: %v", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "body must be a JSON object of metric to number"})
		return
	}

	result, err := h.store.SetThresholds(updates)
	if err != nil {
		var tue *storage.ThresholdUpdateError
		if errors.As(err, &tue) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
				"errors":     tue.Fields,
				"thresholds": result,
			})
			return
		}
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	log.Printf("Thresholds updated: %v", result)
	writeJSON(w, http.StatusOK, result)
}

// HandleExport serves the history as a CSV attachment.
func (h *APIHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename))
	if err := export.WriteHistory(w, h.store.History()); err != nil {
		log.Printf("Error writing CSV export: %v", err)
	}
}

// HandleStats returns min/max/avg and trends over the history window.
func (h *APIHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, analysis.Summarize(h.store.History()))
}

// HandleStatus exposes the ingestion counters, so a dead device shows up
// even though the loop keeps running.
func (h *APIHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.status.Stats())
}

// HandleWebSocket upgrades connections, queues the current history and
// registers the client with the hub.
func (h *APIHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		http.NotFound(w, r)
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	client := websocket.NewClient(h.hub, conn)
	if err := client.Queue("history", h.store.History()); err != nil {
		log.Printf("Error queueing history for %s: %v", client.ID, err)
	}
	if !h.hub.RegisterClient(client) {
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}
