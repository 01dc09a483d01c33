package alerting

import (
	"testing"
	"time"

	"github.com/SamsonGulma/mini-weather-station-prototype-arduino/internal/data"
	"github.com/SamsonGulma/mini-weather-station-prototype-arduino/internal/storage"
)

type recordingHub struct {
	alerts []interface{}
}

func (h *recordingHub) BroadcastAlert(alert interface{}) { h.alerts = append(h.alerts, alert) }

func TestProcessAlertsStoresAndBroadcasts(t *testing.T) {
	store := storage.NewMemoryStore(0, 0, nil)
	hub := &recordingHub{}
	a := NewAlerter(store, hub)

	ts := time.Date(2025, 6, 1, 7, 45, 0, 0, time.Local)
	a.ProcessAlerts([]data.Alert{
		{Metric: data.MetricTemp, Value: 31, Timestamp: ts},
		{Metric: data.MetricLight, Value: 900},
	})

	stored := store.Alerts()
	if len(stored) != 2 || stored[0].Metric != data.MetricTemp || stored[1].Metric != data.MetricLight {
		t.Errorf("stored alerts: %+v", stored)
	}
	if len(hub.alerts) != 2 {
		t.Fatalf("broadcast count: got %d, want 2", len(hub.alerts))
	}
	entry, ok := hub.alerts[0].(data.AlertEntry)
	if !ok {
		t.Fatalf("broadcast type: got %T, want data.AlertEntry", hub.alerts[0])
	}
	if entry.Time != "07:45:00" || entry.Metric != data.MetricTemp {
		t.Errorf("broadcast entry: %+v", entry)
	}
}

func TestProcessAlertsWithoutHub(t *testing.T) {
	store := storage.NewMemoryStore(0, 0, nil)
	NewAlerter(store, nil).ProcessAlerts([]data.Alert{{Metric: data.MetricHum, Value: 90}})
	if len(store.Alerts()) != 1 {
		t.Errorf("expected one stored alert")
	}
}
