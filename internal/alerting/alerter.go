// internal/alerting/alerter.go
package alerting

import (
	"log"

	"github.com/SamsonGulma/mini-weather-station-prototype-arduino/internal/data"
)

// AlertStore keeps alert history.
type AlertStore interface {
	AppendAlert(a data.Alert)
}

// Broadcaster pushes alerts to live subscribers.
type Broadcaster interface {
	BroadcastAlert(alert interface{})
}

type Alerter struct {
	store AlertStore
	hub   Broadcaster // optional
}

func NewAlerter(store AlertStore, hub Broadcaster) *Alerter {
	return &Alerter{store: store, hub: hub}
}

// ProcessAlerts records each alert in the store, then sends it to subscribers.
func (a *Alerter) ProcessAlerts(alerts []data.Alert) {
	if len(alerts) == 0 {
		return
	}

	for _, alert := range alerts {
		log.Printf("ALERT: %s=%.2f exceeds threshold", alert.Metric, alert.Value)
		a.store.AppendAlert(alert)

		if a.hub != nil {
			a.hub.BroadcastAlert(data.NewAlertEntry(alert))
		}
	}
}
