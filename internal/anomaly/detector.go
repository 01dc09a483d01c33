// internal/anomaly/detector.go
package anomaly

import (
	"github.com/SamsonGulma/mini-weather-station-prototype-arduino/internal/data"
)

// Check compares a reading against thresholds and returns one alert per
// metric whose value is strictly above its limit, in data.ThresholdMetrics
// order. Metrics without a limit are skipped. Check has no side effects.
func Check(r data.Reading, thresholds data.Thresholds) []data.Alert {
	var alerts []data.Alert

	for _, metric := range data.ThresholdMetrics {
		limit, ok := thresholds[metric]
		if !ok {
			continue
		}
		value, ok := r.Value(metric)
		if !ok {
			continue
		}
		if value > limit {
			alerts = append(alerts, data.Alert{
				Metric:    metric,
				Value:     value,
				Timestamp: r.Timestamp,
			})
		}
	}

	return alerts
}
