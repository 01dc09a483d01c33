package anomaly

import (
	"reflect"
	"testing"
	"time"

	"github.com/SamsonGulma/mini-weather-station-prototype-arduino/internal/data"
)

var thresholds = data.Thresholds{data.MetricTemp: 30, data.MetricHum: 80, data.MetricLight: 800}

func TestCheckBelowThresholds(t *testing.T) {
	r := data.Reading{Temperature: 23.5, Humidity: 60.2, Light: 450, Timestamp: time.Now()}
	if alerts := Check(r, thresholds); len(alerts) != 0 {
		t.Errorf("expected no alerts, got %+v", alerts)
	}
}

func TestCheckAllExceeded(t *testing.T) {
	ts := time.Date(2025, 6, 1, 15, 0, 0, 0, time.UTC)
	r := data.Reading{Temperature: 31.0, Humidity: 85.0, Light: 900, Timestamp: ts}

	alerts := Check(r, thresholds)
	want := []data.Alert{
		{Metric: data.MetricTemp, Value: 31.0, Timestamp: ts},
		{Metric: data.MetricHum, Value: 85.0, Timestamp: ts},
		{Metric: data.MetricLight, Value: 900, Timestamp: ts},
	}
	if !reflect.DeepEqual(alerts, want) {
		t.Errorf("got %+v, want %+v", alerts, want)
	}
}

func TestCheckEqualIsNotAbove(t *testing.T) {
	r := data.Reading{Temperature: 30, Humidity: 80, Light: 800}
	if alerts := Check(r, thresholds); len(alerts) != 0 {
		t.Errorf("values equal to the limit must not alert, got %+v", alerts)
	}
}

func TestCheckSkipsMissingThreshold(t *testing.T) {
	r := data.Reading{Temperature: 50, Humidity: 99, Light: 1000}
	alerts := Check(r, data.Thresholds{data.MetricLight: 500})
	if len(alerts) != 1 || alerts[0].Metric != data.MetricLight {
		t.Errorf("expected only a light alert, got %+v", alerts)
	}
}

func TestCheckIsPure(t *testing.T) {
	r := data.Reading{Temperature: 35, Humidity: 10, Light: 900, Timestamp: time.Now()}
	th := thresholds.Clone()

	first := Check(r, th)
	second := Check(r, th)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("results differ: %+v vs %+v", first, second)
	}
	if !reflect.DeepEqual(th, thresholds) {
		t.Errorf("thresholds mutated: %+v", th)
	}
}
