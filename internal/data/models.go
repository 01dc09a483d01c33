// internal/data/models.go
package data

import "time"

// Metric names a quantity reported by the station.
type Metric string

const (
	MetricTemp   Metric = "temp"
	MetricHum    Metric = "hum"
	MetricLight  Metric = "light"
	MetricMotion Metric = "motion"
)

// ThresholdMetrics is the fixed order in which thresholds are evaluated.
var ThresholdMetrics = []Metric{MetricTemp, MetricHum, MetricLight}

// IsThresholdMetric reports whether m can carry an alert threshold.
func IsThresholdMetric(m Metric) bool {
	for _, tm := range ThresholdMetrics {
		if tm == m {
			return true
		}
	}
	return false
}

// Reading - one timestamped set of sensor values
type Reading struct {
	Temperature float64   `json:"temp"`
	Humidity    float64   `json:"hum"`
	Light       int       `json:"light"`
	Motion      *int      `json:"motion,omitempty"` // only sent by motion-capable boards
	Timestamp   time.Time `json:"timestamp"`
}

// Value returns the reading's value for m as a float.
func (r Reading) Value(m Metric) (float64, bool) {
	switch m {
	case MetricTemp:
		return r.Temperature, true
	case MetricHum:
		return r.Humidity, true
	case MetricLight:
		return float64(r.Light), true
	case MetricMotion:
		if r.Motion == nil {
			return 0, false
		}
		return float64(*r.Motion), true
	}
	return 0, false
}

// TimeOfDayLayout is how history entries render their timestamp.
const TimeOfDayLayout = "15:04:05"

// HistoryEntry is a Reading as served by /history.
type HistoryEntry struct {
	Time string `json:"time"`
	Reading
}

// NewHistoryEntry stamps r with its local time of day.
func NewHistoryEntry(r Reading) HistoryEntry {
	return HistoryEntry{Time: r.Timestamp.Local().Format(TimeOfDayLayout), Reading: r}
}

// Alert - a metric exceeded its configured threshold
type Alert struct {
	Metric    Metric    `json:"type"`
	Value     float64   `json:"value"`
	Timestamp time.Time `json:"timestamp"`
}

// AlertEntry is an Alert as served by /alerts and pushed to subscribers.
type AlertEntry struct {
	Time string `json:"time"`
	Alert
}

// NewAlertEntry stamps a with its local time of day.
func NewAlertEntry(a Alert) AlertEntry {
	return AlertEntry{Time: a.Timestamp.Local().Format(TimeOfDayLayout), Alert: a}
}

// Thresholds maps a metric to the limit above which it raises an alert.
type Thresholds map[Metric]float64

// Clone returns an independent copy of t.
func (t Thresholds) Clone() Thresholds {
	out := make(Thresholds, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// DefaultThresholds are the limits used when nothing is configured.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MetricTemp:  30.0,
		MetricHum:   80.0,
		MetricLight: 800,
	}
}

// Profile is the ordered list of fields a device sends per line.
type Profile []Metric

var (
	BasicProfile  = Profile{MetricTemp, MetricHum, MetricLight}
	MotionProfile = Profile{MetricTemp, MetricHum, MetricLight, MetricMotion}
)

// ProfileFor picks the line layout for a board with or without a motion sensor.
func ProfileFor(motion bool) Profile {
	if motion {
		return MotionProfile
	}
	return BasicProfile
}
