// internal/storage/memory.go
package storage

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/SamsonGulma/mini-weather-station-prototype-arduino/internal/data"
)

const (
	DefaultHistorySize = 100 // last 100 readings
	DefaultAlertSize   = 50
)

// MemoryStore owns the latest reading, the reading and alert histories and
// the threshold configuration. Every method runs under one lock.
type MemoryStore struct {
	mu         sync.RWMutex
	latest     data.Reading
	history    *fifo[data.Reading]
	alerts     *fifo[data.Alert]
	thresholds data.Thresholds
}

// NewMemoryStore creates a store with the given capacities. Non-positive
// sizes use the defaults; nil thresholds use data.DefaultThresholds.
func NewMemoryStore(historySize, alertSize int, thresholds data.Thresholds) *MemoryStore {
	if historySize <= 0 {
		historySize = DefaultHistorySize
	}
	if alertSize <= 0 {
		alertSize = DefaultAlertSize
	}
	if thresholds == nil {
		thresholds = data.DefaultThresholds()
	}
	return &MemoryStore{
		history:    newFIFO[data.Reading](historySize),
		alerts:     newFIFO[data.Alert](alertSize),
		thresholds: thresholds.Clone(),
	}
}

// UpdateReading makes r the latest reading and appends it to the history.
func (s *MemoryStore) UpdateReading(r data.Reading) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.latest = r
	s.history.push(r)
}

// Latest returns the most recent reading, or the zero Reading before any arrived.
func (s *MemoryStore) Latest() data.Reading {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// History returns a copy of the stored readings, oldest first.
func (s *MemoryStore) History() []data.Reading {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.history.snapshot()
}

// Recent returns a copy of the last n readings, oldest first. n <= 0 or a
// value beyond the stored count returns the whole history.
func (s *MemoryStore) Recent(n int) []data.Reading {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.history.tail(n)
}

// AppendAlert records a, evicting the oldest alert when full.
func (s *MemoryStore) AppendAlert(a data.Alert) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts.push(a)
}

// Alerts returns a copy of the stored alerts, oldest first.
func (s *MemoryStore) Alerts() []data.Alert {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.alerts.snapshot()
}

// Thresholds returns a copy of the current threshold configuration.
func (s *MemoryStore) Thresholds() data.Thresholds {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.thresholds.Clone()
}

// ThresholdUpdateError lists the fields of a threshold update that were
// rejected, keyed by the name the caller supplied.
type ThresholdUpdateError struct {
	Fields map[string]string
}

func (e *ThresholdUpdateError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, e.Fields[name]))
	}
	return "invalid thresholds: " + strings.Join(parts, "; ")
}

// SetThresholds merges updates into the configuration. Values may be numbers
// or numeric strings. Names that are not threshold metrics are ignored.
// Fields that fail validation keep their previous value
// and are reported in a *ThresholdUpdateError; the others are applied. The
// resulting configuration is returned either way.
func (s *MemoryStore) SetThresholds(updates map[string]any) (data.Thresholds, error) {
	accepted := make(data.Thresholds, len(updates))
	rejected := make(map[string]string)
	for name, raw := range updates {
		metric := data.Metric(name)
		if !data.IsThresholdMetric(metric) {
			continue
		}
		v, err := toLimit(raw)
		if err != nil {
			rejected[name] = err.Error()
			continue
		}
		accepted[metric] = v
	}

	s.mu.Lock()
	for m, v := range accepted {
		s.thresholds[m] = v
	}
	result := s.thresholds.Clone()
	s.mu.Unlock()

	if len(rejected) > 0 {
		return result, &ThresholdUpdateError{Fields: rejected}
	}
	return result, nil
}

func toLimit(raw any) (float64, error) {
	var v float64
	switch val := raw.(type) {
	case float64:
		v = val
	case float32:
		v = float64(val)
	case int:
		v = float64(val)
	case int64:
		v = float64(val)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, fmt.Errorf("%q is not a number", val)
		}
		v = f
	case nil:
		return 0, fmt.Errorf("value is missing")
	default:
		return 0, fmt.Errorf("expected a number, got %T", raw)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("value must be finite")
	}
	return v, nil
}
