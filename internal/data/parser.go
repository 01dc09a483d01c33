// internal/data/parser.go
package data

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

var (
	ErrFieldCountMismatch   = errors.New("field count mismatch")
	ErrInvalidNumericFormat = errors.New("invalid numeric format")
)

// ParseError describes why a serial line was rejected.
type ParseError struct {
	Line  string
	Field Metric // empty for field count errors
	Kind  error  // ErrFieldCountMismatch or ErrInvalidNumericFormat
	Err   error
}

func (e *ParseError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("parse %q: %v in field %s: %v", e.Line, e.Kind, e.Field, e.Err)
	}
	return fmt.Sprintf("parse %q: %v: %v", e.Line, e.Kind, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Kind }

// Parse turns one raw serial line ("temp,hum,light[,motion]") into a Reading
// stamped with ts. Nothing is returned unless every field converts.
func Parse(line string, profile Profile, ts time.Time) (Reading, error) {
	trimmed := strings.TrimSpace(line)
	fields := strings.Split(trimmed, ",")
	if len(fields) != len(profile) {
		return Reading{}, &ParseError{
			Line: trimmed,
			Kind: ErrFieldCountMismatch,
			Err:  fmt.Errorf("got %d fields, want %d", len(fields), len(profile)),
		}
	}

	r := Reading{Timestamp: ts}
	for i, metric := range profile {
		raw := strings.TrimSpace(fields[i])
		switch metric {
		case MetricTemp, MetricHum:
			v, err := parseFloat(raw)
			if err != nil {
				return Reading{}, numericError(trimmed, metric, err)
			}
			if metric == MetricTemp {
				r.Temperature = v
			} else {
				r.Humidity = v
			}
		case MetricLight, MetricMotion:
			v, err := strconv.Atoi(raw)
			if err != nil {
				return Reading{}, numericError(trimmed, metric, err)
			}
			if metric == MetricLight {
				r.Light = v
			} else {
				r.Motion = &v
			}
		default:
			return Reading{}, numericError(trimmed, metric, fmt.Errorf("unknown metric"))
		}
	}
	return r, nil
}

func parseFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not a finite number", s)
	}
	return v, nil
}

func numericError(line string, field Metric, err error) *ParseError {
	return &ParseError{Line: line, Field: field, Kind: ErrInvalidNumericFormat, Err: err}
}
