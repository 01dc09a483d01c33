package data

import (
	"errors"
	"testing"
	"time"
)

var testTime = time.Date(2025, 6, 1, 14, 30, 5, 0, time.Local)

func TestParseValidLines(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		profile Profile
		temp    float64
		hum     float64
		light   int
		motion  *int
	}{
		{"basic", "23.5,60.2,450", BasicProfile, 23.5, 60.2, 450, nil},
		{"crlf", "23.5,60.2,450\r\n", BasicProfile, 23.5, 60.2, 450, nil},
		{"padded", "  -4.25 , 99 ,  0 \n", BasicProfile, -4.25, 99, 0, nil},
		{"motion", "31.0,85.0,900,1", MotionProfile, 31, 85, 900, intPtr(1)},
		{"motion off", "18,40,12,0\n", MotionProfile, 18, 40, 12, intPtr(0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Parse(tt.line, tt.profile, testTime)
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.line, err)
			}
			if r.Temperature != tt.temp || r.Humidity != tt.hum || r.Light != tt.light {
				t.Errorf("got temp=%v hum=%v light=%v, want %v %v %v",
					r.Temperature, r.Humidity, r.Light, tt.temp, tt.hum, tt.light)
			}
			switch {
			case tt.motion == nil && r.Motion != nil:
				t.Errorf("motion: got %d, want none", *r.Motion)
			case tt.motion != nil && (r.Motion == nil || *r.Motion != *tt.motion):
				t.Errorf("motion: got %v, want %d", r.Motion, *tt.motion)
			}
			if !r.Timestamp.Equal(testTime) {
				t.Errorf("timestamp: got %v, want %v", r.Timestamp, testTime)
			}
		})
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		profile Profile
		kind    error
		field   Metric
	}{
		{"two fields", "bad,data", BasicProfile, ErrFieldCountMismatch, ""},
		{"empty", "", BasicProfile, ErrFieldCountMismatch, ""},
		{"four on basic", "1,2,3,4", BasicProfile, ErrFieldCountMismatch, ""},
		{"three on motion", "1,2,3", MotionProfile, ErrFieldCountMismatch, ""},
		{"text temp", "warm,60,450", BasicProfile, ErrInvalidNumericFormat, MetricTemp},
		{"empty hum", "23.5,,450", BasicProfile, ErrInvalidNumericFormat, MetricHum},
		{"float light", "23.5,60,450.5", BasicProfile, ErrInvalidNumericFormat, MetricLight},
		{"nan temp", "NaN,60,450", BasicProfile, ErrInvalidNumericFormat, MetricTemp},
		{"inf hum", "20,+Inf,450", BasicProfile, ErrInvalidNumericFormat, MetricHum},
		{"bad motion", "20,50,450,yes", MotionProfile, ErrInvalidNumericFormat, MetricMotion},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.line, tt.profile, testTime)
			if err == nil {
				t.Fatalf("Parse(%q): expected error", tt.line)
			}
			if !errors.Is(err, tt.kind) {
				t.Errorf("error kind: got %v, want %v", err, tt.kind)
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("expected *ParseError, got %T", err)
			}
			if pe.Field != tt.field {
				t.Errorf("field: got %q, want %q", pe.Field, tt.field)
			}
		})
	}
}

func TestReadingValue(t *testing.T) {
	r := Reading{Temperature: 21.5, Humidity: 40, Light: 300}
	if v, ok := r.Value(MetricLight); !ok || v != 300 {
		t.Errorf("light: got %v (ok=%v)", v, ok)
	}
	if _, ok := r.Value(MetricMotion); ok {
		t.Error("motion should be absent")
	}
	r.Motion = intPtr(1)
	if v, ok := r.Value(MetricMotion); !ok || v != 1 {
		t.Errorf("motion: got %v (ok=%v)", v, ok)
	}
}

func TestHistoryEntryTime(t *testing.T) {
	e := NewHistoryEntry(Reading{Temperature: 20, Timestamp: testTime})
	if e.Time != "14:30:05" {
		t.Errorf("time: got %q, want 14:30:05", e.Time)
	}
	if e.Temperature != 20 {
		t.Errorf("temperature not carried: %+v", e)
	}
}

func intPtr(v int) *int { return &v }
