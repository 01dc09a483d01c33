package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"testing"
	"time"

	"github.com/SamsonGulma/mini-weather-station-prototype-arduino/internal/data"
)

func TestWriteHistory(t *testing.T) {
	base := time.Date(2025, 6, 1, 9, 15, 0, 0, time.Local)
	history := []data.Reading{
		{Temperature: 23.5, Humidity: 60.2, Light: 450, Timestamp: base},
		{Temperature: 24, Humidity: 61, Light: 470, Timestamp: base.Add(2 * time.Second)},
	}

	var buf bytes.Buffer
	if err := WriteHistory(&buf, history); err != nil {
		t.Fatalf("WriteHistory: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("reading back: %v", err)
	}
	want := [][]string{
		{"time", "temp", "hum", "light"},
		{"09:15:00", "23.5", "60.2", "450"},
		{"09:15:02", "24", "61", "470"},
	}
	if len(rows) != len(want) {
		t.Fatalf("rows: got %d, want %d", len(rows), len(want))
	}
	for i := range want {
		for j := range want[i] {
			if rows[i][j] != want[i][j] {
				t.Errorf("row %d col %d: got %q, want %q", i, j, rows[i][j], want[i][j])
			}
		}
	}
}

func TestWriteHistoryEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteHistory(&buf, nil); err != nil {
		t.Fatalf("WriteHistory: %v", err)
	}
	if buf.String() != "time,temp,hum,light\n" {
		t.Errorf("got %q", buf.String())
	}
}

type failingWriter struct {
	writes int
}

var errDisconnected = errors.New("client went away")

func (w *failingWriter) Write(p []byte) (int, error) {
	w.writes++
	return 0, errDisconnected
}

func TestWriteHistoryStopsOnWriteError(t *testing.T) {
	base := time.Date(2025, 6, 1, 9, 15, 0, 0, time.Local)
	// Enough rows to overflow the csv writer's buffer.
	history := make([]data.Reading, 500)
	for i := range history {
		history[i] = data.Reading{Temperature: 21.25, Humidity: 55.5, Light: 512, Timestamp: base}
	}

	w := &failingWriter{}
	err := WriteHistory(w, history)
	if !errors.Is(err, errDisconnected) {
		t.Fatalf("got %v, want %v", err, errDisconnected)
	}
	if w.writes != 1 {
		t.Errorf("underlying writes: got %d, want 1", w.writes)
	}
}
