// Package export renders reading history as CSV.
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/SamsonGulma/mini-weather-station-prototype-arduino/internal/data"
)

// Filename is what browsers save an export as.
const Filename = "weather_data.csv"

var header = []string{"time", "temp", "hum", "light"}

// WriteHistory writes a header row and one row per reading, oldest first.
func WriteHistory(w io.Writer, history []data.Reading) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range history {
		e := data.NewHistoryEntry(r)
		row := []string{
			e.Time,
			strconv.FormatFloat(r.Temperature, 'f', -1, 64),
			strconv.FormatFloat(r.Humidity, 'f', -1, 64),
			strconv.Itoa(r.Light),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
