// Package analysis derives dashboard statistics from reading history.
package analysis

import (
	"math"

	"github.com/SamsonGulma/mini-weather-station-prototype-arduino/internal/data"
)

const (
	TrendRising  = "rising"
	TrendFalling = "falling"
	TrendStable  = "stable"
)

// trendWindow is how many recent samples decide a trend.
const trendWindow = 3

// MetricSummary holds statistics for one metric over the history window.
type MetricSummary struct {
	Current    float64 `json:"current"`
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
	Avg        float64 `json:"avg"`
	ChangeRate float64 `json:"change_rate"`
	Trend      string  `json:"trend"`
	Band       string  `json:"band"`
}

// Summary is the analysis of a history window.
type Summary struct {
	Samples           int           `json:"samples"`
	Temperature       MetricSummary `json:"temp"`
	Humidity          MetricSummary `json:"hum"`
	Light             MetricSummary `json:"light"`
	HumidityDeviation float64       `json:"humidity_deviation"`
	ComfortIndex      int           `json:"comfort_index"`
	Overall           string        `json:"overall"`
	Recommendations   []string      `json:"recommendations"`
	Advisories        []Advisory    `json:"alerts"`
	DailyPeakTemp     float64       `json:"daily_peak_temp"`
	DailyLowTemp      float64       `json:"daily_low_temp"`
	LightPattern      string        `json:"light_pattern"`
}

// Advisory is a dashboard notice derived from current conditions. It is
// unrelated to threshold alerts.
type Advisory struct {
	Level   string `json:"type"` // "warning", "info" or "success"
	Message string `json:"message"`
}

// Summarize computes statistics over history, oldest first.
func Summarize(history []data.Reading) Summary {
	s := Summary{Samples: len(history)}

	temps := values(history, data.MetricTemp)
	hums := values(history, data.MetricHum)
	lights := values(history, data.MetricLight)

	s.Temperature = summarize(temps, temperatureBand, "comfortable")
	s.Humidity = summarize(hums, humidityBand, "comfortable")
	s.Light = summarize(lights, lightBand, "moderate")
	s.HumidityDeviation = stddev(hums, s.Humidity.Avg)
	s.LightPattern = lightPattern(lights)

	if s.Samples == 0 {
		s.ComfortIndex = 75
		s.Overall = overall(s.ComfortIndex)
		s.Recommendations = []string{}
		s.Advisories = []Advisory{}
		return s
	}

	s.ComfortIndex = comfortIndex(s.Temperature.Current, s.Humidity.Current)
	s.Overall = overall(s.ComfortIndex)
	s.Recommendations = recommendations(s.Temperature.Current, s.Humidity.Current, s.Light.Current)
	s.Advisories = advisories(s.Temperature, s.Humidity)
	s.DailyPeakTemp = s.Temperature.Max
	s.DailyLowTemp = s.Temperature.Min
	return s
}

func values(history []data.Reading, m data.Metric) []float64 {
	out := make([]float64, 0, len(history))
	for _, r := range history {
		if v, ok := r.Value(m); ok {
			out = append(out, v)
		}
	}
	return out
}

func summarize(vals []float64, band func(float64) string, emptyBand string) MetricSummary {
	if len(vals) == 0 {
		return MetricSummary{Trend: TrendStable, Band: emptyBand}
	}

	ms := MetricSummary{
		Current: vals[len(vals)-1],
		Min:     math.MaxFloat64,
		Max:     -math.MaxFloat64,
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
		if v < ms.Min {
			ms.Min = v
		}
		if v > ms.Max {
			ms.Max = v
		}
	}
	ms.Avg = sum / float64(len(vals))
	if len(vals) > 1 {
		ms.ChangeRate = vals[len(vals)-1] - vals[len(vals)-2]
	}
	ms.Trend = trend(vals)
	ms.Band = band(ms.Current)
	return ms
}

// trend looks at the slope across the last three samples; a slope under 0.5
// per sample counts as stable.
func trend(vals []float64) string {
	if len(vals) < trendWindow {
		return TrendStable
	}
	recent := vals[len(vals)-trendWindow:]
	slope := (recent[trendWindow-1] - recent[0]) / float64(trendWindow-1)
	switch {
	case math.Abs(slope) < 0.5:
		return TrendStable
	case slope > 0:
		return TrendRising
	default:
		return TrendFalling
	}
}

func stddev(vals []float64, mean float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	acc := 0.0
	for _, v := range vals {
		acc += (v - mean) * (v - mean)
	}
	return math.Sqrt(acc / float64(len(vals)))
}

func temperatureBand(c float64) string {
	switch {
	case c < 16:
		return "cold"
	case c < 20:
		return "cool"
	case c < 26:
		return "comfortable"
	case c < 30:
		return "warm"
	default:
		return "hot"
	}
}

func humidityBand(h float64) string {
	switch {
	case h < 30:
		return "dry"
	case h < 60:
		return "comfortable"
	case h < 80:
		return "humid"
	default:
		return "very_humid"
	}
}

func lightBand(l float64) string {
	switch {
	case l < 100:
		return "dark"
	case l < 300:
		return "dim"
	case l < 600:
		return "moderate"
	case l < 800:
		return "bright"
	default:
		return "very_bright"
	}
}

// comfortIndex scores the current temperature and humidity out of 100.
func comfortIndex(temp, hum float64) int {
	score := 100
	switch {
	case temp < 18 || temp > 28:
		score -= 20
	case temp < 20 || temp > 26:
		score -= 10
	}
	switch {
	case hum < 30 || hum > 70:
		score -= 15
	case hum < 40 || hum > 60:
		score -= 5
	}
	return score
}

func overall(index int) string {
	switch {
	case index >= 85:
		return "excellent"
	case index >= 70:
		return "good"
	case index >= 50:
		return "fair"
	default:
		return "poor"
	}
}

func recommendations(temp, hum, light float64) []string {
	var out []string
	switch {
	case temp > 28:
		out = append(out, "Consider cooling the environment or improving ventilation")
	case temp < 18:
		out = append(out, "Consider heating the environment for better comfort")
	}
	switch {
	case hum > 70:
		out = append(out, "High humidity detected - consider using a dehumidifier")
	case hum < 30:
		out = append(out, "Low humidity detected - consider using a humidifier")
	}
	if light < 200 {
		out = append(out, "Low light levels - consider improving lighting for better visibility")
	}
	if len(out) == 0 {
		out = append(out, "Environmental conditions are optimal")
	}
	return out
}

func advisories(temp, hum MetricSummary) []Advisory {
	var out []Advisory
	switch {
	case temp.Current > 32:
		out = append(out, Advisory{"warning", "High temperature alert - take cooling measures"})
	case temp.Current < 10:
		out = append(out, Advisory{"warning", "Low temperature alert - heating recommended"})
	}
	switch {
	case hum.Current > 85:
		out = append(out, Advisory{"warning", "Very high humidity - risk of condensation"})
	case hum.Current < 20:
		out = append(out, Advisory{"warning", "Very low humidity - may cause discomfort"})
	}
	if temp.Trend == TrendRising && temp.Current > 26 {
		out = append(out, Advisory{"info", "Temperature is rising - monitor for overheating"})
	}
	if hum.Trend == TrendRising && hum.Current > 65 {
		out = append(out, Advisory{"info", "Humidity is increasing - watch for condensation"})
	}
	if len(out) == 0 {
		out = append(out, Advisory{"success", "All environmental parameters are within normal ranges"})
	}
	return out
}

// lightPattern classifies light by its coefficient of variation; fewer than
// ten samples are always consistent.
func lightPattern(lights []float64) string {
	if len(lights) < 10 {
		return "consistent"
	}
	mean := 0.0
	for _, v := range lights {
		mean += v
	}
	mean /= float64(len(lights))
	if mean == 0 {
		return "consistent"
	}
	cv := stddev(lights, mean) / mean
	switch {
	case cv < 0.2:
		return "consistent"
	case cv > 0.5:
		return "variable"
	default:
		return "cyclic"
	}
}
