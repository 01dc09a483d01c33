// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/SamsonGulma/mini-weather-station-prototype-arduino/internal/data"
)

type Config struct {
	Serial struct {
		Port        string        `mapstructure:"port"`
		BaudRate    int           `mapstructure:"baud_rate"`
		DataBits    int           `mapstructure:"data_bits"`
		StopBits    int           `mapstructure:"stop_bits"`
		Parity      string        `mapstructure:"parity"`
		ReadTimeout time.Duration `mapstructure:"read_timeout"`
	} `mapstructure:"serial"`
	Sensor struct {
		Motion bool `mapstructure:"motion"` // board sends a fourth motion field
	} `mapstructure:"sensor"`
	Server struct {
		Port            int           `mapstructure:"port"`
		ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	} `mapstructure:"server"`
	Store struct {
		HistorySize int `mapstructure:"history_size"`
		AlertSize   int `mapstructure:"alert_size"`
	} `mapstructure:"store"`
	Thresholds map[string]float64 `mapstructure:"thresholds"`

	v *viper.Viper
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("serial.port", "/dev/ttyUSB0")
	v.SetDefault("serial.baud_rate", 9600)
	v.SetDefault("serial.data_bits", 8)
	v.SetDefault("serial.stop_bits", 1)
	v.SetDefault("serial.parity", "N")
	v.SetDefault("serial.read_timeout", "1s")
	v.SetDefault("sensor.motion", false)
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.shutdown_timeout", "5s")
	v.SetDefault("store.history_size", 100)
	v.SetDefault("store.alert_size", 50)
	for metric, limit := range data.DefaultThresholds() {
		v.SetDefault("thresholds."+string(metric), limit)
	}
}

// LoadConfig reads config.yaml from path, overlaid with STATION_* environment
// variables. A missing file leaves the defaults in place.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config") // name of config file (without extension)
	v.SetConfigType("yaml")
	v.AddConfigPath(path)
	v.SetEnvPrefix("STATION")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		log.Printf("Warning: no config file in %s, using defaults", path)
	}

	cfg := &Config{v: v}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.Thresholds = thresholdsFrom(v)

	log.Printf("Configuration loaded: serial=%s@%d motion=%v port=%d",
		cfg.Serial.Port, cfg.Serial.BaudRate, cfg.Sensor.Motion, cfg.Server.Port)
	return cfg, nil
}

// thresholdsFrom reads each threshold key individually so environment
// overrides are honoured; Unmarshal only sees keys viper already knows.
func thresholdsFrom(v *viper.Viper) map[string]float64 {
	out := make(map[string]float64, len(data.ThresholdMetrics))
	for _, metric := range data.ThresholdMetrics {
		out[string(metric)] = v.GetFloat64("thresholds." + string(metric))
	}
	return out
}

// InitialThresholds converts the configured limits for the store.
func (c *Config) InitialThresholds() data.Thresholds {
	th := make(data.Thresholds, len(c.Thresholds))
	for name, limit := range c.Thresholds {
		th[data.Metric(name)] = limit
	}
	return th
}

// WatchThresholds calls fn with the file's thresholds every time the config
// file changes. It reports false when no config file is in use.
func (c *Config) WatchThresholds(fn func(map[string]any)) bool {
	if c.v == nil || c.v.ConfigFileUsed() == "" {
		return false
	}
	c.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		log.Printf("Config file changed (%s), reloading thresholds", e.Name)
		updates := make(map[string]any)
		for name, raw := range c.v.GetStringMap("thresholds") {
			updates[name] = raw
		}
		fn(updates)
	})
	c.v.WatchConfig()
	return true
}
