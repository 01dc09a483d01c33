// cmd/station/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/SamsonGulma/mini-weather-station-prototype-arduino/internal/alerting"
	"github.com/SamsonGulma/mini-weather-station-prototype-arduino/internal/api"
	"github.com/SamsonGulma/mini-weather-station-prototype-arduino/internal/config"
	"github.com/SamsonGulma/mini-weather-station-prototype-arduino/internal/data"
	"github.com/SamsonGulma/mini-weather-station-prototype-arduino/internal/ingest"
	"github.com/SamsonGulma/mini-weather-station-prototype-arduino/internal/serialport"
	"github.com/SamsonGulma/mini-weather-station-prototype-arduino/internal/storage"
	"github.com/SamsonGulma/mini-weather-station-prototype-arduino/internal/websocket"
)

func main() {
	// --- Configuration ---
	configPath := flag.String("config", ".", "Path to the configuration file directory")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// --- Serial device (startup fails without it) ---
	port, err := serialport.Open(serialport.Params{
		Address:     cfg.Serial.Port,
		BaudRate:    cfg.Serial.BaudRate,
		DataBits:    cfg.Serial.DataBits,
		StopBits:    cfg.Serial.StopBits,
		Parity:      cfg.Serial.Parity,
		ReadTimeout: cfg.Serial.ReadTimeout,
	})
	if err != nil {
		log.Fatalf("Error opening serial device: %v", err)
	}
	log.Printf("Reading sensors from %s at %d baud", cfg.Serial.Port, cfg.Serial.BaudRate)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Initialize Components ---
	store := storage.NewMemoryStore(cfg.Store.HistorySize, cfg.Store.AlertSize, cfg.InitialThresholds())
	hub := websocket.NewHub()
	alerter := alerting.NewAlerter(store, hub)
	loop := ingest.New(store, alerter, ingest.Options{
		Profile:   data.ProfileFor(cfg.Sensor.Motion),
		Publisher: hub,
		IsTimeout: serialport.IsTimeout,
	})

	if cfg.WatchThresholds(func(updates map[string]any) {
		result, err := store.SetThresholds(updates)
		if err != nil {
			log.Printf("Config reload: %v", err)
		}
		log.Printf("Thresholds now %v", result)
	}) {
		log.Printf("Watching config file for threshold changes")
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		hub.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		if err := loop.Run(ctx, port); err != nil {
			log.Printf("Ingestion stopped: %v", err)
		}
	}()

	// --- HTTP Server ---
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: api.SetupRouter(api.NewAPIHandler(store, loop, hub)),
	}
	go func() {
		log.Printf("Starting API server on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Printf("API server error: %v", err)
			stop()
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("API server shutdown: %v", err)
	}

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
		log.Println("Serial device released, station stopped.")
	case <-time.After(cfg.Server.ShutdownTimeout):
		log.Println("Timeout waiting for ingestion to stop")
		os.Exit(1)
	}
}
