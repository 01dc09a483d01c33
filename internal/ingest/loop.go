// Package ingest runs the background reader that turns serial lines into
// readings and alerts.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/SamsonGulma/mini-weather-station-prototype-arduino/internal/anomaly"
	"github.com/SamsonGulma/mini-weather-station-prototype-arduino/internal/data"
)

// State is the loop's current step.
type State int32

const (
	StateWaiting State = iota
	StateParsing
	StateApplying
	StateRecovering
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateWaiting:
		return "waiting"
	case StateParsing:
		return "parsing"
	case StateApplying:
		return "applying"
	case StateRecovering:
		return "recovering"
	case StateStopped:
		return "stopped"
	}
	return "unknown"
}

// ReadingStore receives parsed readings and supplies the current thresholds.
type ReadingStore interface {
	UpdateReading(r data.Reading)
	Thresholds() data.Thresholds
}

// AlertProcessor records alerts produced for a reading.
type AlertProcessor interface {
	ProcessAlerts(alerts []data.Alert)
}

// Publisher pushes applied readings to live subscribers.
type Publisher interface {
	BroadcastData(data interface{})
}

// Options configures a Loop. Zero values are usable.
type Options struct {
	Profile   data.Profile     // defaults to data.BasicProfile
	Publisher Publisher        // optional
	Now       func() time.Time // defaults to time.Now

	// IsTimeout recognises idle reads; they are neither logged nor counted.
	IsTimeout func(error) bool
	// FailurePause is slept after failureBurst consecutive transport errors.
	FailurePause time.Duration
}

const (
	failureBurst = 10
	logEvery     = 100
)

// Loop reads lines from a source until the source ends or its context is
// cancelled. Malformed lines and read errors are counted and skipped.
type Loop struct {
	store   ReadingStore
	alerter AlertProcessor
	opts    Options

	state           atomic.Int32
	linesRead       atomic.Int64
	applied         atomic.Int64
	parseErrors     atomic.Int64
	transportErrors atomic.Int64
	consecutive     atomic.Int64

	mu        sync.Mutex
	lastErr   string
	lastErrAt time.Time
}

func New(store ReadingStore, alerter AlertProcessor, opts Options) *Loop {
	if len(opts.Profile) == 0 {
		opts.Profile = data.BasicProfile
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.IsTimeout == nil {
		opts.IsTimeout = func(error) bool { return false }
	}
	if opts.FailurePause <= 0 {
		opts.FailurePause = 500 * time.Millisecond
	}
	return &Loop{store: store, alerter: alerter, opts: opts}
}

// Run owns src: it is closed when Run returns. Run returns nil when ctx is
// cancelled and an error wrapping io.EOF when the source ends. A serial port
// reports idle reads as timeouts and never ends this way; EOF comes from
// non-serial sources such as files or pipes.
func (l *Loop) Run(ctx context.Context, src io.ReadCloser) error {
	var closeOnce sync.Once
	closeSrc := func() {
		closeOnce.Do(func() {
			if err := src.Close(); err != nil {
				log.Printf("ingest: closing source: %v", err)
			}
		})
	}
	defer closeSrc()
	defer l.setState(StateStopped)

	// Closing the source unblocks a pending read on shutdown.
	stop := context.AfterFunc(ctx, closeSrc)
	defer stop()

	lines := newLineReader(src)
	for {
		if ctx.Err() != nil {
			return nil
		}
		l.setState(StateWaiting)

		line, err := lines.readLine()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, io.EOF) {
				log.Printf("ingest: source closed")
				return fmt.Errorf("ingest: source ended: %w", err)
			}
			if l.opts.IsTimeout(err) {
				continue
			}
			l.transportFailure(ctx, err)
			continue
		}

		l.linesRead.Add(1)
		l.consecutive.Store(0)
		l.handleLine(line)
	}
}

func (l *Loop) handleLine(line string) {
	defer func() {
		if p := recover(); p != nil {
			l.setState(StateRecovering)
			n := l.parseErrors.Add(1)
			l.recordError(fmt.Errorf("panic handling line %q: %v", line, p))
			if shouldLog(n) {
				log.Printf("ingest: recovered from panic on line %q: %v", line, p)
			}
		}
	}()

	l.setState(StateParsing)
	r, err := data.Parse(line, l.opts.Profile, l.opts.Now())
	if err != nil {
		l.setState(StateRecovering)
		n := l.parseErrors.Add(1)
		l.recordError(err)
		if shouldLog(n) {
			log.Printf("ingest: dropping line (%d parse errors so far): %v", n, err)
		}
		return
	}

	l.setState(StateApplying)
	l.store.UpdateReading(r)
	l.alerter.ProcessAlerts(anomaly.Check(r, l.store.Thresholds()))
	if l.opts.Publisher != nil {
		l.opts.Publisher.BroadcastData(r)
	}
	l.applied.Add(1)
}

func (l *Loop) transportFailure(ctx context.Context, err error) {
	l.setState(StateRecovering)
	n := l.transportErrors.Add(1)
	run := l.consecutive.Add(1)
	l.recordError(err)
	if shouldLog(n) {
		log.Printf("ingest: read error (%d so far): %v", n, err)
	}
	// A dead device can fail every read instantly.
	if run%failureBurst == 0 {
		select {
		case <-ctx.Done():
		case <-time.After(l.opts.FailurePause):
		}
	}
}

func (l *Loop) recordError(err error) {
	l.mu.Lock()
	l.lastErr = err.Error()
	l.lastErrAt = l.opts.Now()
	l.mu.Unlock()
}

func (l *Loop) setState(s State) { l.state.Store(int32(s)) }

// State returns the loop's current step.
func (l *Loop) State() State { return State(l.state.Load()) }

func shouldLog(n int64) bool { return n == 1 || n%logEvery == 0 }

// Stats is a point-in-time view of the loop's counters.
type Stats struct {
	State                      string    `json:"state"`
	LinesRead                  int64     `json:"lines_read"`
	ReadingsApplied            int64     `json:"readings_applied"`
	ParseErrors                int64     `json:"parse_errors"`
	TransportErrors            int64     `json:"transport_errors"`
	ConsecutiveTransportErrors int64     `json:"consecutive_transport_errors"`
	LastError                  string    `json:"last_error,omitempty"`
	LastErrorAt                time.Time `json:"last_error_at"`
}

// Stats returns the loop's counters.
func (l *Loop) Stats() Stats {
	l.mu.Lock()
	lastErr, lastAt := l.lastErr, l.lastErrAt
	l.mu.Unlock()

	return Stats{
		State:                      l.State().String(),
		LinesRead:                  l.linesRead.Load(),
		ReadingsApplied:            l.applied.Load(),
		ParseErrors:                l.parseErrors.Load(),
		TransportErrors:            l.transportErrors.Load(),
		ConsecutiveTransportErrors: l.consecutive.Load(),
		LastError:                  lastErr,
		LastErrorAt:                lastAt,
	}
}
