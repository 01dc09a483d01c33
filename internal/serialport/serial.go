// Package serialport opens the station's serial device.
package serialport

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/goburrow/serial"
)

// Params describes the serial line the board is attached to.
type Params struct {
	Address     string
	BaudRate    int
	DataBits    int
	StopBits    int
	Parity      string
	ReadTimeout time.Duration
}

// EnsureDefaults fills unset fields with 9600 8N1 and a one second read timeout.
func EnsureDefaults(p *Params) {
	if p.BaudRate == 0 {
		p.BaudRate = 9600
	}
	if p.DataBits == 0 {
		p.DataBits = 8
	}
	if p.StopBits == 0 {
		p.StopBits = 1
	}
	if p.Parity == "" {
		p.Parity = "N"
	}
	if p.ReadTimeout <= 0 {
		p.ReadTimeout = time.Second
	}
}

// Open opens the device. A read that sees no data within ReadTimeout returns
// an error for which IsTimeout is true.
func Open(p Params) (io.ReadCloser, error) {
	EnsureDefaults(&p)
	if p.Address == "" {
		return nil, errors.New("serial port address is required")
	}
	port, err := serial.Open(&serial.Config{
		Address:  p.Address,
		BaudRate: p.BaudRate,
		DataBits: p.DataBits,
		StopBits: p.StopBits,
		Parity:   p.Parity,
		Timeout:  p.ReadTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", p.Address, err)
	}
	return port, nil
}

// IsTimeout reports whether err is an idle read rather than a failure.
func IsTimeout(err error) bool {
	return errors.Is(err, serial.ErrTimeout)
}
