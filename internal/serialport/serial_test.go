package serialport

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/goburrow/serial"
)

func TestEnsureDefaults(t *testing.T) {
	p := Params{Address: "/dev/ttyUSB0"}
	EnsureDefaults(&p)
	if p.BaudRate != 9600 || p.DataBits != 8 || p.StopBits != 1 || p.Parity != "N" || p.ReadTimeout != time.Second {
		t.Errorf("unexpected defaults: %+v", p)
	}

	p = Params{BaudRate: 115200, Parity: "E", ReadTimeout: 250 * time.Millisecond}
	EnsureDefaults(&p)
	if p.BaudRate != 115200 || p.Parity != "E" || p.ReadTimeout != 250*time.Millisecond {
		t.Errorf("explicit values overwritten: %+v", p)
	}
}

func TestOpenRequiresAddress(t *testing.T) {
	if _, err := Open(Params{}); err == nil {
		t.Fatal("expected error for empty address")
	}
}

func TestOpenMissingDevice(t *testing.T) {
	if _, err := Open(Params{Address: "/dev/does-not-exist-station"}); err == nil {
		t.Fatal("expected error for missing device")
	}
}

func TestIsTimeout(t *testing.T) {
	if !IsTimeout(serial.ErrTimeout) {
		t.Error("serial.ErrTimeout should be a timeout")
	}
	if !IsTimeout(fmt.Errorf("read: %w", serial.ErrTimeout)) {
		t.Error("wrapped timeout should be a timeout")
	}
	if IsTimeout(errors.New("input/output error")) {
		t.Error("generic error should not be a timeout")
	}
}
