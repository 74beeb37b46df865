// Package uart drives the board backlight over a UART link.
//
// Each brightness change is sent as one ASCII line, "BL <duty>\n", where duty
// is the PWM duty for the board's LEDC timer resolution.
package uart

import (
	"context"
	"fmt"
	"sync"

	"go.bug.st/serial"

	"github.com/quentinrf/plant-monitor/services/backlight-service/internal/domain"
)

// DefaultBaudRate matches the board's console UART
const DefaultBaudRate = 115200

// Backlight implements ports.Backlight on top of a serial port
type Backlight struct {
	mu         sync.Mutex
	port       serial.Port
	resolution uint
}

// Open opens the serial device at path and wraps it
func Open(path string, baud int, resolution uint) (*Backlight, error) {
	if baud <= 0 {
		baud = DefaultBaudRate
	}

	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(path, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", path, err)
	}

	return NewBacklight(port, resolution), nil
}

// NewBacklight wraps an already open port. A zero resolution uses the board default.
func NewBacklight(port serial.Port, resolution uint) *Backlight {
	if resolution == 0 {
		resolution = domain.DefaultDutyResolution
	}
	return &Backlight{port: port, resolution: resolution}
}

// Command returns the line sent for level
func (b *Backlight) Command(level domain.BrightnessLevel) string {
	return fmt.Sprintf("BL %d\n", domain.Duty(level, b.resolution))
}

// SetBrightness writes the duty command for level
func (b *Backlight) SetBrightness(ctx context.Context, level domain.BrightnessLevel) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	cmd := b.Command(level)
	n, err := b.port.Write([]byte(cmd))
	if err != nil {
		return fmt.Errorf("write backlight command: %w", err)
	}
	if n != len(cmd) {
		return fmt.Errorf("short backlight write: %d of %d bytes", n, len(cmd))
	}

	return nil
}

// Close closes the serial port
func (b *Backlight) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.port.Close()
}
