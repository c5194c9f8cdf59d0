package uart

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig indicates the clock cannot produce the requested baud rate.
var ErrInvalidConfig = errors.New("invalid config")

// ConfigError reports a Config rejected by Timing.
type ConfigError struct {
	Config Config
	Reason string
}

// Error implements error.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("%v: clock %d Hz, baud %d: %s",
		ErrInvalidConfig, e.Config.ClockFrequency, e.Config.BaudRate, e.Reason)
}

// Unwrap allows errors.Is(err, ErrInvalidConfig).
func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

// Config defines the clock and line rate of a transceiver.
type Config struct {
	// ClockFrequency is the tick rate in Hz.
	ClockFrequency uint32
	// BaudRate is the line rate in bits per second.
	BaudRate uint32
}

// Timing holds the divider reload values derived from a Config.
type Timing struct {
	// BitCnt is the number of ticks in one bit period, minus one.
	BitCnt uint32
	// StartCnt is the number of ticks from a detected start edge to the
	// middle of the first data bit, minus one.
	StartCnt uint32
}

// Timing validates the config and derives the divider constants.
func (c Config) Timing() (Timing, error) {
	if c.ClockFrequency == 0 || c.BaudRate == 0 {
		return Timing{}, &ConfigError{Config: c, Reason: "clock frequency and baud rate must be positive"}
	}
	if c.ClockFrequency <= c.BaudRate {
		return Timing{}, &ConfigError{Config: c, Reason: "clock frequency must exceed baud rate"}
	}
	f, b := uint64(c.ClockFrequency), uint64(c.BaudRate)
	return Timing{
		BitCnt:   uint32((f+b/2)/b - 1),
		StartCnt: uint32((3*f/2+b/2)/b - 1),
	}, nil
}

// MustTiming is Timing which panics on error.
func (c Config) MustTiming() Timing {
	t, err := c.Timing()
	if err != nil {
		panic(err)
	}
	return t
}

// BitPeriod is the length of one bit on the line in ticks.
func (t Timing) BitPeriod() uint64 {
	return uint64(t.BitCnt) + 1
}
