package device

import (
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/golang/glog"

	"github.com/robotalks/uart.go/pkg/uart"
)

// Config defines the configuration of a Device.
type Config struct {
	ClockFrequency uint
	BaudRate       uint
	Mode           string
	// Speed is simulated seconds per wall clock second.
	Speed float64
}

// Defaults
const (
	DefaultClockFrequency uint = 50000000
	DefaultBaudRate       uint = 115200

	// MaxSpeed bounds Config.Speed.
	MaxSpeed = 1e6
)

var defaultConfig = Config{
	ClockFrequency: DefaultClockFrequency,
	BaudRate:       DefaultBaudRate,
	Mode:           uart.ModeSender.String(),
	Speed:          1,
}

func init() {
	if val := os.Getenv("UART_MODE"); val != "" {
		defaultConfig.Mode = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.UintVar(&defaultConfig.ClockFrequency, "clock", defaultConfig.ClockFrequency, "Simulated clock frequency (Hz).")
	flag.UintVar(&defaultConfig.BaudRate, "baud", defaultConfig.BaudRate, "Line rate (bits/s).")
	flag.StringVar(&defaultConfig.Mode, "mode", defaultConfig.Mode, "Transceiver mode: sender or echo.")
	flag.Float64Var(&defaultConfig.Speed, "speed", defaultConfig.Speed, "Simulated seconds per wall clock second.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates the default configuration.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// UARTConfig converts to the transceiver config.
func (c *Config) UARTConfig() (uart.Config, error) {
	if c.ClockFrequency > math.MaxUint32 || c.BaudRate > math.MaxUint32 {
		return uart.Config{}, fmt.Errorf("clock %d Hz or baud %d out of range", c.ClockFrequency, c.BaudRate)
	}
	return uart.Config{ClockFrequency: uint32(c.ClockFrequency), BaudRate: uint32(c.BaudRate)}, nil
}

// NewDevice creates the Device.
func (c *Config) NewDevice() (*Device, error) {
	mode, err := uart.ParseMode(c.Mode)
	if err != nil {
		return nil, err
	}
	if !(c.Speed > 0) || c.Speed > MaxSpeed {
		return nil, fmt.Errorf("speed must be in (0, %v], got %v", MaxSpeed, c.Speed)
	}
	conf, err := c.UARTConfig()
	if err != nil {
		return nil, err
	}
	d, err := New(conf, mode)
	if err != nil {
		return nil, err
	}
	d.SetSpeed(c.Speed)
	return d, nil
}

// MustNewDevice creates the Device and exits on error.
func (c *Config) MustNewDevice() *Device {
	d, err := c.NewDevice()
	if err != nil {
		glog.Exit(err)
	}
	return d
}
