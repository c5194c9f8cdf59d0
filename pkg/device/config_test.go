package device

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/uart.go/pkg/uart"
)

func TestConfigNewDevice(t *testing.T) {
	tests := []struct {
		name string
		conf Config
		mode uart.Mode
		err  bool
	}{
		{"sender", Config{ClockFrequency: 1000, BaudRate: 100, Mode: "sender", Speed: 1}, uart.ModeSender, false},
		{"echo", Config{ClockFrequency: 1000, BaudRate: 100, Mode: "ECHO", Speed: 1}, uart.ModeEcho, false},
		{"bad mode", Config{ClockFrequency: 1000, BaudRate: 100, Mode: "loop", Speed: 1}, 0, true},
		{"bad speed", Config{ClockFrequency: 1000, BaudRate: 100, Mode: "echo"}, 0, true},
		{"infinite speed", Config{ClockFrequency: 1000, BaudRate: 100, Mode: "echo", Speed: math.Inf(1)}, 0, true},
		{"NaN speed", Config{ClockFrequency: 1000, BaudRate: 100, Mode: "echo", Speed: math.NaN()}, 0, true},
		{"negative speed", Config{ClockFrequency: 1000, BaudRate: 100, Mode: "echo", Speed: -1}, 0, true},
		{"speed too high", Config{ClockFrequency: 1000, BaudRate: 100, Mode: "echo", Speed: MaxSpeed * 2}, 0, true},
		{"max speed", Config{ClockFrequency: 1000, BaudRate: 100, Mode: "echo", Speed: MaxSpeed}, uart.ModeEcho, false},
		{"baud too high", Config{ClockFrequency: 100, BaudRate: 100, Mode: "echo", Speed: 1}, 0, true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			d, err := test.conf.NewDevice()
			if test.err {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, test.mode, d.Top().Mode())
			require.EqualValues(t, 10, d.Top().Timing().BitPeriod())
		})
	}
}

func TestConfigDefaults(t *testing.T) {
	conf := NewConfig()
	require.Equal(t, DefaultClockFrequency, conf.ClockFrequency)
	require.Equal(t, DefaultBaudRate, conf.BaudRate)
	require.Equal(t, 1.0, conf.Speed)
	conf.Speed = 3
	require.Equal(t, 1.0, Default().Speed)
}

func TestConfigOutOfRange(t *testing.T) {
	if uint64(^uint(0)) <= math.MaxUint32 {
		t.Skip("uint is 32 bits")
	}
	big := uint64(math.MaxUint32) + 1
	conf := Config{ClockFrequency: uint(big), BaudRate: 100}
	_, err := conf.UARTConfig()
	require.Error(t, err)
}
