package uart

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTiming(t *testing.T) {
	testCases := []struct {
		name     string
		conf     Config
		bitCnt   uint32
		startCnt uint32
	}{
		{"50MHz 115200", boardConfig, 433, 650},
		{"exact divider", fastConfig, 9, 14},
		{"round up", Config{ClockFrequency: 1000, BaudRate: 300}, 2, 4},
		{"minimal", Config{ClockFrequency: 3, BaudRate: 2}, 1, 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			timing, err := tc.conf.Timing()
			require.NoError(t, err)
			require.Equal(t, tc.bitCnt, timing.BitCnt)
			require.Equal(t, tc.startCnt, timing.StartCnt)
			require.Equal(t, uint64(tc.bitCnt)+1, timing.BitPeriod())
		})
	}
}

func TestTimingInvalid(t *testing.T) {
	testCases := []struct {
		name string
		conf Config
	}{
		{"zero", Config{}},
		{"zero baud", Config{ClockFrequency: 1000}},
		{"equal", Config{ClockFrequency: 9600, BaudRate: 9600}},
		{"baud too high", Config{ClockFrequency: 9600, BaudRate: 115200}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.conf.Timing()
			require.Error(t, err)
			require.True(t, errors.Is(err, ErrInvalidConfig))
			var confErr *ConfigError
			require.True(t, errors.As(err, &confErr))
			require.Equal(t, tc.conf, confErr.Config)
			require.Panics(t, func() { tc.conf.MustTiming() })
		})
	}
}
