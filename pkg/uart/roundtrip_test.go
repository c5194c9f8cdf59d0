package uart

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	testCases := []struct {
		name string
		conf Config
	}{
		{"fast", fastConfig},
		{"rounded divider", Config{ClockFrequency: 1000, BaudRate: 300}},
		{"board", boardConfig},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			timing := tc.conf.MustTiming()
			tx := NewTx(timing)
			src := newByteSource(&tx.In, allBytes()...)
			mon := newLineMonitor(timing)
			clk := NewClock(NewGroup(func() { mon.RxD = tx.TxD }, src, tx, mon))

			limit := 257 * 13 * timing.BitPeriod()
			_, ok := clk.RunUntil(func() bool { return len(mon.Bytes) == 256 }, limit)
			require.True(t, ok)
			require.True(t, src.done())
			require.Equal(t, allBytes(), mon.Bytes)

			// nothing else shows up on the idle line.
			clk.Run(20 * timing.BitPeriod())
			require.Len(t, mon.Bytes, 256)
		})
	}
}
