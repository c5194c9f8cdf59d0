package wave

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteVCD(t *testing.T) {
	txd := record(true, false, false, true)
	txd.Name = "txd"
	led := record(false, false, true, true)
	led.Name = "led"

	var buf bytes.Buffer
	require.NoError(t, WriteVCD(&buf, Timebase{Unit: "10 ns", Scale: 2}, txd, led))
	require.Equal(t, `$timescale 10 ns $end
$scope module top $end
$var wire 1 ! txd $end
$var wire 1 " led $end
$upscope $end
$enddefinitions $end
#0
1!
0"
#2
0!
#4
1"
#6
1!
`, buf.String())
}

func TestVCDID(t *testing.T) {
	require.Equal(t, "!", vcdID(0))
	require.Equal(t, "~", vcdID(93))
	require.Equal(t, `!"`, vcdID(94))
}

func TestClockTimebase(t *testing.T) {
	tests := []struct {
		freq  uint32
		unit  string
		scale uint64
	}{
		{50000000, "10 ns", 2},
		{100000000, "10 ns", 1},
		{1000, "1 ms", 1},
		{1, "1 s", 1},
		{3000000, "1 ps", 333333},
		{1843200, "1 ps", 542535},
		{0, "1 s", 1},
	}
	legal := map[string]bool{}
	for _, u := range vcdUnits {
		legal[u.name] = true
	}
	for _, test := range tests {
		tb := ClockTimebase(test.freq)
		require.Equal(t, Timebase{Unit: test.unit, Scale: test.scale}, tb, "%d Hz", test.freq)
		require.True(t, legal[tb.Unit], "%d Hz", test.freq)
	}
}

func TestWriteVCDZeroScale(t *testing.T) {
	txd := record(true, false)
	txd.Name = "txd"
	var buf bytes.Buffer
	require.NoError(t, WriteVCD(&buf, Timebase{Unit: "1 ns"}, txd))
	require.Contains(t, buf.String(), "#1\n0!\n")
}
