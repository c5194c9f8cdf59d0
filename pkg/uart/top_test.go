package uart

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/uart.go/pkg/wave"
)

func TestParseMode(t *testing.T) {
	m, err := ParseMode("sender")
	require.NoError(t, err)
	require.Equal(t, ModeSender, m)
	m, err = ParseMode("ECHO")
	require.NoError(t, err)
	require.Equal(t, ModeEcho, m)
	_, err = ParseMode("blink")
	require.Error(t, err)
	require.Equal(t, "echo", ModeEcho.String())
	require.Equal(t, "Mode(7)", Mode(7).String())
}

func TestTopInvalid(t *testing.T) {
	_, err := NewTop(Config{ClockFrequency: 100, BaudRate: 115200}, ModeSender)
	require.True(t, errors.Is(err, ErrInvalidConfig))
	_, err = NewTop(fastConfig, Mode(7))
	require.Error(t, err)
}

func TestTopSender(t *testing.T) {
	top, err := NewTop(fastConfig, ModeSender)
	require.NoError(t, err)
	require.NotNil(t, top.Sender())
	require.Nil(t, top.Echo())
	timing := top.Timing()
	mon := newLineMonitor(timing)
	clk := NewClock(NewGroup(func() { mon.RxD = top.TxD }, top, mon))

	want := Greeting + Greeting + "012"
	_, ok := clk.RunUntil(func() bool { return len(mon.Bytes) == len(want) }, uint64(len(want)+2)*13*timing.BitPeriod())
	require.True(t, ok)
	require.Equal(t, want, string(mon.Bytes))
}

func TestTopEchoIdle(t *testing.T) {
	top, err := NewTop(fastConfig, ModeEcho)
	require.NoError(t, err)
	rec := wave.NewRecorder("txd", func() bool { return top.TxD })
	clk := NewClock(top).AddProbe(rec)
	for n := 0; n < 5000; n++ {
		require.False(t, top.Echo().Rx().Out.Valid)
		clk.Step()
	}
	require.Equal(t, []wave.Edge{{Cycle: 0, Level: true}}, rec.Edges())
}

func TestTopEcho(t *testing.T) {
	top, err := NewTop(fastConfig, ModeEcho)
	require.NoError(t, err)
	timing := top.Timing()
	host := NewBufferedTx(timing)
	src := newByteSource(&host.In, []byte("ping")...)
	mon := newLineMonitor(timing)
	clk := NewClock(NewGroup(func() {
		top.RxD = host.TxD
		mon.RxD = top.TxD
	}, src, host, top, mon))

	_, ok := clk.RunUntil(func() bool { return len(mon.Bytes) == 4 }, 80*timing.BitPeriod())
	require.True(t, ok)
	require.Equal(t, "ping", string(mon.Bytes))
}

func TestHeartbeat(t *testing.T) {
	top, err := NewTop(fastConfig, ModeSender)
	require.NoError(t, err)
	require.Equal(t, uint64(250), top.Heartbeat().Period())
	rec := wave.NewRecorder("led", func() bool { return top.LED })
	NewClock(top).AddProbe(rec).Run(2000)

	edges := rec.Edges()
	require.Len(t, edges, 8)
	for n, e := range edges {
		require.Equal(t, uint64(n)*250, e.Cycle)
		require.Equal(t, n%2 == 1, e.Level)
	}
}

func TestHeartbeatTinyClock(t *testing.T) {
	h := NewHeartbeat(3)
	require.Equal(t, uint64(1), h.Period())
	rec := wave.NewRecorder("led", func() bool { return h.LED })
	NewClock(h).AddProbe(rec).Run(4)
	require.Len(t, rec.Edges(), 4)
}
