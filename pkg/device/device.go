// Package device attaches a simulated transceiver to the host.
//
// A Device owns a uart.Top together with a host side transmitter driving
// the Top's RxD and a host side receiver decoding its TxD. Host bytes wait
// in an unbounded queue before entering the line, decoded bytes wait until
// read or delivered to a ByteHandler.
//
// A Device is not safe for concurrent use. Other goroutines reach it by
// posting InputMsg to the Loop it was added to.
package device

import (
	"context"
	"fmt"
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/uart.go/pkg/framework"
	"github.com/robotalks/uart.go/pkg/uart"
)

// InputMsg carries bytes to be put on the device RxD line.
type InputMsg struct {
	Data []byte
}

// NewMessage implements Message.
func (m *InputMsg) NewMessage() fx.Message { return &InputMsg{} }

// ByteHandler receives bytes decoded from the device TxD line.
type ByteHandler interface {
	HandleBytes(context.Context, []byte) error
}

// HandleBytesFunc is the func form of ByteHandler.
type HandleBytesFunc func(context.Context, []byte) error

// HandleBytes implements ByteHandler.
func (f HandleBytesFunc) HandleBytes(ctx context.Context, p []byte) error {
	return f(ctx, p)
}

// HandlerMux delivers bytes to every handler.
type HandlerMux struct {
	Handlers []ByteHandler
}

// Add adds handlers.
func (m *HandlerMux) Add(handlers ...ByteHandler) *HandlerMux {
	m.Handlers = append(m.Handlers, handlers...)
	return m
}

// HandleBytes implements ByteHandler.
func (m *HandlerMux) HandleBytes(ctx context.Context, p []byte) error {
	var errs fx.AggregatedError
	for _, h := range m.Handlers {
		errs.Add(h.HandleBytes(ctx, p))
	}
	return errs.Aggregate()
}

// LogHandler logs decoded bytes at verbosity 1.
var LogHandler = HandleBytesFunc(func(_ context.Context, p []byte) error {
	glog.V(1).Infof("TXD %q", p)
	return nil
})

// Stats reports the activity of a Device.
type Stats struct {
	Cycles     uint64 `json:"cycles"`
	BytesIn    uint64 `json:"bytes_in"`
	BytesOut   uint64 `json:"bytes_out"`
	Heartbeats uint64 `json:"heartbeats"`
	Pending    int    `json:"pending"`
	Buffered   int    `json:"buffered"`
}

// Device is a simulated transceiver wired to the host.
type Device struct {
	Handler ByteHandler

	config  uart.Config
	top     *uart.Top
	host    *uart.BufferedTx
	monitor *uart.Rx
	clock   *uart.Clock

	pending []byte
	output  []byte
	led     bool
	stats   Stats

	speed float64
	debt  float64
}

// New creates a Device.
func New(conf uart.Config, mode uart.Mode) (*Device, error) {
	top, err := uart.NewTop(conf, mode)
	if err != nil {
		return nil, err
	}
	d := &Device{
		config:  conf,
		top:     top,
		host:    uart.NewBufferedTx(top.Timing()),
		monitor: uart.NewRx(top.Timing()),
		speed:   1,
	}
	d.clock = uart.NewClock(d)
	return d, nil
}

// Top gets the simulated transceiver.
func (d *Device) Top() *uart.Top {
	return d.top
}

// Clock gets the clock advancing the device.
func (d *Device) Clock() *uart.Clock {
	return d.clock
}

// Config gets the transceiver config.
func (d *Device) Config() uart.Config {
	return d.config
}

// SetSpeed sets simulated seconds per wall clock second used by Advance.
func (d *Device) SetSpeed(speed float64) {
	d.speed = speed
}

// Drive implements uart.Module.
func (d *Device) Drive() {
	d.top.Drive()
	d.host.Drive()
	d.monitor.Drive()
	d.top.RxD = d.host.TxD
	d.monitor.RxD = d.top.TxD
	if in := &d.host.In; len(d.pending) > 0 {
		in.Data, in.Valid = d.pending[0], true
	} else {
		in.Valid = false
	}
	d.monitor.Out.Ready = true
}

// Update implements uart.Module.
func (d *Device) Update() {
	if d.host.In.Fire() {
		d.pending = d.pending[1:]
		d.stats.BytesIn++
	}
	if out := &d.monitor.Out; out.Fire() {
		d.output = append(d.output, out.Data)
		d.stats.BytesOut++
		glog.V(3).Infof("TXD 0x%02x at %d", out.Data, d.clock.Cycle())
	}
	if d.top.LED != d.led {
		d.led = d.top.LED
		d.stats.Heartbeats++
	}
	d.top.Update()
	d.host.Update()
	d.monitor.Update()
}

// Write queues bytes for the device RxD line. It never fails.
func (d *Device) Write(p []byte) (int, error) {
	d.pending = append(d.pending, p...)
	return len(p), nil
}

// Read takes bytes decoded from the device TxD line. It returns 0, nil
// when nothing is buffered.
func (d *Device) Read(p []byte) (int, error) {
	n := copy(p, d.output)
	d.output = d.output[n:]
	if len(d.output) == 0 {
		d.output = nil
	}
	return n, nil
}

// Buffered gets the number of decoded bytes not yet read.
func (d *Device) Buffered() int {
	return len(d.output)
}

// Pending gets the number of host bytes not yet on the line.
func (d *Device) Pending() int {
	return len(d.pending)
}

// Stats gets the statistics.
func (d *Device) Stats() Stats {
	s := d.stats
	s.Cycles = d.clock.Cycle()
	s.Pending = len(d.pending)
	s.Buffered = len(d.output)
	return s
}

// Step advances n ticks.
func (d *Device) Step(n uint64) {
	d.clock.Run(n)
}

// RunBits advances n bit periods.
func (d *Device) RunBits(n uint64) {
	d.clock.Run(n * d.top.Timing().BitPeriod())
}

// WaitSent advances until every queued host byte is on the line, giving up
// after limit ticks.
func (d *Device) WaitSent(limit uint64) bool {
	_, ok := d.clock.RunUntil(func() bool {
		return len(d.pending) == 0 && d.host.Idle()
	}, limit)
	return ok
}

// Advance steps the ticks equivalent to elapsed wall time at the current
// speed, at most one simulated second at once.
func (d *Device) Advance(elapsed time.Duration) uint64 {
	ticks := elapsed.Seconds()*float64(d.config.ClockFrequency)*d.speed + d.debt
	n := uint64(ticks)
	d.debt = ticks - float64(n)
	if max := uint64(float64(d.config.ClockFrequency) * d.speed); n > max {
		glog.V(1).Infof("behind real time, skipping %d ticks", n-max)
		n, d.debt = max, 0
	}
	d.Step(n)
	return n
}

// Deliver passes decoded bytes to Handler. Without a Handler they stay
// buffered for Read. Bytes are dropped when Handler fails, the error
// reports how many.
func (d *Device) Deliver(ctx context.Context) error {
	if d.Handler == nil || len(d.output) == 0 {
		return nil
	}
	out := d.output
	d.output = nil
	if err := d.Handler.HandleBytes(ctx, out); err != nil {
		return fmt.Errorf("dropped %d bytes: %w", len(out), err)
	}
	return nil
}

// AddToLoop implements LoopAdder.
func (d *Device) AddToLoop(l *fx.Loop) {
	l.AddController(fx.PrLvSense, fx.ControlFunc(d.HandleInput))
	l.AddController(fx.PrLvControl, fx.ControlFunc(d.Control))
	l.AddController(fx.PrLvPostProc, fx.ControlFunc(d.Flush))
}

// HandleInput is a controller taking InputMsg.
func (d *Device) HandleInput(cc fx.ControlContext) error {
	cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mctx fx.MessageProcessingContext) {
		if msg, ok := mctx.CurrentMessage().(*InputMsg); ok {
			mctx.MessageTaken()
			d.Write(msg.Data)
		}
	}))
	return nil
}

// Control is a controller advancing the clock with wall time.
func (d *Device) Control(cc fx.ControlContext) error {
	leds := d.stats.Heartbeats
	d.Advance(cc.Elapsed())
	if d.stats.Heartbeats != leds {
		glog.V(1).Infof("heartbeat led=%v cycle=%d", d.led, d.clock.Cycle())
	}
	return nil
}

// Flush is a controller delivering decoded bytes.
func (d *Device) Flush(cc fx.ControlContext) error {
	return d.Deliver(cc.Context())
}
