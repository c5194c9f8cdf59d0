// Package bridge connects a simulated device to byte streams outside the
// process.
package bridge

import (
	"context"
	"errors"
	"io"

	"github.com/golang/glog"

	"github.com/robotalks/uart.go/pkg/device"
	fx "github.com/robotalks/uart.go/pkg/framework"
)

// DefaultBufferSize is the read size used when Bridge.BufferSize is zero.
const DefaultBufferSize = 256

// ErrNoLoop indicates a bridge is run outside a Loop.
var ErrNoLoop = errors.New("bridge: no loop in context")

// Bridge pumps bytes between a Device and a stream. Bytes read from the
// stream are posted to the Loop as device.InputMsg, bytes decoded from the
// device are written to the stream.
type Bridge struct {
	Stream     io.ReadWriter
	BufferSize int

	name string
}

// New creates a Bridge.
func New(name string, stream io.ReadWriter) *Bridge {
	return &Bridge{Stream: stream, name: name}
}

// Name implements Named.
func (b *Bridge) Name() string {
	return b.name
}

// Run implements Runnable. A stream implementing io.Closer is closed on
// exit, which also unblocks a pending read when ctx is canceled.
func (b *Bridge) Run(ctx context.Context) error {
	loop := fx.LoopCtlFrom(ctx)
	if loop == nil {
		return ErrNoLoop
	}
	if closer, ok := b.Stream.(io.Closer); ok {
		return fx.RunWithContextCloser(ctx, closer, func() error {
			return b.Pump(loop)
		})
	}
	return b.Pump(loop)
}

// Pump posts everything read from the stream until it ends.
func (b *Bridge) Pump(loop fx.LoopControl) error {
	size := b.BufferSize
	if size <= 0 {
		size = DefaultBufferSize
	}
	buf := make([]byte, size)
	for {
		n, err := b.Stream.Read(buf)
		if n > 0 {
			data := make([]byte, n)
			copy(data, buf)
			glog.V(2).Infof("%s RXD %q", b.name, data)
			loop.PostMessage(&device.InputMsg{Data: data})
			loop.TriggerNext()
		}
		if err == io.EOF {
			glog.Infof("%s closed", b.name)
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// HandleBytes implements device.ByteHandler.
func (b *Bridge) HandleBytes(_ context.Context, p []byte) error {
	glog.V(2).Infof("%s TXD %q", b.name, p)
	_, err := b.Stream.Write(p)
	return err
}
