package bridge

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/uart.go/pkg/device"
	fx "github.com/robotalks/uart.go/pkg/framework"
)

type recordingLoop struct {
	msgs     []fx.Message
	triggers int
}

func (l *recordingLoop) PostMessage(msg fx.Message) { l.msgs = append(l.msgs, msg) }
func (l *recordingLoop) TriggerNext()               { l.triggers++ }

func (l *recordingLoop) data() []string {
	var res []string
	for _, msg := range l.msgs {
		res = append(res, string(msg.(*device.InputMsg).Data))
	}
	return res
}

type stream struct {
	io.Reader
	io.Writer
}

type closingStream struct {
	*io.PipeReader
	io.Writer
}

func TestBridgePump(t *testing.T) {
	tests := []struct {
		name  string
		size  int
		input string
		msgs  []string
	}{
		{"chunked", 2, "hello", []string{"he", "ll", "o"}},
		{"default size", 0, "hello", []string{"hello"}},
		{"empty", 4, "", nil},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			b := New("test", stream{Reader: strings.NewReader(test.input)})
			b.BufferSize = test.size
			loop := &recordingLoop{}
			require.NoError(t, b.Pump(loop))
			require.Equal(t, test.msgs, loop.data())
			require.Equal(t, len(test.msgs), loop.triggers)
		})
	}
}

func TestBridgeHandleBytes(t *testing.T) {
	var out bytes.Buffer
	b := New("test", stream{Writer: &out})
	require.Equal(t, "test", b.Name())
	require.NoError(t, b.HandleBytes(context.Background(), []byte("ab")))
	require.NoError(t, b.HandleBytes(context.Background(), []byte("c")))
	require.Equal(t, "abc", out.String())
}

func TestBridgeRunWithoutLoop(t *testing.T) {
	b := New("test", stream{Reader: strings.NewReader("x")})
	require.Equal(t, ErrNoLoop, b.Run(context.Background()))
}

func TestBridgeRunReadError(t *testing.T) {
	errBroken := errors.New("broken")
	pr, pw := io.Pipe()
	pw.CloseWithError(errBroken)
	b := New("test", closingStream{PipeReader: pr})
	ctx := fx.WithLoopCtl(context.Background(), &recordingLoop{})
	require.Equal(t, errBroken, b.Run(ctx))
}

func TestBridgeRunCanceled(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	b := New("test", closingStream{PipeReader: pr})
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- b.Run(fx.WithLoopCtl(ctx, &recordingLoop{}))
	}()
	cancel()
	require.Equal(t, context.Canceled, <-errCh)
}
