package websocket

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"

	"github.com/robotalks/uart.go/pkg/bridge"
	"github.com/robotalks/uart.go/pkg/device"
	fx "github.com/robotalks/uart.go/pkg/framework"
)

type chanLoop chan fx.Message

func (l chanLoop) PostMessage(msg fx.Message) { l <- msg }
func (l chanLoop) TriggerNext()               {}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	conn, err := websocket.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), "", srv.URL)
	require.NoError(t, err)
	return conn
}

func TestServerRoundTrip(t *testing.T) {
	loop := make(chanLoop, 4)
	s := NewServer("")
	s.Loop = loop
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	conn := dial(t, srv)
	defer conn.Close()
	require.NoError(t, websocket.Message.Send(conn, []byte("ping")))
	select {
	case msg := <-loop:
		require.Equal(t, []byte("ping"), msg.(*device.InputMsg).Data)
	case <-time.After(5 * time.Second):
		t.Fatal("no message posted")
	}
	require.Equal(t, 1, s.Clients())

	require.NoError(t, s.HandleBytes(context.Background(), []byte("pong")))
	var data []byte
	require.NoError(t, websocket.Message.Receive(conn, &data))
	require.Equal(t, []byte("pong"), data)
}

func TestServerRunWithoutLoop(t *testing.T) {
	require.Equal(t, bridge.ErrNoLoop, NewServer(":0").Run(context.Background()))
}

func TestServerRunCanceled(t *testing.T) {
	s := NewServer("127.0.0.1:0")
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Run(fx.WithLoopCtl(ctx, make(chanLoop, 1)))
	}()
	cancel()
	require.Equal(t, context.Canceled, <-errCh)
}
