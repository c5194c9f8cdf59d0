// Package websocket serves a simulated device to websocket clients.
//
// Every binary message from a client goes to the device RxD. Bytes decoded
// from the device TxD are sent to all connected clients.
package websocket

import (
	"context"
	"net/http"
	"sync"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"

	"github.com/robotalks/uart.go/pkg/bridge"
	"github.com/robotalks/uart.go/pkg/device"
	fx "github.com/robotalks/uart.go/pkg/framework"
)

// Server accepts websocket clients.
type Server struct {
	Addr string
	// Loop receives device.InputMsg. It is set by Run when nil.
	Loop fx.LoopControl

	lock  sync.Mutex
	conns map[*websocket.Conn]struct{}
}

// NewServer creates a Server listening on addr.
func NewServer(addr string) *Server {
	return &Server{Addr: addr, conns: make(map[*websocket.Conn]struct{})}
}

// Name implements Named.
func (s *Server) Name() string {
	return "ws:" + s.Addr
}

// Handler gets the http.Handler accepting clients.
func (s *Server) Handler() http.Handler {
	return websocket.Handler(s.serve)
}

// Run implements Runnable.
func (s *Server) Run(ctx context.Context) error {
	if s.Loop == nil {
		if s.Loop = fx.LoopCtlFrom(ctx); s.Loop == nil {
			return bridge.ErrNoLoop
		}
	}
	srv := &http.Server{Addr: s.Addr, Handler: s.Handler()}
	glog.Infof("%s: listening", s.Name())
	return fx.RunWithContextCloser(ctx, srv, srv.ListenAndServe)
}

// Clients gets the number of connected clients.
func (s *Server) Clients() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.conns)
}

func (s *Server) serve(conn *websocket.Conn) {
	conn.PayloadType = websocket.BinaryFrame
	s.lock.Lock()
	s.conns[conn] = struct{}{}
	s.lock.Unlock()
	glog.V(1).Infof("%s: client %s connected", s.Name(), conn.Request().RemoteAddr)
	defer func() {
		s.lock.Lock()
		delete(s.conns, conn)
		s.lock.Unlock()
		glog.V(1).Infof("%s: client %s gone", s.Name(), conn.Request().RemoteAddr)
	}()
	for {
		var data []byte
		if err := websocket.Message.Receive(conn, &data); err != nil {
			return
		}
		if len(data) == 0 || s.Loop == nil {
			continue
		}
		s.Loop.PostMessage(&device.InputMsg{Data: data})
		s.Loop.TriggerNext()
	}
}

// HandleBytes implements device.ByteHandler. A client failing to receive
// is disconnected.
func (s *Server) HandleBytes(_ context.Context, p []byte) error {
	s.lock.Lock()
	conns := make([]*websocket.Conn, 0, len(s.conns))
	for conn := range s.conns {
		conns = append(conns, conn)
	}
	s.lock.Unlock()
	for _, conn := range conns {
		if err := websocket.Message.Send(conn, p); err != nil {
			glog.Warningf("%s: send to %s failed: %v", s.Name(), conn.Request().RemoteAddr, err)
			conn.Close()
		}
	}
	return nil
}
