// Package debugserver implements --debug-run's optional websocket
// sink: every time the interpreter yields control (a pause or
// program completion), a small JSON status holding the run id and
// whether the program is done is broadcast to any connected client.
// Register contents are not included.
//
// Uses gorilla/websocket for the wire transport rather than an
// in-process channel, since clients connect over the network.
package debugserver

import (
	"encoding/json"
	"log"
	"net"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"vecl/internal/runtime"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Server accepts websocket connections on an ephemeral local port and
// fans out Notify snapshots to every connected client.
type Server struct {
	listener net.Listener
	httpSrv  *http.Server

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

type snapshot struct {
	RunID string `json:"run_id"`
	Done  bool   `json:"done"`
}

// Start binds an ephemeral localhost port and begins serving
// websocket upgrades at /debug.
func Start(ctx *runtime.Context) (*Server, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}
	s := &Server{listener: ln, clients: map[*websocket.Conn]struct{}{}}

	mux := http.NewServeMux()
	mux.HandleFunc("/debug", s.handleUpgrade)
	s.httpSrv = &http.Server{Handler: mux}

	go func() {
		if err := s.httpSrv.Serve(ln); err != nil && err != http.ErrServerClosed {
			log.Printf("debugserver: serve error: %v", err)
		}
	}()
	return s, nil
}

// Addr returns the bound address, e.g. for printing a connect URL.
func (s *Server) Addr() string { return s.listener.Addr().String() }

func (s *Server) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.mu.Lock()
	s.clients[conn] = struct{}{}
	s.mu.Unlock()
}

// Notify broadcasts the current run's state to every connected
// client; called by the interpreter's loop after each yield.
func (s *Server) Notify(ctx *runtime.Context, prog *runtime.Program) {
	msg := snapshot{RunID: ctx.RunID.String(), Done: prog.Done()}
	b, err := json.Marshal(msg)
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.clients {
		if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
			conn.Close()
			delete(s.clients, conn)
		}
	}
}

// Close shuts down the listener and drops every connected client.
func (s *Server) Close() error {
	s.mu.Lock()
	for conn := range s.clients {
		conn.Close()
		delete(s.clients, conn)
	}
	s.mu.Unlock()
	return s.httpSrv.Close()
}
