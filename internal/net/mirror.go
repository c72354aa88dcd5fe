package net

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	FramePath = "/signature.png"
	LivePath  = "/live"

	shutdownTimeout = 2 * time.Second
)

// Mirror serves the pad to read-only viewers: the latest frame over plain
// HTTP and a live PNG stream over a websocket.
type Mirror struct {
	hub      *Hub
	upgrader websocket.Upgrader
	log      *slog.Logger
}

func NewMirror(logger *slog.Logger) *Mirror {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Mirror{
		hub: NewHub(logger),
		upgrader: websocket.Upgrader{
			// Viewers are other machines on the LAN, not pages on this origin.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		log: logger,
	}
}

func (m *Mirror) Hub() *Hub { return m.hub }

// Publish encodes img and sends it to every viewer.
func (m *Mirror) Publish(img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}
	m.hub.Broadcast(buf.Bytes())
	return nil
}

func (m *Mirror) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+FramePath, m.serveFrame)
	mux.HandleFunc("GET "+LivePath, m.serveLive)
	return mux
}

func (m *Mirror) serveFrame(w http.ResponseWriter, r *http.Request) {
	frame := m.hub.Last()
	if frame == nil {
		http.Error(w, "nothing drawn yet", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(frame)
}

func (m *Mirror) serveLive(w http.ResponseWriter, r *http.Request) {
	conn, err := m.upgrader.Upgrade(w, r, nil)
	if err != nil {
		m.log.Warn("websocket upgrade failed", "addr", r.RemoteAddr, "err", err)
		return
	}
	m.hub.Add(conn)
}

// Serve runs the mirror on l until ctx is cancelled.
func (m *Mirror) Serve(ctx context.Context, l net.Listener) error {
	srv := &http.Server{
		Handler:           m.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		m.hub.Close()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		srv.Shutdown(sctx)
	}()

	m.log.Info("mirror listening", "addr", l.Addr().String())
	if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("mirror server: %w", err)
	}
	return nil
}

// ListenAndServe listens on port (all interfaces) and serves until ctx is
// cancelled.
func (m *Mirror) ListenAndServe(ctx context.Context, port int) error {
	l, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return fmt.Errorf("failed to start mirror on port %d: %w", port, err)
	}
	return m.Serve(ctx, l)
}

// Subscribe connects to a mirror at addr (host:port) and calls fn with
// every frame until ctx is cancelled or the host goes away.
func Subscribe(ctx context.Context, addr string, fn func(image.Image)) error {
	url := "ws://" + addr + LivePath
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", addr, err)
	}
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("disconnected from %s: %w", addr, err)
		}
		img, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("bad frame from %s: %w", addr, err)
		}
		fn(img)
	}
}
