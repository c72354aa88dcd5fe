package net

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hashicorp/mdns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func frameImage(c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 8, 5))
	for y := 0; y < 5; y++ {
		for x := 0; x < 8; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func dialLive(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + LivePath
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) color.RGBA {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	kind, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, websocket.BinaryMessage, kind)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return color.RGBAModel.Convert(img.At(0, 0)).(color.RGBA)
}

func TestFrameEndpoint(t *testing.T) {
	m := NewMirror(nil)
	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + FramePath)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	red := color.RGBA{R: 255, A: 255}
	require.NoError(t, m.Publish(frameImage(red)))

	resp, err = http.Get(srv.URL + FramePath)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, red, color.RGBAModel.Convert(img.At(3, 3)))
}

func TestLiveViewerGetsLastAndNewFrames(t *testing.T) {
	m := NewMirror(nil)
	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	red := color.RGBA{R: 255, A: 255}
	blue := color.RGBA{B: 255, A: 255}
	require.NoError(t, m.Publish(frameImage(red)))

	conn := dialLive(t, srv)
	assert.Equal(t, red, readFrame(t, conn))

	require.Eventually(t, func() bool { return m.Hub().Count() == 1 }, time.Second, 10*time.Millisecond)
	require.NoError(t, m.Publish(frameImage(blue)))
	assert.Equal(t, blue, readFrame(t, conn))
}

func TestViewerDisconnectIsRemoved(t *testing.T) {
	m := NewMirror(nil)
	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	conn := dialLive(t, srv)
	require.Eventually(t, func() bool { return m.Hub().Count() == 1 }, time.Second, 10*time.Millisecond)

	conn.Close()
	require.Eventually(t, func() bool { return m.Hub().Count() == 0 }, 2*time.Second, 10*time.Millisecond)

	// Broadcasting with nobody listening still records the frame.
	require.NoError(t, m.Publish(frameImage(color.RGBA{G: 255, A: 255})))
	assert.NotNil(t, m.Hub().Last())
}

func TestSubscribe(t *testing.T) {
	m := NewMirror(nil)
	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	green := color.RGBA{G: 255, A: 255}
	require.NoError(t, m.Publish(frameImage(green)))

	ctx, cancel := context.WithCancel(context.Background())
	got := make(chan color.RGBA, 4)
	errc := make(chan error, 1)
	go func() {
		errc <- Subscribe(ctx, strings.TrimPrefix(srv.URL, "http://"), func(img image.Image) {
			got <- color.RGBAModel.Convert(img.At(0, 0)).(color.RGBA)
		})
	}()

	select {
	case c := <-got:
		assert.Equal(t, green, c)
	case <-time.After(2 * time.Second):
		t.Fatal("no frame received")
	}

	cancel()
	select {
	case err := <-errc:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("subscribe did not stop")
	}
}

func TestServeStopsOnCancel(t *testing.T) {
	m := NewMirror(nil)
	ctx, cancel := context.WithCancel(context.Background())

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- m.Serve(ctx, l) }()

	resp, err := http.Get("http://" + l.Addr().String() + FramePath)
	require.NoError(t, err)
	resp.Body.Close()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestParseLink(t *testing.T) {
	addr, err := ParseLink("signaturepad://192.168.1.5:8888/")
	require.NoError(t, err)
	assert.Equal(t, "192.168.1.5:8888", addr)

	addr, err = ParseLink("signaturepad://")
	require.NoError(t, err)
	assert.Empty(t, addr)

	_, err = ParseLink("http://example.com")
	assert.Error(t, err)
	_, err = ParseLink("signaturepad://no-port")
	assert.Error(t, err)

	assert.True(t, IsLink(FormatLink("10.0.0.1:1")))
}

func TestShareLinkHasPort(t *testing.T) {
	link := ShareLink(9123)
	assert.True(t, strings.HasPrefix(link, Scheme))
	assert.True(t, strings.HasSuffix(link, ":9123"))
}

func TestEntryAddr(t *testing.T) {
	_, ok := entryAddr(&mdns.ServiceEntry{Port: 80})
	assert.False(t, ok)

	addr, ok := entryAddr(&mdns.ServiceEntry{AddrV4: []byte{10, 0, 0, 7}, Port: 8888})
	require.True(t, ok)
	assert.Equal(t, "10.0.0.7:8888", addr)
}
