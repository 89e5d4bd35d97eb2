package deeplink

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu  sync.Mutex
	ids []string
}

func (r *recorder) open(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, id)
}

func (r *recorder) got() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.ids...)
}

func TestListener_Health(t *testing.T) {
	l := NewListener("", nil)
	assert.Equal(t, DefaultAddr, l.Addr())

	rr := httptest.NewRecorder()
	l.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "running")
}

func TestListener_OpenDispatchesParsedID(t *testing.T) {
	rec := &recorder{}
	l := NewListener("", rec.open)

	form := url.Values{"link": {"postersapp://wallpaper/abc"}}
	req := httptest.NewRequest(http.MethodPost, "/open", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	l.Handler().ServeHTTP(rr, req)

	require.Equal(t, http.StatusAccepted, rr.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "abc", body["id"])
	assert.Equal(t, []string{"abc"}, rec.got())
}

func TestListener_OpenRejects(t *testing.T) {
	rec := &recorder{}
	l := NewListener("", rec.open)

	rr := httptest.NewRecorder()
	l.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/open?link=abc", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)

	rr = httptest.NewRecorder()
	l.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/open", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	assert.Empty(t, rec.got())
}

func TestListener_EventsReceiveBroadcasts(t *testing.T) {
	rec := &recorder{}
	l := NewListener("", rec.open)
	server := httptest.NewServer(l.Handler())
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/events"
	ws, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer func() { _ = ws.Close() }()

	require.Eventually(t, func() bool {
		l.clientsMu.Lock()
		defer l.clientsMu.Unlock()
		return len(l.clients) == 1
	}, time.Second, 10*time.Millisecond)

	l.Broadcast(Event{Type: EventApplied, ID: "9", Path: "/tmp/9.jpg"})

	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ev Event
	require.NoError(t, ws.ReadJSON(&ev))
	assert.Equal(t, Event{Type: EventApplied, ID: "9", Path: "/tmp/9.jpg"}, ev)
}

func TestListener_RejectsForeignOrigin(t *testing.T) {
	l := NewListener("", nil)
	server := httptest.NewServer(l.Handler())
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/events"
	header := http.Header{"Origin": {"https://evil.example"}}
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestListener_ServeStopsOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	l := NewListener(ln.Addr().String(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/health")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(shutdownTimeout + time.Second):
		t.Fatal("serve did not return after cancel")
	}
}

func TestForward(t *testing.T) {
	rec := &recorder{}
	l := NewListener("", rec.open)
	server := httptest.NewServer(l.Handler())
	defer server.Close()

	addr := strings.TrimPrefix(server.URL, "http://")
	id, err := Forward(context.Background(), addr, "https://example.com/r/?wallpaperId=55")
	require.NoError(t, err)
	assert.Equal(t, "55", id)
	assert.Equal(t, []string{"55"}, rec.got())

	_, err = Forward(context.Background(), addr, "postersapp://wallpaper/")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
}

func TestForward_NotRunning(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	_, err = Forward(context.Background(), addr, "42")
	assert.ErrorIs(t, err, ErrNotRunning)
}
