package deeplink

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/five82/posters/internal/logging"
)

// DefaultAddr is the loopback address a running instance listens on.
const DefaultAddr = "127.0.0.1:49453"

const shutdownTimeout = 5 * time.Second

// Event types broadcast to websocket clients.
const (
	EventDeepLink = "deep_link"
	EventSaved    = "wallpaper_saved"
	EventApplied  = "wallpaper_applied"
)

// Event is a JSON message pushed to /events subscribers.
type Event struct {
	Type string `json:"type"`
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
	Path string `json:"path,omitempty"`
}

// OpenFunc receives the wallpaper id of every accepted link. It must not block.
type OpenFunc func(id string)

// Listener is the local deep-link endpoint of a running instance.
type Listener struct {
	addr     string
	mux      *http.ServeMux
	upgrader websocket.Upgrader
	onOpen   OpenFunc
	log      zerolog.Logger

	clientsMu sync.Mutex
	clients   map[*websocket.Conn]struct{}
}

// NewListener creates a listener for addr that dispatches links to onOpen.
func NewListener(addr string, onOpen OpenFunc) *Listener {
	if addr == "" {
		addr = DefaultAddr
	}
	l := &Listener{
		addr:    addr,
		mux:     http.NewServeMux(),
		onOpen:  onOpen,
		log:     logging.NewLogger("deeplink"),
		clients: make(map[*websocket.Conn]struct{}),
	}
	l.upgrader = websocket.Upgrader{CheckOrigin: loopbackOrigin}
	l.mux.HandleFunc("/health", l.handleHealth)
	l.mux.HandleFunc("/open", l.handleOpen)
	l.mux.HandleFunc("/events", l.handleEvents)
	return l
}

// Addr returns the configured listen address.
func (l *Listener) Addr() string { return l.addr }

// Handler returns the HTTP handler for the listener.
func (l *Listener) Handler() http.Handler {
	return l.mux
}

// Serve listens on the configured address until ctx is cancelled.
func (l *Listener) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", l.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", l.addr, err)
	}
	return l.serve(ctx, ln)
}

func (l *Listener) serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           l.mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	l.log.Info().Str("addr", ln.Addr().String()).Msg("deep-link listener started")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve deep links: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	l.closeClients()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown deep-link listener: %w", err)
	}
	return nil
}

// Broadcast sends ev to every connected /events client. Clients that fail to
// receive are dropped.
func (l *Listener) Broadcast(ev Event) {
	l.clientsMu.Lock()
	defer l.clientsMu.Unlock()

	for conn := range l.clients {
		_ = conn.SetWriteDeadline(time.Now().Add(2 * time.Second))
		if err := conn.WriteJSON(ev); err != nil {
			l.log.Warn().Err(err).Str("event", ev.Type).Msg("dropping event client")
			_ = conn.Close()
			delete(l.clients, conn)
		}
	}
}

func (l *Listener) closeClients() {
	l.clientsMu.Lock()
	defer l.clientsMu.Unlock()
	for conn := range l.clients {
		_ = conn.Close()
		delete(l.clients, conn)
	}
}

func (l *Listener) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "running"})
}

func (l *Listener) handleOpen(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	link := r.FormValue("link")
	id, err := Parse(link)
	if err != nil {
		l.log.Warn().Err(err).Str("link", link).Msg("rejected deep link")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if l.onOpen == nil {
		http.Error(w, "no handler registered", http.StatusServiceUnavailable)
		return
	}

	l.log.Info().Str("id", id).Msg("deep link received")
	l.onOpen(id)
	l.Broadcast(Event{Type: EventDeepLink, ID: id})
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted", "id": id})
}

func (l *Listener) handleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := l.upgrader.Upgrade(w, r, nil)
	if err != nil {
		l.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	l.clientsMu.Lock()
	l.clients[conn] = struct{}{}
	l.clientsMu.Unlock()

	defer func() {
		l.clientsMu.Lock()
		if _, ok := l.clients[conn]; ok {
			delete(l.clients, conn)
			_ = conn.Close()
		}
		l.clientsMu.Unlock()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// loopbackOrigin accepts non-browser clients and pages served from loopback.
func loopbackOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	host := u.Hostname()
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
