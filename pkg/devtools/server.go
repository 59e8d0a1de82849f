package devtools

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/tetherui/tether/pkg/runtime"
)

const (
	writeTimeout = 10 * time.Second
	pingInterval = 30 * time.Second
)

// Server is the inspector HTTP server for one runtime. The runtime
// must have a Recorder attached (runtime.WithRecorder), otherwise the
// event endpoints serve empty data.
type Server struct {
	rt       *runtime.Runtime
	logger   *slog.Logger
	upgrader websocket.Upgrader
	router   chi.Router
}

// Option configures the inspector server.
type Option func(*Server)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithCheckOrigin overrides the WebSocket origin check. The default
// accepts any origin, which is fine for a dev-only inspector.
func WithCheckOrigin(fn func(*http.Request) bool) Option {
	return func(s *Server) { s.upgrader.CheckOrigin = fn }
}

// New creates an inspector server for the runtime.
func New(rt *runtime.Runtime, opts ...Option) *Server {
	s := &Server{
		rt:     rt,
		logger: slog.Default().With("component", "devtools"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Get("/healthz", s.handleHealth)
	r.Get("/api/stats", s.handleStats)
	r.Get("/api/events", s.handleEvents)
	r.Get("/ws", s.handleWS)
	s.router = r

	return s
}

// Handler returns the inspector's HTTP handler, for mounting under an
// existing mux.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves the inspector on addr. It blocks.
func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("inspector listening", "addr", addr)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.rt.Stats())
}

func (s *Server) handleEvents(w http.ResponseWriter, _ *http.Request) {
	rec := s.rt.Recorder()
	if rec == nil {
		writeJSON(w, []runtime.Event{})
		return
	}
	writeJSON(w, rec.Recent())
}

// handleWS upgrades the connection and streams events: first the
// recorder's backlog, then live events until the client goes away.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	rec := s.rt.Recorder()
	if rec == nil {
		http.Error(w, "no recorder attached", http.StatusServiceUnavailable)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	events, cancel := rec.Subscribe(256)
	defer cancel()

	for _, e := range rec.Recent() {
		if err := writeEvent(conn, e); err != nil {
			return
		}
	}

	// Reader goroutine: the inspector sends nothing meaningful, but
	// reading is how close frames are noticed.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err,
					websocket.CloseGoingAway,
					websocket.CloseAbnormalClosure,
					websocket.CloseNormalClosure) {
					s.logger.Error("read error", "error", err)
				}
				return
			}
		}
	}()

	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	for {
		select {
		case <-done:
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			if err := writeEvent(conn, e); err != nil {
				return
			}
		case <-ping.C:
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func writeEvent(conn *websocket.Conn, e runtime.Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteMessage(websocket.TextMessage, payload)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
