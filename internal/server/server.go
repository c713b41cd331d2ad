package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/zeusync/sectorsim/internal/core/observability/log"
	"github.com/zeusync/sectorsim/internal/core/observability/metrics"
	"github.com/zeusync/sectorsim/internal/core/systems/physics"
)

// Config holds debug feed configuration. An empty ListenAddr disables the feed.
type Config struct {
	ListenAddr   string        `yaml:"listen_addr" json:"listen_addr"`
	MaxClients   int           `yaml:"max_clients" json:"max_clients"`
	SendBuffer   int           `yaml:"send_buffer" json:"send_buffer"`
	WriteTimeout time.Duration `yaml:"write_timeout" json:"write_timeout"`
	// PublishEvery sends one snapshot every that many generations.
	PublishEvery uint64 `yaml:"publish_every" json:"publish_every"`
}

func DefaultServerConfig() Config {
	return Config{
		MaxClients:   64,
		SendBuffer:   8,
		WriteTimeout: 5 * time.Second,
		PublishEvery: 1,
	}
}

func (c Config) Validate() error {
	switch {
	case c.MaxClients <= 0:
		return fmt.Errorf("%w: max_clients must be positive", ErrInvalidConfig)
	case c.SendBuffer <= 0:
		return fmt.Errorf("%w: send_buffer must be positive", ErrInvalidConfig)
	case c.WriteTimeout <= 0:
		return fmt.Errorf("%w: write_timeout must be positive", ErrInvalidConfig)
	case c.PublishEvery == 0:
		return fmt.Errorf("%w: publish_every must be positive", ErrInvalidConfig)
	}
	return nil
}

func (c Config) Enabled() bool {
	return c.ListenAddr != ""
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() { close(c.send) })
}

// Server streams physics snapshots to websocket clients. Slow clients drop frames rather
// than stall the simulation.
type Server struct {
	config   Config
	logger   log.Log
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}

	latest  atomic.Pointer[[]byte]
	metrics *metrics.Registry

	httpServer *http.Server
	listener   net.Listener
	running    atomic.Bool
	closed     atomic.Bool
}

func NewServer(config Config, logger log.Log) *Server {
	if logger == nil {
		logger = log.Provide()
	}
	return &Server{
		config: config,
		logger: logger.With(log.String("component", "server")),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// debug tooling connects from arbitrary local origins
			CheckOrigin: func(*http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
}

// SetMetrics exposes reg on /metrics. Call before Handler or Start.
func (s *Server) SetMetrics(reg *metrics.Registry) {
	s.metrics = reg
}

// Handler serves /ws (snapshot stream), /snapshot (latest snapshot as JSON) and, when a
// registry is set, /metrics.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/snapshot", s.handleSnapshot)
	if s.metrics != nil {
		mux.HandleFunc("/metrics", s.handleMetrics)
	}
	return mux
}

// Start listens on ListenAddr and serves in the background.
func (s *Server) Start(ctx context.Context) error {
	if s.closed.Load() {
		return ErrServerClosed
	}
	if err := s.config.Validate(); err != nil {
		return err
	}
	if !s.running.CompareAndSwap(false, true) {
		return ErrServerAlreadyRunning
	}

	ln, err := (&net.ListenConfig{}).Listen(ctx, "tcp", s.config.ListenAddr)
	if err != nil {
		s.running.Store(false)
		s.logger.Error("Failed to create listener", log.Error(err))
		return err
	}
	s.listener = ln
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Debug feed stopped", log.Error(err))
		}
	}()

	s.logger.Info("Debug feed listening", log.String("addr", ln.Addr().String()))
	return nil
}

// Addr returns the bound address, or nil before Start.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Stop shuts the listener down and disconnects every client. A stopped server can't be
// restarted.
func (s *Server) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return ErrServerNotRunning
	}
	s.closed.Store(true)

	err := s.httpServer.Shutdown(ctx)

	s.mu.Lock()
	for c := range s.clients {
		c.close()
		delete(s.clients, c)
	}
	s.mu.Unlock()

	s.logger.Info("Debug feed stopped")
	return err
}

func (s *Server) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Publish encodes state and fans it out. Generations not on the PublishEvery cadence are
// skipped.
func (s *Server) Publish(state *physics.State) {
	if every := s.config.PublishEvery; every > 1 && state.Generation()%every != 0 {
		return
	}

	data, err := json.Marshal(NewSnapshot(state))
	if err != nil {
		s.logger.Warn("Failed to encode snapshot", log.Uint64("generation", state.Generation()), log.Error(err))
		return
	}
	s.latest.Store(&data)

	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		select {
		case c.send <- data:
		default:
			s.logger.Debug("Client too slow, dropping snapshot",
				log.String("client", c.conn.RemoteAddr().String()),
				log.Uint64("generation", state.Generation()),
			)
		}
	}
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	latest := s.latest.Load()
	if latest == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(*latest)
}

func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.metrics.Export()); err != nil {
		s.logger.Warn("Failed to encode metrics", log.Error(err))
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.closed.Load() {
		http.Error(w, ErrServerClosed.Error(), http.StatusServiceUnavailable)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("Websocket upgrade failed", log.Error(err))
		return
	}

	c := &client{conn: conn, send: make(chan []byte, s.config.SendBuffer)}
	if err := s.register(c); err != nil {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseTryAgainLater, err.Error()),
			time.Now().Add(time.Second))
		_ = conn.Close()
		return
	}

	go s.writePump(c)
	s.readPump(c)
}

func (s *Server) register(c *client) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.config.MaxClients > 0 && len(s.clients) >= s.config.MaxClients {
		return ErrMaxClientsReached
	}
	s.clients[c] = struct{}{}
	if latest := s.latest.Load(); latest != nil {
		select {
		case c.send <- *latest:
		default:
		}
	}
	s.logger.Debug("Client connected", log.String("client", c.conn.RemoteAddr().String()))
	return nil
}

func (s *Server) unregister(c *client) {
	s.mu.Lock()
	if _, ok := s.clients[c]; ok {
		delete(s.clients, c)
		c.close()
	}
	s.mu.Unlock()
	s.logger.Debug("Client disconnected", log.String("client", c.conn.RemoteAddr().String()))
}

// readPump discards client messages; it exists to notice disconnects.
func (s *Server) readPump(c *client) {
	defer s.unregister(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) writePump(c *client) {
	defer c.conn.Close()
	for data := range c.send {
		if s.config.WriteTimeout > 0 {
			_ = c.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
		}
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
}
