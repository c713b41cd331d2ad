// Package client subscribes to the sectorsim debug feed over WebSocket.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/zeusync/sectorsim/internal/core/observability/log"
	"github.com/zeusync/sectorsim/internal/server"
)

// Client is a read-only subscriber to a feed server's /ws endpoint.
type Client struct {
	conn *websocket.Conn

	latest atomic.Pointer[server.Snapshot]

	snapshotHandlers []SnapshotHandler
	eventHandlers    map[EventType][]EventHandler
	handlerMutex     sync.RWMutex

	connected atomic.Bool
	closed    atomic.Bool
	done      chan struct{}

	config Config
	logger log.Log

	workerGroup sync.WaitGroup
}

// Config holds configuration for the client
type Config struct {
	// ServerAddr is host:port of the feed server.
	ServerAddr     string
	Path           string
	ConnectTimeout time.Duration
	MaxMessageSize int64
}

func DefaultClientConfig() Config {
	return Config{
		ServerAddr:     "127.0.0.1:8090",
		Path:           "/ws",
		ConnectTimeout: 10 * time.Second,
		MaxMessageSize: 4 << 20,
	}
}

func (c Config) Validate() error {
	if c.ServerAddr == "" {
		return fmt.Errorf("%w: server address is empty", ErrInvalidConfig)
	}
	if c.ConnectTimeout <= 0 {
		return fmt.Errorf("%w: connect timeout must be positive", ErrInvalidConfig)
	}
	return nil
}

func (c Config) url() string {
	path := c.Path
	if path == "" {
		path = "/ws"
	}
	u := url.URL{Scheme: "ws", Host: c.ServerAddr, Path: path}
	return u.String()
}

// SnapshotHandler receives every decoded snapshot, on the client's read goroutine.
type SnapshotHandler func(snap server.Snapshot)

// EventHandler defines a function type for handling client events
type EventHandler func(event Event)

type EventType string

const (
	EventTypeConnected    EventType = "connected"
	EventTypeDisconnected EventType = "disconnected"
	EventTypeError        EventType = "error"
)

type Event struct {
	Type      EventType
	Timestamp time.Time
	Error     error
}

func NewClient(config Config, logger log.Log) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Provide()
	}

	return &Client{
		eventHandlers: make(map[EventType][]EventHandler),
		done:          make(chan struct{}),
		config:        config,
		logger:        logger.With(log.String("component", "feed_client")),
	}, nil
}

// OnSnapshot registers h. Handlers added after Connect still receive later snapshots.
func (c *Client) OnSnapshot(h SnapshotHandler) {
	c.handlerMutex.Lock()
	defer c.handlerMutex.Unlock()
	c.snapshotHandlers = append(c.snapshotHandlers, h)
}

func (c *Client) OnEvent(eventType EventType, h EventHandler) {
	c.handlerMutex.Lock()
	defer c.handlerMutex.Unlock()
	c.eventHandlers[eventType] = append(c.eventHandlers[eventType], h)
}

// Connect dials the feed and starts reading snapshots in the background.
func (c *Client) Connect(ctx context.Context) error {
	if c.closed.Load() {
		return ErrClientClosed
	}
	if c.connected.Load() {
		return ErrAlreadyConnected
	}

	addr := c.config.url()
	c.logger.Info("Connecting to feed", log.String("url", addr))

	dialCtx, cancel := context.WithTimeout(ctx, c.config.ConnectTimeout)
	defer cancel()

	dialer := websocket.Dialer{HandshakeTimeout: c.config.ConnectTimeout}
	conn, _, err := dialer.DialContext(dialCtx, addr, nil)
	if err != nil {
		c.logger.Error("Failed to connect to feed", log.String("url", addr), log.Error(err))
		return err
	}
	if c.config.MaxMessageSize > 0 {
		conn.SetReadLimit(c.config.MaxMessageSize)
	}

	if !c.connected.CompareAndSwap(false, true) {
		_ = conn.Close()
		return ErrAlreadyConnected
	}
	c.conn = conn

	c.workerGroup.Add(1)
	go c.readLoop(conn)

	c.emitEvent(Event{Type: EventTypeConnected, Timestamp: time.Now()})
	c.logger.Info("Connected to feed", log.String("remote_addr", conn.RemoteAddr().String()))
	return nil
}

// Disconnect closes the connection and waits for the read goroutine to exit.
func (c *Client) Disconnect() error {
	if !c.connected.Load() {
		return ErrNotConnected
	}

	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	_ = c.conn.Close()
	c.workerGroup.Wait()
	return nil
}

// Close disconnects if needed. The client cannot be reused afterwards.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	if c.connected.Load() {
		_ = c.Disconnect()
	}
	close(c.done)
	c.logger.Info("Client closed")
	return nil
}

func (c *Client) IsConnected() bool {
	return c.connected.Load()
}

// Latest returns the most recent snapshot, or false if none arrived yet.
func (c *Client) Latest() (server.Snapshot, bool) {
	snap := c.latest.Load()
	if snap == nil {
		return server.Snapshot{}, false
	}
	return *snap, true
}

// Done is closed by Close.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

func (c *Client) readLoop(conn *websocket.Conn) {
	defer c.workerGroup.Done()
	defer func() {
		c.connected.Store(false)
		c.emitEvent(Event{Type: EventTypeDisconnected, Timestamp: time.Now()})
		c.logger.Info("Disconnected from feed")
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.emitEvent(Event{Type: EventTypeError, Timestamp: time.Now(), Error: err})
				c.logger.Warn("Feed connection lost", log.Error(err))
			}
			return
		}

		var snap server.Snapshot
		if err = json.Unmarshal(data, &snap); err != nil {
			err = fmt.Errorf("%w: %w", ErrInvalidMessage, err)
			c.emitEvent(Event{Type: EventTypeError, Timestamp: time.Now(), Error: err})
			c.logger.Warn("Dropping undecodable snapshot", log.Error(err))
			continue
		}

		c.latest.Store(&snap)
		c.dispatch(snap)
	}
}

func (c *Client) dispatch(snap server.Snapshot) {
	c.handlerMutex.RLock()
	handlers := c.snapshotHandlers
	c.handlerMutex.RUnlock()

	for _, h := range handlers {
		h(snap)
	}
}

func (c *Client) emitEvent(event Event) {
	c.handlerMutex.RLock()
	handlers := c.eventHandlers[event.Type]
	c.handlerMutex.RUnlock()

	for _, h := range handlers {
		h(event)
	}
}
