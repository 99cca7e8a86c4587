// Package server implements the live preview server.
//
// The server renders the current ancestry graph as SVG and pushes updates
// to connected browsers over a websocket whenever the repository's
// references change. Rebuild failures are reported to clients as status
// messages and never bring the server down.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/matzehuels/branchmap/pkg/graph"
)

// Message types pushed over the websocket.
const (
	MessageTypeSVG    = "svg"
	MessageTypeGraph  = "graph"
	MessageTypeStatus = "status"
)

// Message is one websocket update.
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Config configures the preview server.
type Config struct {
	// Addr is the listen address, host:port.
	Addr string

	// GitDir is the repository's .git directory, watched for ref changes.
	GitDir string

	// Build produces the current graph. It is called once at startup and
	// again after every (debounced) reference change.
	Build func(ctx context.Context) (*graph.Graph, error)

	// Render converts a graph to the SVG served to browsers.
	Render func(ctx context.Context, g *graph.Graph) ([]byte, error)

	Logger *log.Logger
}

// Server serves the graph preview and pushes live updates.
type Server struct {
	cfg    Config
	logger *log.Logger

	mu      sync.RWMutex
	current *graph.Graph
	svg     []byte

	clientsMu sync.RWMutex
	clients   map[uuid.UUID]*websocket.Conn

	broadcast chan Message
}

// The preview binds to localhost for a single user; any local page may
// connect.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// New creates a preview server. Run starts it.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		cfg:       cfg,
		logger:    logger,
		clients:   make(map[uuid.UUID]*websocket.Conn),
		broadcast: make(chan Message, 16),
	}
}

// Run builds the initial graph, starts watching the repository, and serves
// HTTP until ctx is cancelled. The initial build must succeed; later
// rebuild failures are pushed to clients as status messages.
func (s *Server) Run(ctx context.Context) error {
	if err := s.refresh(ctx); err != nil {
		return err
	}

	if err := s.startWatcher(ctx); err != nil {
		return err
	}
	go s.broadcastLoop(ctx)

	srv := &http.Server{
		Addr:    s.cfg.Addr,
		Handler: s.routes(),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Infof("Serving preview on http://%s", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// routes builds the HTTP router.
func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/graph.svg", s.handleSVG)
	r.Get("/api/graph", s.handleGraph)
	r.Get("/api/ws", s.handleWebSocket)

	return r
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(indexPage))
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(s.svg)
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.current); err != nil {
		s.logger.Errorf("Encode graph: %v", err)
	}
}

// handleWebSocket upgrades the connection and keeps it registered until the
// client goes away. Each client gets a connection id for log correlation.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Errorf("Websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	id := uuid.New()
	s.clientsMu.Lock()
	s.clients[id] = conn
	total := len(s.clients)
	s.clientsMu.Unlock()
	s.logger.Debugf("Client %s connected (%d total)", id, total)

	s.sendInitialState(conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	s.clientsMu.Lock()
	delete(s.clients, id)
	total = len(s.clients)
	s.clientsMu.Unlock()
	s.logger.Debugf("Client %s disconnected (%d total)", id, total)
}

// sendInitialState pushes the current graph to a newly connected client.
func (s *Server) sendInitialState(conn *websocket.Conn) {
	s.mu.RLock()
	messages := []Message{
		{Type: MessageTypeSVG, Data: string(s.svg)},
		{Type: MessageTypeGraph, Data: s.current},
	}
	s.mu.RUnlock()

	for _, msg := range messages {
		if err := conn.WriteJSON(msg); err != nil {
			s.logger.Errorf("Send initial state: %v", err)
			return
		}
	}
}

// broadcastLoop fans messages out to every connected client.
func (s *Server) broadcastLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-s.broadcast:
			s.clientsMu.Lock()
			for id, conn := range s.clients {
				if err := conn.WriteJSON(msg); err != nil {
					s.logger.Debugf("Dropping client %s: %v", id, err)
					conn.Close()
					delete(s.clients, id)
				}
			}
			s.clientsMu.Unlock()
		}
	}
}

// push queues a message without blocking the caller.
func (s *Server) push(msg Message) {
	select {
	case s.broadcast <- msg:
	default:
		s.logger.Warn("Broadcast channel full, dropping message")
	}
}

// refresh rebuilds the graph and re-renders the SVG, then notifies clients.
func (s *Server) refresh(ctx context.Context) error {
	g, err := s.cfg.Build(ctx)
	if err != nil {
		return err
	}
	svg, err := s.cfg.Render(ctx, g)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.current = g
	s.svg = svg
	s.mu.Unlock()

	s.push(Message{Type: MessageTypeSVG, Data: string(svg)})
	s.push(Message{Type: MessageTypeGraph, Data: g})
	return nil
}

// rebuild is the watcher-triggered variant of refresh: failures are logged
// and pushed as status, never returned.
func (s *Server) rebuild(ctx context.Context) {
	s.logger.Info("References changed, rebuilding")
	if err := s.refresh(ctx); err != nil {
		s.logger.Errorf("Rebuild failed: %v", err)
		s.push(Message{Type: MessageTypeStatus, Data: err.Error()})
	}
}
