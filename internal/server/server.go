// internal/server/server.go
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/ThinkInAIXYZ/go-mcp/protocol"
	"github.com/ThinkInAIXYZ/go-mcp/server"
	"github.com/ThinkInAIXYZ/go-mcp/transport"
	log "github.com/sirupsen/logrus"

	"mcp-health-journal/internal/config"
	"mcp-health-journal/internal/models"
	"mcp-health-journal/internal/storage"
)

const (
	serverName    = "health-journal"
	serverVersion = "1.0.0"
)

var ErrInvalidParams = errors.New("invalid parameters")

type toolHandler func(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error)

type JournalServer struct {
	server         *server.Server
	httpServer     *http.Server
	storage        storage.Store
	samplingClient *SamplingClient
	config         *config.Config
	tools          map[string]toolHandler
	now            func() time.Time
}

func NewJournalServer(cfg *config.Config) (*JournalServer, error) {
	// Initialize database
	stor, err := storage.NewSQLiteStorage(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	mcpServer, sseHandler, err := newMCPServer(messageURL(cfg.Host, cfg.Port))
	if err != nil {
		stor.Close()
		return nil, err
	}

	journalServer := newJournalServer(stor, NewSamplingClient(cfg.ProxyURL, cfg.ProxyAPIKey, cfg.Model), mcpServer, cfg)
	journalServer.httpServer = &http.Server{
		Addr:              net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Handler:           journalServer.routes(sseHandler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return journalServer, nil
}

// newMCPServer creates an MCP server on an SSE transport whose handlers are
// mounted on our own mux. messageURL is advertised to SSE clients.
func newMCPServer(messageURL string) (*server.Server, *transport.SSEHandler, error) {
	mcpTransport, sseHandler, err := transport.NewSSEServerTransportAndHandler(messageURL,
		transport.WithSSEServerTransportAndHandlerOptionLogger(log.StandardLogger()))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create MCP transport: %w", err)
	}

	mcpServer, err := server.NewServer(
		mcpTransport,
		server.WithServerInfo(protocol.Implementation{
			Name:    serverName,
			Version: serverVersion,
		}),
		server.WithLogger(log.StandardLogger()),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create MCP server: %w", err)
	}
	return mcpServer, sseHandler, nil
}

// messageURL is the endpoint SSE clients post JSON-RPC messages to.
func messageURL(host string, port int) string {
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return fmt.Sprintf("http://%s/message", net.JoinHostPort(host, strconv.Itoa(port)))
}

func newJournalServer(store storage.Store, sampling *SamplingClient, mcpServer *server.Server, cfg *config.Config) *JournalServer {
	s := &JournalServer{
		server:         mcpServer,
		storage:        store,
		samplingClient: sampling,
		config:         cfg,
		now:            time.Now,
	}
	s.registerTools()
	return s
}

// routes serves MCP over SSE on /sse and /message, and plain tool calls
// posted as JSON on every other path.
func (s *JournalServer) routes(sseHandler *transport.SSEHandler) http.Handler {
	mux := http.NewServeMux()
	if sseHandler != nil {
		mux.Handle("/sse", sseHandler.HandleSSE())
		mux.Handle("/message", sseHandler.HandleMessage())
	}
	mux.HandleFunc("/", s.handleHTTP)
	return mux
}

func (s *JournalServer) handleHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var request protocol.CallToolRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, fmt.Sprintf("Invalid JSON: %v", err), http.StatusBadRequest)
		return
	}

	handler, ok := s.tools[request.Name]
	if !ok {
		http.Error(w, fmt.Sprintf("Unknown tool: %s", request.Name), http.StatusNotFound)
		return
	}

	logger := log.WithField("tool", request.Name)
	result, err := handler(r.Context(), &request)
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			logger.WithError(err).Error("tool call failed")
		} else {
			logger.WithError(err).Info("tool call rejected")
		}
		http.Error(w, err.Error(), status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		logger.WithError(err).Error("failed to encode response")
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrInvalidParams), models.IsValidationError(err),
		errors.Is(err, storage.ErrUnknownCategory):
		return http.StatusBadRequest
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *JournalServer) Start(ctx context.Context) error {
	if s.server != nil {
		go func() {
			if err := s.server.Run(); err != nil {
				log.WithError(err).Error("MCP transport stopped")
			}
		}()
	}

	log.WithField("addr", s.httpServer.Addr).Info("starting health journal server")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop closes MCP sessions first so open SSE streams end, then the HTTP
// server, then storage.
func (s *JournalServer) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var errs []error
	if s.server != nil {
		if err := s.server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shut down MCP server: %w", err))
		}
	}
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shut down HTTP server: %w", err))
		}
	}
	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close storage: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (s *JournalServer) createJSONResponse(data interface{}) (*protocol.CallToolResult, error) {
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}

	return &protocol.CallToolResult{
		Content: []protocol.Content{
			protocol.TextContent{
				Type: "text",
				Text: string(jsonBytes),
			},
		},
	}, nil
}
