package companionserver

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"
	httpmetrics "github.com/slok/go-http-metrics/metrics/prometheus"
	"github.com/slok/go-http-metrics/middleware"
	middlewarestd "github.com/slok/go-http-metrics/middleware/std"

	"github.com/hristov111/companion/pkg/ai"
	cacheapi "github.com/hristov111/companion/pkg/apis/cache"
)

const (
	// ServiceName identifies this service in the root and health endpoints.
	ServiceName = "ai-companion"

	// Version is the reported service version.
	Version = "1.1.0"
)

// SessionStore holds the transient dialogue state of a conversation.
type SessionStore interface {
	AppendTurn(ctx context.Context, id uuid.UUID, role, content string) error
	History(ctx context.Context, id uuid.UUID, limit int) ([]ai.Message, error)
	Clear(ctx context.Context, id uuid.UUID) error
	HealthCheck(ctx context.Context) error
}

// MemoryStore holds long-term recall data, distinct from the session
// transcript.
type MemoryStore interface {
	Remember(ctx context.Context, id uuid.UUID, content string) error
	Recall(ctx context.Context, id uuid.UUID, query string, k int) ([]string, error)
	Purge(ctx context.Context, id uuid.UUID) error
	HealthCheck(ctx context.Context) error
}

// CompletionClient is the language-model collaborator.
type CompletionClient interface {
	Chat(ctx context.Context, instructions string, history []ai.Message, message string) (string, error)
	HealthCheck(ctx context.Context) error
}

func NewServer(
	listenAddr string,
	sessions SessionStore,
	memory MemoryStore,
	llm CompletionClient,
	cache cacheapi.Cache,
) *Server {
	return &Server{
		listenAddr:    listenAddr,
		sessions:      sessions,
		memory:        memory,
		llm:           llm,
		cache:         cache,
		historyWindow: defaultHistoryWindow,
	}
}

type Server struct {
	listenAddr    string
	sessions      SessionStore
	memory        MemoryStore
	llm           CompletionClient
	cache         cacheapi.Cache
	historyWindow int
	httpServer    *http.Server
}

func (s *Server) newRouter() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/", s.jsonServiceInfo).Methods("GET")
	router.HandleFunc("/health", s.jsonHealth).Methods("GET")
	router.HandleFunc("/chat", s.jsonChat).Methods("POST")
	router.HandleFunc("/chat/ws", s.chatWebSocket).Methods("GET")
	router.HandleFunc("/conversation/reset", s.jsonResetConversation).Methods("POST")
	router.HandleFunc("/memory/clear", s.jsonClearMemory).Methods("POST")

	return router
}

func (s *Server) Serve() {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})
	handler := c.Handler(s.newRouter())

	mdlw := middleware.New(middleware.Config{
		Recorder: httpmetrics.NewRecorder(httpmetrics.Config{}),
	})
	handler = middlewarestd.Handler("", mdlw, handler)

	s.httpServer = &http.Server{
		Addr:              s.listenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Infof("Serving requests on %s", s.listenAddr)
	if err := s.httpServer.ListenAndServe(); err != http.ErrServerClosed {
		log.WithError(err).Error("server exited")
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
