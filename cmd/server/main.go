package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/linkup-app/linkup/internal/config"
	"github.com/linkup-app/linkup/internal/database"
	"github.com/linkup-app/linkup/internal/msgcrypt"
	"github.com/linkup-app/linkup/internal/repository"
	memoryrepo "github.com/linkup-app/linkup/internal/repository/memory"
	postgresrepo "github.com/linkup-app/linkup/internal/repository/postgres"
	"github.com/linkup-app/linkup/internal/service"
	"github.com/linkup-app/linkup/internal/transport/http/handlers"
	"github.com/linkup-app/linkup/internal/transport/http/middleware"
	"github.com/linkup-app/linkup/internal/transport/ws"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load()

	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(level)
	}

	// Repositories
	var (
		userRepo repository.UserRepository
		connRepo repository.ConnectionRepository
		convRepo repository.ConversationRepository
		msgRepo  repository.MessageRepository
	)
	switch cfg.Storage {
	case config.StorageMemory:
		logrus.Warn("using in-memory storage, data will not survive a restart")
		userRepo = memoryrepo.NewUserRepo()
		connRepo = memoryrepo.NewConnectionRepo()
		convRepo = memoryrepo.NewConversationRepo()
		msgRepo = memoryrepo.NewMessageRepo()
	default:
		pool, err := database.Connect(cfg)
		if err != nil {
			logrus.Fatal(err)
		}
		defer pool.Close()
		if err := database.Migrate(context.Background(), pool); err != nil {
			logrus.Fatal(err)
		}
		logrus.Info("connected to database")
		userRepo = postgresrepo.NewUserRepo(pool)
		connRepo = postgresrepo.NewConnectionRepo(pool)
		convRepo = postgresrepo.NewConversationRepo(pool)
		msgRepo = postgresrepo.NewMessageRepo(pool)
	}

	// Services
	codec := msgcrypt.New(cfg.MessageSecret)
	authService := service.NewAuthService(userRepo, cfg.JWTSecret)
	connectionService := service.NewConnectionService(connRepo, userRepo)
	conversationService := service.NewConversationService(convRepo, connRepo, userRepo)
	messageService := service.NewMessageService(msgRepo, convRepo, connRepo, conversationService, codec)

	// Realtime
	sessions := ws.NewSessionRegistry()
	hub := ws.NewHub(sessions, messageService)
	messageService.SetNotifier(ws.NewHubNotifier(hub))
	go hub.Run()

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	connectionHandler := handlers.NewConnectionHandler(connectionService)
	conversationHandler := handlers.NewConversationHandler(conversationService)
	messageHandler := handlers.NewMessageHandler(messageService)

	auth := middleware.Auth(cfg.JWTSecret)

	// Routes
	mux := http.NewServeMux()

	// Public
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "ok"}`))
	})
	mux.HandleFunc("POST /api/v1/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/v1/auth/login", authHandler.Login)
	mux.HandleFunc("GET /ws", ws.ServeWS(hub, cfg.JWTSecret))

	// Protected - Connections
	mux.Handle("POST /api/v1/connections/requests", auth(http.HandlerFunc(connectionHandler.SendRequest)))
	mux.Handle("POST /api/v1/connections/requests/{id}/accept", auth(http.HandlerFunc(connectionHandler.AcceptRequest)))
	mux.Handle("DELETE /api/v1/connections/requests/{id}", auth(http.HandlerFunc(connectionHandler.RejectRequest)))
	mux.Handle("GET /api/v1/connections/requests/incoming", auth(http.HandlerFunc(connectionHandler.ListIncoming)))
	mux.Handle("GET /api/v1/connections/requests/outgoing", auth(http.HandlerFunc(connectionHandler.ListOutgoing)))
	mux.Handle("GET /api/v1/connections", auth(http.HandlerFunc(connectionHandler.ListConnections)))

	// Protected - Conversations
	mux.Handle("GET /api/v1/conversations", auth(http.HandlerFunc(conversationHandler.List)))
	mux.Handle("POST /api/v1/conversations/sync", auth(http.HandlerFunc(conversationHandler.Sync)))

	// Protected - Messages
	mux.Handle("POST /api/v1/messages", auth(http.HandlerFunc(messageHandler.Send)))
	mux.Handle("PUT /api/v1/messages/read", auth(http.HandlerFunc(messageHandler.MarkRead)))
	mux.Handle("GET /api/v1/messages/unread-count", auth(http.HandlerFunc(messageHandler.UnreadCount)))
	mux.Handle("GET /api/v1/messages/{peer}", auth(http.HandlerFunc(messageHandler.List)))
	mux.Handle("PATCH /api/v1/messages/{id}", auth(http.HandlerFunc(messageHandler.Edit)))
	mux.Handle("DELETE /api/v1/messages/{id}", auth(http.HandlerFunc(messageHandler.Delete)))

	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	logrus.Infof("starting server on %s", addr)
	logrus.Fatal(http.ListenAndServe(addr, middleware.CORS(mux)))
}
