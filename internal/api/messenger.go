package api

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/dpetrov/go-messenger/internal/config"
	"github.com/dpetrov/go-messenger/internal/messenger"
	"github.com/dpetrov/go-messenger/internal/rtm"
	"github.com/dpetrov/go-messenger/internal/stats"
	"github.com/gorilla/handlers"
)

type MessengerApp struct {
	log            *log.Logger
	core           *messenger.Service
	hub            *rtm.Hub
	stats          stats.StatsProvider
	mux            *http.Server
	signingKey     []byte
	allowedOrigins []string
}

func NewMessengerApp(mux *http.ServeMux, logger *log.Logger, core *messenger.Service, hub *rtm.Hub, sp stats.StatsProvider, cfg *config.Config) *MessengerApp {
	s := &MessengerApp{
		log:            logger,
		core:           core,
		hub:            hub,
		stats:          sp,
		signingKey:     cfg.SigningKey,
		allowedOrigins: cfg.AllowedOrigins,
	}

	mux.HandleFunc("GET /healthz", s.healthCheck)
	mux.HandleFunc("POST /api/auth/register", s.register)
	mux.HandleFunc("POST /api/auth/login", s.login)
	mux.HandleFunc("GET /api/auth/session", s.authMiddleware(s.session))
	mux.HandleFunc("GET /api/auth/logout", s.authMiddleware(s.logout))
	mux.HandleFunc("GET /api/users", s.authMiddleware(s.listUsers))
	mux.HandleFunc("GET /api/groups", s.authMiddleware(s.listGroups))
	mux.HandleFunc("POST /api/groups", s.authMiddleware(s.createGroup))
	mux.HandleFunc("GET /api/channels", s.authMiddleware(s.listChannels))
	mux.HandleFunc("POST /api/channels", s.authMiddleware(s.createChannel))
	mux.HandleFunc("PUT /api/channels/subscription", s.authMiddleware(s.setSubscription))
	mux.HandleFunc("GET /api/channels/admins", s.authMiddleware(s.listAdmins))
	mux.HandleFunc("POST /api/channels/admins", s.authMiddleware(s.addAdmin))
	mux.HandleFunc("DELETE /api/channels/admins", s.authMiddleware(s.removeAdmin))
	mux.HandleFunc("GET /api/messages", s.authMiddleware(s.getMessages))
	mux.HandleFunc("POST /api/messages", s.authMiddleware(s.postMessage))
	mux.HandleFunc("GET /ws", s.authMiddleware(s.serveWs))

	h := handlers.CORS(
		handlers.MaxAge(3600),
		handlers.AllowedOrigins(cfg.AllowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Origin", "Content-Type", "Accept"}),
		handlers.AllowCredentials(),
	)(mux)

	h = s.errorHandler(h)

	srv := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: h,
	}

	s.mux = srv
	return s
}

func (s *MessengerApp) Start() error {
	s.log.Printf("starting server on %s\n", s.mux.Addr)
	return s.mux.ListenAndServe()
}

func (s *MessengerApp) Shutdown(ctx context.Context) error {
	s.log.Println("shutting down HTTP server...")
	if err := s.mux.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	return nil
}

func (s *MessengerApp) healthCheck(w http.ResponseWriter, _ *http.Request) {
	if err := s.core.Ping(); err != nil {
		s.log.Println("health check:", err)
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
