package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/webitel/timecapsule/config"
	"github.com/webitel/timecapsule/internal/handler/http/middleware"
	"github.com/webitel/timecapsule/internal/service/auth"
)

// Server owns the chi router and the *http.Server listening on it.
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
}

// NewServer builds the router with every route this service exposes. It does
// not start listening; that happens in the fx lifecycle hook in module.go.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	authSvc *auth.Service,
	authHandler *AuthHandler,
	capsuleHandler *CapsuleHandler,
	personalHandler *PersonalHandler,
	wsHandler *WSHandler,
) *Server {
	r := chi.NewRouter()

	limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)
	r.Use(middleware.RequestLogging(logger))
	r.Use(limiter.Handler)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Post("/auth/signup", authHandler.Signup)
	r.Post("/auth/login", authHandler.Login)

	r.Get("/ws", wsHandler.ServeHTTP)

	r.Group(func(pr chi.Router) {
		pr.Use(middleware.Authn(authSvc))

		pr.Get("/auth/me", authHandler.Me)

		pr.Post("/capsules", capsuleHandler.Create)
		pr.Get("/capsules", capsuleHandler.List)
		pr.Get("/capsules/{id}", capsuleHandler.Get)
		pr.Put("/capsules/{id}", capsuleHandler.Update)
		pr.Delete("/capsules/{id}", capsuleHandler.Delete)
		pr.Post("/capsules/{id}/seal", capsuleHandler.Seal)
		pr.Post("/capsules/{id}/open", capsuleHandler.Open)

		pr.Post("/drafts", personalHandler.SaveDraft)
		pr.Get("/drafts", personalHandler.ListDrafts)
		pr.Get("/drafts/{id}", personalHandler.GetDraft)
		pr.Put("/drafts/{id}", personalHandler.SaveDraft)
		pr.Delete("/drafts/{id}", personalHandler.DeleteDraft)

		pr.Post("/recipients", personalHandler.AddRecipient)
		pr.Get("/recipients", personalHandler.ListRecipients)
		pr.Delete("/recipients/{id}", personalHandler.DeleteRecipient)
	})

	return &Server{
		httpServer: &http.Server{Addr: cfg.HTTP.Addr, Handler: r},
		logger:     logger,
	}
}

func (s *Server) Start() error {
	ln := s.httpServer.Addr
	s.logger.Info("HTTP_SERVER_STARTING", zap.String("addr", ln))
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("HTTP_SERVER_FAILED", zap.Error(err))
		}
	}()
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("HTTP_SERVER_STOPPING")
	return s.httpServer.Shutdown(ctx)
}
