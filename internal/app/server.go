package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/studypal-app/studypal/internal/api/handlers"
	appMiddleware "github.com/studypal-app/studypal/internal/api/middlewares"
	"github.com/studypal-app/studypal/internal/config"
	"github.com/studypal-app/studypal/internal/core"
	"github.com/studypal-app/studypal/internal/core/ingest"
	"github.com/studypal-app/studypal/internal/core/rag"
	"github.com/studypal-app/studypal/internal/services"
)

// Server wraps the HTTP server instance and its handlers.
type Server struct {
	httpServer *http.Server
	log        zerolog.Logger
}

// NewServer builds and wires all routes.
func NewServer(cfg *config.Config, dbc core.DbClient, obj core.ObjectClient, pipeline *ingest.Pipeline, engines *rag.Holder, build handlers.EngineBuilder, log zerolog.Logger) *Server {
	userSvc := services.NewUserService(dbc)
	docSvc := services.NewDocumentService(dbc, obj, cfg.BucketName)

	authHandler := handlers.NewAuthHandler(userSvc, cfg.JWTSecret)
	docHandler := handlers.NewDocumentHandler(docSvc, pipeline, log)
	chatHandler := handlers.NewChatHandler(engines)
	adminHandler := handlers.NewAdminHandler(engines, build, log)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8888"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	r.Route("/api", func(api chi.Router) {
		// public endpoints
		api.Post("/signup", authHandler.Signup)
		api.Post("/login", authHandler.Login)

		// protected endpoints
		api.Group(func(protected chi.Router) {
			protected.Use(appMiddleware.JWT(cfg.JWTSecret))
			protected.Post("/documents/upload", docHandler.UploadDocument)
			protected.Get("/documents", docHandler.GetDocuments)
			protected.Post("/chat/query", chatHandler.Query)
			protected.Post("/admin/model", adminHandler.UpdateModel)
		})
	})

	httpSrv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	return &Server{httpServer: httpSrv, log: log}
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.httpServer.Addr).Msg("http server listening")
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("shutting down http server")
	return s.httpServer.Shutdown(ctx)
}
