// Package api exposes the dashboard's HTTP surface: deal listing and
// CRUD, the comparison screen, portfolio health, weekly reviews, deck
// uploads, and the notification websocket.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/dealflow/internal/blob"
	"github.com/yourusername/dealflow/internal/config"
	"github.com/yourusername/dealflow/internal/notify"
	"github.com/yourusername/dealflow/internal/service"
)

// Options holds the server's collaborators
type Options struct {
	Config       *config.Config
	Logger       *logrus.Logger
	DealService  *service.DealService
	PortfolioSvc *service.PortfolioService
	ReviewSvc    *service.ReviewService
	Uploader     *blob.Uploader
	Hub          *notify.Hub
}

// Server is the dashboard HTTP server
type Server struct {
	router       *chi.Mux
	server       *http.Server
	logger       *logrus.Logger
	cfg          *config.Config
	dealSvc      *service.DealService
	portfolioSvc *service.PortfolioService
	reviewSvc    *service.ReviewService
	uploader     *blob.Uploader
	hub          *notify.Hub
}

// NewServer creates the HTTP server with middleware and routes wired
func NewServer(opts Options) *Server {
	s := &Server{
		router:       chi.NewRouter(),
		logger:       opts.Logger,
		cfg:          opts.Config,
		dealSvc:      opts.DealService,
		portfolioSvc: opts.PortfolioSvc,
		reviewSvc:    opts.ReviewSvc,
		uploader:     opts.Uploader,
		hub:          opts.Hub,
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         opts.Config.GetServerAddr(),
		Handler:      s.router,
		ReadTimeout:  time.Duration(opts.Config.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(opts.Config.Server.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", userIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Route("/api", func(r chi.Router) {
		r.Use(s.sessionMiddleware)

		r.Route("/deals", func(r chi.Router) {
			r.Get("/", s.handleListDeals)
			r.Post("/", s.handleCreateDeal)
			r.Post("/sort", s.handleToggleSort)
			r.Post("/page/next", s.handleNextPage)
			r.Post("/page/prev", s.handlePrevPage)
			r.Post("/page/{page}", s.handleGoToPage)

			r.Get("/comparison", s.handleCompareSelected)
			r.Post("/compare", s.handleCompare)
			r.Delete("/selection", s.handleClearSelection)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetDeal)
				r.Put("/", s.handleUpdateDeal)
				r.Delete("/", s.handleDeleteDeal)
				r.Post("/select", s.handleToggleSelect)
				r.Post("/deck", s.handleUploadDeck)
			})
		})

		r.Route("/portfolio", func(r chi.Router) {
			r.Get("/", s.handlePortfolioOverview)
			r.Put("/{id}/health", s.handleUpdateHealth)
		})

		r.Route("/reviews", func(r chi.Router) {
			r.Get("/current", s.handleCurrentReview)
			r.Get("/", s.handleReviewForWeek)
			r.Put("/", s.handleSaveReview)
		})
	})

	if s.hub != nil {
		s.router.Get("/ws", s.hub.ServeWS)
	}
}

// Start starts the HTTP server and blocks until it stops
func (s *Server) Start() error {
	s.logger.WithField("addr", s.server.Addr).Info("HTTP server starting")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("HTTP server shutting down")
	return s.server.Shutdown(ctx)
}

// Router exposes the handler tree, used by tests
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.logger.WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"bytes":      ww.BytesWritten(),
			"duration":   time.Since(start).String(),
			"request_id": middleware.GetReqID(r.Context()),
		}).Info("Request handled")
	})
}
