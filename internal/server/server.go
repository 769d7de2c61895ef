package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/KENWOLVERINE1/Smart-Nutrition-Planner/config"
	"github.com/KENWOLVERINE1/Smart-Nutrition-Planner/internal/api"
	"github.com/KENWOLVERINE1/Smart-Nutrition-Planner/internal/metrics"
	"github.com/KENWOLVERINE1/Smart-Nutrition-Planner/internal/middleware"
	"github.com/KENWOLVERINE1/Smart-Nutrition-Planner/internal/service"
)

// Options carries the optional collaborators of a Server.
type Options struct {
	Logger  *zap.Logger
	Metrics *metrics.Recorder
	// Redis enables per-client rate limiting of predictions when set.
	Redis *redis.Client
}

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
	log    *zap.Logger
}

// New wires routes and middleware around the recommender.
func New(cfg *config.Config, recommender service.IRecommendService, opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(
		middleware.RequestLogger(log, opts.Metrics),
		middleware.ErrorHandler(log),
		middleware.CORS(cfg.CORSAllowedOrigins),
	)

	var predict []gin.HandlerFunc
	if opts.Redis != nil && cfg.RateLimitPerMinute > 0 {
		limiter := middleware.NewPredictRateLimiter(opts.Redis, cfg.RateLimitPerMinute, log)
		predict = append(predict, limiter.RateLimitMiddleware())
	}
	api.NewRecommendHandler(recommender).RegisterRoutes(router, predict...)

	if opts.Metrics != nil {
		router.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}

	return &Server{
		router: router,
		http: &http.Server{
			Addr:              cfg.Address(),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		log: log,
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves HTTP until the server is shut down. It returns nil after a
// graceful shutdown.
func (s *Server) Start() error {
	s.log.Info("starting server", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
