package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/sitesearch/config"
	"github.com/meghashyamc/sitesearch/db/kvdb"
	"github.com/meghashyamc/sitesearch/logger"
	"github.com/meghashyamc/sitesearch/metrics"
	"github.com/meghashyamc/sitesearch/services/export"
	"github.com/meghashyamc/sitesearch/services/index"
	"github.com/meghashyamc/sitesearch/validation"
)

const shutdownTimeout = 10 * time.Second

type server struct {
	cfg          *config.Config
	router       *gin.Engine
	httpServer   *http.Server
	kvdb         kvdb.DB
	indexService *index.Service
	metrics      *metrics.Metrics
	validator    *validation.Validator
	logger       logger.Logger
}

// Run serves the HTTP API until ctx is cancelled or the process is interrupted.
func Run(ctx context.Context, cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	s := &server{
		cfg:    cfg,
		logger: logger.New(cfg.GetLogLevel()),
	}
	if err := s.setupDependencies(ctx); err != nil {
		return err
	}
	defer s.closeDependencies()

	s.setupRouter()
	s.setupHTTPServer()

	errC := make(chan error, 1)
	go func() {
		s.logger.Info("starting http server", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errC <- fmt.Errorf("listen: %w", err)
		}
		close(errC)
	}()

	select {
	case err := <-errC:
		return err
	case <-ctx.Done():
	}

	return s.shutdown()
}

func (s *server) setupDependencies(ctx context.Context) error {
	var err error
	s.kvdb, err = kvdb.New(s.logger, s.cfg)
	if err != nil {
		s.logger.Error("error creating kvDB", "err", err.Error())
		return err
	}
	s.validator, err = validation.New(s.logger)
	if err != nil {
		s.logger.Error("error creating validator", "err", err.Error())
		return err
	}
	s.metrics = metrics.New()

	tokenizerOptions := index.DefaultTokenizerOptions()
	tokenizerOptions.FilterStopWords = s.cfg.GetFilterStopWords()
	exporter := export.New(s.logger, s.cfg.GetOutputPath(), s.cfg.GetNamespace())

	s.indexService = index.New(s.logger, index.NewTokenizer(tokenizerOptions), exporter, s.kvdb, s.metrics)
	s.indexService.Start(ctx, s.cfg.GetMaxBuildTime())

	return nil

}

func (s *server) closeDependencies() {
	if s.kvdb == nil {
		return
	}
	if err := s.kvdb.Close(); err != nil {
		s.logger.Error("error closing kvDB", "err", err.Error())
	}
}

func (s *server) setupRouter() {
	router := newRouter()

	router.Use(loggingMiddleware(s.logger))

	setupRoutes(router, s.logger, s.cfg, s.indexService, s.metrics, s.validator)

	s.router = router
}

func (s *server) setupHTTPServer() {

	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%s", s.cfg.GetPort()),
		Handler: s.router.Handler(),
	}
}

func (s *server) shutdown() error {
	s.logger.Info("starting to shut down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("error shutting down http server", "err", err)
		return err
	}
	s.logger.Info("shut down http server successfully")

	return nil
}
