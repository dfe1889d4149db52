package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/catalogsearch/config"
	"github.com/meghashyamc/catalogsearch/db/kvdb"
	"github.com/meghashyamc/catalogsearch/db/searchdb"
	"github.com/meghashyamc/catalogsearch/logger"
	"github.com/meghashyamc/catalogsearch/model"
	"github.com/meghashyamc/catalogsearch/services/catalog"
	"github.com/meghashyamc/catalogsearch/services/search"
	"github.com/meghashyamc/catalogsearch/validation"
)

const shutdownTimeout = 10 * time.Second

type server struct {
	cfg        *config.Config
	router     *gin.Engine
	httpServer *http.Server
	kvdb       kvdb.DB
	searchdb   searchdb.DB
	catalog    *catalog.Service
	search     *search.Service
	validator  *validation.Validator
	logger     logger.Logger
}

// Run serves the API until ctx is cancelled or an interrupt arrives.
func Run(ctx context.Context, cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt)

	defer cancel()

	s := &server{
		cfg:    cfg,
		logger: logger.New(cfg.GetLogLevel()),
	}
	if err := s.setupDependencies(); err != nil {
		return err
	}
	s.reindex()
	s.setupRouter()

	serveErr := s.setupHTTPServer()
	return s.setupGracefulShutdown(ctx, serveErr)
}

func (s *server) setupDependencies() error {
	enumPolicy, err := model.ParseEnumPolicy(s.cfg.GetEnumPolicy())
	if err != nil {
		s.logger.Error("invalid enum policy in config", "err", err.Error())
		return err
	}

	s.kvdb, err = kvdb.New(s.logger, s.cfg)
	if err != nil {
		s.logger.Error("error creating kvDB", "err", err.Error())
		return err
	}
	s.searchdb, err = searchdb.New(s.logger, s.cfg)
	if err != nil {
		s.logger.Error("error creating searchDB", "err", err.Error())
		s.kvdb.Close()
		return err
	}
	s.validator, err = validation.New(s.logger)
	if err != nil {
		s.logger.Error("error creating validator", "err", err.Error())
		s.closeStores()
		return err
	}

	s.catalog = catalog.New(s.logger, s.searchdb, s.kvdb)
	s.search = search.New(s.logger, s.searchdb, s.catalog, s.kvdb, enumPolicy, s.cfg.GetMaxResults())

	return nil

}

// reindex brings the search index back in step with the catalog, e.g. after
// the index directory was removed. Failure is logged and serving continues.
func (s *server) reindex() {
	reindexed, err := s.catalog.Reindex()
	if err != nil {
		s.logger.Error("could not reindex catalog", "err", err.Error())
		return
	}
	if reindexed > 0 {
		s.logger.Info("reindexed catalog", "count", reindexed)
	}
}

func (s *server) setupRouter() {
	router := newRouter()

	router.Use(loggingMiddleware(s.logger))

	setupRoutes(router, s.logger, s.catalog, s.search, s.validator)

	s.router = router
}

func (s *server) setupHTTPServer() <-chan error {

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", s.cfg.GetPort()),
		Handler: s.router.Handler(),
	}
	s.httpServer = httpServer

	serveErr := make(chan error, 1)
	go func() {
		s.logger.Info("starting http server", "addr", httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server failed", "err", err.Error())
			serveErr <- err
		}
		close(serveErr)
	}()

	return serveErr
}

func (s *server) setupGracefulShutdown(ctx context.Context, serveErr <-chan error) error {

	var (
		wg       sync.WaitGroup
		shutdown error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		select {
		case <-ctx.Done():
		case err, ok := <-serveErr:
			if ok {
				shutdown = fmt.Errorf("listen: %w", err)
			}
		}
		s.logger.Info("starting to shut down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("error shutting down http server", "err", err.Error())
			shutdown = errors.Join(shutdown, err)
		}
		s.closeStores()
		s.logger.Info("shut down http server successfully")
	}()

	wg.Wait()
	return shutdown
}

func (s *server) closeStores() {
	if err := s.searchdb.Close(); err != nil {
		s.logger.Error("error closing searchDB", "err", err.Error())
	}
	if err := s.kvdb.Close(); err != nil {
		s.logger.Error("error closing kvDB", "err", err.Error())
	}
}
