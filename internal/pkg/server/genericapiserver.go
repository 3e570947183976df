package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/kiosk404/herald/pkg/logger"
	"github.com/kiosk404/herald/pkg/version"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// GenericAPIServer contains state for a herald api server.
type GenericAPIServer struct {
	address         string
	healthz         bool
	enableProfiling bool
	enableMetrics   bool
	shutdownTimeout time.Duration

	*gin.Engine
	httpServer *http.Server
}

func initGenericAPIServer(s *GenericAPIServer) {
	s.InstallAPIs()
}

// InstallAPIs install generic apis.
func (s *GenericAPIServer) InstallAPIs() {
	if s.healthz {
		s.GET("/healthz", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})
	}

	if s.enableMetrics {
		s.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	if s.enableProfiling {
		pprof.Register(s.Engine)
	}

	s.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, version.Get())
	})
}

// Run spawns the http server. It only returns when the port cannot be listened on initially.
func (s *GenericAPIServer) Run() error {
	s.httpServer = &http.Server{
		Addr:    s.address,
		Handler: s,
	}

	logger.Info("[Server] start to listening the incoming requests on http address: %s", s.address)

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	logger.Info("[Server] server on %s stopped", s.address)
	return nil
}

// Close graceful shutdown the api server.
func (s *GenericAPIServer) Close() {
	if s.httpServer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		logger.Warn("[Server] shutdown http server failed: %v", err)
	}
}
