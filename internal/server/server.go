package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/TheCreativeLad/Spam-Detection/internal/handler"
	"github.com/TheCreativeLad/Spam-Detection/internal/metrics"
	"github.com/TheCreativeLad/Spam-Detection/internal/middleware"
	"github.com/TheCreativeLad/Spam-Detection/web"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	router *gin.Engine
	srv    *http.Server
	log    *zap.Logger
}

// NewServer builds the router with the full middleware chain
func NewServer(port string, h *handler.Handler, m *metrics.Metrics, log *zap.Logger) *Server {
	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.Logger(log),
		middleware.Recovery(log),
		middleware.CORS(),
		middleware.Metrics(m),
	)
	router.SetHTMLTemplate(web.Templates())
	h.RegisterRoutes(router)

	return &Server{
		router: router,
		srv: &http.Server{
			Addr:              fmt.Sprintf(":%s", port),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		log: log,
	}
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves in the background. A listen failure is sent on the returned
// channel.
func (s *Server) Start() <-chan error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Server starting", zap.String("address", s.srv.Addr))
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	return errCh
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
