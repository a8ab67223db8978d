// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpress Contributors

package web

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/samber/oops"

	"github.com/inkpress/inkpress/internal/auth"
	"github.com/inkpress/inkpress/internal/blog"
	"github.com/inkpress/inkpress/internal/observability"
)

// Server serves the Inkpress HTTP API.
type Server struct {
	addr        string
	authService *auth.Service
	posts       *blog.PostService
	comments    *blog.CommentService
	metrics     *observability.Metrics
	logger      *slog.Logger

	listener   net.Listener
	httpServer *http.Server
	running    atomic.Bool
}

// NewServer creates the API server. metrics may be nil when the
// observability listener is disabled.
func NewServer(addr string, authService *auth.Service, posts *blog.PostService, comments *blog.CommentService, metrics *observability.Metrics, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		addr:        addr,
		authService: authService,
		posts:       posts,
		comments:    comments,
		metrics:     metrics,
		logger:      logger,
	}
}

// Router builds the chi router with all API routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", s.handleRegister)
			r.Post("/login", s.handleLogin)
			r.Post("/password-reset/request", s.handlePasswordResetRequest)
			r.Post("/password-reset/confirm", s.handlePasswordResetConfirm)

			r.Group(func(r chi.Router) {
				r.Use(s.requireAuth)
				r.Get("/me", s.handleMe)
				r.Post("/change-password", s.handleChangePassword)
			})
		})

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", s.handleListPosts)
			r.Get("/summaries", s.handlePostSummaries)
			r.Get("/search", s.handleSearchPosts)
			r.Get("/recent", s.handleRecentPosts)
			r.Get("/stats", s.handlePostStats)
			r.Get("/{postID}", s.handleGetPost)
			r.Get("/{postID}/comments", s.handleListComments)
			r.Post("/{postID}/comments", s.handleCreateComment)

			r.Group(func(r chi.Router) {
				r.Use(s.requireAuth)
				r.Post("/", s.handleCreatePost)
				r.Patch("/{postID}", s.handleUpdatePost)
				r.Delete("/{postID}", s.handleDeletePost)
			})
		})

		r.Route("/comments", func(r chi.Router) {
			r.Get("/recent", s.handleRecentComments)
			r.Get("/{commentID}", s.handleGetComment)

			r.Group(func(r chi.Router) {
				r.Use(s.requireAuth)
				r.Get("/pending", s.handlePendingComments)
				r.Get("/stats", s.handleCommentStats)
				r.Patch("/{commentID}", s.handleUpdateComment)
				r.Delete("/{commentID}", s.handleDeleteComment)
				r.Post("/{commentID}/approve", s.handleApproveComment)
				r.Post("/{commentID}/reject", s.handleRejectComment)
				r.Post("/moderate", s.handleModerateBatch)
			})
		})
	})

	return r
}

// Start begins serving the API. It returns an error channel that receives
// any serve error; the channel is closed on graceful shutdown.
func (s *Server) Start() (<-chan error, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, oops.Errorf("api server already running")
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		s.running.Store(false)
		return nil, oops.With("addr", s.addr).Wrap(err)
	}
	s.listener = listener

	httpSrv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	s.httpServer = httpSrv

	errCh := make(chan error, 1)

	go func() {
		defer close(errCh)
		if serveErr := httpSrv.Serve(listener); serveErr != nil && serveErr != http.ErrServerClosed {
			s.logger.Error("api server error", "error", serveErr)
			errCh <- serveErr
		}
	}()

	s.logger.Info("api server started", "addr", listener.Addr().String())
	return errCh, nil
}

// Stop gracefully shuts down the API server.
func (s *Server) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.running.Store(true)
			return oops.With("operation", "shutdown_api_server").Wrap(err)
		}
	}

	s.logger.Info("api server stopped")
	return nil
}

// Addr returns the address the server is listening on, or empty if not
// running.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}
