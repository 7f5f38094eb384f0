// Package web exposes the service over an HTTP JSON API.
// Handlers stay thin: they bind the request, delegate to a service, and map
// the outcome through errors.MapToHTTPError.
package web

import (
	"context"
	"log/slog"
	"net/http"

	"dm-lab/auth"
	"dm-lab/services"

	"github.com/labstack/echo/v4"
)

type Server struct {
	echo *echo.Echo
}

// NewServer wires the handlers onto their routes. Register and login are
// public; everything else sits behind the session middleware.
func NewServer(log *slog.Logger, authService services.IAuthService, messageService services.IMessageService) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	authHandler := NewAuthHandler(log, authService)
	chatHandler := NewChatHandler(log, messageService)

	e.POST("/register", authHandler.Register)
	e.POST("/login", authHandler.Login)

	protected := e.Group("", auth.Middleware())
	protected.GET("/users", chatHandler.ListConversations)
	protected.POST("/messages", chatHandler.SendMessage)

	return &Server{echo: e}
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

// ServeHTTP drives the server without a listening socket.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
