// Package devserver is an in-memory implementation of the backend wire
// contract the client core consumes. It exists so the mobile and web shells
// (and this module's integration tests) can run against a real HTTP server
// without any external infrastructure.
package devserver

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-app-core/internal/config"
	"github.com/jrsteele09/go-app-core/users"
)

// Demo account seeded at startup
const (
	DemoEmail    = "demo@example.com"
	DemoPassword = "password123"
	DemoName     = "Demo User"
)

type Server struct {
	env       string
	mux       *http.ServeMux
	routes    []string
	config    config.Config
	users     *userRepo
	resources *resourceRepo
	tokens    *tokenManager
}

func New(cfg config.Config) (*Server, error) {
	s := &Server{
		env:       cfg.GetEnv(),
		mux:       http.NewServeMux(),
		config:    cfg,
		users:     newUserRepo(),
		resources: newResourceRepo(),
		tokens:    newTokenManager(cfg),
	}

	if err := s.seedDemoUser(); err != nil {
		return nil, fmt.Errorf("[devserver New] failed to seed demo user: %w", err)
	}

	s.initRoutes()
	s.logRoutes()
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) initRoutes() {
	// Auth
	s.RegisterRouteFunc("POST "+RouteAuthLogin, s.LoginHandler())
	s.RegisterRouteFunc("POST "+RouteAuthRegister, s.RegisterHandler())
	s.RegisterRouteFunc("POST "+RouteAuthRefresh, s.RefreshHandler())
	s.RegisterRouteFunc("POST "+RouteAuthLogout, s.LogoutHandler())
	s.RegisterRouteFunc("POST "+RouteAuthForgotPassword, s.ForgotPasswordHandler())
	s.RegisterRouteFunc("POST "+RouteAuthResetPassword, s.ResetPasswordHandler())

	// Users
	s.RegisterRouteFunc("GET "+RouteUsersMe, s.RequireAuth(s.MeHandler()))
	s.RegisterRouteFunc("PATCH "+RouteUsersMe, s.RequireAuth(s.UpdateProfileHandler()))
	s.RegisterRouteFunc("DELETE "+RouteUsersMe, s.RequireAuth(s.DeleteAccountHandler()))
	s.RegisterRouteFunc("PATCH "+RouteUsersMeAvatar, s.RequireAuth(s.UpdateAvatarHandler()))
	s.RegisterRouteFunc("GET "+RouteUserProfile, s.ProfileHandler())

	// Resources
	s.RegisterRouteFunc("GET "+RouteResources, s.RequireAuth(s.ListResourcesHandler()))
	s.RegisterRouteFunc("POST "+RouteResources, s.RequireAuth(s.CreateResourceHandler()))
	s.RegisterRouteFunc("GET "+RouteResource, s.RequireAuth(s.GetResourceHandler()))
	s.RegisterRouteFunc("PUT "+RouteResource, s.RequireAuth(s.UpdateResourceHandler()))
	s.RegisterRouteFunc("DELETE "+RouteResource, s.RequireAuth(s.DeleteResourceHandler()))
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)
		if len(parts) > 1 {
			log.Debug().Str("method", parts[0]).Str("path", parts[1]).Msg("route registered")
		} else {
			log.Debug().Str("path", parts[0]).Msg("route registered")
		}
	}
}

func (s *Server) seedDemoUser() error {
	hash, err := users.HashPassword(DemoPassword)
	if err != nil {
		return err
	}
	s.users.create(DemoEmail, DemoName, hash)
	return nil
}
