package api

import (
	"log/slog"
	"net/http"
	"time"

	"minisocial/internal/api/gql"
	"minisocial/internal/api/handler"
	"minisocial/internal/app/service"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(
	authService *service.AuthService,
	postService *service.PostService,
	db handler.Pinger,
	logger *slog.Logger,
) (http.Handler, error) {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	healthHandler := handler.NewHealthHandler(db, logger)
	r.Get("/health", healthHandler.Health)

	// REST routes share their root with the GraphQL endpoint.
	authHandler := handler.NewAuthHandler(authService, logger)
	authHandler.RegisterRoutes(r)

	postHandler := handler.NewPostHandler(postService, logger)
	postHandler.RegisterRoutes(r)

	schema, err := gql.NewSchema(authService, postService, logger)
	if err != nil {
		return nil, err
	}
	r.Handle("/graphql", gql.NewHandler(&schema))

	return r, nil
}
