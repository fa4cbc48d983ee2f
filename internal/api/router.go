// Herbfinder - Plant Identification and Community Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/herbfinder

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/tomtom215/herbfinder/internal/middleware"
)

// Guard is the bearer-token middleware. *auth.Guard satisfies it.
type Guard interface {
	Require(next http.Handler) http.Handler
}

// RouterConfig selects the optional parts of the route table.
type RouterConfig struct {
	Middleware *ChiMiddlewareConfig
	// AnalyzeRequiresAuth puts /analyze_plant_image behind the guard.
	AnalyzeRequiresAuth bool
	// DisableSwagger omits /swagger/*.
	DisableSwagger bool
}

// Router wires handlers, the guard and middleware into a chi router.
type Router struct {
	handler *Handler
	guard   Guard
	chiMW   *ChiMiddleware
	config  RouterConfig
}

// NewRouter creates a Router.
func NewRouter(handler *Handler, guard Guard, cfg RouterConfig) *Router {
	return &Router{
		handler: handler,
		guard:   guard,
		chiMW:   NewChiMiddleware(cfg.Middleware),
		config:  cfg,
	}
}

// Setup configures all HTTP routes.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()
	h := router.handler

	// Order matters: request id first so every later log line carries it.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.AccessLog)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMW.CORS())
	r.Use(middleware.PrometheusMetrics)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusNotFound, ErrorResponse{Error: "route not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: "method not allowed"})
	})

	r.Get("/", h.Root)
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", h.HealthLive)
		r.Get("/ready", h.HealthReady)
	})
	r.Handle("/metrics", promhttp.Handler())

	if !router.config.DisableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
			httpSwagger.DeepLinking(true),
			httpSwagger.DocExpansion("list"),
			httpSwagger.DomID("swagger-ui"),
		))
	}

	// Account endpoints carry the stricter per-IP limit.
	r.Group(func(r chi.Router) {
		r.Use(router.chiMW.RateLimitAuth())
		r.Post("/create_user", h.CreateUser)
		r.Post("/verify_token", h.VerifyToken)
	})

	r.Group(func(r chi.Router) {
		r.Use(router.chiMW.RateLimit())

		r.Get("/posts", h.ListPosts)
		r.Get("/posts/{postID}", h.GetPost)
		r.Get("/posts/{postID}/comments", h.ListComments)

		r.Group(func(r chi.Router) {
			r.Use(router.guard.Require)
			r.Post("/posts", h.CreatePost)
			r.Post("/posts/{postID}/like", h.LikePost)
			r.Get("/posts/{postID}/like", h.LikeStatus)
			r.Post("/posts/{postID}/comments", h.CreateComment)
			r.Get("/users/{userID}/posts", h.ListUserPosts)
		})

		if router.config.AnalyzeRequiresAuth {
			r.With(router.guard.Require).Post("/analyze_plant_image", h.AnalyzePlantImage)
		} else {
			r.Post("/analyze_plant_image", h.AnalyzePlantImage)
		}
	})

	return r
}
