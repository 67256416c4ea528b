// Package todosaas предоставляет маршруты для основного приложения.
package todosaas

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	admincancel "github.com/magabrotheeeer/todo-saas/internal/http/handlers/admin/cancel"
	"github.com/magabrotheeeer/todo-saas/internal/http/handlers/admin/finduser"
	admingrant "github.com/magabrotheeeer/todo-saas/internal/http/handlers/admin/grant"
	"github.com/magabrotheeeer/todo-saas/internal/http/handlers/subscription/grant"
	"github.com/magabrotheeeer/todo-saas/internal/http/handlers/subscription/status"
	"github.com/magabrotheeeer/todo-saas/internal/http/handlers/task/complete"
	"github.com/magabrotheeeer/todo-saas/internal/http/handlers/task/create"
	"github.com/magabrotheeeer/todo-saas/internal/http/handlers/task/list"
	"github.com/magabrotheeeer/todo-saas/internal/http/handlers/task/remove"
	"github.com/magabrotheeeer/todo-saas/internal/http/handlers/task/rename"
	"github.com/magabrotheeeer/todo-saas/internal/http/handlers/webhook/register"
	"github.com/magabrotheeeer/todo-saas/internal/http/middlewarectx"
	"github.com/magabrotheeeer/todo-saas/internal/lib/webhooksig"
	adminservice "github.com/magabrotheeeer/todo-saas/internal/services/admin"
	identityservice "github.com/magabrotheeeer/todo-saas/internal/services/identity"
	subscriptionservice "github.com/magabrotheeeer/todo-saas/internal/services/subscription"
	taskservice "github.com/magabrotheeeer/todo-saas/internal/services/task"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger,
	tokenParser middlewarectx.TokenParser, verifier *webhooksig.Verifier,
	taskService *taskservice.Service, subscriptionService *subscriptionservice.Service,
	identityService *identityservice.Service, adminService *adminservice.Service) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	limiter := rate.NewLimiter(50, 100)

	r.Route("/api/v1", func(r chi.Router) {
		// Группа с аутентификацией по токену провайдера
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(tokenParser, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger, limiter))

			r.Get("/tasks", list.New(logger, taskService).ServeHTTP)
			r.Post("/tasks", create.New(logger, taskService).ServeHTTP)
			r.Put("/tasks/{id}", complete.New(logger, taskService).ServeHTTP)
			r.Patch("/tasks/{id}", rename.New(logger, taskService).ServeHTTP)
			r.Delete("/tasks/{id}", remove.New(logger, taskService).ServeHTTP)

			r.Get("/subscription", status.New(logger, subscriptionService).ServeHTTP)
			r.Post("/subscription", grant.New(logger, subscriptionService).ServeHTTP)

			// Админские операции: проверка владельца заменяется проверкой роли
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.AdminOnlyMiddleware(logger))
				r.Get("/admin", finduser.New(logger, adminService).ServeHTTP)
				r.Patch("/admin", admingrant.New(logger, subscriptionService).ServeHTTP)
				r.Put("/admin", admincancel.New(logger, subscriptionService).ServeHTTP)
			})
		})

		// Вебхук провайдера идентификации (без аутентификации, граница доверия — подпись)
		r.Post("/webhook/register", register.New(logger, identityService, verifier).ServeHTTP)
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
