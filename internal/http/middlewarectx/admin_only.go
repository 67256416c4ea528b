package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/todo-saas/internal/http/response"
)

// AdminOnlyMiddleware пропускает запрос дальше только при роли admin
// в контексте. Роль кладётся туда JWTMiddleware из токена провайдера.
func AdminOnlyMiddleware(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !IsAdmin(r.Context()) {
				log.Error("admin role required")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("unauthorized - only admin can access"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
