// Package finduser реализует админский HTTP-обработчик поиска пользователя
// по email вместе с его страницей задач.
package finduser

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/todo-saas/internal/http/response"
	"github.com/magabrotheeeer/todo-saas/internal/lib/sl"
	"github.com/magabrotheeeer/todo-saas/internal/services/admin"
)

// Service описывает интерфейс бизнес-логики админского поиска.
type Service interface {
	FindUserWithTasks(ctx context.Context, email string, page int) (*admin.UserWithTasks, int, int, error)
}

// Handler управляет HTTP-запросами админского поиска пользователя.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Найти пользователя с задачами
// @Description Ищет пользователя по точному email и возвращает его задачи постранично. Отсутствие пользователя — пустой результат, не ошибка.
// @Tags Admin
// @Produce json
// @Param email query string true "Email пользователя"
// @Param page query int false "Номер страницы задач"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.ErrorResponse "Требуется роль администратора"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /admin [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.finduser"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	email := r.URL.Query().Get("email")
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	result, totalPages, currentPage, err := h.service.FindUserWithTasks(r.Context(), email, page)
	if err != nil {
		log.Error("failed to find user", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not find user"))
		return
	}

	log.Info("admin user lookup", slog.String("email", email), slog.Bool("found", result.User != nil))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"user":         result.User,
		"tasks":        result.Tasks,
		"total_pages":  totalPages,
		"current_page": currentPage,
	}))
}
