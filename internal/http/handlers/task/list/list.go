// Package list реализует HTTP-обработчик постраничного списка задач
// текущего пользователя с поиском по подстроке заголовка.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/todo-saas/internal/http/middlewarectx"
	"github.com/magabrotheeeer/todo-saas/internal/http/response"
	"github.com/magabrotheeeer/todo-saas/internal/lib/sl"
	"github.com/magabrotheeeer/todo-saas/internal/models"
)

// Service описывает интерфейс бизнес-логики списка задач.
type Service interface {
	List(ctx context.Context, ownerUID string, page int, search string) ([]*models.Task, int, int, error)
}

// Handler управляет HTTP-запросами на получение списка задач.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список задач пользователя
// @Description Возвращает страницу задач текущего пользователя, новые сверху. Поиск — без учёта регистра по подстроке заголовка.
// @Tags Tasks
// @Produce json
// @Param page query int false "Номер страницы (с 1)"
// @Param search query string false "Подстрока заголовка"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /tasks [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.task.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	search := r.URL.Query().Get("search")

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	tasks, totalPages, currentPage, err := h.service.List(r.Context(), userUID, page, search)
	if err != nil {
		log.Error("failed to list tasks", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list tasks"))
		return
	}
	if tasks == nil {
		tasks = []*models.Task{}
	}

	log.Info("listed tasks", slog.Int("count", len(tasks)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"tasks":        tasks,
		"total_pages":  totalPages,
		"current_page": currentPage,
	}))
}
