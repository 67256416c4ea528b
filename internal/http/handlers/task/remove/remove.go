// Package remove реализует HTTP-обработчик удаления задачи.
package remove

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/todo-saas/internal/apperr"
	"github.com/magabrotheeeer/todo-saas/internal/http/middlewarectx"
	"github.com/magabrotheeeer/todo-saas/internal/http/response"
	"github.com/magabrotheeeer/todo-saas/internal/lib/sl"
)

// Service описывает интерфейс бизнес-логики удаления задачи.
type Service interface {
	Remove(ctx context.Context, taskID, callerUID string, isAdmin bool) error
}

// Handler управляет HTTP-запросами на удаление задач.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удалить задачу
// @Description Удаляет задачу владельца. Удаление несуществующей задачи — 404.
// @Tags Tasks
// @Produce json
// @Param id path string true "ID задачи"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Чужая задача"
// @Failure 404 {object} response.ErrorResponse "Задача не найдена"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /tasks/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.task.remove"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	taskID := chi.URLParam(r, "id")

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	err := h.service.Remove(r.Context(), taskID, userUID, middlewarectx.IsAdmin(r.Context()))
	switch {
	case errors.Is(err, apperr.ErrTaskNotFound):
		log.Info("task not found", slog.String("task_id", taskID))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("task not found"))
		return
	case errors.Is(err, apperr.ErrForbidden):
		log.Info("caller is not the task owner", slog.String("task_id", taskID), sl.UID(userUID))
		w.WriteHeader(http.StatusForbidden)
		render.JSON(w, r, response.Error("forbidden"))
		return
	case err != nil:
		log.Error("failed to remove task", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not remove task"))
		return
	}

	log.Info("task removed", slog.String("task_id", taskID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message": "task deleted successfully",
	}))
}
