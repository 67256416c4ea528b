// Package complete реализует HTTP-обработчик отметки выполнения задачи.
package complete

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/todo-saas/internal/apperr"
	"github.com/magabrotheeeer/todo-saas/internal/http/middlewarectx"
	"github.com/magabrotheeeer/todo-saas/internal/http/response"
	"github.com/magabrotheeeer/todo-saas/internal/lib/sl"
	"github.com/magabrotheeeer/todo-saas/internal/models"
)

// Service описывает интерфейс бизнес-логики изменения признака выполнения.
type Service interface {
	Complete(ctx context.Context, taskID, callerUID string, isAdmin, completed bool) (*models.Task, error)
}

// Handler управляет HTTP-запросами на отметку выполнения.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Отметить выполнение задачи
// @Description Записывает признак выполнения. Операция идемпотентна.
// @Tags Tasks
// @Accept json
// @Produce json
// @Param id path string true "ID задачи"
// @Param request body models.DummyCompletion true "Новый признак выполнения"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Чужая задача"
// @Failure 404 {object} response.ErrorResponse "Задача не найдена"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /tasks/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.task.complete"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	taskID := chi.URLParam(r, "id")

	var req models.DummyCompletion
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	task, err := h.service.Complete(r.Context(), taskID, userUID, middlewarectx.IsAdmin(r.Context()), *req.Completed)
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
		log.Error("failed to update task", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not update task"))
		return
	}

	log.Info("task completion updated", slog.String("task_id", task.ID), slog.Bool("completed", task.Completed))
	render.JSON(w, r, response.StatusOKWithData(task))
}
