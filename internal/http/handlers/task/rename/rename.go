// Package rename реализует HTTP-обработчик переименования задачи.
package rename

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

// Service описывает интерфейс бизнес-логики переименования задачи.
type Service interface {
	Rename(ctx context.Context, taskID, callerUID string, isAdmin bool, title string) (*models.Task, error)
}

// Handler управляет HTTP-запросами на переименование.
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
// @Summary Переименовать задачу
// @Description Записывает новый заголовок задачи. Правило валидации то же, что и при создании.
// @Tags Tasks
// @Accept json
// @Produce json
// @Param id path string true "ID задачи"
// @Param request body models.DummyTask true "Новый заголовок"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Чужая задача"
// @Failure 404 {object} response.ErrorResponse "Задача не найдена"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /tasks/{id} [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.task.rename"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	taskID := chi.URLParam(r, "id")

	var req models.DummyTask
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

	task, err := h.service.Rename(r.Context(), taskID, userUID, middlewarectx.IsAdmin(r.Context()), req.Title)
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
	case errors.Is(err, apperr.ErrEmptyTitle):
		log.Error("empty task title")
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error("task title must not be empty"))
		return
	case err != nil:
		log.Error("failed to rename task", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not rename task"))
		return
	}

	log.Info("task renamed", slog.String("task_id", task.ID))
	render.JSON(w, r, response.StatusOKWithData(task))
}
