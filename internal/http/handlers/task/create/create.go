// Package create реализует HTTP-обработчик для создания новых задач.
//
// Handler принимает JSON-запрос с заголовком задачи, валидирует его,
// извлекает uid пользователя из контекста и вызывает бизнес-логику
// создания задачи с проверкой квоты бесплатного тарифа.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/todo-saas/internal/apperr"
	"github.com/magabrotheeeer/todo-saas/internal/http/middlewarectx"
	"github.com/magabrotheeeer/todo-saas/internal/http/response"
	"github.com/magabrotheeeer/todo-saas/internal/lib/sl"
	"github.com/magabrotheeeer/todo-saas/internal/models"
)

// Service описывает интерфейс бизнес-логики создания задачи.
type Service interface {
	Create(ctx context.Context, ownerUID, title string) (*models.Task, error)
}

// Handler управляет HTTP-запросами на создание задач.
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
// @Summary Создать задачу
// @Description Создает задачу текущего пользователя. Без подписки доступно не более трёх задач.
// @Tags Tasks
// @Accept json
// @Produce json
// @Param request body models.DummyTask true "Новая задача"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Квота бесплатного тарифа исчерпана"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /tasks [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.task.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

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

	task, err := h.service.Create(r.Context(), userUID, req.Title)
	switch {
	case errors.Is(err, apperr.ErrQuotaExceeded):
		log.Info("task quota exceeded", sl.UID(userUID))
		w.WriteHeader(http.StatusForbidden)
		render.JSON(w, r, response.Error("upgrade your subscription to add more tasks"))
		return
	case errors.Is(err, apperr.ErrEmptyTitle):
		log.Error("empty task title")
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error("task title must not be empty"))
		return
	case errors.Is(err, apperr.ErrUserNotFound):
		log.Error("user not found", sl.UID(userUID))
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("user not found"))
		return
	case err != nil:
		log.Error("failed to create task", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create task"))
		return
	}

	log.Info("created task", slog.String("task_id", task.ID))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(task))
}
