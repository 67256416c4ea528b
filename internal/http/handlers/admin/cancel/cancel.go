// Package cancel реализует админский HTTP-обработчик отмены подписки.
package cancel

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/todo-saas/internal/apperr"
	"github.com/magabrotheeeer/todo-saas/internal/http/response"
	"github.com/magabrotheeeer/todo-saas/internal/lib/sl"
)

// Service описывает интерфейс бизнес-логики админской отмены.
type Service interface {
	AdminCancel(ctx context.Context, userUID string) error
}

// Handler управляет HTTP-запросами админской отмены подписки.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Отменить подписку пользователя
// @Description Отменяет подписку пользователя. Если подписки нет — конфликт.
// @Tags Admin
// @Produce json
// @Param userId query string true "UID пользователя"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.ErrorResponse "Требуется роль администратора"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 409 {object} response.ErrorResponse "Подписка не активна"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /admin [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.cancel"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	targetUID := r.URL.Query().Get("userId")
	if targetUID == "" {
		log.Error("missing userId query parameter")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("userId is required"))
		return
	}

	err := h.service.AdminCancel(r.Context(), targetUID)
	switch {
	case errors.Is(err, apperr.ErrUserNotFound):
		log.Info("user not found", sl.UID(targetUID))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("user not found"))
		return
	case errors.Is(err, apperr.ErrNotSubscribed):
		log.Info("user is not subscribed", sl.UID(targetUID))
		w.WriteHeader(http.StatusConflict)
		render.JSON(w, r, response.Error("user is not subscribed"))
		return
	case err != nil:
		log.Error("failed to cancel subscription", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not cancel subscription"))
		return
	}

	log.Info("subscription cancelled", sl.UID(targetUID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message": "subscription cancelled",
	}))
}
