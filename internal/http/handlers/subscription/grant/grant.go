// Package grant реализует HTTP-обработчик самостоятельной выдачи подписки.
// Путь самообслуживания всегда перезаписывает срок на месяц вперёд,
// платёжной интеграции нет — выдача имитирует месячный грант.
package grant

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/todo-saas/internal/apperr"
	"github.com/magabrotheeeer/todo-saas/internal/http/middlewarectx"
	"github.com/magabrotheeeer/todo-saas/internal/http/response"
	"github.com/magabrotheeeer/todo-saas/internal/lib/sl"
)

// Service описывает интерфейс бизнес-логики самостоятельной выдачи.
type Service interface {
	SelfGrant(ctx context.Context, userUID string) (time.Time, error)
}

// Handler управляет HTTP-запросами на самостоятельную выдачу подписки.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Оформить подписку
// @Description Выдаёт текущему пользователю подписку на месяц, перезаписывая прежний срок.
// @Tags Subscription
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /subscription [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.grant"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	endsAt, err := h.service.SelfGrant(r.Context(), userUID)
	switch {
	case errors.Is(err, apperr.ErrUserNotFound):
		log.Error("user not found", sl.UID(userUID))
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("user not found"))
		return
	case err != nil:
		log.Error("failed to grant subscription", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not grant subscription"))
		return
	}

	log.Info("subscription granted", sl.UID(userUID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"subscription_ends_at": endsAt,
	}))
}
