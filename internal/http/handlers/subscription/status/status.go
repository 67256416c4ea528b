// Package status реализует HTTP-обработчик чтения статуса подписки.
// Чтение имеет побочный эффект: истёкшая подписка гасится в хранилище
// прямо в этом запросе.
package status

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/todo-saas/internal/apperr"
	"github.com/magabrotheeeer/todo-saas/internal/http/middlewarectx"
	"github.com/magabrotheeeer/todo-saas/internal/http/response"
	"github.com/magabrotheeeer/todo-saas/internal/lib/sl"
	"github.com/magabrotheeeer/todo-saas/internal/models"
)

// Service описывает интерфейс бизнес-логики статуса подписки.
type Service interface {
	GetStatus(ctx context.Context, userUID string) (*models.SubscriptionStatus, error)
}

// Handler управляет HTTP-запросами на чтение статуса подписки.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Статус подписки
// @Description Возвращает действующий статус подписки текущего пользователя с ленивой коррекцией истечения.
// @Tags Subscription
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /subscription [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.status"
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

	status, err := h.service.GetStatus(r.Context(), userUID)
	switch {
	case errors.Is(err, apperr.ErrUserNotFound):
		log.Error("user not found", sl.UID(userUID))
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("user not found"))
		return
	case err != nil:
		log.Error("failed to get subscription status", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not get subscription status"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(status))
}
