// Package register реализует HTTP-обработчик вебхука провайдера идентификации.
// Конечная точка доступна без аутентификации вызывающего: границей доверия
// служит подпись доставки, а не сессия. Ошибки проверки терминальны для
// доставки — повторы остаются на стороне провайдера.
package register

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/todo-saas/internal/apperr"
	"github.com/magabrotheeeer/todo-saas/internal/http/response"
	"github.com/magabrotheeeer/todo-saas/internal/lib/sl"
	"github.com/magabrotheeeer/todo-saas/internal/lib/webhooksig"
	"github.com/magabrotheeeer/todo-saas/internal/models"
)

// Service описывает интерфейс обработки проверенного события провайдера.
type Service interface {
	ProcessEvent(ctx context.Context, event models.ProviderEvent) error
}

// Handler управляет HTTP-запросами вебхука провайдера.
type Handler struct {
	log      *slog.Logger
	service  Service
	verifier *webhooksig.Verifier
}

// New создает новый Handler. verifier может быть nil, если секрет
// не сконфигурирован — тогда все доставки отклоняются с 500.
func New(log *slog.Logger, service Service, verifier *webhooksig.Verifier) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		verifier: verifier,
	}
}

// ServeHTTP godoc
// @Summary Вебхук провайдера идентификации
// @Description Принимает подписанные события жизненного цикла учётных записей. На user.created создаёт локального пользователя.
// @Tags Webhook
// @Accept json
// @Produce json
// @Param svix-id header string true "ID доставки"
// @Param svix-timestamp header string true "Метка времени доставки"
// @Param svix-signature header string true "Подписи доставки"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Нет заголовков, неверная подпись или нет основного email"
// @Failure 500 {object} response.ErrorResponse "Секрет не задан или ошибка хранилища"
// @Router /webhook/register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.webhook.register"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if h.verifier == nil {
		log.Error("webhook secret is not configured")
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("webhook secret not set"))
		return
	}

	msgID := r.Header.Get("svix-id")
	timestamp := r.Header.Get("svix-timestamp")
	signature := r.Header.Get("svix-signature")
	if msgID == "" || timestamp == "" || signature == "" {
		log.Error("missing required webhook headers")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing required headers"))
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Error("failed to read webhook body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.verifier.Verify(msgID, timestamp, signature, body); err != nil {
		log.Error("webhook signature verification failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid signature"))
		return
	}

	var event models.ProviderEvent
	if err := json.Unmarshal(body, &event); err != nil {
		log.Error("failed to unmarshal webhook payload", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	err = h.service.ProcessEvent(r.Context(), event)
	switch {
	case errors.Is(err, apperr.ErrMissingPrimaryEmail):
		log.Error("primary email not found in event")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("primary email not found"))
		return
	case err != nil:
		log.Error("failed to process provider event", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("error creating user"))
		return
	}

	log.Info("webhook processed", slog.String("event", event.Type))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message": "webhook received",
	}))
}
