package register

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/todo-saas/internal/apperr"
	"github.com/magabrotheeeer/todo-saas/internal/lib/webhooksig"
	"github.com/magabrotheeeer/todo-saas/internal/models"
)

const testSecret = "whsec_MfKQ9r8GKYqrTwjUPD8ILPZIo2LaLaSw"

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) ProcessEvent(ctx context.Context, event models.ProviderEvent) error {
	return m.Called(ctx, event).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func validEventBody(t *testing.T) []byte {
	t.Helper()
	body, err := json.Marshal(models.ProviderEvent{
		Type: "user.created",
		Data: models.ProviderEventData{
			ID:                    "user_abc",
			PrimaryEmailAddressID: "email_1",
			EmailAddresses: []models.ProviderEmailAddress{
				{ID: "email_1", EmailAddress: "new@example.com"},
			},
		},
	})
	require.NoError(t, err)
	return body
}

// signedRequest собирает доставку с корректной подписью текущего момента.
func signedRequest(t *testing.T, v *webhooksig.Verifier, body []byte) *http.Request {
	t.Helper()
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	req := httptest.NewRequest(http.MethodPost, "/webhook/register", bytes.NewReader(body))
	req.Header.Set("svix-id", "msg_1")
	req.Header.Set("svix-timestamp", timestamp)
	req.Header.Set("svix-signature", v.Sign("msg_1", timestamp, body))
	return req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))
}

func TestRegisterHandler_ServeHTTP(t *testing.T) {
	verifier, err := webhooksig.NewVerifier(testSecret)
	require.NoError(t, err)

	t.Run("подписанная доставка user.created", func(t *testing.T) {
		serviceMock := new(ServiceMock)
		serviceMock.On("ProcessEvent", mock.Anything, mock.MatchedBy(func(e models.ProviderEvent) bool {
			return e.Type == "user.created" && e.Data.ID == "user_abc"
		})).Return(nil).Once()
		handler := New(newNoopLogger(), serviceMock, verifier)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, signedRequest(t, verifier, validEventBody(t)))

		assert.Equal(t, http.StatusOK, rec.Code)
		var got map[string]any
		assert.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, "OK", got["status"])
		serviceMock.AssertExpectations(t)
	})

	t.Run("секрет не сконфигурирован", func(t *testing.T) {
		handler := New(newNoopLogger(), new(ServiceMock), nil)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, signedRequest(t, verifier, validEventBody(t)))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("нет заголовков подписи", func(t *testing.T) {
		handler := New(newNoopLogger(), new(ServiceMock), verifier)

		req := httptest.NewRequest(http.MethodPost, "/webhook/register", bytes.NewReader(validEventBody(t)))
		req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		var got map[string]any
		assert.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, "missing required headers", got["error"])
	})

	t.Run("подпись не совпадает с телом", func(t *testing.T) {
		handler := New(newNoopLogger(), new(ServiceMock), verifier)

		req := signedRequest(t, verifier, validEventBody(t))
		req.Body = io.NopCloser(bytes.NewReader([]byte(`{"type":"user.created","data":{}}`)))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		var got map[string]any
		assert.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, "invalid signature", got["error"])
	})

	t.Run("устаревшая метка времени", func(t *testing.T) {
		handler := New(newNoopLogger(), new(ServiceMock), verifier)

		body := validEventBody(t)
		timestamp := strconv.FormatInt(time.Now().Add(-time.Hour).Unix(), 10)
		req := httptest.NewRequest(http.MethodPost, "/webhook/register", bytes.NewReader(body))
		req.Header.Set("svix-id", "msg_1")
		req.Header.Set("svix-timestamp", timestamp)
		req.Header.Set("svix-signature", verifier.Sign("msg_1", timestamp, body))
		req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("нет основного email в событии", func(t *testing.T) {
		serviceMock := new(ServiceMock)
		serviceMock.On("ProcessEvent", mock.Anything, mock.Anything).
			Return(apperr.ErrMissingPrimaryEmail).Once()
		handler := New(newNoopLogger(), serviceMock, verifier)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, signedRequest(t, verifier, validEventBody(t)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		var got map[string]any
		assert.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, "primary email not found", got["error"])
		serviceMock.AssertExpectations(t)
	})

	t.Run("ошибка хранилища", func(t *testing.T) {
		serviceMock := new(ServiceMock)
		serviceMock.On("ProcessEvent", mock.Anything, mock.Anything).
			Return(fmt.Errorf("storage.CreateUser: %w", errors.New("db error"))).Once()
		handler := New(newNoopLogger(), serviceMock, verifier)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, signedRequest(t, verifier, validEventBody(t)))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		var got map[string]any
		assert.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, "error creating user", got["error"])
		serviceMock.AssertExpectations(t)
	})
}
