package remove

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/todo-saas/internal/apperr"
	"github.com/magabrotheeeer/todo-saas/internal/http/middlewarectx"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Remove(ctx context.Context, taskID, callerUID string, isAdmin bool) error {
	return m.Called(ctx, taskID, callerUID, isAdmin).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestRemoveHandler_ServeHTTP(t *testing.T) {
	serviceMock := new(ServiceMock)
	handler := New(newNoopLogger(), serviceMock)

	tests := []struct {
		name           string
		userUID        string
		role           string
		mockErr        error
		withMock       bool
		wantStatusCode int
		wantError      string
	}{
		{
			name:           "успешное удаление",
			userUID:        "user_1",
			withMock:       true,
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "задача не найдена",
			userUID:        "user_1",
			mockErr:        apperr.ErrTaskNotFound,
			withMock:       true,
			wantStatusCode: http.StatusNotFound,
			wantError:      "task not found",
		},
		{
			name:           "чужая задача",
			userUID:        "user_2",
			mockErr:        apperr.ErrForbidden,
			withMock:       true,
			wantStatusCode: http.StatusForbidden,
			wantError:      "forbidden",
		},
		{
			name:           "нет uid в контексте",
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "unauthorized",
		},
		{
			name:           "ошибка хранилища",
			userUID:        "user_1",
			mockErr:        errors.New("db error"),
			withMock:       true,
			wantStatusCode: http.StatusInternalServerError,
			wantError:      "could not remove task",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock.ExpectedCalls = nil
			serviceMock.Calls = nil

			isAdmin := tt.role == middlewarectx.RoleAdmin
			if tt.withMock {
				serviceMock.On("Remove", mock.Anything, "task_1", tt.userUID, isAdmin).
					Return(tt.mockErr).Once()
			}

			req := httptest.NewRequest(http.MethodDelete, "/tasks/task_1", nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", "task_1")
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			ctx = context.WithValue(ctx, middleware.RequestIDKey, "reqid123")
			if tt.userUID != "" {
				ctx = context.WithValue(ctx, middlewarectx.UserUID, tt.userUID)
			}
			if tt.role != "" {
				ctx = context.WithValue(ctx, middlewarectx.Role, tt.role)
			}
			req = req.WithContext(ctx)

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			assert.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, got["error"])
			} else {
				data := got["data"].(map[string]any)
				assert.Equal(t, "task deleted successfully", data["message"])
			}

			serviceMock.AssertExpectations(t)
		})
	}
}
