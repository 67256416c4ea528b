package list

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/todo-saas/internal/http/middlewarectx"
	"github.com/magabrotheeeer/todo-saas/internal/models"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) List(ctx context.Context, ownerUID string, page int, search string) ([]*models.Task, int, int, error) {
	args := m.Called(ctx, ownerUID, page, search)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Int(2), args.Error(3)
	}
	return args.Get(0).([]*models.Task), args.Int(1), args.Int(2), args.Error(3)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestListHandler_ServeHTTP(t *testing.T) {
	serviceMock := new(ServiceMock)
	handler := New(newNoopLogger(), serviceMock)

	t.Run("страница с поиском", func(t *testing.T) {
		serviceMock.ExpectedCalls = nil
		serviceMock.Calls = nil
		tasks := []*models.Task{
			{ID: "b", Title: "Buy Milk", OwnerUID: "user_1"},
			{ID: "a", Title: "Buy Bread", OwnerUID: "user_1"},
		}
		serviceMock.On("List", mock.Anything, "user_1", 2, "buy").Return(tasks, 3, 2, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/tasks?page=2&search=buy", nil)
		ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123")
		ctx = context.WithValue(ctx, middlewarectx.UserUID, "user_1")
		req = req.WithContext(ctx)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var got map[string]any
		assert.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, "OK", got["status"])

		data := got["data"].(map[string]any)
		assert.Equal(t, float64(3), data["total_pages"])
		assert.Equal(t, float64(2), data["current_page"])
		assert.Len(t, data["tasks"], 2)
		serviceMock.AssertExpectations(t)
	})

	t.Run("некорректный номер страницы приводится к первой", func(t *testing.T) {
		serviceMock.ExpectedCalls = nil
		serviceMock.Calls = nil
		serviceMock.On("List", mock.Anything, "user_1", 1, "").Return([]*models.Task{}, 0, 1, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/tasks?page=abc", nil)
		ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123")
		ctx = context.WithValue(ctx, middlewarectx.UserUID, "user_1")
		req = req.WithContext(ctx)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		serviceMock.AssertExpectations(t)
	})

	t.Run("пустая страница — пустой список, не null", func(t *testing.T) {
		serviceMock.ExpectedCalls = nil
		serviceMock.Calls = nil
		serviceMock.On("List", mock.Anything, "user_1", 1, "").Return(nil, 0, 1, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
		ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123")
		ctx = context.WithValue(ctx, middlewarectx.UserUID, "user_1")
		req = req.WithContext(ctx)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var got map[string]any
		assert.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		data := got["data"].(map[string]any)
		tasks, ok := data["tasks"].([]any)
		assert.True(t, ok)
		assert.Empty(t, tasks)
	})

	t.Run("нет uid в контексте", func(t *testing.T) {
		serviceMock.ExpectedCalls = nil
		serviceMock.Calls = nil

		req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
		req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("ошибка сервиса", func(t *testing.T) {
		serviceMock.ExpectedCalls = nil
		serviceMock.Calls = nil
		serviceMock.On("List", mock.Anything, "user_1", 1, "").Return(nil, 0, 0, errors.New("db error")).Once()

		req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
		ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123")
		ctx = context.WithValue(ctx, middlewarectx.UserUID, "user_1")
		req = req.WithContext(ctx)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		serviceMock.AssertExpectations(t)
	})
}
