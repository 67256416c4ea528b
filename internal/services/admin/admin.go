// Package admin реализует админский фасад: просмотр любого пользователя
// по email вместе с его задачами. Пагинация задач та же, что и в личном
// списке, проверка владельца заменяется проверкой роли на уровне маршрута.
package admin

import (
	"context"
	"errors"
	"log/slog"

	"github.com/magabrotheeeer/todo-saas/internal/apperr"
	"github.com/magabrotheeeer/todo-saas/internal/lib/pagination"
	"github.com/magabrotheeeer/todo-saas/internal/models"
)

// Repository определяет методы хранилища, нужные фасаду.
type Repository interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListTasks(ctx context.Context, ownerUID, search string, limit, offset int) ([]*models.Task, error)
	CountTasks(ctx context.Context, ownerUID, search string) (int, error)
}

// SubscriptionReader читает действующий статус подписки через единую
// точку ленивой коррекции, чтобы админский просмотр не показывал
// истёкшую подписку как активную.
type SubscriptionReader interface {
	GetStatus(ctx context.Context, userUID string) (*models.SubscriptionStatus, error)
}

// UserWithTasks — результат поиска пользователя с его страницей задач.
type UserWithTasks struct {
	User  *models.User   `json:"user"`
	Tasks []*models.Task `json:"tasks"`
}

// Service реализует бизнес-логику админского фасада.
type Service struct {
	repo Repository
	subs SubscriptionReader
	log  *slog.Logger
}

// NewService создает новый экземпляр Service.
func NewService(repo Repository, subs SubscriptionReader, log *slog.Logger) *Service {
	return &Service{repo: repo, subs: subs, log: log}
}

// FindUserWithTasks ищет пользователя по точному email и возвращает его
// вместе со страницей задач. Отсутствие пользователя — не ошибка:
// возвращается пустой результат с нулём страниц.
func (s *Service) FindUserWithTasks(ctx context.Context, email string, page int) (*UserWithTasks, int, int, error) {
	page = pagination.Normalize(page)

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperr.ErrUserNotFound) {
			return &UserWithTasks{}, 0, page, nil
		}
		return nil, 0, 0, err
	}

	status, err := s.subs.GetStatus(ctx, user.UID)
	if err != nil {
		return nil, 0, 0, err
	}
	user.IsSubscribed = status.IsSubscribed
	user.SubscriptionEndsAt = status.EndsAt

	tasks, err := s.repo.ListTasks(ctx, user.UID, "", pagination.PageSize, pagination.Offset(page))
	if err != nil {
		return nil, 0, 0, err
	}
	total, err := s.repo.CountTasks(ctx, user.UID, "")
	if err != nil {
		return nil, 0, 0, err
	}

	s.log.Info("admin looked up user", slog.String("email", email))
	return &UserWithTasks{User: user, Tasks: tasks}, pagination.TotalPages(total), page, nil
}
