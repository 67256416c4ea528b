// Package identity синхронизирует учётные записи из внешнего провайдера
// идентификации в локальное хранилище. Единственный источник новых
// пользователей — событие user.created, доставленное вебхуком.
package identity

import (
	"context"
	"log/slog"

	"github.com/magabrotheeeer/todo-saas/internal/apperr"
	"github.com/magabrotheeeer/todo-saas/internal/lib/sl"
	"github.com/magabrotheeeer/todo-saas/internal/models"
)

// UserRepository определяет метод создания пользователя в хранилище.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) error
}

// Service реализует обработку событий провайдера идентификации.
type Service struct {
	repo UserRepository
	log  *slog.Logger
}

// NewService создает новый экземпляр Service.
func NewService(repo UserRepository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// ProcessEvent обрабатывает проверенное событие провайдера.
// На user.created создаётся локальный пользователь без подписки,
// остальные типы событий принимаются и игнорируются. Повторная доставка
// того же события не дедуплицируется — она упрётся в уникальность email.
func (s *Service) ProcessEvent(ctx context.Context, event models.ProviderEvent) error {
	if event.Type != "user.created" {
		s.log.Info("ignored provider event", slog.String("type", event.Type))
		return nil
	}

	email, ok := primaryEmail(event.Data)
	if !ok {
		return apperr.ErrMissingPrimaryEmail
	}

	user := models.User{
		UID:          event.Data.ID,
		Email:        email,
		IsSubscribed: false,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return err
	}

	s.log.Info("user synced from provider", sl.UID(user.UID), slog.String("email", user.Email))
	return nil
}

// primaryEmail находит основной адрес в списке адресов события.
func primaryEmail(data models.ProviderEventData) (string, bool) {
	for _, addr := range data.EmailAddresses {
		if addr.ID == data.PrimaryEmailAddressID {
			return addr.EmailAddress, true
		}
	}
	return "", false
}
