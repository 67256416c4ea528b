// Package subscription содержит бизнес-логику жизненного цикла подписки:
// ленивую коррекцию истечения при чтении статуса, самостоятельную выдачу
// и админские выдачу и отмену. Фоновой проверки истечения нет — GetStatus
// является единственной точкой, где истёкшая подписка гасится, поэтому
// все чтения статуса проходят через неё.
package subscription

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/todo-saas/internal/apperr"
	"github.com/magabrotheeeer/todo-saas/internal/lib/sl"
	"github.com/magabrotheeeer/todo-saas/internal/models"
)

// statusCacheTTL — максимальное время жизни закешированного статуса.
const statusCacheTTL = time.Hour

// UserRepository определяет методы для работы с пользователями в хранилище.
type UserRepository interface {
	// GetUser возвращает пользователя по UID.
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	// UpdateSubscription записывает новое состояние подписки.
	UpdateSubscription(ctx context.Context, userUID string, isSubscribed bool, endsAt *time.Time) error
}

// Cache описывает методы для кэширования статуса подписки.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// EventPublisher публикует события подписки для конвейера уведомлений.
type EventPublisher interface {
	Publish(routingKey string, message any) error
}

// Service реализует бизнес-логику жизненного цикла подписки.
type Service struct {
	repo      UserRepository
	cache     Cache
	publisher EventPublisher
	log       *slog.Logger
}

// NewService создает новый экземпляр Service.
func NewService(repo UserRepository, cache Cache, publisher EventPublisher, log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		log:       log,
	}
}

// GetStatus возвращает действующий статус подписки пользователя.
// Если срок подписки истёк, статус корректируется в хранилище прямо здесь:
// это единственный путь, гасящий истёкшие подписки. Гонка двух коррекций
// безвредна — обе записывают одно и то же состояние.
func (s *Service) GetStatus(ctx context.Context, userUID string) (*models.SubscriptionStatus, error) {
	var status models.SubscriptionStatus
	cacheKey := statusKey(userUID)
	found, err := s.cache.Get(ctx, cacheKey, &status)
	if err != nil {
		s.log.Warn("failed to read status from cache", slog.String("key", cacheKey), sl.Err(err))
	}
	if found {
		return &status, nil
	}

	user, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		return nil, err
	}

	if user.SubscriptionEndsAt != nil && user.SubscriptionEndsAt.Before(time.Now()) {
		if err := s.repo.UpdateSubscription(ctx, userUID, false, nil); err != nil {
			return nil, err
		}
		s.log.Info("expired subscription corrected", sl.UID(userUID))
		user.IsSubscribed = false
		user.SubscriptionEndsAt = nil
	}

	status = models.SubscriptionStatus{
		IsSubscribed: user.IsSubscribed,
		EndsAt:       user.SubscriptionEndsAt,
	}
	if err := s.cache.Set(ctx, cacheKey, status, s.cacheTTL(status)); err != nil {
		s.log.Warn("failed to cache status", slog.String("key", cacheKey), sl.Err(err))
	}
	return &status, nil
}

// SelfGrant выдаёт подписку самому пользователю. Путь самообслуживания
// всегда перезаписывает срок на месяц вперёд независимо от текущего состояния.
func (s *Service) SelfGrant(ctx context.Context, userUID string) (time.Time, error) {
	user, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		return time.Time{}, err
	}

	endsAt := time.Now().UTC().AddDate(0, 1, 0)
	if err := s.repo.UpdateSubscription(ctx, userUID, true, &endsAt); err != nil {
		return time.Time{}, err
	}
	s.afterChange(ctx, user, "granted", &endsAt)
	return endsAt, nil
}

// AdminGrant выдаёт подписку пользователю от имени администратора.
// В отличие от самообслуживания, повторная выдача — конфликт.
func (s *Service) AdminGrant(ctx context.Context, userUID string) (time.Time, error) {
	status, err := s.GetStatus(ctx, userUID)
	if err != nil {
		return time.Time{}, err
	}
	if status.IsSubscribed {
		return time.Time{}, apperr.ErrAlreadySubscribed
	}
	user, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		return time.Time{}, err
	}

	endsAt := time.Now().UTC().AddDate(0, 1, 0)
	if err := s.repo.UpdateSubscription(ctx, userUID, true, &endsAt); err != nil {
		return time.Time{}, err
	}
	s.afterChange(ctx, user, "granted", &endsAt)
	return endsAt, nil
}

// AdminCancel отменяет подписку пользователя. Отмена отсутствующей
// подписки — конфликт. Чтение статуса идёт через GetStatus, поэтому
// истёкшая, но ещё не скорректированная подписка считается отсутствующей.
func (s *Service) AdminCancel(ctx context.Context, userUID string) error {
	status, err := s.GetStatus(ctx, userUID)
	if err != nil {
		return err
	}
	if !status.IsSubscribed {
		return apperr.ErrNotSubscribed
	}
	user, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		return err
	}

	if err := s.repo.UpdateSubscription(ctx, userUID, false, nil); err != nil {
		return err
	}
	s.afterChange(ctx, user, "cancelled", nil)
	return nil
}

// afterChange инвалидирует кеш статуса и публикует событие уведомления.
// Ошибки обоих шагов не фатальны для самой операции и только логируются.
func (s *Service) afterChange(ctx context.Context, user *models.User, action string, endsAt *time.Time) {
	cacheKey := statusKey(user.UID)
	if err := s.cache.Invalidate(ctx, cacheKey); err != nil {
		s.log.Warn("failed to invalidate status cache", slog.String("key", cacheKey), sl.Err(err))
	}

	event := models.SubscriptionEvent{
		UserUID: user.UID,
		Email:   user.Email,
		Action:  action,
	}
	if endsAt != nil {
		event.EndsAt = endsAt.Format(time.RFC3339)
	}
	if err := s.publisher.Publish("subscription", event); err != nil {
		s.log.Warn("failed to publish subscription event", sl.Err(err))
	}

	s.log.Info("subscription state changed", sl.UID(user.UID), slog.String("action", action))
}

// cacheTTL ограничивает время жизни записи моментом окончания подписки,
// чтобы кеш не пережил сам срок.
func (s *Service) cacheTTL(status models.SubscriptionStatus) time.Duration {
	ttl := statusCacheTTL
	if status.EndsAt != nil {
		if remaining := time.Until(*status.EndsAt); remaining < ttl {
			ttl = remaining
		}
	}
	return ttl
}

func statusKey(userUID string) string {
	return fmt.Sprintf("subscription:%s", userUID)
}
