// Package task содержит бизнес-логику личных списков задач:
// постраничный вывод с поиском, создание с проверкой квоты
// бесплатного тарифа и операции изменения с проверкой владельца.
package task

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/todo-saas/internal/apperr"
	"github.com/magabrotheeeer/todo-saas/internal/lib/pagination"
	"github.com/magabrotheeeer/todo-saas/internal/lib/sl"
	"github.com/magabrotheeeer/todo-saas/internal/models"
)

// FreeTierQuota — максимум задач у пользователя без подписки.
// Квота проверяется только при создании: истёкшая подписка
// не приводит к удалению лишних задач.
const FreeTierQuota = 3

// Repository определяет методы для работы с задачами в хранилище.
type Repository interface {
	// CreateTask вставляет задачу, атомарно проверяя квоту владельца.
	CreateTask(ctx context.Context, task models.Task, quota int) error
	// GetTask возвращает задачу по ID.
	GetTask(ctx context.Context, id string) (*models.Task, error)
	// ListTasks возвращает страницу задач владельца по фильтру заголовка.
	ListTasks(ctx context.Context, ownerUID, search string, limit, offset int) ([]*models.Task, error)
	// CountTasks подсчитывает задачи владельца по тому же фильтру.
	CountTasks(ctx context.Context, ownerUID, search string) (int, error)
	// UpdateTaskCompletion записывает признак выполнения.
	UpdateTaskCompletion(ctx context.Context, id string, completed bool) (*models.Task, error)
	// RenameTask записывает новый заголовок.
	RenameTask(ctx context.Context, id, title string) (*models.Task, error)
	// RemoveTask удаляет задачу и возвращает количество удалённых строк.
	RemoveTask(ctx context.Context, id string) (int, error)
}

// Service реализует бизнес-логику работы с задачами.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// NewService создает новый экземпляр Service.
func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// List возвращает страницу задач владельца вместе с общим количеством страниц
// и номером текущей страницы. Страницы нумеруются с единицы, страница за
// последней — пустой список, а не ошибка.
func (s *Service) List(ctx context.Context, ownerUID string, page int, search string) ([]*models.Task, int, int, error) {
	page = pagination.Normalize(page)

	items, err := s.repo.ListTasks(ctx, ownerUID, search, pagination.PageSize, pagination.Offset(page))
	if err != nil {
		return nil, 0, 0, err
	}
	total, err := s.repo.CountTasks(ctx, ownerUID, search)
	if err != nil {
		return nil, 0, 0, err
	}
	return items, pagination.TotalPages(total), page, nil
}

// Create создаёт новую задачу владельца. Заголовок обрезается по пробелам,
// пустой заголовок отклоняется. Квота бесплатного тарифа проверяется
// хранилищем в одной транзакции со вставкой.
func (s *Service) Create(ctx context.Context, ownerUID, title string) (*models.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperr.ErrEmptyTitle
	}

	now := time.Now().UTC()
	task := models.Task{
		ID:        uuid.NewString(),
		Title:     title,
		Completed: false,
		OwnerUID:  ownerUID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateTask(ctx, task, FreeTierQuota); err != nil {
		return nil, err
	}

	s.log.Info("created new task", slog.String("task_id", task.ID), sl.UID(ownerUID))
	return &task, nil
}

// Complete записывает признак выполнения задачи. Операция идемпотентна:
// повторная установка того же значения лишь обновляет updated_at.
func (s *Service) Complete(ctx context.Context, taskID, callerUID string, isAdmin, completed bool) (*models.Task, error) {
	if err := s.authorize(ctx, taskID, callerUID, isAdmin); err != nil {
		return nil, err
	}
	return s.repo.UpdateTaskCompletion(ctx, taskID, completed)
}

// Rename записывает новый заголовок задачи. Правило валидации то же,
// что и при создании: заголовок обрезается и не может быть пустым.
func (s *Service) Rename(ctx context.Context, taskID, callerUID string, isAdmin bool, title string) (*models.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperr.ErrEmptyTitle
	}
	if err := s.authorize(ctx, taskID, callerUID, isAdmin); err != nil {
		return nil, err
	}
	return s.repo.RenameTask(ctx, taskID, title)
}

// Remove удаляет задачу. Удаление несуществующей задачи — ошибка,
// идемпотентность не гарантируется.
func (s *Service) Remove(ctx context.Context, taskID, callerUID string, isAdmin bool) error {
	if err := s.authorize(ctx, taskID, callerUID, isAdmin); err != nil {
		return err
	}
	count, err := s.repo.RemoveTask(ctx, taskID)
	if err != nil {
		return err
	}
	if count == 0 {
		// Задача исчезла между проверкой и удалением.
		return apperr.ErrTaskNotFound
	}
	s.log.Info("removed task", slog.String("task_id", taskID))
	return nil
}

// authorize проверяет, что задача существует и вызывающий — её владелец
// либо администратор, действующий от имени владельца.
func (s *Service) authorize(ctx context.Context, taskID, callerUID string, isAdmin bool) error {
	task, err := s.repo.GetTask(ctx, taskID)
	if err != nil {
		return err
	}
	if task.OwnerUID != callerUID && !isAdmin {
		return apperr.ErrForbidden
	}
	return nil
}
