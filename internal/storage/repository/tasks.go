package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/magabrotheeeer/todo-saas/internal/apperr"
	"github.com/magabrotheeeer/todo-saas/internal/models"
)

// escapeLike экранирует метасимволы шаблона LIKE в поисковой строке,
// чтобы % и _ искались буквально, а не как подстановочные знаки.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// CreateTask вставляет новую задачу с проверкой квоты владельца.
// Проверка и вставка выполняются в одной транзакции: строка владельца
// блокируется FOR UPDATE, поэтому два конкурентных создания не могут
// оба увидеть счётчик ниже квоты.
func (s *Storage) CreateTask(ctx context.Context, task models.Task, quota int) error {
	const op = "storage.CreateTask"

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var isSubscribed bool
	err = tx.QueryRowContext(ctx,
		`SELECT is_subscribed FROM users WHERE uid = $1 FOR UPDATE`,
		task.OwnerUID).Scan(&isSubscribed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%s: %w", op, apperr.ErrUserNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	if !isSubscribed {
		var count int
		err = tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM tasks WHERE owner_uid = $1`,
			task.OwnerUID).Scan(&count)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if count >= quota {
			return fmt.Errorf("%s: %w", op, apperr.ErrQuotaExceeded)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO tasks (id, title, completed, owner_uid, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		task.ID, task.Title, task.Completed, task.OwnerUID, task.CreatedAt, task.UpdatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetTask возвращает задачу по её ID.
func (s *Storage) GetTask(ctx context.Context, id string) (*models.Task, error) {
	const op = "storage.GetTask"

	query := `SELECT id, title, completed, owner_uid, created_at, updated_at
			  FROM tasks WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	var t models.Task
	if err := row.Scan(&t.ID, &t.Title, &t.Completed, &t.OwnerUID,
		&t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, apperr.ErrTaskNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &t, nil
}

// ListTasks возвращает страницу задач владельца, отфильтрованных по подстроке
// заголовка без учёта регистра, от новых к старым.
func (s *Storage) ListTasks(ctx context.Context, ownerUID, search string, limit, offset int) ([]*models.Task, error) {
	const op = "storage.ListTasks"

	query := `SELECT id, title, completed, owner_uid, created_at, updated_at
			  FROM tasks
			  WHERE owner_uid = $1
			    AND title ILIKE '%' || $2 || '%'
			  ORDER BY created_at DESC
			  LIMIT $3 OFFSET $4`
	rows, err := s.DB.QueryContext(ctx, query, ownerUID, escapeLike(search), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Task
	for rows.Next() {
		var t models.Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Completed, &t.OwnerUID,
			&t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CountTasks подсчитывает задачи владельца под тем же фильтром, что и ListTasks.
func (s *Storage) CountTasks(ctx context.Context, ownerUID, search string) (int, error) {
	const op = "storage.CountTasks"

	query := `SELECT COUNT(*)
			  FROM tasks
			  WHERE owner_uid = $1
			    AND title ILIKE '%' || $2 || '%'`
	var count int
	if err := s.DB.QueryRowContext(ctx, query, ownerUID, escapeLike(search)).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// UpdateTaskCompletion записывает признак выполнения и возвращает обновлённую задачу.
func (s *Storage) UpdateTaskCompletion(ctx context.Context, id string, completed bool) (*models.Task, error) {
	const op = "storage.UpdateTaskCompletion"

	query := `UPDATE tasks
			  SET completed = $1, updated_at = now()
			  WHERE id = $2
			  RETURNING id, title, completed, owner_uid, created_at, updated_at`
	row := s.DB.QueryRowContext(ctx, query, completed, id)

	var t models.Task
	if err := row.Scan(&t.ID, &t.Title, &t.Completed, &t.OwnerUID,
		&t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, apperr.ErrTaskNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &t, nil
}

// RenameTask записывает новый заголовок и возвращает обновлённую задачу.
func (s *Storage) RenameTask(ctx context.Context, id, title string) (*models.Task, error) {
	const op = "storage.RenameTask"

	query := `UPDATE tasks
			  SET title = $1, updated_at = now()
			  WHERE id = $2
			  RETURNING id, title, completed, owner_uid, created_at, updated_at`
	row := s.DB.QueryRowContext(ctx, query, title, id)

	var t models.Task
	if err := row.Scan(&t.ID, &t.Title, &t.Completed, &t.OwnerUID,
		&t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, apperr.ErrTaskNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &t, nil
}

// RemoveTask удаляет задачу по ID и возвращает количество удалённых строк.
func (s *Storage) RemoveTask(ctx context.Context, id string) (int, error) {
	const op = "storage.RemoveTask"

	result, err := s.DB.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}
