// Package apperr определяет доменные ошибки, общие для сервисов
// и HTTP-обработчиков. Обработчики сопоставляют их с HTTP-статусами
// через errors.Is, не разбирая текст ошибки.
package apperr

import "errors"

var (
	// ErrTaskNotFound — задача с указанным идентификатором не существует.
	ErrTaskNotFound = errors.New("task not found")
	// ErrUserNotFound — пользователь не найден в локальном хранилище.
	ErrUserNotFound = errors.New("user not found")
	// ErrForbidden — вызывающий не владелец задачи и не администратор.
	ErrForbidden = errors.New("forbidden")
	// ErrQuotaExceeded — неподписанный пользователь исчерпал лимит задач.
	ErrQuotaExceeded = errors.New("task quota exceeded")
	// ErrEmptyTitle — текст задачи пуст после обрезки пробелов.
	ErrEmptyTitle = errors.New("task title is empty")
	// ErrAlreadySubscribed — подписка уже активна (админский путь выдачи).
	ErrAlreadySubscribed = errors.New("user is already subscribed")
	// ErrNotSubscribed — подписки нет, отменять нечего.
	ErrNotSubscribed = errors.New("user is not subscribed")
	// ErrMissingPrimaryEmail — в событии провайдера нет основного адреса.
	ErrMissingPrimaryEmail = errors.New("primary email not found in event")
	// ErrEmailTaken — пользователь с такой почтой уже существует.
	ErrEmailTaken = errors.New("email already registered")
)
