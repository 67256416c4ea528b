// Package models содержит доменные структуры задач, используемые
// в бизнес-логике и хранилище, а также вспомогательные типы
// для приёма данных из JSON-запросов.
package models

import "time"

// Task представляет собой задачу из личного списка пользователя.
// Поле OwnerUID фиксируется при создании и не меняется.
type Task struct {
	ID        string    `json:"id"`        // Уникальный идентификатор задачи
	Title     string    `json:"title"`     // Текст задачи
	Completed bool      `json:"completed"` // Признак выполнения
	OwnerUID  string    `json:"user_id"`   // Владелец задачи
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DummyTask используется для приёма данных о новой задаче из JSON-запроса.
type DummyTask struct {
	Title string `json:"title" validate:"required"` // Текст задачи
}

// DummyCompletion используется для приёма нового признака выполнения.
// Указатель нужен, чтобы отличать отсутствующее поле от false.
type DummyCompletion struct {
	Completed *bool `json:"completed" validate:"required"`
}
