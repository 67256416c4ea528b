// Package models содержит доменную модель пользователя системы.
// Пользователи создаются только синхронизацией с внешним провайдером
// идентификации и никогда не удаляются этим сервисом.
package models

import "time"

// User представляет пользователя, синхронизированного из провайдера идентификации.
type User struct {
	UID                string     `json:"id"`                   // Идентификатор, выданный провайдером
	Email              string     `json:"email"`                // Электронная почта (уникальная)
	IsSubscribed       bool       `json:"is_subscribed"`        // Флаг активной подписки
	SubscriptionEndsAt *time.Time `json:"subscription_ends_at"` // Дата окончания подписки, nil если подписки нет
}

// SubscriptionStatus описывает действующий статус подписки пользователя
// после ленивой коррекции истечения.
type SubscriptionStatus struct {
	IsSubscribed bool       `json:"is_subscribed"`
	EndsAt       *time.Time `json:"subscription_ends_at"`
}
