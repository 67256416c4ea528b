package models

// ProviderEvent описывает событие жизненного цикла учётной записи,
// доставленное вебхуком провайдера идентификации.
type ProviderEvent struct {
	Type string            `json:"type"`
	Data ProviderEventData `json:"data"`
}

// ProviderEventData содержит данные учётной записи из события.
type ProviderEventData struct {
	ID                    string                 `json:"id"`
	EmailAddresses        []ProviderEmailAddress `json:"email_addresses"`
	PrimaryEmailAddressID string                 `json:"primary_email_address_id"`
}

// ProviderEmailAddress представляет один адрес из списка адресов учётной записи.
type ProviderEmailAddress struct {
	ID           string `json:"id"`
	EmailAddress string `json:"email_address"`
}

// SubscriptionEvent публикуется в очередь уведомлений при изменении
// состояния подписки пользователя.
type SubscriptionEvent struct {
	UserUID string `json:"user_uid"`
	Email   string `json:"email"`
	Action  string `json:"action"`            // granted, cancelled
	EndsAt  string `json:"ends_at,omitempty"` // RFC3339, пусто при отмене
}
