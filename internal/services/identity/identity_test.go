package identity

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/todo-saas/internal/apperr"
	"github.com/magabrotheeeer/todo-saas/internal/models"
)

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) CreateUser(ctx context.Context, user models.User) error {
	return m.Called(ctx, user).Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestService_ProcessEvent(t *testing.T) {
	createdEvent := models.ProviderEvent{
		Type: "user.created",
		Data: models.ProviderEventData{
			ID:                    "user_abc",
			PrimaryEmailAddressID: "email_1",
			EmailAddresses: []models.ProviderEmailAddress{
				{ID: "email_0", EmailAddress: "old@example.com"},
				{ID: "email_1", EmailAddress: "new@example.com"},
			},
		},
	}

	tests := []struct {
		name       string
		event      models.ProviderEvent
		setupMocks func(r *UserRepoMock)
		wantErr    error
	}{
		{
			name:  "user.created создаёт пользователя без подписки",
			event: createdEvent,
			setupMocks: func(r *UserRepoMock) {
				r.On("CreateUser", mock.Anything, models.User{
					UID:   "user_abc",
					Email: "new@example.com",
				}).Return(nil).Once()
			},
		},
		{
			name: "прочие типы событий игнорируются",
			event: models.ProviderEvent{
				Type: "user.updated",
				Data: createdEvent.Data,
			},
			setupMocks: func(_ *UserRepoMock) {},
		},
		{
			name: "основной адрес отсутствует в списке",
			event: models.ProviderEvent{
				Type: "user.created",
				Data: models.ProviderEventData{
					ID:                    "user_abc",
					PrimaryEmailAddressID: "email_missing",
					EmailAddresses: []models.ProviderEmailAddress{
						{ID: "email_1", EmailAddress: "new@example.com"},
					},
				},
			},
			setupMocks: func(_ *UserRepoMock) {},
			wantErr:    apperr.ErrMissingPrimaryEmail,
		},
		{
			name:  "повторная доставка упирается в уникальность email",
			event: createdEvent,
			setupMocks: func(r *UserRepoMock) {
				r.On("CreateUser", mock.Anything, mock.Anything).Return(apperr.ErrEmailTaken).Once()
			},
			wantErr: apperr.ErrEmailTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			tt.setupMocks(repo)

			svc := NewService(repo, newNoopLogger())
			err := svc.ProcessEvent(context.Background(), tt.event)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			repo.AssertExpectations(t)
		})
	}
}
