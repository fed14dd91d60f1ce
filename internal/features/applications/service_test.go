package applications

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clanbot/internal/common"
	"clanbot/internal/features/members"
	"clanbot/internal/features/praises"
	"clanbot/internal/features/warnings"
	"clanbot/internal/sheets"
)

func newTestService(t *testing.T, inviteLink string) (*Service, *members.Service, *[]string) {
	t.Helper()
	ctx := context.Background()
	store := sheets.NewMemoryStore()
	require.NoError(t, sheets.EnsureAllTables(ctx, store))

	warnSvc := warnings.NewService(warnings.NewRepository(store))
	praiseSvc := praises.NewService(praises.NewRepository(store))
	memberSvc := members.NewService(members.NewRepository(store), warnSvc, praiseSvc)

	var sent []string
	notify := func(_ int64, text string) { sent = append(sent, text) }

	svc := NewService(NewRepository(store), memberSvc, notify, inviteLink)
	return svc, memberSvc, &sent
}

func TestValidateExternalID(t *testing.T) {
	tests := []struct {
		name  string
		id    string
		valid bool
	}{
		{"steam64", "76561198012345678", true},
		{"минимальная длина", "1234567890", true},
		{"пробелы по краям", "  1234567890  ", true},
		{"слишком короткий", "123456789", false},
		{"буквы", "76561198a12345678", false},
		{"пустой", "", false},
		{"ник вместо ID", "FoxTheGreat", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateExternalID(tt.id)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, common.ErrInvalidExternalID)
			}
		})
	}
}

func TestSubmitRejectsBadExternalID(t *testing.T) {
	svc, _, _ := newTestService(t, "")

	_, err := svc.Submit(context.Background(), "Fox", "abc", "fox_tg", 100)
	assert.ErrorIs(t, err, common.ErrInvalidExternalID)
}

func TestSubmitOnePendingPerAccount(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t, "")

	_, err := svc.Submit(ctx, "Fox", "76561198012345678", "fox_tg", 100)
	require.NoError(t, err)

	_, err = svc.Submit(ctx, "Fox2", "76561198012345679", "fox_tg", 100)
	assert.ErrorIs(t, err, common.ErrPendingApplication)

	// Другой аккаунт подаёт свободно
	_, err = svc.Submit(ctx, "Bear", "76561198012345670", "bear_tg", 200)
	require.NoError(t, err)

	pending, err := svc.ListPending(ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 2)
}

func TestAcceptCreatesLinkedMember(t *testing.T) {
	ctx := context.Background()
	svc, memberSvc, sent := newTestService(t, "https://t.me/+clanchat")

	id, err := svc.Submit(ctx, "Fox", "76561198012345678", "fox_tg", 100)
	require.NoError(t, err)

	a, err := svc.Accept(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, a.Status)

	// Участник создан и сразу привязан к Telegram-аккаунту
	m, err := memberSvc.FindByLinkedID(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, "Fox", m.Nickname)
	assert.Equal(t, "76561198012345678", m.ExternalID)

	// Кандидату ушло приглашение со ссылкой на чат
	require.Len(t, *sent, 1)
	assert.True(t, strings.Contains((*sent)[0], "https://t.me/+clanchat"))

	pending, err := svc.ListPending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	// Заявка уже решена — второе нажатие кнопки безвредно
	_, err = svc.Accept(ctx, id)
	assert.ErrorIs(t, err, common.ErrApplicationDecided)
}

func TestRejectNotifiesWithoutCreatingMember(t *testing.T) {
	ctx := context.Background()
	svc, memberSvc, sent := newTestService(t, "")

	id, err := svc.Submit(ctx, "Fox", "76561198012345678", "fox_tg", 100)
	require.NoError(t, err)

	a, err := svc.Reject(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, a.Status)

	_, err = memberSvc.FindByLinkedID(ctx, 100)
	assert.ErrorIs(t, err, common.ErrNotFound)
	require.Len(t, *sent, 1)

	// После отказа можно подать заявку снова
	_, err = svc.Submit(ctx, "Fox", "76561198012345678", "fox_tg", 100)
	require.NoError(t, err)
}

func TestAcceptUnknownID(t *testing.T) {
	svc, _, _ := newTestService(t, "")

	_, err := svc.Accept(context.Background(), "нет-такой")
	assert.ErrorIs(t, err, common.ErrNotFound)
}
