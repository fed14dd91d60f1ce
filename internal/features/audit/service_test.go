package audit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clanbot/internal/sheets"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	store := sheets.NewMemoryStore()
	require.NoError(t, sheets.EnsureAllTables(context.Background(), store))
	return NewService(store)
}

func TestRecordAndList(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	svc.Record(ctx, ActionWarning, "Админ", 1, "Fox")
	svc.Record(ctx, ActionPraise, "@bear", 2, "Fox")

	entries, err := svc.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, ActionWarning, entries[0].Action)
	assert.Equal(t, "Админ", entries[0].Actor)
	assert.Equal(t, "1", entries[0].ActorID)
	assert.Equal(t, "Fox", entries[0].Target)
	assert.NotEmpty(t, entries[0].Timestamp)
}

func TestListReturnsLastN(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	for i := 0; i < 5; i++ {
		svc.Record(ctx, ActionPraise, "Админ", int64(i), "Fox")
	}

	entries, err := svc.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	// Возвращается хвост журнала, новые записи в конце
	assert.Equal(t, "3", entries[0].ActorID)
	assert.Equal(t, "4", entries[1].ActorID)
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	svc.Record(ctx, ActionWarning, "Админ", 1, "Fox")
	svc.Record(ctx, ActionPraise, "Админ", 1, "Bear")

	require.NoError(t, svc.Clear(ctx))

	entries, err := svc.List(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, entries)

	// Очистка пустого журнала — не ошибка
	require.NoError(t, svc.Clear(ctx))
}

func TestRecordSwallowsStoreErrors(t *testing.T) {
	// Лист логов не создан — запись молча не удаётся,
	// основное действие не страдает
	svc := NewService(sheets.NewMemoryStore())
	svc.Record(context.Background(), ActionWarning, "Админ", 1, "Fox")
}
