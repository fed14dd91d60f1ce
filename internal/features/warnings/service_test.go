package warnings

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
	return NewService(NewRepository(store))
}

func TestRecordAndCount(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	require.NoError(t, svc.Record(ctx, "Fox", "афк на рейде"))
	require.NoError(t, svc.Record(ctx, "Fox", "токсичность в чате"))
	require.NoError(t, svc.Record(ctx, "Bear", "пропуск сбора"))

	n, err := svc.CountFor(ctx, "Fox")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = svc.CountFor(ctx, "Wolf")
	require.NoError(t, err)
	assert.Zero(t, n)

	list, err := svc.ListFor(ctx, "Fox")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "афк на рейде", list[0].Reason)
	assert.NotEmpty(t, list[0].Date)
}

func TestCountIgnoresSurroundingSpaces(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	require.NoError(t, svc.Record(ctx, "  Fox  ", "причина"))

	n, err := svc.CountFor(ctx, "Fox")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
