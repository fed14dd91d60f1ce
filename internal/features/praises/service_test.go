package praises

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clanbot/internal/common"
	"clanbot/internal/sheets"
)

func newTestService(t *testing.T) (*Service, sheets.Store) {
	t.Helper()
	store := sheets.NewMemoryStore()
	require.NoError(t, sheets.EnsureAllTables(context.Background(), store))
	return NewService(NewRepository(store)), store
}

func appendPraise(t *testing.T, store sheets.Store, nickname, date string) {
	t.Helper()
	err := store.AppendRow(context.Background(), sheets.TablePraises,
		sheets.Row{nickname, "Админ", "молодец", date})
	require.NoError(t, err)
}

func TestRecordAndCount(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	require.NoError(t, svc.Record(ctx, "Fox", "Bear", "вынес весь рейд"))
	require.NoError(t, svc.Record(ctx, "Fox", "Wolf", "прикрыл базу"))
	require.NoError(t, svc.Record(ctx, "Bear", "Fox", "починил стены"))

	n, err := svc.CountFor(ctx, "Fox")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	list, err := svc.ListFor(ctx, "Fox")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Bear", list[0].Issuer)
	assert.NotEmpty(t, list[0].Date)
}

func TestRecordSelfPraiseRejected(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	err := svc.Record(ctx, "Fox", "Fox", "я хорош")
	assert.ErrorIs(t, err, common.ErrSelfPraise)

	// Регистр и пробелы не обходят запрет
	err = svc.Record(ctx, " fox ", "FOX", "я хорош")
	assert.ErrorIs(t, err, common.ErrSelfPraise)

	n, err := svc.CountFor(ctx, "Fox")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestTopSortedDescending(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	today := common.FormatDate(common.MoscowTime())
	appendPraise(t, store, "Bear", today)
	appendPraise(t, store, "Fox", today)
	appendPraise(t, store, "Fox", today)
	appendPraise(t, store, "Fox", today)
	appendPraise(t, store, "Wolf", today)
	appendPraise(t, store, "Wolf", today)

	top, err := svc.Top(ctx, 7, 10)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, TopEntry{Nickname: "Fox", Count: 3}, top[0])
	assert.Equal(t, TopEntry{Nickname: "Wolf", Count: 2}, top[1])
	assert.Equal(t, TopEntry{Nickname: "Bear", Count: 1}, top[2])
}

func TestTopTiesKeepSheetOrder(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	today := common.FormatDate(common.MoscowTime())
	appendPraise(t, store, "Wolf", today)
	appendPraise(t, store, "Bear", today)
	appendPraise(t, store, "Fox", today)

	top, err := svc.Top(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, top, 3)
	// При равном счёте порядок — как ники впервые встретились в листе
	assert.Equal(t, "Wolf", top[0].Nickname)
	assert.Equal(t, "Bear", top[1].Nickname)
	assert.Equal(t, "Fox", top[2].Nickname)
}

func TestTopWindowExcludesOldAndBrokenDates(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	now := common.MoscowTime()
	appendPraise(t, store, "Fox", common.FormatDate(now))
	appendPraise(t, store, "Old", common.FormatDate(now.AddDate(0, 0, -30)))
	appendPraise(t, store, "Broken", "позавчера")
	appendPraise(t, store, "Broken", "")

	top, err := svc.Top(ctx, 7, 10)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "Fox", top[0].Nickname)

	// Без окна старые записи возвращаются, нечитаемые даты — тоже
	top, err = svc.Top(ctx, 0, 10)
	require.NoError(t, err)
	assert.Len(t, top, 3)
}

func TestTopLimit(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	today := common.FormatDate(common.MoscowTime())
	for _, nick := range []string{"a", "b", "c", "d", "e"} {
		appendPraise(t, store, nick, today)
	}

	top, err := svc.Top(ctx, 0, 3)
	require.NoError(t, err)
	assert.Len(t, top, 3)
}

func TestTopWindowBoundary(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	// Дата парсится в полночь: сегодняшняя запись всегда в окне
	// одного дня, запись недельной давности — никогда
	appendPraise(t, store, "Fox", common.FormatDate(common.MoscowTime()))
	appendPraise(t, store, "Old", common.FormatDate(common.MoscowTime().AddDate(0, 0, -8)))

	top, err := svc.Top(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "Fox", top[0].Nickname)
}
