package reports

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clanbot/internal/common"
	"clanbot/internal/features/praises"
	"clanbot/internal/sheets"
)

func newTestService(t *testing.T) (*Service, sheets.Store, *[]string) {
	t.Helper()
	ctx := context.Background()
	store := sheets.NewMemoryStore()
	require.NoError(t, sheets.EnsureAllTables(ctx, store))

	var posted []string
	post := func(text string) { posted = append(posted, text) }

	praiseSvc := praises.NewService(praises.NewRepository(store))
	svc := NewService(NewRepository(store), praiseSvc, post, 10, 7)
	return svc, store, &posted
}

func praiseToday(t *testing.T, store sheets.Store, nickname string, times int) {
	t.Helper()
	today := common.FormatDate(common.MoscowTime())
	for i := 0; i < times; i++ {
		err := store.AppendRow(context.Background(), sheets.TablePraises,
			sheets.Row{nickname, "Админ", "молодец", today})
		require.NoError(t, err)
	}
}

func TestCreateEditDelete(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	tpl, err := svc.Create(ctx, "  Еженедельный  ", "Топ: {top_list}")
	require.NoError(t, err)
	assert.Equal(t, "Еженедельный", tpl.Name)
	assert.False(t, tpl.Active)

	require.NoError(t, svc.EditField(ctx, tpl.ID, "name", "Основной"))
	require.NoError(t, svc.EditField(ctx, tpl.ID, "body", "Дата: {date}"))

	got, err := svc.Get(ctx, tpl.ID)
	require.NoError(t, err)
	assert.Equal(t, "Основной", got.Name)
	assert.Equal(t, "Дата: {date}", got.Body)

	err = svc.EditField(ctx, tpl.ID, "color", "красный")
	assert.Error(t, err)

	require.NoError(t, svc.Delete(ctx, tpl.ID))
	_, err = svc.Get(ctx, tpl.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestActivateIsExclusive(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	a, err := svc.Create(ctx, "А", "текст")
	require.NoError(t, err)
	b, err := svc.Create(ctx, "Б", "текст")
	require.NoError(t, err)

	require.NoError(t, svc.Activate(ctx, a.ID))
	active, err := svc.Active(ctx)
	require.NoError(t, err)
	assert.Equal(t, a.ID, active.ID)

	// Активация второго снимает флаг с первого
	require.NoError(t, svc.Activate(ctx, b.ID))
	active, err = svc.Active(ctx)
	require.NoError(t, err)
	assert.Equal(t, b.ID, active.ID)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	activeCount := 0
	for _, tpl := range list {
		if tpl.Active {
			activeCount++
		}
	}
	assert.Equal(t, 1, activeCount)
}

func TestActiveWhenNoneActivated(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	_, err := svc.Create(ctx, "А", "текст")
	require.NoError(t, err)

	_, err = svc.Active(ctx)
	assert.ErrorIs(t, err, common.ErrNoActiveTemplate)
}

func TestRenderSubstitutesPlaceholders(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService(t)
	praiseToday(t, store, "Fox", 2)
	praiseToday(t, store, "Bear", 1)

	tpl, err := svc.Create(ctx, "Отчёт", "Неделя с {week_start} по {date}.\n{top_list}")
	require.NoError(t, err)
	require.NoError(t, svc.Activate(ctx, tpl.ID))

	text, err := svc.Render(ctx)
	require.NoError(t, err)
	assert.NotContains(t, text, "{")
	assert.Contains(t, text, common.FormatDate(common.MoscowTime()))
	assert.Contains(t, text, "1. Fox — 2 похвалы")
	assert.Contains(t, text, "2. Bear — 1 похвала")
}

func TestRenderEmptyTop(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	tpl, err := svc.Create(ctx, "Отчёт", "{top_list}")
	require.NoError(t, err)
	require.NoError(t, svc.Activate(ctx, tpl.ID))

	text, err := svc.Render(ctx)
	require.NoError(t, err)
	assert.Equal(t, "за неделю никого не похвалили", text)
}

func TestRenderRejectsLeftoverPlaceholder(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	tpl, err := svc.Create(ctx, "Кривой", "Топ: {top_list}, погода: {weather}")
	require.NoError(t, err)
	require.NoError(t, svc.Activate(ctx, tpl.ID))

	_, err = svc.Render(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "{weather}")
}

func TestRenderWithoutActiveTemplate(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Render(context.Background())
	assert.ErrorIs(t, err, common.ErrNoActiveTemplate)
}

func TestRunWeeklyReportJob(t *testing.T) {
	ctx := context.Background()
	svc, store, posted := newTestService(t)
	praiseToday(t, store, "Fox", 1)

	// Без активного шаблона задача молчит и не паникует
	svc.RunWeeklyReportJob(ctx)
	assert.Empty(t, *posted)

	tpl, err := svc.Create(ctx, "Отчёт", "Итоги недели:\n{top_list}")
	require.NoError(t, err)
	require.NoError(t, svc.Activate(ctx, tpl.ID))

	svc.RunWeeklyReportJob(ctx)
	require.Len(t, *posted, 1)
	assert.Equal(t, fmt.Sprintf("Итоги недели:\n1. Fox — %s", "1 похвала"), (*posted)[0])
}
