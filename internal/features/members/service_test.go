package members

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clanbot/internal/common"
	"clanbot/internal/features/praises"
	"clanbot/internal/features/warnings"
	"clanbot/internal/sheets"
)

// newTestService собирает сервис участников поверх хранилища в памяти
// с настоящими сервисами предов и похвалы в роли счётчиков.
func newTestService(t *testing.T) (*Service, *warnings.Service, *praises.Service, sheets.Store) {
	t.Helper()
	ctx := context.Background()
	store := sheets.NewMemoryStore()
	require.NoError(t, sheets.EnsureAllTables(ctx, store))

	warnSvc := warnings.NewService(warnings.NewRepository(store))
	praiseSvc := praises.NewService(praises.NewRepository(store))
	svc := NewService(NewRepository(store), warnSvc, praiseSvc)
	return svc, warnSvc, praiseSvc, store
}

func seedMember(t *testing.T, store sheets.Store, nickname string) {
	t.Helper()
	err := store.AppendRow(context.Background(), sheets.TableMembers, sheets.Row{nickname, "76561198000000001"})
	require.NoError(t, err)
}

func seedRoles(t *testing.T, store sheets.Store, tags ...string) {
	t.Helper()
	for _, tag := range tags {
		require.NoError(t, store.AppendRow(context.Background(), sheets.TableRoles, sheets.Row{tag}))
	}
}

func TestResolveProfileCountsFromSheets(t *testing.T) {
	ctx := context.Background()
	svc, warnSvc, praiseSvc, store := newTestService(t)
	seedMember(t, store, "Fox")

	require.NoError(t, warnSvc.Record(ctx, "Fox", "афк на рейде"))
	require.NoError(t, praiseSvc.Record(ctx, "Fox", "Bear", "затащил"))
	require.NoError(t, praiseSvc.Record(ctx, "Fox", "Wolf", "помог новичку"))

	p, err := svc.ResolveProfile(ctx, "Fox")
	require.NoError(t, err)
	assert.Equal(t, 1, p.Warns)
	assert.Equal(t, 2, p.Praises)

	// Кэш в строке листа освежён пересчётом
	m, err := svc.repo.FindByNickname(ctx, "Fox")
	require.NoError(t, err)
	assert.Equal(t, "1", m.WarnCount)
	assert.Equal(t, "2", m.PraiseCount)
}

func TestResolveProfileUnknownMember(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.ResolveProfile(context.Background(), "Призрак")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestAssignRoleFromCatalog(t *testing.T) {
	ctx := context.Background()
	svc, _, _, store := newTestService(t)
	seedMember(t, store, "Fox")
	seedRoles(t, store, "офицер", "казначей")

	require.NoError(t, svc.AssignRole(ctx, "Fox", "офицер"))

	m, err := svc.repo.FindByNickname(ctx, "Fox")
	require.NoError(t, err)
	assert.Equal(t, "офицер", m.Role)

	// Повторное назначение заменяет роль
	require.NoError(t, svc.AssignRole(ctx, "Fox", "казначей"))
	m, err = svc.repo.FindByNickname(ctx, "Fox")
	require.NoError(t, err)
	assert.Equal(t, "казначей", m.Role)
}

func TestAssignRoleOutsideCatalog(t *testing.T) {
	ctx := context.Background()
	svc, _, _, store := newTestService(t)
	seedMember(t, store, "Fox")
	seedRoles(t, store, "офицер")

	err := svc.AssignRole(ctx, "Fox", "император")
	assert.ErrorIs(t, err, common.ErrUnknownRole)

	m, err := svc.repo.FindByNickname(ctx, "Fox")
	require.NoError(t, err)
	assert.Empty(t, m.Role)
}

func TestFilterByRole(t *testing.T) {
	ctx := context.Background()
	svc, _, _, store := newTestService(t)
	seedMember(t, store, "Fox")
	seedMember(t, store, "Bear")
	seedMember(t, store, "Wolf")
	seedRoles(t, store, "офицер")

	require.NoError(t, svc.AssignRole(ctx, "Fox", "офицер"))
	require.NoError(t, svc.AssignRole(ctx, "Wolf", "офицер"))

	officers, err := svc.FilterByRole(ctx, "офицер")
	require.NoError(t, err)
	require.Len(t, officers, 2)
	assert.Equal(t, "Fox", officers[0].Nickname)
	assert.Equal(t, "Wolf", officers[1].Nickname)
}

func TestLinkIdentity(t *testing.T) {
	ctx := context.Background()
	svc, _, _, store := newTestService(t)
	seedMember(t, store, "Fox")
	seedMember(t, store, "Bear")

	require.NoError(t, svc.LinkIdentity(ctx, "Fox", "fox_tg", 100))
	assert.True(t, svc.IsLinked(ctx, 100))

	m, err := svc.FindByLinkedID(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, "Fox", m.Nickname)
	assert.Equal(t, "fox_tg", m.LinkedUsername)

	// Один Telegram-аккаунт не может быть привязан к двум участникам
	err = svc.LinkIdentity(ctx, "Bear", "fox_tg", 100)
	assert.ErrorIs(t, err, common.ErrAlreadyLinked)

	// Повторная привязка к тому же нику — не ошибка (обновление username)
	require.NoError(t, svc.LinkIdentity(ctx, "Fox", "fox_new", 100))
}

func TestLinkIdentityNicknameTaken(t *testing.T) {
	ctx := context.Background()
	svc, _, _, store := newTestService(t)
	seedMember(t, store, "Fox")

	require.NoError(t, svc.LinkIdentity(ctx, "Fox", "fox_tg", 100))

	// Второй аккаунт не может перехватить уже привязанного участника
	err := svc.LinkIdentity(ctx, "Fox", "intruder", 200)
	assert.ErrorIs(t, err, common.ErrNicknameTaken)

	// Привязка первого аккаунта не пострадала
	m, err := svc.FindByLinkedID(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, "Fox", m.Nickname)
	_, err = svc.FindByLinkedID(ctx, 200)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestLinkIdentityUnknownNickname(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	err := svc.LinkIdentity(context.Background(), "Призрак", "ghost", 7)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestCreateFromApplication(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newTestService(t)

	require.NoError(t, svc.CreateFromApplication(ctx, "Fox", "76561198000000001", "fox_tg", 100))

	m, err := svc.FindByLinkedID(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, "Fox", m.Nickname)
	assert.Equal(t, "0", m.WarnCount)
	assert.Equal(t, "N/A", m.Desirability)

	// Аккаунт уже привязан — второго участника не появится
	err = svc.CreateFromApplication(ctx, "Fox2", "76561198000000002", "fox_tg", 100)
	assert.ErrorIs(t, err, common.ErrAlreadyLinked)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
