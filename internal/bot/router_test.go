package bot

import (
	"context"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clanbot/internal/bot/access"
	"clanbot/internal/bot/middleware"
	"clanbot/internal/config"
	"clanbot/internal/dialog"
	"clanbot/internal/features/applications"
	"clanbot/internal/features/audit"
	"clanbot/internal/features/complaints"
	"clanbot/internal/features/members"
	"clanbot/internal/features/praises"
	"clanbot/internal/features/reports"
	"clanbot/internal/features/warnings"
	"clanbot/internal/sheets"
)

// fakeTelegram записывает всё, что бот пытается отправить.
type fakeTelegram struct {
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
}

func (f *fakeTelegram) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func (f *fakeTelegram) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeTelegram) GetUpdatesChan(_ tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return make(tgbotapi.UpdatesChannel)
}

func (f *fakeTelegram) StopReceivingUpdates() {}

func (f *fakeTelegram) texts() []string {
	var out []string
	for _, c := range f.sent {
		switch m := c.(type) {
		case tgbotapi.MessageConfig:
			out = append(out, m.Text)
		case tgbotapi.EditMessageTextConfig:
			out = append(out, m.Text)
		}
	}
	return out
}

func (f *fakeTelegram) toasts() []string {
	var out []string
	for _, c := range f.requests {
		if cb, ok := c.(tgbotapi.CallbackConfig); ok {
			out = append(out, cb.Text)
		}
	}
	return out
}

type testBot struct {
	bot        *Bot
	api        *fakeTelegram
	store      *sheets.MemoryStore
	warnings   *warnings.Service
	complaints *complaints.Service
	audit      *audit.Service
}

func newTestBot(t *testing.T, adminIDs []int64) *testBot {
	t.Helper()
	ctx := context.Background()

	store := sheets.NewMemoryStore()
	require.NoError(t, sheets.EnsureAllTables(ctx, store))

	warnSvc := warnings.NewService(warnings.NewRepository(store))
	praiseSvc := praises.NewService(praises.NewRepository(store))
	memberSvc := members.NewService(members.NewRepository(store), warnSvc, praiseSvc)
	notify := func(int64, string) {}
	complaintSvc := complaints.NewService(complaints.NewRepository(store), warnSvc, notify)
	applicationSvc := applications.NewService(applications.NewRepository(store), memberSvc, notify, "https://t.me/+clan")
	reportSvc := reports.NewService(reports.NewRepository(store), praiseSvc, func(string) {}, 10, 7)
	auditSvc := audit.NewService(store)

	cfg := &config.Config{
		AdminIDs:      adminIDs,
		TopLimit:      10,
		TopWindowDays: 7,
	}

	api := &fakeTelegram{}
	rl := middleware.NewRateLimiter(1000, time.Minute)
	t.Cleanup(rl.Close)

	b := New(api, cfg, access.NewClassifier(adminIDs), dialog.NewManager(), rl, Deps{
		Members:      memberSvc,
		Praises:      praiseSvc,
		Warnings:     warnSvc,
		Complaints:   complaintSvc,
		Applications: applicationSvc,
		Reports:      reportSvc,
		Audit:        auditSvc,
	})

	return &testBot{bot: b, api: api, store: store, warnings: warnSvc, complaints: complaintSvc, audit: auditSvc}
}

func textMessage(userID int64, text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		Text: text,
		From: &tgbotapi.User{ID: userID, UserName: "wolf"},
		Chat: &tgbotapi.Chat{ID: userID},
	}
}

func commandMessage(userID int64, cmd string) *tgbotapi.Message {
	msg := textMessage(userID, cmd)
	msg.Entities = []tgbotapi.MessageEntity{
		{Type: "bot_command", Offset: 0, Length: len(cmd)},
	}
	return msg
}

func callback(userID int64, data string) *tgbotapi.CallbackQuery {
	return &tgbotapi.CallbackQuery{
		ID:   "cb1",
		Data: data,
		From: &tgbotapi.User{ID: userID, UserName: "wolf"},
		Message: &tgbotapi.Message{
			MessageID: 7,
			Chat:      &tgbotapi.Chat{ID: userID},
		},
	}
}

func seedMember(t *testing.T, store *sheets.MemoryStore, nickname string) {
	t.Helper()
	err := store.AppendRow(context.Background(), sheets.TableMembers, sheets.Row{nickname})
	require.NoError(t, err)
}

func TestWarningFromDialogRequiresAdmin(t *testing.T) {
	ctx := context.Background()
	tb := newTestBot(t, []int64{1})
	seedMember(t, tb.store, "Fox")

	// Состояние «выдать пред» создано, но прав у пользователя нет:
	// кнопка могла прийти из устаревшего меню
	tb.bot.states.Set(100, dialog.AwaitingReason{Action: "pred", Target: "Fox"})
	tb.bot.handleMessage(ctx, textMessage(100, "за грубость"))

	list, err := tb.warnings.ListFor(ctx, "Fox")
	require.NoError(t, err)
	assert.Empty(t, list, "пред не должен записаться")
	assert.Nil(t, tb.bot.states.Get(100), "диалог должен завершиться")

	entries, err := tb.audit.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, audit.ActionDeniedAdminEntry, entries[0].Action)

	assert.Contains(t, tb.api.texts(), "❌ Выдавать преды могут только администраторы")
}

func TestWarningFromDialogByAdmin(t *testing.T) {
	ctx := context.Background()
	tb := newTestBot(t, []int64{1})
	seedMember(t, tb.store, "Fox")

	tb.bot.states.Set(1, dialog.AwaitingReason{Action: "pred", Target: "Fox"})
	tb.bot.handleMessage(ctx, textMessage(1, "пропуск рейда"))

	list, err := tb.warnings.ListFor(ctx, "Fox")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "пропуск рейда", list[0].Reason)
	assert.Nil(t, tb.bot.states.Get(1))

	entries, err := tb.audit.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, audit.ActionWarning, entries[0].Action)
}

func TestCancelCommandClearsFlowWithoutWrites(t *testing.T) {
	ctx := context.Background()
	tb := newTestBot(t, []int64{1})
	seedMember(t, tb.store, "Fox")

	before, err := tb.store.ListRows(ctx, sheets.TableWarnings)
	require.NoError(t, err)

	tb.bot.states.Set(1, dialog.AwaitingReason{Action: "pred", Target: "Fox"})
	tb.bot.handleMessage(ctx, commandMessage(1, "/cancel"))

	assert.Nil(t, tb.bot.states.Get(1))
	after, err := tb.store.ListRows(ctx, sheets.TableWarnings)
	require.NoError(t, err)
	assert.Equal(t, before, after, "отмена не должна трогать таблицы")
	assert.Contains(t, tb.api.texts(), "Отменено")
}

func TestAdminButtonRejectsNonAdmin(t *testing.T) {
	ctx := context.Background()
	tb := newTestBot(t, []int64{1})

	tb.bot.handleCallback(ctx, callback(100, cbLogs))

	assert.Contains(t, tb.api.toasts(), "Доступно только администраторам")
	entries, err := tb.audit.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, audit.ActionDeniedAdminEntry, entries[0].Action)
	assert.Equal(t, cbLogs, entries[0].Target)
}

func TestMemberCardShowsWarningReasons(t *testing.T) {
	ctx := context.Background()
	tb := newTestBot(t, []int64{1})
	seedMember(t, tb.store, "Fox")
	require.NoError(t, tb.warnings.Record(ctx, "Fox", "пропуск рейда"))

	tb.bot.handleCallback(ctx, callback(1, "member:Fox"))

	var card string
	for _, text := range tb.api.texts() {
		if strings.Contains(text, "👤 Fox") {
			card = text
		}
	}
	require.NotEmpty(t, card, "карточка участника должна быть отправлена")
	assert.Contains(t, card, "⚠ 1 пред:")
	assert.Contains(t, card, "— пропуск рейда")
}

func TestComplaintResolvedWithWarningFromButton(t *testing.T) {
	ctx := context.Background()
	tb := newTestBot(t, []int64{1})
	seedMember(t, tb.store, "Fox")

	id, err := tb.complaints.Submit(ctx, "@bear", 200, "Fox", "украл лут")
	require.NoError(t, err)

	tb.bot.handleCallback(ctx, callback(1, "comp:warn:"+id))

	list, err := tb.warnings.ListFor(ctx, "Fox")
	require.NoError(t, err)
	require.Len(t, list, 1)

	c, err := tb.complaints.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, complaints.StatusClosed, c.Status)

	entries, err := tb.audit.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, audit.ActionComplaintWarn, entries[0].Action)
	assert.Equal(t, "@wolf", entries[0].Actor)
}

func TestBadExternalIDKeepsStep(t *testing.T) {
	ctx := context.Background()
	tb := newTestBot(t, []int64{1})

	tb.bot.states.Set(100, dialog.ApplyingExternalID{Nickname: "Fox"})
	tb.bot.handleMessage(ctx, textMessage(100, "abc"))

	st, ok := tb.bot.states.Get(100).(dialog.ApplyingExternalID)
	require.True(t, ok, "шаг не должен измениться при ошибке валидации")
	assert.Equal(t, "Fox", st.Nickname)

	rows, err := tb.store.ListRows(ctx, sheets.TableApplications)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestReasonForVanishedTarget(t *testing.T) {
	ctx := context.Background()
	tb := newTestBot(t, []int64{1})

	// Участника нет в таблице: его удалили, пока вводилась причина
	tb.bot.states.Set(1, dialog.AwaitingReason{Action: "praise", Target: "Ghost"})
	tb.bot.handleMessage(ctx, textMessage(1, "молодец"))

	assert.Nil(t, tb.bot.states.Get(1))
	assert.Contains(t, tb.api.texts(), "❌ Участник не найден")

	rows, err := tb.store.ListRows(ctx, sheets.TablePraises)
	require.NoError(t, err)
	assert.Empty(t, rows)
}
