// Package bot содержит главный модуль бота — инициализацию, запуск и остановку.
// bot.go создаёт структуру бота, запускает polling и раздаёт апдейты
// обработчикам с ограничением параллелизма.
package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

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
)

// telegramClient — используемый ботом срез API Telegram.
// Ему удовлетворяет *tgbotapi.BotAPI; в тестах подставляется фейк.
type telegramClient interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(cfg tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Bot — главная структура бота, объединяющая все компоненты.
type Bot struct {
	api telegramClient
	cfg *config.Config

	classifier  *access.Classifier
	states      *dialog.Manager
	rateLimiter *middleware.RateLimiter

	memberService      *members.Service
	praiseService      *praises.Service
	warningService     *warnings.Service
	complaintService   *complaints.Service
	applicationService *applications.Service
	reportService      *reports.Service
	auditService       *audit.Service

	// ограничитель параллелизма обработки апдейтов
	inflight chan struct{}
}

// Deps — зависимости бота. Их много, поэтому структурой, а не
// позиционными аргументами.
type Deps struct {
	Members      *members.Service
	Praises      *praises.Service
	Warnings     *warnings.Service
	Complaints   *complaints.Service
	Applications *applications.Service
	Reports      *reports.Service
	Audit        *audit.Service
}

// New создаёт новый экземпляр бота со всеми зависимостями.
func New(api telegramClient, cfg *config.Config, classifier *access.Classifier, states *dialog.Manager, rl *middleware.RateLimiter, deps Deps) *Bot {
	maxInFlight := cfg.BotMaxInflight
	if maxInFlight <= 0 {
		maxInFlight = 64
	}

	return &Bot{
		api:                api,
		cfg:                cfg,
		classifier:         classifier,
		states:             states,
		rateLimiter:        rl,
		memberService:      deps.Members,
		praiseService:      deps.Praises,
		warningService:     deps.Warnings,
		complaintService:   deps.Complaints,
		applicationService: deps.Applications,
		reportService:      deps.Reports,
		auditService:       deps.Audit,
		inflight:           make(chan struct{}, maxInFlight),
	}
}

// Start запускает polling обновлений от Telegram.
func (b *Bot) Start(ctx context.Context) {
	defer b.rateLimiter.Close()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.BotUpdateTimeoutSeconds

	updates := b.api.GetUpdatesChan(u)

	log.WithFields(log.Fields{
		"max_inflight": b.cfg.BotMaxInflight,
		"timeout_sec":  b.cfg.BotUpdateTimeoutSeconds,
	}).Info("Бот запущен и ожидает сообщения...")

	for {
		select {
		case <-ctx.Done():
			log.Info("Бот останавливается (ctx done)...")
			b.api.StopReceivingUpdates()
			return

		case update, ok := <-updates:
			if !ok {
				log.Info("Канал updates закрыт, бот остановлен")
				return
			}

			// лимит параллелизма
			b.inflight <- struct{}{}
			go func(upd tgbotapi.Update) {
				defer func() { <-b.inflight }()
				b.handleUpdate(ctx, upd)
			}(update)
		}
	}
}

// handleUpdate обрабатывает одно обновление от Telegram.
// Бот — инструмент клана, весь интерфейс живёт в личных сообщениях;
// групповые чаты игнорируются (туда бот только публикует отчёт).
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer middleware.Recover(update)

	if update.CallbackQuery != nil {
		cb := update.CallbackQuery
		if cb.From == nil || cb.Message == nil || cb.Message.Chat == nil {
			return
		}
		middleware.LogCallback(cb)

		if !b.rateLimiter.Allow(cb.From.ID) {
			log.WithField("user_id", cb.From.ID).Debug("rate limited")
			return
		}
		b.handleCallback(ctx, cb)
		return
	}

	if update.Message == nil || update.Message.Text == "" {
		return
	}
	message := update.Message
	if message.From == nil || message.Chat == nil || !message.Chat.IsPrivate() {
		return
	}

	middleware.LogMessage(message)

	if !b.rateLimiter.Allow(message.From.ID) {
		log.WithField("user_id", message.From.ID).Debug("rate limited")
		return
	}

	b.handleMessage(ctx, message)
}

// sendMessage — утилита для отправки сообщений.
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}

// sendMenu отправляет сообщение с инлайн-клавиатурой.
func (b *Bot) sendMenu(chatID int64, text string, kb tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = kb
	if _, err := b.api.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки меню")
	}
}

// editMenu редактирует сообщение с клавиатурой; если редактирование
// не удалось (сообщение старое или уже без клавиатуры) — шлёт новое.
func (b *Bot) editMenu(chatID int64, messageID int, text string, kb tgbotapi.InlineKeyboardMarkup) {
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, kb)
	if _, err := b.api.Send(edit); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Debug("Редактирование не удалось, шлём новое сообщение")
		b.sendMenu(chatID, text, kb)
	}
}

// answerCallback закрывает «часики» на кнопке, опционально с тостом.
func (b *Bot) answerCallback(callbackID, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		log.WithError(err).Debug("Не удалось ответить на callback")
	}
}

// Notify отправляет личное сообщение пользователю.
// Доставка best-effort: ошибка логируется и глотается — уведомление
// никогда не валит основное действие.
func (b *Bot) Notify(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.WithError(err).WithField("user_id", chatID).Debug("Не удалось отправить уведомление")
	}
}

// PostReport публикует отчёт в чат клана (в тред, если он настроен).
// Тоже best-effort: ошибку логируем, наружу не отдаём.
func (b *Bot) PostReport(text string) {
	msg := tgbotapi.NewMessage(b.cfg.ReportChatID, text)
	if b.cfg.ReportThreadID != 0 {
		// Ответ на корневое сообщение темы кладёт отчёт в нужный тред
		msg.ReplyToMessageID = b.cfg.ReportThreadID
	}
	if _, err := b.api.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", b.cfg.ReportChatID).Error("Ошибка публикации отчёта")
	}
}

// notifyAdmins рассылает сообщение всем админам из конфига.
func (b *Bot) notifyAdmins(text string) {
	for _, id := range b.cfg.AdminIDs {
		b.Notify(id, text)
	}
}
