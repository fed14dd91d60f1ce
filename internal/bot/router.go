// Package bot — router.go маршрутизирует входящие сообщения.
// Команды обрабатываются всегда; свободный текст интерпретируется
// по текущему шагу диалога пользователя (см. internal/dialog).
package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"clanbot/internal/common"
	"clanbot/internal/dialog"
	"clanbot/internal/features/audit"
)

// handleMessage обрабатывает текстовое сообщение в личке.
func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	userID := message.From.ID
	text := strings.TrimSpace(message.Text)

	// Команды работают из любого состояния.
	switch message.Command() {
	case "start", "menu":
		b.states.Clear(userID)
		b.showMainMenu(ctx, chatID, userID)
		return
	case "cancel":
		// Универсальная отмена: сбрасывает любой шаг и возвращает в меню
		b.states.Clear(userID)
		b.sendMessage(chatID, "Отменено")
		b.showMainMenu(ctx, chatID, userID)
		return
	case "help":
		b.sendMessage(chatID, "Я бот клана. /start — меню, /cancel — отменить текущее действие.")
		return
	}

	state := b.states.Get(userID)
	if state == nil {
		// Диалога нет — любое сообщение приводит в главное меню
		b.showMainMenu(ctx, chatID, userID)
		return
	}

	log.WithFields(log.Fields{
		"user_id": userID,
		"step":    state.Step(),
	}).Debug("сообщение в шаге диалога")

	switch st := state.(type) {
	case dialog.AwaitingReason:
		b.finishReason(ctx, chatID, message.From, st, text)
	case dialog.AwaitingProof:
		b.appendProof(ctx, chatID, userID, st, text)
	case dialog.CreatingTemplateName:
		b.states.Set(userID, dialog.CreatingTemplateBody{Name: text})
		b.sendMenu(chatID, "Теперь пришлите текст шаблона.\nПлейсхолдеры: {top_list}, {date}, {week_start}", cancelKeyboard())
	case dialog.CreatingTemplateBody:
		b.finishTemplateCreate(ctx, chatID, message.From, st, text)
	case dialog.EditingTemplateField:
		b.finishTemplateEdit(ctx, chatID, message.From, st, text)
	case dialog.ApplyingNickname:
		b.states.Set(userID, dialog.ApplyingExternalID{Nickname: text})
		b.sendMenu(chatID, "Теперь пришлите ваш игровой ID (только цифры):", cancelKeyboard())
	case dialog.ApplyingExternalID:
		b.finishApplication(ctx, chatID, message.From, st, text)
	case dialog.LinkingNickname:
		b.finishLink(ctx, chatID, message.From, text)
	default:
		// SelectingTarget/SelectingAction ждут нажатия кнопки, не текста
		b.sendMessage(chatID, "Выберите вариант кнопкой или отправьте /cancel.")
	}
}

// finishReason завершает сценарий «участник → действие → причина».
func (b *Bot) finishReason(ctx context.Context, chatID int64, from *tgbotapi.User, st dialog.AwaitingReason, reason string) {
	userID := from.ID

	// Участник мог исчезнуть из таблицы, пока вводилась причина
	if _, err := b.memberService.ResolveProfile(ctx, st.Target); err != nil {
		b.states.Clear(userID)
		b.sendMessage(chatID, "❌ Участник не найден")
		b.showMainMenu(ctx, chatID, userID)
		return
	}

	actor := b.displayIdentity(ctx, from)

	switch st.Action {
	case "pred":
		// Права перепроверяем в точке использования: состояние могло
		// быть создано по кнопке из устаревшего меню
		if !b.classifier.IsAdmin(userID) {
			b.states.Clear(userID)
			b.auditService.Record(ctx, audit.ActionDeniedAdminEntry, actor, userID, st.Target)
			b.sendMessage(chatID, "❌ Выдавать преды могут только администраторы")
			b.showMainMenu(ctx, chatID, userID)
			return
		}
		if err := b.warningService.Record(ctx, st.Target, reason); err != nil {
			b.failFlow(ctx, chatID, userID, err)
			return
		}
		b.auditService.Record(ctx, audit.ActionWarning, actor, userID, st.Target)
		b.sendMessage(chatID, "⚠ Пред записан")

	case "praise":
		if err := b.praiseService.Record(ctx, st.Target, actor, reason); err != nil {
			if errors.Is(err, common.ErrSelfPraise) {
				b.states.Clear(userID)
				b.sendMessage(chatID, "❌ "+err.Error())
				b.showMainMenu(ctx, chatID, userID)
				return
			}
			b.failFlow(ctx, chatID, userID, err)
			return
		}
		b.auditService.Record(ctx, audit.ActionPraise, actor, userID, st.Target)
		b.sendMessage(chatID, "👏 Похвала записана")

	case "complaint":
		id, err := b.complaintService.Submit(ctx, actor, userID, st.Target, reason)
		if err != nil {
			b.failFlow(ctx, chatID, userID, err)
			return
		}
		b.auditService.Record(ctx, audit.ActionComplaint, actor, userID, st.Target)
		b.notifyAdmins(fmt.Sprintf("📨 Новая жалоба на %s от %s", st.Target, actor))
		log.WithField("complaint_id", id).Debug("жалоба создана из диалога")
		b.sendMessage(chatID, "📨 Жалоба подана, администраторы уведомлены")

	default:
		log.WithField("action", st.Action).Warn("неизвестное действие в диалоге")
	}

	b.states.Clear(userID)
	b.showMainMenu(ctx, chatID, userID)
}

// appendProof дописывает доказательства к жалобе.
func (b *Bot) appendProof(ctx context.Context, chatID, userID int64, st dialog.AwaitingProof, text string) {
	b.states.Clear(userID)
	if err := b.complaintService.AppendProof(ctx, st.ComplaintID, text); err != nil {
		if errors.Is(err, common.ErrNotFound) || errors.Is(err, common.ErrComplaintClosed) {
			b.sendMessage(chatID, "❌ Жалоба уже закрыта или удалена")
		} else {
			log.WithError(err).Error("ошибка записи доказательств")
			b.sendMessage(chatID, "❌ Не удалось сохранить, попробуйте позже")
		}
		b.showMainMenu(ctx, chatID, userID)
		return
	}
	b.sendMessage(chatID, "✅ Доказательства приложены к жалобе")
	b.showMainMenu(ctx, chatID, userID)
}

// finishTemplateCreate завершает создание шаблона отчёта.
func (b *Bot) finishTemplateCreate(ctx context.Context, chatID int64, from *tgbotapi.User, st dialog.CreatingTemplateBody, body string) {
	userID := from.ID
	if !b.requireAdmin(ctx, chatID, from, "создание шаблона") {
		return
	}

	t, err := b.reportService.Create(ctx, st.Name, body)
	if err != nil {
		b.failFlow(ctx, chatID, userID, err)
		return
	}
	b.auditService.Record(ctx, audit.ActionTemplateChange, b.displayIdentity(ctx, from), userID, t.Name)
	b.states.Clear(userID)

	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Активировать", "tpl:on:"+t.ID),
		),
		backRow,
	)
	b.sendMenu(chatID, fmt.Sprintf("Шаблон «%s» создан (пока неактивен).", t.Name), kb)
}

// finishTemplateEdit записывает новое значение поля шаблона.
func (b *Bot) finishTemplateEdit(ctx context.Context, chatID int64, from *tgbotapi.User, st dialog.EditingTemplateField, value string) {
	userID := from.ID
	if !b.requireAdmin(ctx, chatID, from, "правка шаблона") {
		return
	}

	if err := b.reportService.EditField(ctx, st.TemplateID, st.Field, value); err != nil {
		b.failFlow(ctx, chatID, userID, err)
		return
	}
	b.auditService.Record(ctx, audit.ActionTemplateChange, b.displayIdentity(ctx, from), userID, st.TemplateID)
	b.states.Clear(userID)
	b.sendMessage(chatID, "✅ Шаблон обновлён")
	b.showMainMenu(ctx, chatID, userID)
}

// finishApplication завершает подачу заявки.
// Кривой игровой ID — ошибка валидации: остаёмся на том же шаге
// и просим ввести ещё раз.
func (b *Bot) finishApplication(ctx context.Context, chatID int64, from *tgbotapi.User, st dialog.ApplyingExternalID, externalID string) {
	userID := from.ID

	id, err := b.applicationService.Submit(ctx, st.Nickname, externalID, from.UserName, userID)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrInvalidExternalID):
			// шаг не меняется — ждём исправленный ID
			b.sendMenu(chatID, "❌ "+err.Error()+"\nПопробуйте ещё раз:", cancelKeyboard())
		case errors.Is(err, common.ErrPendingApplication):
			b.states.Clear(userID)
			b.sendMessage(chatID, "❌ "+err.Error())
			b.showMainMenu(ctx, chatID, userID)
		default:
			b.failFlow(ctx, chatID, userID, err)
		}
		return
	}

	b.states.Clear(userID)
	b.notifyAdmins(fmt.Sprintf("📨 Новая заявка: %s", st.Nickname))
	log.WithField("application_id", id).Debug("заявка создана из диалога")
	b.sendMessage(chatID, "✅ Заявка подана! Администраторы рассмотрят её и ответят вам.")
	b.showMainMenu(ctx, chatID, userID)
}

// finishLink привязывает Telegram-аккаунт к существующему участнику.
func (b *Bot) finishLink(ctx context.Context, chatID int64, from *tgbotapi.User, nickname string) {
	userID := from.ID
	b.states.Clear(userID)

	err := b.memberService.LinkIdentity(ctx, nickname, from.UserName, userID)
	switch {
	case err == nil:
		b.auditService.Record(ctx, audit.ActionMemberLink, b.displayIdentity(ctx, from), userID, nickname)
		b.sendMessage(chatID, fmt.Sprintf("✅ Аккаунт привязан к участнику %s", strings.TrimSpace(nickname)))
	case errors.Is(err, common.ErrNotFound):
		b.sendMessage(chatID, "❌ Участник с таким ником не найден")
	case errors.Is(err, common.ErrAlreadyLinked):
		b.sendMessage(chatID, "❌ "+common.ErrAlreadyLinked.Error())
	case errors.Is(err, common.ErrNicknameTaken):
		b.sendMessage(chatID, "❌ "+common.ErrNicknameTaken.Error())
	default:
		log.WithError(err).Error("ошибка привязки аккаунта")
		b.sendMessage(chatID, "❌ Не удалось привязать, попробуйте позже")
	}
	b.showMainMenu(ctx, chatID, userID)
}

// requireAdmin перепроверяет права и при отказе завершает диалог.
func (b *Bot) requireAdmin(ctx context.Context, chatID int64, from *tgbotapi.User, what string) bool {
	if b.classifier.IsAdmin(from.ID) {
		return true
	}
	b.states.Clear(from.ID)
	b.auditService.Record(ctx, audit.ActionDeniedAdminEntry, b.displayIdentity(ctx, from), from.ID, what)
	b.sendMessage(chatID, "❌ "+common.ErrNotAdmin.Error())
	b.showMainMenu(ctx, chatID, from.ID)
	return false
}

// failFlow — общий выход из сценария по внутренней ошибке.
func (b *Bot) failFlow(ctx context.Context, chatID, userID int64, err error) {
	b.states.Clear(userID)
	if errors.Is(err, common.ErrNotFound) {
		b.sendMessage(chatID, "❌ Запись не найдена")
	} else {
		log.WithError(err).Error("ошибка завершения сценария")
		b.sendMessage(chatID, "❌ Что-то пошло не так, попробуйте позже")
	}
	b.showMainMenu(ctx, chatID, userID)
}

// displayIdentity возвращает отображаемое имя пользователя:
// ник участника, если аккаунт привязан, иначе @username или имя.
func (b *Bot) displayIdentity(ctx context.Context, from *tgbotapi.User) string {
	if m, err := b.memberService.FindByLinkedID(ctx, from.ID); err == nil {
		return m.Nickname
	}
	if from.UserName != "" {
		return "@" + from.UserName
	}
	return from.FirstName
}
