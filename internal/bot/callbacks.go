// Package bot — callbacks.go обрабатывает нажатия inline-кнопок.
// Данные callback — короткие теги с префиксом ("act:", "comp:", ...),
// всё адресуемое (жалобы, заявки, шаблоны) адресуется по uuid,
// а не по номеру строки листа.
package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"clanbot/internal/common"
	"clanbot/internal/dialog"
	"clanbot/internal/features/audit"
	"clanbot/internal/features/complaints"
	"clanbot/internal/features/warnings"
)

// handleCallback — точка входа для всех callback query.
func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	data := cb.Data
	chatID := cb.Message.Chat.ID
	messageID := cb.Message.MessageID
	userID := cb.From.ID

	switch {
	case data == cbMainMenu:
		b.states.Clear(userID)
		b.answerCallback(cb.ID, "")
		text, kb := b.mainMenu(ctx, userID)
		b.editMenu(chatID, messageID, text, kb)

	case data == cbCancel:
		b.states.Clear(userID)
		b.answerCallback(cb.ID, "Отменено")
		text, kb := b.mainMenu(ctx, userID)
		b.editMenu(chatID, messageID, text, kb)

	case data == cbClanList:
		b.showClanList(ctx, cb, "member")

	case data == cbTopWeek:
		b.showTop(ctx, cb, b.cfg.TopWindowDays, fmt.Sprintf("🏆 Топ за %d %s", b.cfg.TopWindowDays, common.PluralizeDays(b.cfg.TopWindowDays)))

	case data == cbTopAll:
		b.showTop(ctx, cb, 0, "🏆 Топ за всё время")

	case data == cbMyProfile:
		b.showMyProfile(ctx, cb)

	case data == cbApply:
		b.states.Set(userID, dialog.ApplyingNickname{})
		b.answerCallback(cb.ID, "")
		b.editMenu(chatID, messageID, "Пришлите ваш игровой ник:", cancelKeyboard())

	case data == cbLink:
		b.states.Set(userID, dialog.LinkingNickname{})
		b.answerCallback(cb.ID, "")
		b.editMenu(chatID, messageID, "Пришлите ник участника, к которому привязать ваш аккаунт:", cancelKeyboard())

	case strings.HasPrefix(data, "member:"):
		b.showMemberCard(ctx, cb, strings.TrimPrefix(data, "member:"))

	case strings.HasPrefix(data, "act:"):
		b.startAction(ctx, cb, strings.TrimPrefix(data, "act:"))

	// Дальше только админские ветки: права проверяются заново
	// при каждом нажатии, а не один раз при показе меню.
	case data == cbComplaints:
		if !b.adminCallback(ctx, cb) {
			return
		}
		b.showComplaints(ctx, cb)

	case strings.HasPrefix(data, "comp:"):
		if !b.adminCallback(ctx, cb) {
			return
		}
		b.resolveComplaint(ctx, cb, strings.TrimPrefix(data, "comp:"))

	case data == cbApps:
		if !b.adminCallback(ctx, cb) {
			return
		}
		b.showApplications(ctx, cb)

	case strings.HasPrefix(data, "app:"):
		if !b.adminCallback(ctx, cb) {
			return
		}
		b.decideApplication(ctx, cb, strings.TrimPrefix(data, "app:"))

	case data == cbTemplates:
		if !b.adminCallback(ctx, cb) {
			return
		}
		b.showTemplates(ctx, cb)

	case strings.HasPrefix(data, "tpl:"):
		if !b.adminCallback(ctx, cb) {
			return
		}
		b.templateAction(ctx, cb, strings.TrimPrefix(data, "tpl:"))

	case data == cbRoles:
		if !b.adminCallback(ctx, cb) {
			return
		}
		b.showClanList(ctx, cb, "rolem")

	case strings.HasPrefix(data, "rolem:"):
		if !b.adminCallback(ctx, cb) {
			return
		}
		b.showRolePicker(ctx, cb, strings.TrimPrefix(data, "rolem:"))

	case strings.HasPrefix(data, "roleset:"):
		if !b.adminCallback(ctx, cb) {
			return
		}
		b.assignRole(ctx, cb, strings.TrimPrefix(data, "roleset:"))

	case data == cbLogs:
		if !b.adminCallback(ctx, cb) {
			return
		}
		b.showLogs(ctx, cb)

	case data == cbLogsClear:
		if !b.adminCallback(ctx, cb) {
			return
		}
		b.clearLogs(ctx, cb)

	case data == cbReportNow:
		if !b.adminCallback(ctx, cb) {
			return
		}
		b.publishReport(ctx, cb)

	default:
		log.WithField("data", data).Warn("неизвестный callback")
		b.answerCallback(cb.ID, "")
	}
}

// adminCallback перепроверяет права перед админским действием.
// Кнопка могла остаться в старом меню пользователя, который
// уже не администратор.
func (b *Bot) adminCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) bool {
	if b.classifier.IsAdmin(cb.From.ID) {
		return true
	}
	b.auditService.Record(ctx, audit.ActionDeniedAdminEntry, b.callbackActor(ctx, cb), cb.From.ID, cb.Data)
	b.answerCallback(cb.ID, "Доступно только администраторам")
	return false
}

// callbackActor — отображаемое имя нажавшего кнопку.
func (b *Bot) callbackActor(ctx context.Context, cb *tgbotapi.CallbackQuery) string {
	return b.displayIdentity(ctx, cb.From)
}

func (b *Bot) showClanList(ctx context.Context, cb *tgbotapi.CallbackQuery, prefix string) {
	list, err := b.memberService.List(ctx)
	if err != nil {
		b.callbackError(cb, err)
		return
	}
	b.answerCallback(cb.ID, "")
	if len(list) == 0 {
		b.editMenu(cb.Message.Chat.ID, cb.Message.MessageID, "В клане пока нет участников.", tgbotapi.NewInlineKeyboardMarkup(backRow))
		return
	}
	title := "👥 Участники клана:"
	if prefix == "rolem" {
		title = "Кому назначить роль?"
	}
	b.editMenu(cb.Message.Chat.ID, cb.Message.MessageID, title, clanListKeyboard(list, prefix))
}

func (b *Bot) showTop(ctx context.Context, cb *tgbotapi.CallbackQuery, windowDays int, title string) {
	entries, err := b.praiseService.Top(ctx, windowDays, b.cfg.TopLimit)
	if err != nil {
		b.callbackError(cb, err)
		return
	}
	b.answerCallback(cb.ID, "")
	b.editMenu(cb.Message.Chat.ID, cb.Message.MessageID, formatTop(entries, title), tgbotapi.NewInlineKeyboardMarkup(backRow))
}

func (b *Bot) showMyProfile(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	m, err := b.memberService.FindByLinkedID(ctx, cb.From.ID)
	if err != nil {
		b.answerCallback(cb.ID, "Аккаунт не привязан к участнику")
		return
	}
	p, err := b.memberService.ResolveProfile(ctx, m.Nickname)
	if err != nil {
		b.callbackError(cb, err)
		return
	}
	b.answerCallback(cb.ID, "")
	b.editMenu(cb.Message.Chat.ID, cb.Message.MessageID, memberCard(p, b.warningsFor(ctx, p.Nickname)), tgbotapi.NewInlineKeyboardMarkup(backRow))
}

// warningsFor читает преды участника для карточки.
// Ошибка чтения не должна ломать показ карточки: логируем
// и показываем карточку без списка предов.
func (b *Bot) warningsFor(ctx context.Context, nickname string) []warnings.Warning {
	list, err := b.warningService.ListFor(ctx, nickname)
	if err != nil {
		log.WithError(err).WithField("nickname", nickname).Warn("не удалось прочитать преды для карточки")
		return nil
	}
	return list
}

func (b *Bot) showMemberCard(ctx context.Context, cb *tgbotapi.CallbackQuery, nickname string) {
	p, err := b.memberService.ResolveProfile(ctx, nickname)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			b.answerCallback(cb.ID, "Участник не найден")
			return
		}
		b.callbackError(cb, err)
		return
	}
	b.states.Set(cb.From.ID, dialog.SelectingAction{Target: p.Nickname})
	b.answerCallback(cb.ID, "")
	b.editMenu(cb.Message.Chat.ID, cb.Message.MessageID, memberCard(p, b.warningsFor(ctx, p.Nickname)), memberActionsKeyboard(p.Nickname, b.classifier.IsAdmin(cb.From.ID)))
}

// startAction переводит диалог в ожидание причины.
// rest: "<pred|praise|complaint>:<ник>".
func (b *Bot) startAction(ctx context.Context, cb *tgbotapi.CallbackQuery, rest string) {
	action, target, ok := strings.Cut(rest, ":")
	if !ok {
		b.answerCallback(cb.ID, "")
		return
	}

	if action == "pred" && !b.adminCallback(ctx, cb) {
		return
	}

	prompts := map[string]string{
		"pred":      "За что выдаём пред участнику %s?",
		"praise":    "За что хвалим участника %s?",
		"complaint": "Опишите вашу жалобу на %s:",
	}
	prompt, ok := prompts[action]
	if !ok {
		log.WithField("action", action).Warn("неизвестное действие в callback")
		b.answerCallback(cb.ID, "")
		return
	}

	b.states.Set(cb.From.ID, dialog.AwaitingReason{Action: action, Target: target})
	b.answerCallback(cb.ID, "")
	b.editMenu(cb.Message.Chat.ID, cb.Message.MessageID, fmt.Sprintf(prompt, target), cancelKeyboard())
}

func (b *Bot) showComplaints(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	list, err := b.complaintService.ListActive(ctx)
	if err != nil {
		b.callbackError(cb, err)
		return
	}
	b.answerCallback(cb.ID, "")

	if len(list) == 0 {
		b.editMenu(cb.Message.Chat.ID, cb.Message.MessageID, "Активных жалоб нет 🎉", tgbotapi.NewInlineKeyboardMarkup(backRow))
		return
	}

	b.editMenu(cb.Message.Chat.ID, cb.Message.MessageID, fmt.Sprintf("📨 Активных жалоб: %d", len(list)), tgbotapi.NewInlineKeyboardMarkup(backRow))
	for _, c := range list {
		b.sendMenu(cb.Message.Chat.ID, formatComplaint(c), complaintKeyboard(c.ID))
	}
}

func formatComplaint(c complaints.Complaint) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Жалоба на: %s\nОт: %s\nДата: %s\nПричина: %s", c.Target, c.Submitter, c.Date, c.Reason)
	if c.Proof != "" {
		fmt.Fprintf(&sb, "\nДоказательства:\n%s", c.Proof)
	}
	return sb.String()
}

func complaintKeyboard(id string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⚠ Пред", "comp:warn:"+id),
			tgbotapi.NewInlineKeyboardButtonData("✖ Без мер", "comp:close:"+id),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📎 Запросить доказательства", "comp:proof:"+id),
		),
	)
}

// resolveComplaint — решение по жалобе. rest: "<warn|close|proof>:<uuid>".
func (b *Bot) resolveComplaint(ctx context.Context, cb *tgbotapi.CallbackQuery, rest string) {
	verb, id, ok := strings.Cut(rest, ":")
	if !ok {
		b.answerCallback(cb.ID, "")
		return
	}
	actor := b.callbackActor(ctx, cb)

	switch verb {
	case "warn":
		c, err := b.complaintService.ResolveWithWarning(ctx, id, actor)
		if err != nil {
			b.complaintDecisionError(cb, err)
			return
		}
		b.auditService.Record(ctx, audit.ActionComplaintWarn, actor, cb.From.ID, c.Target)
		b.answerCallback(cb.ID, "Пред выдан, жалоба закрыта")
		b.editMenu(cb.Message.Chat.ID, cb.Message.MessageID, formatComplaint(c)+"\n\n⚠ Закрыта с предом", tgbotapi.NewInlineKeyboardMarkup(backRow))

	case "close":
		c, err := b.complaintService.CloseNoAction(ctx, id, actor)
		if err != nil {
			b.complaintDecisionError(cb, err)
			return
		}
		b.auditService.Record(ctx, audit.ActionComplaintClose, actor, cb.From.ID, c.Target)
		b.answerCallback(cb.ID, "Жалоба закрыта без мер")
		b.editMenu(cb.Message.Chat.ID, cb.Message.MessageID, formatComplaint(c)+"\n\n✖ Закрыта без мер", tgbotapi.NewInlineKeyboardMarkup(backRow))

	case "proof":
		c, err := b.complaintService.RequestProof(ctx, id)
		if err != nil {
			b.complaintDecisionError(cb, err)
			return
		}
		// Следующее сообщение подавшего уйдёт в AppendProof
		if c.SubmitterID != 0 {
			b.states.Set(c.SubmitterID, dialog.AwaitingProof{ComplaintID: c.ID})
		}
		b.answerCallback(cb.ID, "Запрос отправлен подавшему")

	default:
		log.WithField("verb", verb).Warn("неизвестное решение по жалобе")
		b.answerCallback(cb.ID, "")
	}
}

func (b *Bot) complaintDecisionError(cb *tgbotapi.CallbackQuery, err error) {
	switch {
	case errors.Is(err, common.ErrNotFound):
		b.answerCallback(cb.ID, "Жалоба не найдена")
	case errors.Is(err, common.ErrComplaintClosed):
		// Два админа нажали кнопки одной жалобы: побеждает первый
		b.answerCallback(cb.ID, "Жалоба уже закрыта")
	default:
		log.WithError(err).Error("ошибка решения по жалобе")
		b.answerCallback(cb.ID, "Ошибка, попробуйте позже")
	}
}

func (b *Bot) showApplications(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	list, err := b.applicationService.ListPending(ctx)
	if err != nil {
		b.callbackError(cb, err)
		return
	}
	b.answerCallback(cb.ID, "")

	if len(list) == 0 {
		b.editMenu(cb.Message.Chat.ID, cb.Message.MessageID, "Заявок на рассмотрении нет.", tgbotapi.NewInlineKeyboardMarkup(backRow))
		return
	}

	b.editMenu(cb.Message.Chat.ID, cb.Message.MessageID, fmt.Sprintf("📨 Заявок на рассмотрении: %d", len(list)), tgbotapi.NewInlineKeyboardMarkup(backRow))
	for _, a := range list {
		tg := "нет username"
		if a.Username != "" {
			tg = "@" + a.Username
		}
		text := fmt.Sprintf("Ник: %s\nИгровой ID: %s\nTelegram: %s\nДата: %s", a.Nickname, a.ExternalID, tg, a.Date)
		kb := tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("✅ Принять", "app:ok:"+a.ID),
				tgbotapi.NewInlineKeyboardButtonData("❌ Отклонить", "app:no:"+a.ID),
			),
		)
		b.sendMenu(cb.Message.Chat.ID, text, kb)
	}
}

// decideApplication — решение по заявке. rest: "<ok|no>:<uuid>".
func (b *Bot) decideApplication(ctx context.Context, cb *tgbotapi.CallbackQuery, rest string) {
	verb, id, ok := strings.Cut(rest, ":")
	if !ok {
		b.answerCallback(cb.ID, "")
		return
	}
	actor := b.callbackActor(ctx, cb)

	switch verb {
	case "ok":
		a, err := b.applicationService.Accept(ctx, id)
		if err != nil {
			b.applicationDecisionError(cb, err)
			return
		}
		b.auditService.Record(ctx, audit.ActionApplicationOK, actor, cb.From.ID, a.Nickname)
		b.answerCallback(cb.ID, "Заявка принята")
		b.editMenu(cb.Message.Chat.ID, cb.Message.MessageID, fmt.Sprintf("✅ Заявка %s принята, участник добавлен в клан.", a.Nickname), tgbotapi.NewInlineKeyboardMarkup(backRow))

	case "no":
		a, err := b.applicationService.Reject(ctx, id)
		if err != nil {
			b.applicationDecisionError(cb, err)
			return
		}
		b.auditService.Record(ctx, audit.ActionApplicationNo, actor, cb.From.ID, a.Nickname)
		b.answerCallback(cb.ID, "Заявка отклонена")
		b.editMenu(cb.Message.Chat.ID, cb.Message.MessageID, fmt.Sprintf("❌ Заявка %s отклонена.", a.Nickname), tgbotapi.NewInlineKeyboardMarkup(backRow))

	default:
		log.WithField("verb", verb).Warn("неизвестное решение по заявке")
		b.answerCallback(cb.ID, "")
	}
}

func (b *Bot) applicationDecisionError(cb *tgbotapi.CallbackQuery, err error) {
	switch {
	case errors.Is(err, common.ErrNotFound):
		b.answerCallback(cb.ID, "Заявка не найдена")
	case errors.Is(err, common.ErrApplicationDecided):
		b.answerCallback(cb.ID, "По заявке уже есть решение")
	default:
		log.WithError(err).Error("ошибка решения по заявке")
		b.answerCallback(cb.ID, "Ошибка, попробуйте позже")
	}
}

func (b *Bot) showTemplates(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	list, err := b.reportService.List(ctx)
	if err != nil {
		b.callbackError(cb, err)
		return
	}
	b.answerCallback(cb.ID, "")

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(list)+2)
	for _, t := range list {
		label := t.Name
		if t.Active {
			label = "★ " + label
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, "tpl:view:"+t.ID),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("➕ Новый шаблон", cbNewTpl),
	))
	rows = append(rows, backRow)

	b.editMenu(cb.Message.Chat.ID, cb.Message.MessageID, "📋 Шаблоны отчёта (★ — активный):", tgbotapi.NewInlineKeyboardMarkup(rows...))
}

// templateAction — действия над шаблонами. rest: "new" либо
// "<view|on|del|name|body>:<uuid>".
func (b *Bot) templateAction(ctx context.Context, cb *tgbotapi.CallbackQuery, rest string) {
	if rest == "new" {
		b.states.Set(cb.From.ID, dialog.CreatingTemplateName{})
		b.answerCallback(cb.ID, "")
		b.editMenu(cb.Message.Chat.ID, cb.Message.MessageID, "Пришлите название нового шаблона:", cancelKeyboard())
		return
	}

	verb, id, ok := strings.Cut(rest, ":")
	if !ok {
		b.answerCallback(cb.ID, "")
		return
	}
	actor := b.callbackActor(ctx, cb)

	switch verb {
	case "view":
		t, err := b.reportService.Get(ctx, id)
		if err != nil {
			b.callbackError(cb, err)
			return
		}
		status := "неактивен"
		if t.Active {
			status = "активен ★"
		}
		text := fmt.Sprintf("Шаблон «%s» (%s)\n\n%s", t.Name, status, t.Body)
		kb := tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("✅ Активировать", "tpl:on:"+t.ID),
				tgbotapi.NewInlineKeyboardButtonData("🗑 Удалить", "tpl:del:"+t.ID),
			),
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("✏ Название", "tpl:name:"+t.ID),
				tgbotapi.NewInlineKeyboardButtonData("✏ Текст", "tpl:body:"+t.ID),
			),
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("◀ К шаблонам", cbTemplates),
			),
		)
		b.answerCallback(cb.ID, "")
		b.editMenu(cb.Message.Chat.ID, cb.Message.MessageID, text, kb)

	case "on":
		if err := b.reportService.Activate(ctx, id); err != nil {
			b.callbackError(cb, err)
			return
		}
		b.auditService.Record(ctx, audit.ActionTemplateChange, actor, cb.From.ID, id)
		b.answerCallback(cb.ID, "Шаблон активирован")
		b.showTemplates(ctx, cb)

	case "del":
		if err := b.reportService.Delete(ctx, id); err != nil {
			b.callbackError(cb, err)
			return
		}
		b.auditService.Record(ctx, audit.ActionTemplateChange, actor, cb.From.ID, id)
		b.answerCallback(cb.ID, "Шаблон удалён")
		b.showTemplates(ctx, cb)

	case "name", "body":
		b.states.Set(cb.From.ID, dialog.EditingTemplateField{TemplateID: id, Field: verb})
		prompt := "Пришлите новое название шаблона:"
		if verb == "body" {
			prompt = "Пришлите новый текст шаблона.\nПлейсхолдеры: {top_list}, {date}, {week_start}"
		}
		b.answerCallback(cb.ID, "")
		b.editMenu(cb.Message.Chat.ID, cb.Message.MessageID, prompt, cancelKeyboard())

	default:
		log.WithField("verb", verb).Warn("неизвестное действие над шаблоном")
		b.answerCallback(cb.ID, "")
	}
}

// showRolePicker показывает каталог ролей для участника.
// В callback кладём индекс роли, а не её название: лимит Telegram
// на callback data — 64 байта, русские названия туда не влезают.
func (b *Bot) showRolePicker(ctx context.Context, cb *tgbotapi.CallbackQuery, nickname string) {
	tags, err := b.memberService.RoleTags(ctx)
	if err != nil {
		b.callbackError(cb, err)
		return
	}
	if len(tags) == 0 {
		b.answerCallback(cb.ID, "Каталог ролей пуст")
		return
	}

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(tags)+1)
	for i, tag := range tags {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(tag, fmt.Sprintf("roleset:%d:%s", i, nickname)),
		))
	}
	rows = append(rows, backRow)

	b.answerCallback(cb.ID, "")
	b.editMenu(cb.Message.Chat.ID, cb.Message.MessageID, fmt.Sprintf("Какую роль назначить участнику %s?", nickname), tgbotapi.NewInlineKeyboardMarkup(rows...))
}

// assignRole назначает роль. rest: "<индекс>:<ник>".
func (b *Bot) assignRole(ctx context.Context, cb *tgbotapi.CallbackQuery, rest string) {
	idxStr, nickname, ok := strings.Cut(rest, ":")
	if !ok {
		b.answerCallback(cb.ID, "")
		return
	}
	idx, err := strconv.Atoi(idxStr)
	if err != nil {
		b.answerCallback(cb.ID, "")
		return
	}

	// Каталог перечитываем заново: между показом и нажатием его
	// могли отредактировать, индекс проверяем по свежему списку
	tags, err := b.memberService.RoleTags(ctx)
	if err != nil {
		b.callbackError(cb, err)
		return
	}
	if idx < 0 || idx >= len(tags) {
		b.answerCallback(cb.ID, "Каталог ролей изменился, откройте список заново")
		return
	}
	role := tags[idx]

	if err := b.memberService.AssignRole(ctx, nickname, role); err != nil {
		switch {
		case errors.Is(err, common.ErrNotFound):
			b.answerCallback(cb.ID, "Участник не найден")
		case errors.Is(err, common.ErrUnknownRole):
			b.answerCallback(cb.ID, "Такой роли больше нет в каталоге")
		default:
			log.WithError(err).Error("ошибка назначения роли")
			b.answerCallback(cb.ID, "Ошибка, попробуйте позже")
		}
		return
	}

	b.auditService.Record(ctx, audit.ActionRoleAssign, b.callbackActor(ctx, cb), cb.From.ID, fmt.Sprintf("%s → %s", nickname, role))
	b.answerCallback(cb.ID, "Роль назначена")
	b.editMenu(cb.Message.Chat.ID, cb.Message.MessageID, fmt.Sprintf("✅ Участнику %s назначена роль «%s».", nickname, role), tgbotapi.NewInlineKeyboardMarkup(backRow))
}

func (b *Bot) showLogs(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	entries, err := b.auditService.List(ctx, 20)
	if err != nil {
		b.callbackError(cb, err)
		return
	}
	b.answerCallback(cb.ID, "")

	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 Очистить логи", cbLogsClear),
		),
		backRow,
	)

	if len(entries) == 0 {
		b.editMenu(cb.Message.Chat.ID, cb.Message.MessageID, "Журнал пуст.", kb)
		return
	}

	var sb strings.Builder
	sb.WriteString("🧾 Последние действия:\n")
	for _, e := range entries {
		fmt.Fprintf(&sb, "\n%s — %s: %s (%s)", e.Timestamp, e.Actor, e.Action, e.Target)
	}
	b.editMenu(cb.Message.Chat.ID, cb.Message.MessageID, sb.String(), kb)
}

func (b *Bot) clearLogs(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if err := b.auditService.Clear(ctx); err != nil {
		b.callbackError(cb, err)
		return
	}
	// Запись об очистке — первая строка нового журнала
	b.auditService.Record(ctx, audit.ActionLogsCleared, b.callbackActor(ctx, cb), cb.From.ID, "")
	b.answerCallback(cb.ID, "Журнал очищен")
	b.showLogs(ctx, cb)
}

func (b *Bot) publishReport(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	text, err := b.reportService.Render(ctx)
	if err != nil {
		if errors.Is(err, common.ErrNoActiveTemplate) {
			b.answerCallback(cb.ID, "Нет активного шаблона")
			return
		}
		b.callbackError(cb, err)
		return
	}
	b.PostReport(text)
	b.answerCallback(cb.ID, "Отчёт опубликован")
	b.editMenu(cb.Message.Chat.ID, cb.Message.MessageID, "📣 Отчёт опубликован в чате клана.", tgbotapi.NewInlineKeyboardMarkup(backRow))
}

// callbackError — общий ответ на внутреннюю ошибку в callback.
func (b *Bot) callbackError(cb *tgbotapi.CallbackQuery, err error) {
	log.WithFields(log.Fields{
		"data":    cb.Data,
		"user_id": cb.From.ID,
	}).WithError(err).Error("ошибка обработки callback")
	b.answerCallback(cb.ID, "Ошибка, попробуйте позже")
}
