// Package bot — menus.go собирает инлайн-клавиатуры и тексты карточек.
// Главное меню каждый раз строится заново по текущему содержимому
// таблицы и классификации пользователя — никакого кэша, меню
// не помнит ничего между нажатиями.
package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"clanbot/internal/common"
	"clanbot/internal/features/members"
	"clanbot/internal/features/praises"
	"clanbot/internal/features/warnings"
)

// Идентификаторы кнопок (callback data).
const (
	cbMainMenu   = "menu:main"
	cbClanList   = "menu:clan"
	cbTopWeek    = "menu:top"
	cbTopAll     = "menu:topall"
	cbMyProfile  = "menu:me"
	cbApply      = "menu:apply"
	cbLink       = "menu:link"
	cbCancel     = "menu:cancel"
	cbComplaints = "adm:comps"
	cbApps       = "adm:apps"
	cbTemplates  = "adm:tpls"
	cbLogs       = "adm:logs"
	cbLogsClear  = "adm:logsclear"
	cbReportNow  = "adm:report"
	cbRoles      = "adm:roles"
	cbNewTpl     = "tpl:new"
)

var backRow = tgbotapi.NewInlineKeyboardRow(
	tgbotapi.NewInlineKeyboardButtonData("🏠 В меню", cbMainMenu),
)

// mainMenu строит главное меню для пользователя.
// Содержимое — чистая функция от классификации и состояния таблицы:
// привязан ли участник, есть ли заявка, админ ли пользователь.
func (b *Bot) mainMenu(ctx context.Context, userID int64) (string, tgbotapi.InlineKeyboardMarkup) {
	var rows [][]tgbotapi.InlineKeyboardButton
	text := "Главное меню:"

	linked := b.memberService.IsLinked(ctx, userID)
	if linked {
		rows = append(rows,
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("📋 Список клана", cbClanList),
			),
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("🏆 Топ недели", cbTopWeek),
				tgbotapi.NewInlineKeyboardButtonData("🏆 За всё время", cbTopAll),
			),
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("👤 Мой профиль", cbMyProfile),
			),
		)
	} else if _, err := b.applicationService.PendingFor(ctx, userID); err == nil {
		text = "Главное меню:\n\n⏳ Ваша заявка на рассмотрении."
	} else {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📝 Подать заявку", cbApply),
			tgbotapi.NewInlineKeyboardButtonData("🔗 Я уже в клане", cbLink),
		))
	}

	// Админский блок. Кнопки — только подсказка: каждый переход
	// всё равно перепроверяет права в точке использования.
	if b.classifier.IsAdmin(userID) {
		rows = append(rows,
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("⚠ Жалобы", cbComplaints),
				tgbotapi.NewInlineKeyboardButtonData("📨 Заявки", cbApps),
			),
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("📄 Шаблоны отчётов", cbTemplates),
				tgbotapi.NewInlineKeyboardButtonData("🎖 Роли", cbRoles),
			),
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("📜 Логи", cbLogs),
				tgbotapi.NewInlineKeyboardButtonData("📊 Отчёт сейчас", cbReportNow),
			),
		)
	}

	if len(rows) == 0 {
		// ни участник, ни кандидат, ни админ — меню из одной заглушки
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Обновить", cbMainMenu),
		))
	}

	return text, tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// showMainMenu отправляет главное меню новым сообщением.
func (b *Bot) showMainMenu(ctx context.Context, chatID, userID int64) {
	text, kb := b.mainMenu(ctx, userID)
	b.sendMenu(chatID, text, kb)
}

// clanListKeyboard строит клавиатуру выбора участника, по двое в ряд.
// prefix определяет, что случится с выбранным участником
// ("member" — карточка, "rolem" — назначение роли).
func clanListKeyboard(list []members.Member, prefix string) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for _, m := range list {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(m.Nickname, prefix+":"+m.Nickname))
		if len(row) == 2 {
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(row...))
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(row...))
	}
	rows = append(rows, backRow)
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// memberCard строит текст карточки участника.
// Преды показываются с причинами: карточка — то место, где и сам
// участник, и админ видят, за что именно они выданы.
func memberCard(p members.Profile, warns []warnings.Warning) string {
	role := p.Role
	if role == "" {
		role = "нет"
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("👤 %s\n", p.DisplayName()))
	sb.WriteString(fmt.Sprintf("Игровой ID: %s\n", valueOr(p.ExternalID, "N/A")))
	sb.WriteString(fmt.Sprintf("Роль: %s\n", role))
	sb.WriteString(fmt.Sprintf("Преды: %d\n", p.Warns))
	sb.WriteString(fmt.Sprintf("Похвалы: %d\n", p.Praises))
	sb.WriteString(fmt.Sprintf("Очки: %s\n", p.Score))
	sb.WriteString(fmt.Sprintf("Желательность: %s", p.Desirability))
	if len(warns) > 0 {
		sb.WriteString(fmt.Sprintf("\n\n⚠ %d %s:", len(warns), common.PluralizeWarnings(len(warns))))
		for _, w := range warns {
			sb.WriteString(fmt.Sprintf("\n— %s (%s)", w.Reason, w.Date))
		}
	}
	return sb.String()
}

// memberActionsKeyboard строит кнопки действий над участником.
// Кнопка преда видна только админу; сам пред при выполнении
// перепроверяет права ещё раз.
func memberActionsKeyboard(nickname string, isAdmin bool) tgbotapi.InlineKeyboardMarkup {
	actions := tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("👏 Похвала", "act:praise:"+nickname),
		tgbotapi.NewInlineKeyboardButtonData("📨 Жалоба", "act:complaint:"+nickname),
	)
	if isAdmin {
		actions = append(actions,
			tgbotapi.NewInlineKeyboardButtonData("⚠ Пред", "act:pred:"+nickname))
	}
	return tgbotapi.NewInlineKeyboardMarkup(actions, backRow)
}

// cancelKeyboard — клавиатура из одной кнопки отмены для шагов
// со свободным вводом.
func cancelKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("❌ Отмена", cbCancel),
	))
}

// formatTop форматирует топ похвалы для показа в меню.
func formatTop(entries []praises.TopEntry, title string) string {
	if len(entries) == 0 {
		return title + "\n\nпока пусто"
	}
	var sb strings.Builder
	sb.WriteString(title + "\n\n")
	for i, e := range entries {
		sb.WriteString(fmt.Sprintf("%d. %s — %d %s\n", i+1, e.Nickname,
			e.Count, common.PluralizePraises(e.Count)))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func valueOr(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
