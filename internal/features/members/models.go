// Package members управляет участниками клана: профилями, ролями,
// привязкой Telegram-аккаунтов.
// models.go описывает структуру участника и разбор строки листа.
package members

import (
	"strconv"
	"strings"

	"clanbot/internal/sheets"
)

// Member представляет участника клана — одну строку листа «участники клана».
type Member struct {
	Nickname       string // Игровой ник (уникальный ключ листа)
	ExternalID     string // Игровой ID (Steam64 и т.п.)
	Role           string // Роль в клане (из каталога ролей, может быть пустой)
	WarnCount      string // Кэш числа предов (авторитетен пересчёт по листу «преды»)
	PraiseCount    string // Кэш числа похвал (авторитетен пересчёт по листу «Похвала»)
	Score          string // Очки
	Desirability   string // Флаг желательности
	LinkedUsername string // @username привязанного Telegram-аккаунта
	LinkedID       int64  // Telegram user ID привязанного аккаунта (0 — не привязан)
}

// fromRow разбирает строку листа в Member.
// Короткие строки не ошибка: отсутствующие числовые ячейки — «0»,
// отсутствующие флаги — «N/A». Это единственное место с дефолтами.
func fromRow(row sheets.Row) Member {
	linkedID, _ := strconv.ParseInt(strings.TrimSpace(row.Cell(sheets.MemberColLinkedID)), 10, 64)
	return Member{
		Nickname:       strings.TrimSpace(row.Cell(sheets.MemberColNickname)),
		ExternalID:     strings.TrimSpace(row.Cell(sheets.MemberColExternalID)),
		Role:           strings.TrimSpace(row.Cell(sheets.MemberColRole)),
		WarnCount:      defaultNumeric(row.Cell(sheets.MemberColWarnCount)),
		PraiseCount:    defaultNumeric(row.Cell(sheets.MemberColPraiseCount)),
		Score:          defaultNumeric(row.Cell(sheets.MemberColScore)),
		Desirability:   defaultFlag(row.Cell(sheets.MemberColDesirability)),
		LinkedUsername: strings.TrimSpace(row.Cell(sheets.MemberColLinkedUsername)),
		LinkedID:       linkedID,
	}
}

// toRow собирает строку листа из Member.
func toRow(m Member) sheets.Row {
	linked := ""
	if m.LinkedID != 0 {
		linked = strconv.FormatInt(m.LinkedID, 10)
	}
	return sheets.Row{
		m.Nickname, m.ExternalID, m.Role,
		m.WarnCount, m.PraiseCount, m.Score, m.Desirability,
		m.LinkedUsername, linked,
	}
}

// DisplayName возвращает отображаемое имя участника:
// ник плюс @username, если аккаунт привязан.
func (m Member) DisplayName() string {
	if m.LinkedUsername != "" {
		return m.Nickname + " (@" + m.LinkedUsername + ")"
	}
	return m.Nickname
}

func defaultNumeric(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "0"
	}
	return s
}

func defaultFlag(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "N/A"
	}
	return s
}
