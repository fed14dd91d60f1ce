// Package audit ведёт журнал действий — лист «логи».
// models.go описывает запись журнала.
package audit

import (
	"strings"

	"clanbot/internal/sheets"
)

// Теги действий в журнале.
const (
	ActionWarning          = "пред"
	ActionPraise           = "похвала"
	ActionComplaint        = "жалоба"
	ActionComplaintWarn    = "жалоба→пред"
	ActionComplaintClose   = "жалоба закрыта"
	ActionRoleAssign       = "роль"
	ActionApplicationOK    = "заявка принята"
	ActionApplicationNo    = "заявка отклонена"
	ActionMemberLink       = "привязка"
	ActionTemplateChange   = "шаблон"
	ActionLogsCleared      = "логи очищены"
	ActionDeniedAdminEntry = "отказ в доступе"
)

// Entry — одна запись журнала действий.
type Entry struct {
	Action    string // Тег действия
	Actor     string // Отображаемое имя того, кто действовал
	ActorID   string // Telegram user ID
	Target    string // Кого касалось действие (ник, id жалобы и т.п.)
	Timestamp string // "02.01.2006 15:04"
}

func fromRow(row sheets.Row) Entry {
	return Entry{
		Action:    strings.TrimSpace(row.Cell(sheets.LogColAction)),
		Actor:     strings.TrimSpace(row.Cell(sheets.LogColActor)),
		ActorID:   strings.TrimSpace(row.Cell(sheets.LogColActorID)),
		Target:    strings.TrimSpace(row.Cell(sheets.LogColTarget)),
		Timestamp: strings.TrimSpace(row.Cell(sheets.LogColTimestamp)),
	}
}

func toRow(e Entry) sheets.Row {
	return sheets.Row{e.Action, e.Actor, e.ActorID, e.Target, e.Timestamp}
}
