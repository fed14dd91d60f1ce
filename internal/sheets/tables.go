// Package sheets — tables.go перечисляет листы таблицы клана,
// их заголовки и индексы колонок.
// Имена листов совпадают с исторической таблицей клана.
package sheets

import "context"

// Имена листов.
const (
	TableMembers      = "участники клана"
	TableWarnings     = "преды"
	TablePraises      = "Похвала"
	TableRoles        = "роли"
	TableComplaints   = "жалобы"
	TableLogs         = "логи"
	TableTemplates    = "шаблоны отчётов"
	TableApplications = "заявки"
)

// Колонки листа «участники клана».
const (
	MemberColNickname = iota
	MemberColExternalID
	MemberColRole
	MemberColWarnCount
	MemberColPraiseCount
	MemberColScore
	MemberColDesirability
	MemberColLinkedUsername
	MemberColLinkedID
)

// Колонки листа «преды».
const (
	WarningColNickname = iota
	WarningColReason
	WarningColDate
)

// Колонки листа «Похвала».
const (
	PraiseColNickname = iota
	PraiseColIssuer
	PraiseColReason
	PraiseColDate
)

// Колонки листа «жалобы».
// В колонке 0 лежит неизменяемый id жалобы: админские действия
// адресуют жалобу по id, а не по номеру строки, поэтому вставка
// или удаление соседних строк ничего не ломает.
const (
	ComplaintColID = iota
	ComplaintColSubmitter
	ComplaintColSubmitterID
	ComplaintColTarget
	ComplaintColReason
	ComplaintColDate
	ComplaintColStatus
	ComplaintColProof
	ComplaintColResolver
)

// Колонки листа «заявки».
const (
	ApplicationColID = iota
	ApplicationColNickname
	ApplicationColExternalID
	ApplicationColUsername
	ApplicationColChatID
	ApplicationColDate
	ApplicationColStatus
)

// Колонки листа «шаблоны отчётов».
const (
	TemplateColID = iota
	TemplateColName
	TemplateColBody
	TemplateColActive
)

// Колонки листа «логи».
const (
	LogColAction = iota
	LogColActor
	LogColActorID
	LogColTarget
	LogColTimestamp
)

// Каталог листов с заголовками. Порядок не важен.
var tableHeaders = map[string]Row{
	TableMembers:      {"ник", "игровой id", "роль", "преды", "похвалы", "очки", "желательность", "телеграм", "телеграм id"},
	TableWarnings:     {"ник", "причина", "дата"},
	TablePraises:      {"ник", "кто похвалил", "причина", "дата"},
	TableRoles:        {"роль"},
	TableComplaints:   {"id", "кто подал", "id подавшего", "на кого", "причина", "дата", "статус", "доказательства", "кто закрыл"},
	TableLogs:         {"действие", "кто", "id", "на кого", "когда"},
	TableTemplates:    {"id", "название", "текст", "активен"},
	TableApplications: {"id", "ник", "игровой id", "телеграм", "телеграм id", "дата", "статус"},
}

// EnsureAllTables создаёт все листы клана, которых ещё нет.
// Вызывается один раз при старте приложения.
func EnsureAllTables(ctx context.Context, store Store) error {
	for name, header := range tableHeaders {
		if err := store.EnsureTable(ctx, name, header); err != nil {
			return err
		}
	}
	return nil
}
