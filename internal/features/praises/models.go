// Package praises реализует похвалу участников и топ недели.
// models.go описывает запись похвалы — строку листа «Похвала».
package praises

import (
	"strings"

	"clanbot/internal/sheets"
)

// Praise — одна запись похвалы.
type Praise struct {
	Nickname string // Кого похвалили
	Issuer   string // Кто похвалил (отображаемое имя)
	Reason   string // За что
	Date     string // Дата в формате DD.MM.YYYY
}

// TopEntry — строка топа похвалы.
type TopEntry struct {
	Nickname string
	Count    int
}

func fromRow(row sheets.Row) Praise {
	return Praise{
		Nickname: strings.TrimSpace(row.Cell(sheets.PraiseColNickname)),
		Issuer:   strings.TrimSpace(row.Cell(sheets.PraiseColIssuer)),
		Reason:   row.Cell(sheets.PraiseColReason),
		Date:     strings.TrimSpace(row.Cell(sheets.PraiseColDate)),
	}
}

func toRow(p Praise) sheets.Row {
	return sheets.Row{p.Nickname, p.Issuer, p.Reason, p.Date}
}
