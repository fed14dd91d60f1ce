// Package warnings реализует преды — дисциплинарные предупреждения.
// models.go описывает запись преда — строку листа «преды».
package warnings

import (
	"strings"

	"clanbot/internal/sheets"
)

// Warning — один пред.
type Warning struct {
	Nickname string // Кому выдан
	Reason   string // За что
	Date     string // Дата в формате DD.MM.YYYY
}

func fromRow(row sheets.Row) Warning {
	return Warning{
		Nickname: strings.TrimSpace(row.Cell(sheets.WarningColNickname)),
		Reason:   row.Cell(sheets.WarningColReason),
		Date:     strings.TrimSpace(row.Cell(sheets.WarningColDate)),
	}
}

func toRow(w Warning) sheets.Row {
	return sheets.Row{w.Nickname, w.Reason, w.Date}
}
