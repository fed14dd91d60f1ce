// Package reports реализует шаблоны еженедельного отчёта
// и сам отчёт по активному шаблону.
// models.go описывает шаблон — строку листа «шаблоны отчётов».
package reports

import (
	"strings"

	"clanbot/internal/sheets"
)

// Значение колонки «активен». В листе держим читаемое «да»,
// всё остальное (пустая ячейка, «нет») считается неактивным.
const activeFlag = "да"

// Template — шаблон отчёта. Активен не больше чем один.
type Template struct {
	ID     string // Неизменяемый uuid
	Name   string // Название для меню
	Body   string // Текст с плейсхолдерами {top_list}, {date}, {week_start}
	Active bool
}

func fromRow(row sheets.Row) Template {
	return Template{
		ID:     strings.TrimSpace(row.Cell(sheets.TemplateColID)),
		Name:   strings.TrimSpace(row.Cell(sheets.TemplateColName)),
		Body:   row.Cell(sheets.TemplateColBody),
		Active: strings.TrimSpace(row.Cell(sheets.TemplateColActive)) == activeFlag,
	}
}

func toRow(t Template) sheets.Row {
	active := ""
	if t.Active {
		active = activeFlag
	}
	return sheets.Row{t.ID, t.Name, t.Body, active}
}
