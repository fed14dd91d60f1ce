// Package complaints реализует жалобы участников друг на друга
// и их разбор администраторами.
// models.go описывает жалобу — строку листа «жалобы».
package complaints

import (
	"strconv"
	"strings"

	"clanbot/internal/sheets"
)

// Статусы жалобы. Переход только «активна» → «закрыта».
const (
	StatusActive = "активна"
	StatusClosed = "закрыта"
)

// Complaint — одна жалоба.
// ID — неизменяемый uuid: по нему жалобу адресуют кнопки админ-меню,
// поэтому сдвиг строк листа между показом и решением ничего не ломает.
type Complaint struct {
	ID          string
	Submitter   string // Отображаемое имя подавшего
	SubmitterID int64  // Telegram user ID подавшего (для уведомлений)
	Target      string // Ник участника, на которого жалоба
	Reason      string
	Date        string // Дата подачи в формате DD.MM.YYYY
	Status      string
	Proof       string // Накопленные доказательства
	Resolver    string // Кто и когда закрыл ("имя, 02.01.2006 15:04")
}

// IsActive сообщает, открыта ли ещё жалоба.
func (c Complaint) IsActive() bool {
	return c.Status == StatusActive
}

func fromRow(row sheets.Row) Complaint {
	submitterID, _ := strconv.ParseInt(strings.TrimSpace(row.Cell(sheets.ComplaintColSubmitterID)), 10, 64)
	return Complaint{
		ID:          strings.TrimSpace(row.Cell(sheets.ComplaintColID)),
		Submitter:   strings.TrimSpace(row.Cell(sheets.ComplaintColSubmitter)),
		SubmitterID: submitterID,
		Target:      strings.TrimSpace(row.Cell(sheets.ComplaintColTarget)),
		Reason:      row.Cell(sheets.ComplaintColReason),
		Date:        strings.TrimSpace(row.Cell(sheets.ComplaintColDate)),
		Status:      strings.TrimSpace(row.Cell(sheets.ComplaintColStatus)),
		Proof:       row.Cell(sheets.ComplaintColProof),
		Resolver:    row.Cell(sheets.ComplaintColResolver),
	}
}

func toRow(c Complaint) sheets.Row {
	return sheets.Row{
		c.ID, c.Submitter, strconv.FormatInt(c.SubmitterID, 10),
		c.Target, c.Reason, c.Date, c.Status, c.Proof, c.Resolver,
	}
}
