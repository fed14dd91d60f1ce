// Package applications реализует заявки на вступление в клан.
// models.go описывает заявку — строку листа «заявки».
package applications

import (
	"strconv"
	"strings"

	"clanbot/internal/sheets"
)

// Статусы заявки. Переход только «на рассмотрении» → решение,
// решение терминально.
const (
	StatusPending  = "на рассмотрении"
	StatusAccepted = "принята"
	StatusRejected = "отклонена"
)

// Application — одна заявка на вступление.
type Application struct {
	ID         string // Неизменяемый uuid, по нему заявку адресуют кнопки
	Nickname   string // Игровой ник кандидата
	ExternalID string // Игровой ID (только цифры)
	Username   string // Telegram @username кандидата
	ChatID     int64  // Telegram user ID кандидата
	Date       string // Дата подачи в формате DD.MM.YYYY
	Status     string
}

// IsPending сообщает, ждёт ли заявка решения.
func (a Application) IsPending() bool {
	return a.Status == StatusPending
}

func fromRow(row sheets.Row) Application {
	chatID, _ := strconv.ParseInt(strings.TrimSpace(row.Cell(sheets.ApplicationColChatID)), 10, 64)
	return Application{
		ID:         strings.TrimSpace(row.Cell(sheets.ApplicationColID)),
		Nickname:   strings.TrimSpace(row.Cell(sheets.ApplicationColNickname)),
		ExternalID: strings.TrimSpace(row.Cell(sheets.ApplicationColExternalID)),
		Username:   strings.TrimSpace(row.Cell(sheets.ApplicationColUsername)),
		ChatID:     chatID,
		Date:       strings.TrimSpace(row.Cell(sheets.ApplicationColDate)),
		Status:     strings.TrimSpace(row.Cell(sheets.ApplicationColStatus)),
	}
}

func toRow(a Application) sheets.Row {
	return sheets.Row{
		a.ID, a.Nickname, a.ExternalID, a.Username,
		strconv.FormatInt(a.ChatID, 10), a.Date, a.Status,
	}
}
