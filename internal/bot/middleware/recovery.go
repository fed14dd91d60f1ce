// Package middleware — recovery.go гасит паники обработчиков апдейтов.
package middleware

import (
	"fmt"
	"runtime/debug"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"
)

// Recover подавляет панику при обработке одного апдейта.
// Кривая кнопка или неожиданная форма сообщения не должны ронять
// polling-цикл: апдейт теряется, бот продолжает обслуживать клан.
func Recover(update tgbotapi.Update) {
	r := recover()
	if r == nil {
		return
	}

	fields := log.Fields{
		"update_id": update.UpdateID,
		"panic":     fmt.Sprintf("%v", r),
		"stack":     string(debug.Stack()),
	}
	switch {
	case update.CallbackQuery != nil:
		fields["kind"] = "callback"
		fields["user_id"] = update.CallbackQuery.From.ID
		fields["data"] = update.CallbackQuery.Data
	case update.Message != nil:
		fields["kind"] = "message"
		if update.Message.From != nil {
			fields["user_id"] = update.Message.From.ID
		}
	default:
		fields["kind"] = "other"
	}
	log.WithFields(fields).Error("Паника при обработке апдейта — подавлена")
}
