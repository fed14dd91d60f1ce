// Package common — errors.go определяет пользовательские ошибки,
// которые используются во всех модулях бота.
// Эти ошибки позволяют обработчикам различать типы проблем
// и отправлять пользователю понятные сообщения.
package common

import "errors"

// Ошибки участников и профилей
var (
	// ErrNotFound — участник/запись не найдены в таблице
	ErrNotFound = errors.New("запись не найдена")
	// ErrAlreadyLinked — аккаунт уже привязан к другому участнику
	ErrAlreadyLinked = errors.New("этот Telegram-аккаунт уже привязан к участнику клана")
	// ErrNicknameTaken — к участнику уже привязан чужой аккаунт
	ErrNicknameTaken = errors.New("к этому участнику уже привязан другой Telegram-аккаунт")
	// ErrUnknownRole — роль отсутствует в каталоге ролей
	ErrUnknownRole = errors.New("такой роли нет в списке ролей клана")
)

// Ошибки похвалы
var (
	// ErrSelfPraise — попытка похвалить самого себя
	ErrSelfPraise = errors.New("нельзя хвалить самого себя")
)

// Ошибки жалоб
var (
	// ErrComplaintClosed — жалоба уже закрыта, повторное решение невозможно
	ErrComplaintClosed = errors.New("жалоба уже закрыта")
)

// Ошибки заявок
var (
	// ErrPendingApplication — у пользователя уже есть заявка на рассмотрении
	ErrPendingApplication = errors.New("у вас уже есть заявка на рассмотрении")
	// ErrApplicationDecided — по заявке уже принято решение
	ErrApplicationDecided = errors.New("по этой заявке уже принято решение")
	// ErrInvalidExternalID — игровой ID не прошёл проверку формата
	ErrInvalidExternalID = errors.New("игровой ID должен состоять только из цифр (минимум 10)")
)

// Ошибки отчётов
var (
	// ErrNoActiveTemplate — нет активного шаблона отчёта
	ErrNoActiveTemplate = errors.New("нет активного шаблона отчёта")
)

// Ошибки доступа
var (
	// ErrNotAdmin — пользователь не является администратором
	ErrNotAdmin = errors.New("у вас нет прав администратора")
)
