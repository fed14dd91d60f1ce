// Package common содержит общие утилиты, используемые во всём проекте.
// Сюда входят: работа с датами в формате таблицы и русская плюрализация.
package common

import (
	"time"
)

// DateLayout — формат дат, в котором записи хранятся в таблице.
// Пример: 04.03.2025
const DateLayout = "02.01.2006"

// MoscowTime возвращает текущее время в часовом поясе Москвы (Europe/Moscow).
// Все даты в таблице пишутся по московскому времени.
func MoscowTime() time.Time {
	loc, err := time.LoadLocation("Europe/Moscow")
	if err != nil {
		// Если не удалось загрузить — используем UTC+3 вручную
		loc = time.FixedZone("MSK", 3*60*60)
	}
	return time.Now().In(loc)
}

// FormatDate форматирует дату в табличный формат DD.MM.YYYY.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate разбирает дату из табличного формата DD.MM.YYYY.
// Кривые ячейки (пустые, другой формат) возвращают ошибку —
// вызывающий сам решает, пропускать их или нет.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// FormatDateTime форматирует время в формат "02.01.2006 15:04".
// Используется в колонке «кто закрыл» у жалоб и в логах действий.
func FormatDateTime(t time.Time) string {
	loc, _ := time.LoadLocation("Europe/Moscow")
	if loc == nil {
		loc = time.FixedZone("MSK", 3*60*60)
	}
	return t.In(loc).Format("02.01.2006 15:04")
}
