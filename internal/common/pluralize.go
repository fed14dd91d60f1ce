// Package common — pluralize.go содержит вспомогательные функции
// для правильного склонения русских числительных.
package common

import "fmt"

// PluralizeWarnings возвращает правильную форму слова «пред» для числа n.
//
// Правила русского языка:
//   - n%10==1 И n%100!=11 → "пред" (1, 21, 31, ...)
//   - n%10 в [2,3,4] И n%100 НЕ в [12,13,14] → "преда" (2, 3, 4, 22, ...)
//   - Остальные случаи → "предов" (0, 5-20, 25-30, ...)
func PluralizeWarnings(n int) string {
	return pluralize(n, "пред", "преда", "предов")
}

// PluralizePraises возвращает правильную форму слова «похвала».
func PluralizePraises(n int) string {
	return pluralize(n, "похвала", "похвалы", "похвал")
}

// PluralizeDays возвращает правильную форму слова «день».
func PluralizeDays(n int) string {
	return pluralize(n, "день", "дня", "дней")
}

// FormatCount создаёт строку вида "3 преда" или "11 похвал".
func FormatCount(n int, one, few, many string) string {
	return fmt.Sprintf("%d %s", n, pluralize(n, one, few, many))
}

func pluralize(n int, one, few, many string) string {
	if n < 0 {
		n = -n
	}
	lastDigit := n % 10
	lastTwoDigits := n % 100

	// Единственное число: 1, 21, 31 (но НЕ 11, 111)
	if lastDigit == 1 && lastTwoDigits != 11 {
		return one
	}
	// Малое множественное: 2-4, 22-24 (но НЕ 12-14)
	if lastDigit >= 2 && lastDigit <= 4 && (lastTwoDigits < 12 || lastTwoDigits > 14) {
		return few
	}
	return many
}
