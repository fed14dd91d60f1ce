// Package sheets реализует адаптер табличного хранилища клана.
// Весь бот видит данные как набор именованных листов: упорядоченные
// последовательности строк из текстовых ячеек, без заголовка.
//
// Контракт намеренно минимальный (прочитать лист, дописать строку,
// обновить ячейку, удалить строку) — так фичи не зависят от того,
// лежат ли данные в PostgreSQL или в памяти для тестов.
package sheets

import "context"

// Row — одна строка листа. Строки могут быть короче схемы листа
// (хвостовые ячейки отсутствуют) — читать их нужно через Cell.
type Row []string

// Cell возвращает ячейку с индексом i или пустую строку,
// если строка короче. Единственное место, где обрабатываются
// короткие строки — потребители индексы не проверяют.
func (r Row) Cell(i int) string {
	if i < 0 || i >= len(r) {
		return ""
	}
	return r[i]
}

// Store — адаптер табличного хранилища.
// Все операции с индексами строк считают строки БЕЗ заголовка:
// ListRows()[0] и rowIndex=0 — одна и та же строка.
type Store interface {
	// EnsureTable создаёт лист с заголовком, если его ещё нет.
	EnsureTable(ctx context.Context, table string, header Row) error

	// ListRows возвращает все строки листа по порядку, без заголовка.
	ListRows(ctx context.Context, table string) ([]Row, error)

	// AppendRow дописывает строку в конец листа.
	AppendRow(ctx context.Context, table string, row Row) error

	// UpdateCell записывает значение в ячейку (rowIndex, colIndex).
	// Если строка короче — она дополняется пустыми ячейками.
	UpdateCell(ctx context.Context, table string, rowIndex, colIndex int, value string) error

	// DeleteRow удаляет строку по индексу. Индексы последующих строк сдвигаются.
	DeleteRow(ctx context.Context, table string, rowIndex int) error
}
