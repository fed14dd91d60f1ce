// Package sheets — memory.go реализует хранилище в памяти.
// Используется в тестах как подменяемый фейк и в режиме
// STORE_DRIVER=memory (запуск без базы, данные живут до рестарта).
package sheets

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore хранит листы в памяти процесса.
// Безопасен для конкурентного использования.
type MemoryStore struct {
	mu      sync.RWMutex
	headers map[string]Row
	rows    map[string][]Row
}

// NewMemoryStore создаёт пустое хранилище в памяти.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		headers: make(map[string]Row),
		rows:    make(map[string][]Row),
	}
}

// EnsureTable создаёт лист с заголовком, если его ещё нет.
func (s *MemoryStore) EnsureTable(_ context.Context, table string, header Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.headers[table]; ok {
		return nil
	}
	s.headers[table] = append(Row(nil), header...)
	s.rows[table] = nil
	return nil
}

// ListRows возвращает копии всех строк листа по порядку добавления.
func (s *MemoryStore) ListRows(_ context.Context, table string) ([]Row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.headers[table]; !ok {
		return nil, fmt.Errorf("лист %q не существует", table)
	}

	out := make([]Row, len(s.rows[table]))
	for i, r := range s.rows[table] {
		out[i] = append(Row(nil), r...)
	}
	return out, nil
}

// AppendRow дописывает строку в конец листа.
func (s *MemoryStore) AppendRow(_ context.Context, table string, row Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.headers[table]; !ok {
		return fmt.Errorf("лист %q не существует", table)
	}
	s.rows[table] = append(s.rows[table], append(Row(nil), row...))
	return nil
}

// UpdateCell записывает значение в ячейку, дополняя короткую строку.
func (s *MemoryStore) UpdateCell(_ context.Context, table string, rowIndex, colIndex int, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, ok := s.rows[table]
	if !ok {
		return fmt.Errorf("лист %q не существует", table)
	}
	if rowIndex < 0 || rowIndex >= len(rows) {
		return fmt.Errorf("лист %q: нет строки %d", table, rowIndex)
	}
	if colIndex < 0 {
		return fmt.Errorf("лист %q: некорректная колонка %d", table, colIndex)
	}

	row := rows[rowIndex]
	for len(row) <= colIndex {
		row = append(row, "")
	}
	row[colIndex] = value
	rows[rowIndex] = row
	return nil
}

// DeleteRow удаляет строку по индексу.
func (s *MemoryStore) DeleteRow(_ context.Context, table string, rowIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, ok := s.rows[table]
	if !ok {
		return fmt.Errorf("лист %q не существует", table)
	}
	if rowIndex < 0 || rowIndex >= len(rows) {
		return fmt.Errorf("лист %q: нет строки %d", table, rowIndex)
	}
	s.rows[table] = append(rows[:rowIndex], rows[rowIndex+1:]...)
	return nil
}
