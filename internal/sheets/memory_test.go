package sheets

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowCell(t *testing.T) {
	row := Row{"Fox", "12345"}

	assert.Equal(t, "Fox", row.Cell(0))
	assert.Equal(t, "12345", row.Cell(1))
	// Ячейки за пределами строки — пустые, не паника
	assert.Equal(t, "", row.Cell(2))
	assert.Equal(t, "", row.Cell(100))
}

func TestMemoryStoreAppendAndList(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.EnsureTable(ctx, "тест", []string{"а", "б"}))

	rows, err := store.ListRows(ctx, "тест")
	require.NoError(t, err)
	assert.Empty(t, rows)

	require.NoError(t, store.AppendRow(ctx, "тест", Row{"1", "2"}))
	require.NoError(t, store.AppendRow(ctx, "тест", Row{"3", "4"}))

	rows, err = store.ListRows(ctx, "тест")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, Row{"1", "2"}, rows[0])
	assert.Equal(t, Row{"3", "4"}, rows[1])
}

func TestMemoryStoreUpdateCell(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.EnsureTable(ctx, "тест", []string{"а", "б", "в"}))
	require.NoError(t, store.AppendRow(ctx, "тест", Row{"x"}))

	// Запись за пределами короткой строки расширяет её
	require.NoError(t, store.UpdateCell(ctx, "тест", 0, 2, "z"))

	rows, err := store.ListRows(ctx, "тест")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "x", rows[0].Cell(0))
	assert.Equal(t, "", rows[0].Cell(1))
	assert.Equal(t, "z", rows[0].Cell(2))
}

func TestMemoryStoreDeleteRow(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.EnsureTable(ctx, "тест", []string{"а"}))
	for _, v := range []string{"1", "2", "3"} {
		require.NoError(t, store.AppendRow(ctx, "тест", Row{v}))
	}

	require.NoError(t, store.DeleteRow(ctx, "тест", 1))

	rows, err := store.ListRows(ctx, "тест")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "1", rows[0].Cell(0))
	assert.Equal(t, "3", rows[1].Cell(0))

	// Индекс за пределами листа — ошибка
	assert.Error(t, store.DeleteRow(ctx, "тест", 5))
}

func TestMemoryStoreUnknownTable(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.ListRows(ctx, "нет такой")
	assert.Error(t, err)
	assert.Error(t, store.AppendRow(ctx, "нет такой", Row{"x"}))
}

func TestMemoryStoreIsolatesReturnedRows(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.EnsureTable(ctx, "тест", []string{"а"}))
	require.NoError(t, store.AppendRow(ctx, "тест", Row{"исходное"}))

	rows, err := store.ListRows(ctx, "тест")
	require.NoError(t, err)
	rows[0][0] = "испорчено"

	again, err := store.ListRows(ctx, "тест")
	require.NoError(t, err)
	assert.Equal(t, "исходное", again[0].Cell(0))
}

func TestEnsureAllTables(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, EnsureAllTables(ctx, store))
	// Повторный вызов идемпотентен
	require.NoError(t, EnsureAllTables(ctx, store))

	for _, table := range []string{TableMembers, TableWarnings, TablePraises, TableRoles, TableComplaints, TableLogs, TableTemplates, TableApplications} {
		rows, err := store.ListRows(ctx, table)
		require.NoError(t, err, table)
		assert.Empty(t, rows, table)
	}
}
