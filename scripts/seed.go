//go:build ignore
// +build ignore

// seed.go — утилита первичного наполнения таблиц.
// Создаёт листы, каталог ролей и, по желанию, демо-участников.
// Запуск: go run scripts/seed.go [-demo]
//
// Использует те же переменные окружения, что и бот (DB_*, STORE_DRIVER).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"clanbot/internal/config"
	"clanbot/internal/sheets"
)

var defaultRoles = []string{"глава", "офицер", "казначей", "рекрутёр", "боец"}

func main() {
	demo := flag.Bool("demo", false, "добавить демо-участников")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "конфигурация: %v\n", err)
		os.Exit(1)
	}

	pool, err := sheets.NewPool(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "подключение к БД: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	store, err := sheets.NewPostgresStore(ctx, pool)
	if err != nil {
		fmt.Fprintf(os.Stderr, "миграции: %v\n", err)
		os.Exit(1)
	}

	if err := sheets.EnsureAllTables(ctx, store); err != nil {
		fmt.Fprintf(os.Stderr, "создание листов: %v\n", err)
		os.Exit(1)
	}

	// Каталог ролей наполняем только если он пуст
	roles, err := store.ListRows(ctx, sheets.TableRoles)
	if err != nil {
		fmt.Fprintf(os.Stderr, "чтение ролей: %v\n", err)
		os.Exit(1)
	}
	if len(roles) == 0 {
		for _, tag := range defaultRoles {
			if err := store.AppendRow(ctx, sheets.TableRoles, sheets.Row{tag}); err != nil {
				fmt.Fprintf(os.Stderr, "запись роли %q: %v\n", tag, err)
				os.Exit(1)
			}
		}
		fmt.Printf("Каталог ролей создан: %v\n", defaultRoles)
	} else {
		fmt.Println("Каталог ролей уже наполнен, пропускаем")
	}

	if *demo {
		demoMembers := []sheets.Row{
			{"Fox", "76561198000000001", "офицер", "0", "0", "120", "N/A"},
			{"Bear", "76561198000000002", "боец", "0", "0", "80", "N/A"},
			{"Wolf", "76561198000000003", "", "0", "0", "45", "N/A"},
		}
		for _, row := range demoMembers {
			if err := store.AppendRow(ctx, sheets.TableMembers, row); err != nil {
				fmt.Fprintf(os.Stderr, "запись участника: %v\n", err)
				os.Exit(1)
			}
		}
		fmt.Printf("Добавлено демо-участников: %d\n", len(demoMembers))
	}

	fmt.Println("Готово")
}
