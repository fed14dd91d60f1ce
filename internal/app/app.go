// Package app инициализирует все компоненты приложения.
// app.go — точка сборки: создаёт хранилище листов, репозитории,
// сервисы и собирает всё в один объект Bot.
package app

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"clanbot/internal/bot"
	"clanbot/internal/bot/access"
	"clanbot/internal/bot/middleware"
	"clanbot/internal/config"
	"clanbot/internal/dialog"
	"clanbot/internal/features/applications"
	"clanbot/internal/features/audit"
	"clanbot/internal/features/complaints"
	"clanbot/internal/features/members"
	"clanbot/internal/features/praises"
	"clanbot/internal/features/reports"
	"clanbot/internal/features/warnings"
	"clanbot/internal/jobs"
	"clanbot/internal/sheets"
)

// App содержит все компоненты приложения.
type App struct {
	Bot       *bot.Bot
	Scheduler *jobs.Scheduler
	DB        *pgxpool.Pool // nil при STORE_DRIVER=memory
	BotAPI    *tgbotapi.BotAPI
}

// New создаёт и инициализирует приложение.
// Порядок инициализации важен — компоненты зависят друг от друга.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// === 1. Хранилище листов ===
	store, pool, err := newStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := sheets.EnsureAllTables(ctx, store); err != nil {
		return nil, fmt.Errorf("ошибка создания листов: %w", err)
	}

	// === 2. Telegram Bot API ===
	botAPI, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания Telegram API: %w", err)
	}
	botAPI.Debug = cfg.AppEnv == "development"
	log.Infof("Авторизован как @%s", botAPI.Self.UserName)

	// === 3. Репозитории ===
	memberRepo := members.NewRepository(store)
	warningRepo := warnings.NewRepository(store)
	praiseRepo := praises.NewRepository(store)
	complaintRepo := complaints.NewRepository(store)
	applicationRepo := applications.NewRepository(store)
	templateRepo := reports.NewRepository(store)

	// === 4. Сервисы ===
	// Уведомления уходят через бота, который собирается ниже,
	// поэтому сервисам передаются замыкания поверх позднего указателя.
	var b *bot.Bot
	notify := func(chatID int64, text string) {
		if b != nil {
			b.Notify(chatID, text)
		}
	}
	post := func(text string) {
		if b != nil {
			b.PostReport(text)
		}
	}

	warningService := warnings.NewService(warningRepo)
	praiseService := praises.NewService(praiseRepo)
	memberService := members.NewService(memberRepo, warningService, praiseService)
	complaintService := complaints.NewService(complaintRepo, warningService, notify)
	applicationService := applications.NewService(applicationRepo, memberService, notify, cfg.InviteLink)
	reportService := reports.NewService(templateRepo, praiseService, post, cfg.TopLimit, cfg.TopWindowDays)
	auditService := audit.NewService(store)

	// === 5. Собираем бота ===
	classifier := access.NewClassifier(cfg.AdminIDs)
	states := dialog.NewManager()
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRequests, time.Duration(cfg.RateLimitWindow)*time.Second)

	b = bot.New(botAPI, cfg, classifier, states, rateLimiter, bot.Deps{
		Members:      memberService,
		Praises:      praiseService,
		Warnings:     warningService,
		Complaints:   complaintService,
		Applications: applicationService,
		Reports:      reportService,
		Audit:        auditService,
	})

	// === 6. Планировщик задач ===
	scheduler := jobs.NewScheduler(cfg, reportService)

	return &App{
		Bot:       b,
		Scheduler: scheduler,
		DB:        pool,
		BotAPI:    botAPI,
	}, nil
}

// newStore выбирает бекенд хранилища по STORE_DRIVER.
func newStore(ctx context.Context, cfg *config.Config) (sheets.Store, *pgxpool.Pool, error) {
	switch cfg.StoreDriver {
	case "memory":
		log.Warn("STORE_DRIVER=memory: данные живут до перезапуска")
		return sheets.NewMemoryStore(), nil, nil
	default:
		pool, err := sheets.NewPool(ctx, cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("ошибка подключения к БД: %w", err)
		}
		store, err := sheets.NewPostgresStore(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("ошибка миграций: %w", err)
		}
		return store, pool, nil
	}
}

// Close освобождает ресурсы приложения.
func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
	}
}
