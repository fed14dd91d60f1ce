// Package config загружает конфигурацию бота из переменных окружения.
// Используется envconfig для маппинга переменных окружения на поля структуры.
package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// Config содержит ВСЕ настройки приложения.
type Config struct {
	// --- Telegram ---
	TelegramBotToken string `envconfig:"TELEGRAM_BOT_TOKEN" required:"true"`
	// Список Telegram user ID администраторов клана.
	// Только они видят админ-меню и могут выдавать преды.
	AdminIDsRaw string  `envconfig:"ADMIN_IDS" required:"true"`
	AdminIDs    []int64 `envconfig:"-"` // заполним вручную

	// --- Отчёты ---
	// Чат, куда улетает еженедельный отчёт (обычно общий чат клана)
	ReportChatID int64 `envconfig:"REPORT_CHAT_ID" required:"true"`
	// Тред внутри чата (0 — писать в корень чата)
	ReportThreadID int `envconfig:"REPORT_THREAD_ID" default:"0"`
	// Расписание еженедельного отчёта (cron, по таймзоне ниже)
	ReportCron string `envconfig:"REPORT_CRON" default:"0 12 * * 0"`

	// --- Клан ---
	// Ссылка-приглашение, которую получает принятый новичок
	InviteLink string `envconfig:"INVITE_LINK" default:""`
	// Размер топа похвалы (в старых таблицах было 5, сейчас 10)
	TopLimit int `envconfig:"TOP_LIMIT" default:"10"`
	// Окно топа в днях для еженедельного отчёта
	TopWindowDays int `envconfig:"TOP_WINDOW_DAYS" default:"7"`

	// --- Хранилище ---
	// postgres — боевой режим; memory — без базы, данные живут до рестарта
	StoreDriver string `envconfig:"STORE_DRIVER" default:"postgres"`

	// --- Database ---
	// В Docker внутри контейнера "localhost" почти всегда неправильно.
	// Дефолт ставим "postgres" (имя сервиса в docker-compose), а для локалки переопределяй DB_HOST=localhost.
	DBHost     string `envconfig:"DB_HOST" default:"postgres"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"botuser"`
	DBPassword string `envconfig:"DB_PASSWORD" default:""`
	DBName     string `envconfig:"DB_NAME" default:"clanbot"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	DBMaxConns int32  `envconfig:"DB_MAX_CONNS" default:"25"`
	DBMinConns int32  `envconfig:"DB_MIN_CONNS" default:"5"`

	// --- Application ---
	AppEnv      string `envconfig:"APP_ENV" default:"development"`
	AppLogLevel string `envconfig:"APP_LOG_LEVEL" default:"debug"`
	AppTimezone string `envconfig:"APP_TIMEZONE" default:"Europe/Moscow"`

	// --- Bot runtime ---
	// Сколько апдейтов обрабатываем параллельно. Иначе "go на каждый апдейт" = утечка памяти при флуде.
	BotMaxInflight int `envconfig:"BOT_MAX_INFLIGHT" default:"64"`
	// Таймаут long polling (секунды)
	BotUpdateTimeoutSeconds int `envconfig:"BOT_UPDATE_TIMEOUT_SECONDS" default:"60"`

	// --- Rate Limiting ---
	RateLimitRequests int `envconfig:"RATE_LIMIT_REQUESTS" default:"10"`
	RateLimitWindow   int `envconfig:"RATE_LIMIT_WINDOW_SECONDS" default:"60"`
}

// DatabaseDSN возвращает строку подключения к PostgreSQL в формате DSN.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

func (c *Config) Validate() error {
	if len(c.AdminIDs) == 0 {
		return fmt.Errorf("ADMIN_IDS пуст — хотя бы один админ обязателен")
	}
	if c.ReportChatID == 0 {
		return fmt.Errorf("REPORT_CHAT_ID не задан или равен 0")
	}
	if c.TopLimit <= 0 {
		return fmt.Errorf("TOP_LIMIT должен быть > 0")
	}
	if c.TopWindowDays <= 0 {
		return fmt.Errorf("TOP_WINDOW_DAYS должен быть > 0")
	}
	if c.StoreDriver != "postgres" && c.StoreDriver != "memory" {
		return fmt.Errorf("STORE_DRIVER должен быть postgres или memory, а не %q", c.StoreDriver)
	}
	if c.StoreDriver == "postgres" && c.DBPassword == "" {
		return fmt.Errorf("DB_PASSWORD обязателен при STORE_DRIVER=postgres")
	}
	if c.BotMaxInflight <= 0 {
		return fmt.Errorf("BOT_MAX_INFLIGHT должен быть > 0")
	}
	if c.BotUpdateTimeoutSeconds <= 0 {
		return fmt.Errorf("BOT_UPDATE_TIMEOUT_SECONDS должен быть > 0")
	}
	if c.DBMaxConns <= 0 || c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("некорректные DB_MIN_CONNS/DB_MAX_CONNS")
	}
	return nil
}

// Load читает переменные окружения и заполняет структуру Config.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("не удалось загрузить конфигурацию: %w", err)
	}

	ids, err := parseInt64CSV(cfg.AdminIDsRaw)
	if err != nil {
		return nil, fmt.Errorf("ADMIN_IDS parse: %w", err)
	}
	cfg.AdminIDs = ids

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func parseInt64CSV(s string) ([]int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		v, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad int64 %q: %w", p, err)
		}
		out = append(out, v)
	}
	return out, nil
}
