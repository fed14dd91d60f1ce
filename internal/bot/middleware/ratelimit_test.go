package middleware

import (
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiterBlocksOverLimit(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	t.Cleanup(rl.Close)

	assert.True(t, rl.Allow(100))
	assert.True(t, rl.Allow(100))
	assert.False(t, rl.Allow(100), "третье действие в окне должно отсекаться")

	// Лимит считается на пользователя, а не на бота целиком
	assert.True(t, rl.Allow(200))
}

func TestRateLimiterWindowSlides(t *testing.T) {
	rl := NewRateLimiter(1, 50*time.Millisecond)
	t.Cleanup(rl.Close)

	require.True(t, rl.Allow(100))
	require.False(t, rl.Allow(100))

	time.Sleep(60 * time.Millisecond)
	assert.True(t, rl.Allow(100), "после окна действия снова проходят")
}

func TestRecoverSwallowsPanic(t *testing.T) {
	update := tgbotapi.Update{
		UpdateID: 42,
		CallbackQuery: &tgbotapi.CallbackQuery{
			Data: "tpl:on:xxx",
			From: &tgbotapi.User{ID: 1},
		},
	}

	assert.NotPanics(t, func() {
		defer Recover(update)
		panic("nil-карта в обработчике")
	})
}
