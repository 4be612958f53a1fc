package bot

import (
	"context"
	"log/slog"
	"time"

	"github.com/annadenisova/crypto-query-service/internal/answer"
	"github.com/annadenisova/crypto-query-service/internal/config"
	"gopkg.in/telebot.v4"
)

// Telegram-фронтенд: любое текстовое сообщение — это запрос к ядру,
// ответ всегда plain text.

// AnswerService — абстракция над генератором ответов
type AnswerService interface {
	Generate(ctx context.Context, prompt string, format answer.Format) string
}

type Bot struct {
	bot    *telebot.Bot
	svc    AnswerService
	logger *slog.Logger
}

// New создаёт бота и вешает обработчики
func New(cfg config.TelegramConfig, svc AnswerService, logger *slog.Logger) (*Bot, error) {
	const defaultPollTimeout = 10 * time.Second

	b, err := telebot.NewBot(telebot.Settings{
		Token:  cfg.Token,
		Poller: &telebot.LongPoller{Timeout: defaultPollTimeout},
	})
	if err != nil {
		return nil, err
	}

	bot := &Bot{
		bot:    b,
		svc:    svc,
		logger: logger,
	}

	// маршруты команд
	b.Handle("/start", bot.handleStart)
	b.Handle(telebot.OnText, bot.handleQuery)
	return bot, nil
}

// Start запускает long polling
func (b *Bot) Start(ctx context.Context) {
	go b.bot.Start()
	<-ctx.Done()
}

// Stop останавливает бота
func (b *Bot) Stop() {
	b.bot.Stop()
}
