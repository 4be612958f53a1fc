package bot

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/annadenisova/crypto-query-service/internal/answer"
	"gopkg.in/telebot.v4"
)

const queryTimeout = 25 * time.Second

// handleStart — отправляет справку с примерами запросов
func (b *Bot) handleStart(c telebot.Context) error {
	return c.Send("Привет! Спроси меня о ценах свободным текстом, например:\n" +
		"price of bitcoin\n" +
		"5 eth to usd\n" +
		"convert 10 doge to btc\n" +
		"price of bitcoin on 2023-06-01")
}

// handleQuery — любой текст уходит в общий конвейер генерации ответа
func (b *Bot) handleQuery(c telebot.Context) error {
	prompt := strings.TrimSpace(c.Text())
	if prompt == "" {
		return c.Send("Пустой запрос. Напиши, например: price of bitcoin")
	}

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	b.logger.Debug("bot query received",
		slog.Int64("chat_id", c.Chat().ID),
		slog.String("text", prompt),
	)

	reply := b.svc.Generate(ctx, prompt, answer.FormatPlain)
	return c.Send(reply)
}
