package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/annadenisova/crypto-query-service/internal/answer"
	"github.com/annadenisova/crypto-query-service/internal/cache"
	"github.com/annadenisova/crypto-query-service/internal/config"
	"github.com/annadenisova/crypto-query-service/internal/directory"
	"github.com/annadenisova/crypto-query-service/internal/infra/coingecko"
	"github.com/annadenisova/crypto-query-service/internal/pkg/clock"
	"github.com/annadenisova/crypto-query-service/internal/scheduler"
	botpkg "github.com/annadenisova/crypto-query-service/internal/transport/bot"
	"github.com/annadenisova/crypto-query-service/internal/transport/httptransport"
	"github.com/labstack/echo/v4"
)

type App struct {
	cfg config.Config
	log *slog.Logger

	e    *echo.Echo
	serv *http.Server

	directory *directory.Directory
	generator *answer.Generator

	updater *scheduler.Scheduler

	bot *botpkg.Bot
}

func NewApp(cfg config.Config, log *slog.Logger) (*App, error) {
	app := &App{cfg: cfg, log: log}

	clk := clock.NewRealClock()
	httpClient := &http.Client{Timeout: cfg.CoinGecko.Timeout}

	// кэш ответов цен и клиент провайдера
	prices := cache.New(httpClient, cfg.CoinGecko.PriceTTL, cfg.CoinGecko.UserAgent, clk)
	provider := coingecko.NewClient(cfg.CoinGecko, prices)

	app.directory = directory.New(
		provider,
		cfg.CoinGecko.DirectoryTTL,
		cfg.CoinGecko.MinDirectorySize,
		clk,
		log,
	)
	app.generator = answer.NewGenerator(app.directory, provider, log)

	e := echo.New()
	e.HideBanner = true
	app.e = e

	ah := httptransport.NewAnswerHandler(log, app.generator, cfg.Server.RequestTimeout)
	ah.RegisterRoutes(e)

	app.serv = &http.Server{
		Addr:         cfg.Server.Addr,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		Handler:      e,
	}

	if cfg.Scheduler.Enabled {
		app.updater = scheduler.NewScheduler(app.directory, cfg.Scheduler.Interval, log)
	}

	if cfg.Telegram.Enabled {
		// Если бот включён, отсутствие токена — ошибка конфигурации
		token := strings.TrimSpace(cfg.Telegram.Token)
		if token == "" {
			log.Error("telegram enabled but TELEGRAM_BOT_TOKEN is empty")
			return nil, errors.New("telegram token is empty")
		}

		botApp, err := botpkg.New(cfg.Telegram, app.generator, log)
		if err != nil {
			log.Error("telegram init failed", slog.String("error", err.Error()))
			return nil, err
		}
		app.bot = botApp
	}

	log.Info("app initialized",
		slog.Bool("telegram_enabled", cfg.Telegram.Enabled),
		slog.Bool("bot_attached", app.bot != nil),
		slog.String("http_addr", cfg.Server.Addr),
	)
	return app, nil
}

func (a *App) Run(ctx context.Context) error {
	// первоначальная загрузка справочника; при ошибке не падаем:
	// планировщик и последующие запросы попробуют ещё раз
	loadCtx, cancel := context.WithTimeout(ctx, a.cfg.CoinGecko.Timeout+2*time.Second)
	if err := a.directory.Load(loadCtx); err != nil {
		a.log.Warn("initial coin directory load failed", slog.String("error", err.Error()))
	}
	cancel()

	if a.updater != nil {
		a.log.Info("starting updater")
		go a.updater.Start(ctx)
	}

	if a.bot != nil {
		a.log.Info("starting bot")
		go a.bot.Start(ctx)
	}

	a.log.Info("starting server", slog.String("addr", a.cfg.Server.Addr))
	go func() {
		if err := a.e.StartServer(a.serv); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("http server error", slog.String("error", err.Error()))
		}
	}()
	<-ctx.Done()
	return a.Shutdown(context.Background())
}

func (a *App) Shutdown(ctx context.Context) error {
	shCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if a.e != nil {
		if err := a.e.Shutdown(shCtx); err != nil {
			a.log.Error("http shutdown error", slog.String("error", err.Error()))
		}
	}

	if a.bot != nil {
		a.bot.Stop()
	}

	a.log.Info("application stopped")
	return nil
}
