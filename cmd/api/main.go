package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"outfitbot/app"
	"outfitbot/config"
	"outfitbot/controllers"
	"outfitbot/models"
	"outfitbot/services"
	"outfitbot/tasks"
	"outfitbot/telegram"

	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/labstack/echo/v4/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := app.InitSentry(cfg, "outfitbot-api@1.0.0"); err != nil {
		log.Fatalf("sentry.Init: %s", err)
	}
	defer sentry.Recover()
	defer sentry.Flush(2 * time.Second)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("init: %v", err)
	}
	dispatcher, closeDispatcher := a.NewDispatcher()
	defer closeDispatcher()

	webhooks := &controllers.WebhooksController{
		Dispatcher:        dispatcher,
		Messenger:         a.Messenger,
		Seen:              services.NewDedupCache(cfg.HTTP.DedupCapacity),
		Platform:          models.Platform(cfg.Messenger.Platform),
		VerificationToken: cfg.Messenger.Feishu.VerificationToken,
	}
	e := controllers.SetupServer(webhooks)
	e.Debug = cfg.Env != "production"
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(sentryecho.New(sentryecho.Options{Repanic: true}))

	if models.Platform(cfg.Messenger.Platform) == models.PlatformTelegram && cfg.Messenger.Telegram.Polling {
		bot, err := tgbotapi.NewBotAPI(cfg.Messenger.Telegram.Token)
		if err != nil {
			log.Fatalf("telegram bot init: %v", err)
		}
		log.Printf("[Telegram] authorized on account %s", bot.Self.UserName)
		go telegram.RunOutfitBot(ctx, bot, func(ctx context.Context, messageID, text, recipient string) {
			webhooks.Accept(ctx, messageID, text, recipient, tasks.SourceTelegram)
		})
	}

	go func() {
		if err := e.Start(cfg.HTTP.Address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
