package services

import (
	"context"
	"fmt"

	"outfitbot/config"
	"outfitbot/models"

	firebase "firebase.google.com/go/v4"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"google.golang.org/api/option"
)

// Messenger delivers chat messages. An empty recipient means the configured
// default recipient.
type Messenger interface {
	SendText(ctx context.Context, to, text string) error
	SendImage(ctx context.Context, to, imagePath string) error
	SendCard(ctx context.Context, to, title, body, imagePath string) error
}

// NewMessenger builds the messenger for the configured platform. images is
// only needed by platforms that deliver pictures by URL.
func NewMessenger(ctx context.Context, cfg config.MessengerConfig, images ImagePublisher) (Messenger, error) {
	switch models.Platform(cfg.Platform) {
	case models.PlatformTelegram:
		bot, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
		if err != nil {
			return nil, fmt.Errorf("telegram bot init: %w", err)
		}
		return &TelegramMessenger{Bot: bot, DefaultChatID: cfg.Telegram.ChatID}, nil
	case models.PlatformFeishu:
		return &FeishuMessenger{Client: NewFeishuClient(cfg.Feishu), DefaultOpenID: cfg.Feishu.OpenID}, nil
	case models.PlatformFCM:
		var opts []option.ClientOption
		if cfg.FCM.CredentialsFile != "" {
			opts = append(opts, option.WithCredentialsFile(cfg.FCM.CredentialsFile))
		}
		app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.FCM.ProjectID}, opts...)
		if err != nil {
			return nil, fmt.Errorf("error initializing firebase app: %w", err)
		}
		client, err := app.Messaging(ctx)
		if err != nil {
			return nil, fmt.Errorf("error initializing firebase messaging: %w", err)
		}
		return &FCMMessenger{Client: client, Tokens: cfg.FCM.Tokens, Images: images}, nil
	}
	return nil, fmt.Errorf("unsupported messenger platform %q", cfg.Platform)
}
