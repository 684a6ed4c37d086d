package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"outfitbot/languageutil"
	"outfitbot/models"
	"outfitbot/services"
	"outfitbot/tasks"
	"outfitbot/telegram"

	"github.com/getsentry/sentry-go"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/labstack/echo/v4"
)

const (
	ackText          = "💕 收到啦！正在挑选今日穿搭，等我一下哒..."
	serviceName      = "outfit-assistant"
	eventTypeMessage = "im.message.receive_v1"
)

var platformNames = map[models.Platform]string{
	models.PlatformFeishu:   "飞书",
	models.PlatformTelegram: "Telegram",
	models.PlatformFCM:      "App",
}

// WebhooksController turns inbound chat messages into outfit push tasks.
type WebhooksController struct {
	Dispatcher tasks.Dispatcher
	Messenger  services.Messenger
	Seen       *services.DedupCache
	Platform   models.Platform
	// VerificationToken is checked against Feishu callbacks when set.
	VerificationToken string
}

func (wc *WebhooksController) SetupRoutes(e *echo.Echo) {
	e.GET("/", wc.index)
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, models.HealthOut{Status: "ok", Service: serviceName})
	})
	e.POST("/webhook", wc.feishu)

	g := e.Group("/webhooks")
	g.POST("/feishu", wc.feishu)
	g.POST("/telegram", wc.telegram)
}

func (wc *WebhooksController) index(c echo.Context) error {
	name, ok := platformNames[wc.Platform]
	if !ok {
		name = "飞书"
	}
	return c.Render(http.StatusOK, "index.html", map[string]string{"Platform": name})
}

func (wc *WebhooksController) feishu(c echo.Context) error {
	var in models.FeishuEventIn
	if err := c.Bind(&in); err != nil {
		log.Printf("[Webhook] bad feishu payload: %v", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	if in.Type == "url_verification" {
		if !wc.tokenValid(in.Token) {
			log.Printf("[Webhook] url_verification with bad token from %s", c.RealIP())
			return echo.ErrUnauthorized
		}
		return c.JSON(http.StatusOK, models.ChallengeOut{Challenge: in.Challenge})
	}
	if !wc.tokenValid(in.Header.Token) {
		log.Printf("[Webhook] event with bad token from %s", c.RealIP())
		return echo.ErrUnauthorized
	}

	ok := echo.Map{"code": 0}
	if in.Header.EventType != eventTypeMessage {
		return c.JSON(http.StatusOK, ok)
	}
	message := in.Event.Message
	if message.MessageType != "text" {
		log.Printf("[Webhook] ignoring %s message %s", message.MessageType, message.MessageID)
		return c.JSON(http.StatusOK, ok)
	}

	var content models.FeishuTextContent
	if err := json.Unmarshal([]byte(message.Content), &content); err != nil {
		log.Printf("[Webhook] bad message content %s: %v", message.MessageID, err)
		return c.JSON(http.StatusOK, ok)
	}
	if err := c.Validate(&content); err != nil {
		log.Printf("[Webhook] rejected message %s: %v", message.MessageID, err)
		return c.JSON(http.StatusOK, ok)
	}

	recipient := message.ChatID
	if recipient == "" {
		recipient = in.Event.Sender.SenderID.OpenID
	}
	wc.Accept(c.Request().Context(), message.MessageID, content.Text, recipient, tasks.SourceWebhook)
	return c.JSON(http.StatusOK, ok)
}

func (wc *WebhooksController) telegram(c echo.Context) error {
	var update tgbotapi.Update
	if err := c.Bind(&update); err != nil {
		log.Printf("[Webhook] bad telegram update: %v", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid update")
	}
	if messageID, text, recipient, ok := telegram.MessageFromUpdate(update); ok {
		wc.Accept(c.Request().Context(), messageID, text, recipient, tasks.SourceTelegram)
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}

func (wc *WebhooksController) tokenValid(token string) bool {
	return wc.VerificationToken == "" || token == wc.VerificationToken
}

// Accept acknowledges an inbound chat message and queues the outfit push.
// Duplicates and messages with no text after mention stripping are dropped.
// It reports whether a push was queued.
func (wc *WebhooksController) Accept(ctx context.Context, messageID, text, recipient, source string) bool {
	if messageID != "" && wc.Seen.Seen(messageID) {
		log.Printf("[Webhook] duplicate message %s", messageID)
		return false
	}

	text = languageutil.StripMention(languageutil.NormalizeInbound(text))
	if text == "" {
		return false
	}
	log.Printf("[Webhook] message %s: %s", messageID, text)

	if err := wc.Messenger.SendText(ctx, recipient, ackText); err != nil {
		log.Printf("[Webhook] ack failed for %s: %v", messageID, err)
	}

	task, err := tasks.NewOutfitPushTask(tasks.OutfitPushPayload{
		MessageID: messageID,
		Text:      text,
		Recipient: recipient,
		Source:    source,
	})
	if err == nil {
		err = wc.Dispatcher.Dispatch(ctx, task)
	}
	if err != nil {
		log.Printf("[Webhook] dispatch failed for %s: %v", messageID, err)
		sentry.CaptureException(err)
		reply := fmt.Sprintf("抱歉，生成穿搭时出错了：%v", err)
		if sendErr := wc.Messenger.SendText(ctx, recipient, strings.TrimSpace(reply)); sendErr != nil {
			log.Printf("[Webhook] error reply failed: %v", sendErr)
		}
		return false
	}
	return true
}
