package telegram

import (
	"context"
	"log"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Handler receives inbound chat text. recipient is the chat id to reply to.
type Handler func(ctx context.Context, messageID, text, recipient string)

// UpdateSource is the part of *tgbotapi.BotAPI the long-poll loop needs.
type UpdateSource interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

func EscapeMessage(message string) string {
	r := strings.NewReplacer(
		"_", "\\_",
		"*", "\\*",
		"[", "\\[",
		"`", "\\`",
	)
	return r.Replace(message)
}

// MessageFromUpdate extracts the inbound text message, if any.
func MessageFromUpdate(update tgbotapi.Update) (messageID, text, recipient string, ok bool) {
	msg := update.Message
	if msg == nil || msg.Chat == nil {
		return "", "", "", false
	}
	text = strings.TrimSpace(msg.Text)
	if text == "" {
		text = strings.TrimSpace(msg.Caption)
	}
	if text == "" {
		return "", "", "", false
	}
	// update ids are unique per bot, message ids only per chat
	messageID = "tg-" + strconv.Itoa(update.UpdateID)
	return messageID, text, strconv.FormatInt(msg.Chat.ID, 10), true
}

// RunOutfitBot long-polls the bot API until ctx is cancelled and hands every
// text message to handle.
func RunOutfitBot(ctx context.Context, bot UpdateSource, handle Handler) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := bot.GetUpdatesChan(u)
	log.Println("[Telegram] polling for updates")
	for {
		select {
		case <-ctx.Done():
			bot.StopReceivingUpdates()
			log.Println("[Telegram] polling stopped")
			return
		case update, open := <-updates:
			if !open {
				return
			}
			messageID, text, recipient, ok := MessageFromUpdate(update)
			if !ok {
				continue
			}
			log.Printf("[Telegram] message %s from chat %s: %s", messageID, recipient, text)
			handle(ctx, messageID, text, recipient)
		}
	}
}
