package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"outfitbot/telegram"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const telegramCaptionLimit = 1024

// TelegramSender is the part of *tgbotapi.BotAPI the messenger needs.
type TelegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type TelegramMessenger struct {
	Bot           TelegramSender
	DefaultChatID int64
}

func (m *TelegramMessenger) chatID(to string) (int64, error) {
	if to == "" {
		if m.DefaultChatID == 0 {
			return 0, fmt.Errorf("no telegram chat id configured")
		}
		return m.DefaultChatID, nil
	}
	id, err := strconv.ParseInt(to, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid telegram chat id %q: %w", to, err)
	}
	return id, nil
}

func (m *TelegramMessenger) SendText(ctx context.Context, to, text string) error {
	id, err := m.chatID(to)
	if err != nil {
		return err
	}
	_, err = m.Bot.Send(tgbotapi.NewMessage(id, text))
	return err
}

func (m *TelegramMessenger) SendImage(ctx context.Context, to, imagePath string) error {
	id, err := m.chatID(to)
	if err != nil {
		return err
	}
	_, err = m.Bot.Send(tgbotapi.NewPhoto(id, tgbotapi.FilePath(imagePath)))
	return err
}

// SendCard renders the card as a markdown message, or as a photo caption
// when an image is attached.
func (m *TelegramMessenger) SendCard(ctx context.Context, to, title, body, imagePath string) error {
	id, err := m.chatID(to)
	if err != nil {
		return err
	}
	text := fmt.Sprintf("*%s*\n\n%s", telegram.EscapeMessage(title), telegram.EscapeMessage(body))
	if imagePath == "" {
		msg := tgbotapi.NewMessage(id, text)
		msg.ParseMode = tgbotapi.ModeMarkdown
		_, err = m.Bot.Send(msg)
		return err
	}

	photo := tgbotapi.NewPhoto(id, tgbotapi.FilePath(imagePath))
	photo.Caption = markdownCaption(title, body, telegramCaptionLimit)
	photo.ParseMode = tgbotapi.ModeMarkdown
	_, err = m.Bot.Send(photo)
	return err
}

// markdownCaption renders the escaped card text within limit runes. The body
// is cut before escaping so an escape sequence is never split.
func markdownCaption(title, body string, limit int) string {
	head := fmt.Sprintf("*%s*\n\n", telegram.EscapeMessage(title))
	full := head + telegram.EscapeMessage(body)
	if utf8.RuneCountInString(full) <= limit {
		return full
	}

	budget := limit - utf8.RuneCountInString(head) - 1
	var b strings.Builder
	used := 0
	for _, r := range body {
		escaped := telegram.EscapeMessage(string(r))
		n := utf8.RuneCountInString(escaped)
		if used+n > budget {
			break
		}
		b.WriteString(escaped)
		used += n
	}
	return head + b.String() + "…"
}
