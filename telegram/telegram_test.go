package telegram

import (
	"context"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscapeMessage(t *testing.T) {
	assert.Equal(t, "a\\_b \\*c\\* \\[d\\] \\`e\\`", EscapeMessage("a_b *c* [d] `e`"))
	assert.Equal(t, "今日穿搭", EscapeMessage("今日穿搭"))
}

func TestMessageFromUpdate(t *testing.T) {
	_, _, _, ok := MessageFromUpdate(tgbotapi.Update{UpdateID: 1})
	assert.False(t, ok)

	_, _, _, ok = MessageFromUpdate(tgbotapi.Update{UpdateID: 2, Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 5}, Text: "   "}})
	assert.False(t, ok)

	id, text, to, ok := MessageFromUpdate(tgbotapi.Update{UpdateID: 3, Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: -100}, Text: " 可爱一点 "}})
	require.True(t, ok)
	assert.Equal(t, "tg-3", id)
	assert.Equal(t, "可爱一点", text)
	assert.Equal(t, "-100", to)
}

type fakeUpdates struct {
	ch      chan tgbotapi.Update
	stopped bool
}

func (f *fakeUpdates) GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return f.ch
}

func (f *fakeUpdates) StopReceivingUpdates() {
	f.stopped = true
}

func TestRunOutfitBot(t *testing.T) {
	source := &fakeUpdates{ch: make(chan tgbotapi.Update, 3)}
	source.ch <- tgbotapi.Update{UpdateID: 10, Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 1}, Text: "休闲"}}
	source.ch <- tgbotapi.Update{UpdateID: 11}
	source.ch <- tgbotapi.Update{UpdateID: 12, Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 2}, Text: "保暖"}}

	var mu sync.Mutex
	var got []string
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		RunOutfitBot(ctx, source, func(ctx context.Context, messageID, text, recipient string) {
			mu.Lock()
			got = append(got, messageID+"|"+text+"|"+recipient)
			n := len(got)
			mu.Unlock()
			if n == 2 {
				cancel()
			}
		})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("polling loop did not stop")
	}
	assert.Equal(t, []string{"tg-10|休闲|1", "tg-12|保暖|2"}, got)
	assert.True(t, source.stopped)
}
