package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"outfitbot/briefing"
	"outfitbot/models"
	"outfitbot/outfit"
	"outfitbot/test"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pushLogMock struct {
	mu      sync.Mutex
	entries []models.PushLog
}

func (l *pushLogMock) Record(ctx context.Context, entry *models.PushLog) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, *entry)
	return nil
}

var shanghai = time.FixedZone("CST", 8*3600)

func newPusher(weather models.WeatherReading, wardrobe outfit.WardrobeStore, images ImageGenerator) (*Pusher, *test.MessengerMock, *pushLogMock) {
	messenger := &test.MessengerMock{}
	logs := &pushLogMock{}
	source := test.WeatherMock{Reading: weather}
	return &Pusher{
		Recommender: outfit.NewRecommender(source, wardrobe, outfit.NewRandom(7)),
		Briefing: &briefing.Service{
			City:     "北京",
			Weather:  source,
			Location: shanghai,
			Now:      func() time.Time { return time.Date(2025, 1, 16, 8, 0, 0, 0, shanghai) },
		},
		Images:    images,
		Messenger: messenger,
		Logs:      logs,
		Platform:  models.PlatformFeishu,
	}, messenger, logs
}

func TestNewOutfitPushTask(t *testing.T) {
	task, err := NewOutfitPushTask(OutfitPushPayload{MessageID: "om_1", Text: "可爱", Source: SourceWebhook})
	require.NoError(t, err)
	assert.Equal(t, TypeOutfitPush, task.Type())

	var payload OutfitPushPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.Equal(t, "om_1", payload.MessageID)
	assert.Equal(t, "可爱", payload.Text)
}

func TestDeliverWithImage(t *testing.T) {
	messenger := &test.MessengerMock{}
	gen := &test.ImageGeneratorMock{Path: "/tmp/outfit.png"}
	rec := models.Recommendation{OutfitText: "穿搭", MoodText: "心情", Prompt: "prompt"}

	imageSent, err := Deliver(context.Background(), rec, gen, messenger, "ou_1")
	require.NoError(t, err)
	assert.True(t, imageSent)
	assert.Equal(t, []string{"prompt"}, gen.Prompts)

	sent := messenger.Messages()
	require.Len(t, sent, 2)
	assert.Equal(t, "image", sent[0].Kind)
	assert.Equal(t, "/tmp/outfit.png", sent[0].ImagePath)
	assert.Equal(t, "text", sent[1].Kind)
	assert.Equal(t, "穿搭\n\n心情", sent[1].Text)
	assert.Equal(t, "ou_1", sent[1].To)
}

func TestDeliverTextOnly(t *testing.T) {
	rec := models.Recommendation{OutfitText: "穿搭", MoodText: "心情"}

	// generation failure
	messenger := &test.MessengerMock{}
	imageSent, err := Deliver(context.Background(), rec, &test.ImageGeneratorMock{Err: errors.New("quota")}, messenger, "")
	require.NoError(t, err)
	assert.False(t, imageSent)
	require.Len(t, messenger.Messages(), 1)

	// upload failure
	messenger = &test.MessengerMock{FailImages: true}
	imageSent, err = Deliver(context.Background(), rec, &test.ImageGeneratorMock{Path: "/tmp/a.png"}, messenger, "")
	require.NoError(t, err)
	assert.False(t, imageSent)
	sent := messenger.Messages()
	require.Len(t, sent, 1)
	assert.Equal(t, "text", sent[0].Kind)

	// no generator configured
	messenger = &test.MessengerMock{}
	imageSent, err = Deliver(context.Background(), rec, nil, messenger, "")
	require.NoError(t, err)
	assert.False(t, imageSent)
	assert.Len(t, messenger.Messages(), 1)
}

func TestPushOutfitAppliesMessageOverrides(t *testing.T) {
	pusher, messenger, logs := newPusher(outfit.MockWeather(8, "晴"), test.WardrobeMock{Wardrobe: test.SmallWardrobe()}, nil)

	err := pusher.PushOutfit(context.Background(), OutfitPushPayload{MessageID: "om_1", Text: "下雨了 想要休闲", Recipient: "oc_1", Source: SourceWebhook})
	require.NoError(t, err)

	sent := messenger.Messages()
	require.Len(t, sent, 1)
	assert.True(t, strings.HasPrefix(sent[0].Text, "今日天气：中雨 8°C"))
	assert.Equal(t, "oc_1", sent[0].To)

	require.Len(t, logs.entries, 1)
	assert.Equal(t, models.PushKindOutfit, logs.entries[0].Kind)
	assert.Equal(t, models.PlatformFeishu, logs.entries[0].Platform)
	assert.Equal(t, SourceWebhook, logs.entries[0].Source)
	assert.Nil(t, logs.entries[0].ErrorMessage)
}

func TestPushOutfitColdOverrideFloor(t *testing.T) {
	pusher, messenger, _ := newPusher(outfit.MockWeather(2, "晴"), test.WardrobeMock{Wardrobe: test.SmallWardrobe()}, nil)

	require.NoError(t, pusher.PushOutfit(context.Background(), OutfitPushPayload{Text: "明天降温"}))
	assert.True(t, strings.HasPrefix(messenger.Messages()[0].Text, "今日天气：晴 -5°C"))
}

func TestPushOutfitCard(t *testing.T) {
	gen := &test.ImageGeneratorMock{Path: "/tmp/card.png"}
	pusher, messenger, logs := newPusher(outfit.MockWeather(20, "晴"), test.WardrobeMock{Wardrobe: test.SmallWardrobe()}, gen)

	require.NoError(t, pusher.PushOutfit(context.Background(), OutfitPushPayload{Source: SourceSchedule, Card: true}))

	sent := messenger.Messages()
	require.Len(t, sent, 1)
	assert.Equal(t, "card", sent[0].Kind)
	assert.Equal(t, OutfitCardTitle, sent[0].Title)
	assert.Equal(t, "/tmp/card.png", sent[0].ImagePath)
	assert.True(t, logs.entries[0].ImageSent)
}

func TestPushOutfitReportsErrors(t *testing.T) {
	pusher, messenger, logs := newPusher(outfit.MockWeather(20, "晴"), test.WardrobeMock{Err: errors.New("db down")}, nil)

	err := pusher.PushOutfit(context.Background(), OutfitPushPayload{Text: "可爱", Recipient: "ou_9"})
	require.Error(t, err)

	sent := messenger.Messages()
	require.Len(t, sent, 1)
	assert.Equal(t, "抱歉，生成穿搭时出错了：load wardrobe: db down", sent[0].Text)
	assert.Equal(t, "ou_9", sent[0].To)

	require.Len(t, logs.entries, 1)
	require.NotNil(t, logs.entries[0].ErrorMessage)
	assert.Equal(t, "load wardrobe: db down", *logs.entries[0].ErrorMessage)
}

func TestPushOutfitRecoversPanics(t *testing.T) {
	pusher, messenger, _ := newPusher(outfit.MockWeather(20, "晴"), nil, nil)

	err := pusher.PushOutfit(context.Background(), OutfitPushPayload{Text: "可爱"})
	require.Error(t, err)
	sent := messenger.Messages()
	require.Len(t, sent, 1)
	assert.True(t, strings.HasPrefix(sent[0].Text, "抱歉，生成穿搭时出错了："))
}

func TestPushMorningMock(t *testing.T) {
	pusher, messenger, logs := newPusher(outfit.MockWeather(30, "晴"), test.WardrobeMock{Wardrobe: test.SmallWardrobe()}, nil)

	require.NoError(t, pusher.PushMorning(context.Background(), MorningPushPayload{Mock: true, Source: SourceCLI}))

	sent := messenger.Messages()
	require.Len(t, sent, 1)
	assert.Equal(t, "card", sent[0].Kind)
	assert.Equal(t, "☀️ 早安，今天是 1月16日 周四", sent[0].Title)
	assert.Contains(t, sent[0].Text, "🌡️ 北京 | 晴 -2°C | 体感-4°C")
	assert.Contains(t, sent[0].Text, "📅 今日日程（3件）")
	assert.Contains(t, sent[0].Text, "👀 明日预告")
	assert.Empty(t, sent[0].ImagePath)
	assert.Equal(t, models.PushKindMorning, logs.entries[0].Kind)
}

func TestPushMorningWithOutfit(t *testing.T) {
	gen := &test.ImageGeneratorMock{Path: "/tmp/morning.png"}
	pusher, messenger, logs := newPusher(outfit.MockWeather(30, "晴"), test.WardrobeMock{Wardrobe: test.SmallWardrobe()}, gen)

	require.NoError(t, pusher.PushMorning(context.Background(), MorningPushPayload{WithOutfit: true, Source: SourceSchedule}))

	sent := messenger.Messages()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].Text, "🌡️ 北京 | 晴 30°C")
	assert.Contains(t, sent[0].Text, "\n👔 今日穿搭\n今日天气：晴 30°C")
	assert.Equal(t, "/tmp/morning.png", sent[0].ImagePath)
	assert.True(t, logs.entries[0].ImageSent)
}

func TestLocalDispatcherRunsTasks(t *testing.T) {
	pusher, messenger, _ := newPusher(outfit.MockWeather(20, "晴"), test.WardrobeMock{Wardrobe: test.SmallWardrobe()}, nil)
	dispatcher := NewLocalDispatcher(NewServeMux(pusher), 2)

	ctx, cancel := context.WithCancel(context.Background())
	for _, text := range []string{"可爱", "休闲", "优雅"} {
		task, err := NewOutfitPushTask(OutfitPushPayload{Text: text})
		require.NoError(t, err)
		require.NoError(t, dispatcher.Dispatch(ctx, task))
	}
	cancel()
	morning, err := NewMorningPushTask(MorningPushPayload{Mock: true})
	require.NoError(t, err)
	require.NoError(t, dispatcher.Dispatch(context.Background(), morning))
	dispatcher.Wait()

	kinds := map[string]int{}
	for _, m := range messenger.Messages() {
		kinds[m.Kind]++
	}
	assert.Equal(t, 3, kinds["text"])
	assert.Equal(t, 1, kinds["card"])
}

type panicHandler struct{}

func (panicHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	panic("boom")
}

func TestLocalDispatcherSurvivesPanics(t *testing.T) {
	dispatcher := NewLocalDispatcher(panicHandler{}, 1)
	require.NoError(t, dispatcher.Dispatch(context.Background(), asynq.NewTask(TypeOutfitPush, nil)))
	dispatcher.Wait()
}

type enqueuerMock struct {
	opts []asynq.Option
	err  error
}

func (e *enqueuerMock) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	e.opts = opts
	if e.err != nil {
		return nil, e.err
	}
	return &asynq.TaskInfo{ID: "id-1", Queue: "outfit"}, nil
}

func TestAsynqDispatcher(t *testing.T) {
	task, err := NewOutfitPushTask(OutfitPushPayload{MessageID: "om_1"})
	require.NoError(t, err)

	client := &enqueuerMock{}
	dispatcher := &AsynqDispatcher{Client: client, Queue: "outfit"}
	require.NoError(t, dispatcher.Dispatch(context.Background(), task))
	require.Len(t, client.opts, 1)
	assert.Equal(t, asynq.QueueOpt, client.opts[0].Type())
	assert.Equal(t, "outfit", client.opts[0].Value())

	dispatcher.Client = &enqueuerMock{err: asynq.ErrTaskIDConflict}
	assert.NoError(t, dispatcher.Dispatch(context.Background(), task))

	dispatcher.Client = &enqueuerMock{err: errors.New("redis down")}
	assert.Error(t, dispatcher.Dispatch(context.Background(), task))
}

func TestHandleOutfitPushTaskBadPayload(t *testing.T) {
	pusher, _, _ := newPusher(outfit.MockWeather(20, "晴"), test.WardrobeMock{}, nil)
	err := HandleOutfitPushTask(context.Background(), asynq.NewTask(TypeOutfitPush, []byte("{")), pusher)
	assert.ErrorIs(t, err, asynq.SkipRetry)
}
