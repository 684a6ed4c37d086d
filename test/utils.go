package test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"outfitbot/models"

	"github.com/hibiken/asynq"
)

func JsonString(model interface{}) string {
	bytes, _ := json.Marshal(model)
	return string(bytes)
}

func NewJSONRequest(method string, target string, param interface{}) *http.Request {

	req := httptest.NewRequest(method, target, strings.NewReader(JsonString(param)))
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Accept", "application/json")
	return req
}

func NewJSONRequestRaw(method string, target string, json string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(json))
	req.Header.Add("Content-Type", "application/json")
	return req
}

func Contains(items []string, lookFor string) bool {
	for _, item := range items {
		if item == lookFor {
			return true
		}
	}
	return false
}

func NewRefString(data string) *string {
	return &data
}

// FeishuTextEvent builds an im.message.receive_v1 callback body.
func FeishuTextEvent(eventID, messageID, chatID, text string) models.FeishuEventIn {
	var in models.FeishuEventIn
	in.Header.EventID = eventID
	in.Header.EventType = "im.message.receive_v1"
	in.Event.Message.MessageID = messageID
	in.Event.Message.ChatID = chatID
	in.Event.Message.MessageType = "text"
	in.Event.Message.Content = JsonString(models.FeishuTextContent{Text: text})
	return in
}

type SentMessage struct {
	Kind      string
	To        string
	Title     string
	Text      string
	ImagePath string
}

// MessengerMock records every send. FailImages makes SendImage fail.
type MessengerMock struct {
	mu         sync.Mutex
	Sent       []SentMessage
	FailImages bool
	FailText   bool
}

func (m *MessengerMock) add(msg SentMessage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, msg)
}

func (m *MessengerMock) SendText(ctx context.Context, to, text string) error {
	if m.FailText {
		return errors.New("text delivery failed")
	}
	m.add(SentMessage{Kind: "text", To: to, Text: text})
	return nil
}

func (m *MessengerMock) SendImage(ctx context.Context, to, imagePath string) error {
	if m.FailImages {
		return errors.New("image upload failed")
	}
	m.add(SentMessage{Kind: "image", To: to, ImagePath: imagePath})
	return nil
}

func (m *MessengerMock) SendCard(ctx context.Context, to, title, body, imagePath string) error {
	m.add(SentMessage{Kind: "card", To: to, Title: title, Text: body, ImagePath: imagePath})
	return nil
}

func (m *MessengerMock) Messages() []SentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SentMessage(nil), m.Sent...)
}

type ImageGeneratorMock struct {
	Path    string
	Err     error
	Prompts []string
}

func (g *ImageGeneratorMock) Generate(ctx context.Context, prompt string) (string, error) {
	g.Prompts = append(g.Prompts, prompt)
	return g.Path, g.Err
}

type WeatherMock struct {
	Reading models.WeatherReading
	Err     error
}

func (w WeatherMock) Fetch(ctx context.Context) (models.WeatherReading, error) {
	return w.Reading, w.Err
}

type WardrobeMock struct {
	Wardrobe models.Wardrobe
	Err      error
}

func (w WardrobeMock) Load(ctx context.Context) (models.Wardrobe, error) {
	return w.Wardrobe, w.Err
}

// SmallWardrobe has one item per category at every warmth level that matters
// for tests.
func SmallWardrobe() models.Wardrobe {
	var w models.Wardrobe
	for _, item := range []models.WardrobeItem{
		{Name: "白衬衫", Color: "白色", Category: models.CategoryTop, Warmth: 2, Style: models.StyleTags{"优雅"}, Prompt: "white shirt"},
		{Name: "毛衣", Color: "米色", Category: models.CategoryTop, Warmth: 4, Style: models.StyleTags{"温柔"}, Prompt: "beige sweater"},
		{Name: "牛仔裤", Color: "蓝色", Category: models.CategoryBottom, Warmth: 3, Style: models.StyleTags{"休闲"}, Prompt: "blue jeans"},
		{Name: "羽绒服", Color: "黑色", Category: models.CategoryOuterwear, Warmth: 5, Style: models.StyleTags{"保暖"}, Prompt: "black down jacket"},
		{Name: "小白鞋", Color: "白色", Category: models.CategoryShoes, Warmth: 3, Style: models.StyleTags{"休闲"}, Prompt: "white sneakers"},
	} {
		w.Add(item)
	}
	return w
}

// DispatcherMock runs nothing; it keeps the dispatched tasks.
type DispatcherMock struct {
	mu    sync.Mutex
	Tasks []*asynq.Task
	Err   error
}

func (d *DispatcherMock) Dispatch(ctx context.Context, task *asynq.Task) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Err != nil {
		return d.Err
	}
	d.Tasks = append(d.Tasks, task)
	return nil
}

func (d *DispatcherMock) Dispatched() []*asynq.Task {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*asynq.Task(nil), d.Tasks...)
}
