package services

import (
	"context"
	"encoding/json"
	"log"
	"strings"
)

type FeishuMessenger struct {
	Client        *FeishuClient
	DefaultOpenID string
}

func (m *FeishuMessenger) receiver(to string) (string, string) {
	if to == "" {
		to = m.DefaultOpenID
	}
	if strings.HasPrefix(to, "oc_") {
		return to, "chat_id"
	}
	return to, "open_id"
}

func (m *FeishuMessenger) send(ctx context.Context, to, msgType string, content any) error {
	encoded, err := json.Marshal(content)
	if err != nil {
		return err
	}
	receiveID, idType := m.receiver(to)
	_, err = m.Client.SendMessage(ctx, idType, receiveID, msgType, string(encoded))
	return err
}

func (m *FeishuMessenger) SendText(ctx context.Context, to, text string) error {
	return m.send(ctx, to, "text", map[string]string{"text": text})
}

func (m *FeishuMessenger) SendImage(ctx context.Context, to, imagePath string) error {
	imageKey, err := m.Client.UploadImage(ctx, imagePath)
	if err != nil {
		return err
	}
	return m.send(ctx, to, "image", map[string]string{"image_key": imageKey})
}

// SendCard posts an interactive card. A failed image upload degrades to a
// card without the picture.
func (m *FeishuMessenger) SendCard(ctx context.Context, to, title, body, imagePath string) error {
	elements := []any{
		map[string]any{"tag": "div", "text": map[string]string{"tag": "plain_text", "content": body}},
	}
	if imagePath != "" {
		imageKey, err := m.Client.UploadImage(ctx, imagePath)
		if err != nil {
			log.Printf("[Feishu] card image upload failed: %v", err)
		} else {
			img := map[string]any{
				"tag":     "img",
				"img_key": imageKey,
				"alt":     map[string]string{"tag": "plain_text", "content": "穿搭推荐"},
			}
			elements = append([]any{img}, elements...)
		}
	}
	card := map[string]any{
		"config": map[string]bool{"wide_screen_mode": true},
		"header": map[string]any{
			"title":    map[string]string{"tag": "plain_text", "content": title},
			"template": "pink",
		},
		"elements": elements,
	}
	return m.send(ctx, to, "interactive", card)
}
