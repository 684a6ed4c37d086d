package services

import (
	"context"
	"fmt"
	"os"
	"time"

	"outfitbot/config"

	lark "github.com/larksuite/oapi-sdk-go/v3"
	larkcore "github.com/larksuite/oapi-sdk-go/v3/core"
	larkcalendar "github.com/larksuite/oapi-sdk-go/v3/service/calendar/v4"
	larkim "github.com/larksuite/oapi-sdk-go/v3/service/im/v1"
)

// FeishuClient wraps the open platform SDK. Tenant access tokens are cached
// by the SDK until shortly before they expire.
type FeishuClient struct {
	Lark *lark.Client
}

func NewFeishuClient(cfg config.FeishuConfig) *FeishuClient {
	opts := []lark.ClientOptionFunc{
		lark.WithReqTimeout(30 * time.Second),
		lark.WithLogLevel(larkcore.LogLevelError),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, lark.WithOpenBaseUrl(cfg.BaseURL))
	}
	return &FeishuClient{Lark: lark.NewClient(cfg.AppID, cfg.AppSecret, opts...)}
}

func feishuError(op string, code int, msg string) error {
	return fmt.Errorf("feishu %s error %d: %s", op, code, msg)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// SendMessage posts one message and returns its message_id. content is the
// JSON-encoded body for msgType.
func (f *FeishuClient) SendMessage(ctx context.Context, receiveIDType, receiveID, msgType, content string) (string, error) {
	req := larkim.NewCreateMessageReqBuilder().
		ReceiveIdType(receiveIDType).
		Body(larkim.NewCreateMessageReqBodyBuilder().
			ReceiveId(receiveID).
			MsgType(msgType).
			Content(content).
			Build()).
		Build()

	resp, err := f.Lark.Im.V1.Message.Create(ctx, req)
	if err != nil {
		return "", fmt.Errorf("feishu send message: %w", err)
	}
	if !resp.Success() {
		return "", feishuError("send message", resp.Code, resp.Msg)
	}
	if resp.Data == nil {
		return "", nil
	}
	return deref(resp.Data.MessageId), nil
}

// UploadImage uploads a message image and returns its image_key.
func (f *FeishuClient) UploadImage(ctx context.Context, imagePath string) (string, error) {
	file, err := os.Open(imagePath)
	if err != nil {
		return "", fmt.Errorf("open image: %w", err)
	}
	defer file.Close()

	req := larkim.NewCreateImageReqBuilder().
		Body(larkim.NewCreateImageReqBodyBuilder().
			ImageType("message").
			Image(file).
			Build()).
		Build()

	resp, err := f.Lark.Im.V1.Image.Create(ctx, req)
	if err != nil {
		return "", fmt.Errorf("feishu upload image: %w", err)
	}
	if !resp.Success() {
		return "", feishuError("upload image", resp.Code, resp.Msg)
	}
	if resp.Data == nil || deref(resp.Data.ImageKey) == "" {
		return "", fmt.Errorf("feishu upload returned no image_key")
	}
	return deref(resp.Data.ImageKey), nil
}

// CalendarIDs lists the calendars visible to the app.
func (f *FeishuClient) CalendarIDs(ctx context.Context) ([]string, error) {
	resp, err := f.Lark.Calendar.V4.Calendar.List(ctx, larkcalendar.NewListCalendarReqBuilder().Build())
	if err != nil {
		return nil, fmt.Errorf("feishu list calendars: %w", err)
	}
	if !resp.Success() {
		return nil, feishuError("list calendars", resp.Code, resp.Msg)
	}
	if resp.Data == nil {
		return nil, nil
	}
	var ids []string
	for _, cal := range resp.Data.CalendarList {
		if cal == nil || deref(cal.CalendarId) == "" {
			continue
		}
		ids = append(ids, deref(cal.CalendarId))
	}
	return ids, nil
}

// CalendarEvents lists the events of one calendar overlapping [start, end).
func (f *FeishuClient) CalendarEvents(ctx context.Context, calendarID string, start, end time.Time) ([]*larkcalendar.CalendarEvent, error) {
	req := larkcalendar.NewListCalendarEventReqBuilder().
		CalendarId(calendarID).
		StartTime(fmt.Sprintf("%d", start.Unix())).
		EndTime(fmt.Sprintf("%d", end.Unix())).
		Build()

	resp, err := f.Lark.Calendar.V4.CalendarEvent.List(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("feishu list events: %w", err)
	}
	if !resp.Success() {
		return nil, feishuError("list events", resp.Code, resp.Msg)
	}
	if resp.Data == nil {
		return nil, nil
	}
	return resp.Data.Items, nil
}
