package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"runtime/debug"

	"outfitbot/briefing"
	"outfitbot/models"
	"outfitbot/outfit"
	"outfitbot/services"

	"github.com/getsentry/sentry-go"
	"github.com/hibiken/asynq"
)

const errorReplyFormat = "抱歉，生成穿搭时出错了：%v"

// Pusher builds recommendations and briefings and delivers them.
type Pusher struct {
	Recommender *outfit.Recommender
	Briefing    *briefing.Service
	Images      ImageGenerator
	Messenger   services.Messenger
	Logs        services.PushLogger
	Platform    models.Platform
}

func (p *Pusher) record(ctx context.Context, entry models.PushLog, err error) {
	if p.Logs == nil {
		return
	}
	entry.Platform = p.Platform
	if err != nil {
		msg := err.Error()
		entry.ErrorMessage = &msg
	}
	if logErr := p.Logs.Record(ctx, &entry); logErr != nil {
		log.Printf("[Queue] push log write failed: %v", logErr)
	}
}

// PushOutfit recommends and delivers an outfit. Chat-triggered pushes take
// weather hints from the message text. Any failure, panics included, is
// reported back to the recipient.
func (p *Pusher) PushOutfit(ctx context.Context, req OutfitPushPayload) (err error) {
	imageSent := false
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
			log.Printf("[Outfit] push panicked: %v\n%s", r, debug.Stack())
		}
		if err != nil {
			log.Printf("[Outfit] push for %q failed: %v", req.MessageID, err)
			sentry.CaptureException(err)
			if sendErr := p.Messenger.SendText(ctx, req.Recipient, fmt.Sprintf(errorReplyFormat, err)); sendErr != nil {
				log.Printf("[Outfit] error reply failed: %v", sendErr)
			}
		}
		p.record(ctx, models.PushLog{
			Kind:         models.PushKindOutfit,
			Recipient:    req.Recipient,
			Source:       req.Source,
			StyleRequest: req.Text,
			ImageSent:    imageSent,
		}, err)
	}()

	weather := p.Recommender.CurrentWeather(ctx)
	if req.Text != "" {
		weather = outfit.ApplyMessageOverrides(weather, req.Text)
	}

	rec, err := p.Recommender.Build(ctx, &weather, req.Text)
	if err != nil {
		return err
	}
	log.Printf("[Outfit] %s %d°C, warmth %d, style %v", rec.Weather.Text, rec.Weather.Temp, rec.Suggestion.Level, rec.StyleTags)

	if req.Card {
		imageSent, err = DeliverCard(ctx, rec, p.Images, p.Messenger, req.Recipient)
	} else {
		imageSent, err = Deliver(ctx, rec, p.Images, p.Messenger, req.Recipient)
	}
	if err != nil {
		return fmt.Errorf("deliver outfit: %w", err)
	}
	log.Printf("[Outfit] delivered (image: %v)", imageSent)
	return nil
}

// PushMorning sends the morning briefing card. With WithOutfit the card also
// carries an outfit picked for the same weather.
func (p *Pusher) PushMorning(ctx context.Context, req MorningPushPayload) (err error) {
	imagePath := ""
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
			log.Printf("[Morning] push panicked: %v\n%s", r, debug.Stack())
		}
		if err != nil {
			log.Printf("[Morning] push failed: %v", err)
			sentry.CaptureException(err)
		}
		p.record(ctx, models.PushLog{
			Kind:      models.PushKindMorning,
			Recipient: req.Recipient,
			Source:    req.Source,
			ImageSent: imagePath != "",
		}, err)
	}()

	weather := p.Briefing.CurrentWeather(ctx, req.Mock)

	outfitText := ""
	if req.WithOutfit && p.Recommender != nil {
		rec, buildErr := p.Recommender.Build(ctx, &weather, "")
		if buildErr != nil {
			log.Printf("[Morning] outfit skipped: %v", buildErr)
		} else {
			outfitText = rec.OutfitText
			imagePath = generateImage(ctx, p.Images, rec.Prompt)
		}
	}

	b := p.Briefing.Compose(ctx, req.Mock, &weather, outfitText)
	log.Printf("[Morning] %s", b.Title)
	if err := p.Messenger.SendCard(ctx, req.Recipient, b.Title, b.Content, imagePath); err != nil {
		return fmt.Errorf("send morning card: %w", err)
	}
	return nil
}

func HandleOutfitPushTask(ctx context.Context, t *asynq.Task, pusher *Pusher) error {
	var payload OutfitPushPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		sentry.CaptureException(err)
		return fmt.Errorf("json.Unmarshal failed: %v: %w", err, asynq.SkipRetry)
	}
	return pusher.PushOutfit(ctx, payload)
}

func HandleMorningPushTask(ctx context.Context, t *asynq.Task, pusher *Pusher) error {
	var payload MorningPushPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		sentry.CaptureException(err)
		return fmt.Errorf("json.Unmarshal failed: %v: %w", err, asynq.SkipRetry)
	}
	return pusher.PushMorning(ctx, payload)
}

// NewServeMux routes push tasks to pusher. Used by the worker and by the
// in-process dispatcher.
func NewServeMux(pusher *Pusher) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeOutfitPush, func(ctx context.Context, t *asynq.Task) error {
		return HandleOutfitPushTask(ctx, t, pusher)
	})
	mux.HandleFunc(TypeMorningPush, func(ctx context.Context, t *asynq.Task) error {
		return HandleMorningPushTask(ctx, t, pusher)
	})
	return mux
}
