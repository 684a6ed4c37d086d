package tasks

import (
	"encoding/json"

	"outfitbot/config"

	"github.com/hibiken/asynq"
)

const (
	TypeOutfitPush  = "outfit:push"
	TypeMorningPush = "morning:push"
)

// Push sources recorded in the push log.
const (
	SourceWebhook  = "webhook"
	SourceTelegram = "telegram"
	SourceSchedule = "schedule"
	SourceCLI      = "cli"
)

type OutfitPushPayload struct {
	MessageID string `json:"message_id,omitempty"`
	Text      string `json:"text,omitempty"`
	Recipient string `json:"recipient,omitempty"`
	Source    string `json:"source"`
	// Card sends a single card instead of image followed by text.
	Card bool `json:"card,omitempty"`
}

type MorningPushPayload struct {
	Recipient  string `json:"recipient,omitempty"`
	Mock       bool   `json:"mock,omitempty"`
	WithOutfit bool   `json:"with_outfit,omitempty"`
	Source     string `json:"source"`
}

// NewClient initializes an asynq client for enqueuing tasks
func NewClient(cfg config.QueueConfig) *asynq.Client {
	return asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.BrokerAddress})
}

// NewOutfitPushTask never retries: a second attempt would message the user twice.
func NewOutfitPushTask(payload OutfitPushPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	opts := []asynq.Option{asynq.MaxRetry(0)}
	if payload.MessageID != "" {
		opts = append(opts, asynq.TaskID(TypeOutfitPush+":"+payload.MessageID))
	}
	return asynq.NewTask(TypeOutfitPush, data, opts...), nil
}

func NewMorningPushTask(payload MorningPushPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeMorningPush, data, asynq.MaxRetry(0)), nil
}
