package models

type PushKind string

const (
	PushKindOutfit  PushKind = "outfit"
	PushKindMorning PushKind = "morning"
)

type PushLog struct {
	JsonModel
	Kind         PushKind `json:"kind"`
	Platform     Platform `json:"platform"`
	Recipient    string   `json:"recipient"`
	Source       string   `json:"source"`
	StyleRequest string   `json:"style_request"`
	ImageSent    bool     `json:"image_sent"`
	ErrorMessage *string  `gorm:"type:text" json:"error_message"`
}
