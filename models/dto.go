package models

// FeishuEventIn covers both the url_verification handshake and event callbacks.
type FeishuEventIn struct {
	Type      string            `json:"type"`
	Challenge string            `json:"challenge"`
	Token     string            `json:"token"`
	Header    FeishuEventHeader `json:"header"`
	Event     FeishuEventBody   `json:"event"`
}

type FeishuEventHeader struct {
	EventID   string `json:"event_id"`
	EventType string `json:"event_type"`
	Token     string `json:"token"`
}

type FeishuEventBody struct {
	Sender  FeishuSender  `json:"sender"`
	Message FeishuMessage `json:"message"`
}

type FeishuSender struct {
	SenderID struct {
		OpenID string `json:"open_id"`
	} `json:"sender_id"`
}

type FeishuMessage struct {
	MessageID   string `json:"message_id"`
	ChatID      string `json:"chat_id"`
	MessageType string `json:"message_type"`
	Content     string `json:"content"`
}

type FeishuTextContent struct {
	Text string `json:"text" validate:"max=2000"`
}

type ChallengeOut struct {
	Challenge string `json:"challenge"`
}

type HealthOut struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}
