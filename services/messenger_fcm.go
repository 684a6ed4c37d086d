package services

import (
	"context"
	"fmt"
	"log"

	"firebase.google.com/go/v4/messaging"
)

const fcmNotificationTitle = "穿搭小助手"

// FCMSender is the part of *messaging.Client the messenger needs.
type FCMSender interface {
	SendEach(ctx context.Context, messages []*messaging.Message) (*messaging.BatchResponse, error)
}

// FCMMessenger pushes notifications to registered device tokens. Images are
// published first since notifications carry pictures by URL.
type FCMMessenger struct {
	Client FCMSender
	Tokens []string
	Images ImagePublisher
}

func (m *FCMMessenger) tokens(to string) []string {
	if to != "" {
		return []string{to}
	}
	return m.Tokens
}

func (m *FCMMessenger) push(ctx context.Context, to string, notification *messaging.Notification, data map[string]string) error {
	tokens := m.tokens(to)
	if len(tokens) == 0 {
		return fmt.Errorf("no fcm device tokens configured")
	}
	messages := make([]*messaging.Message, 0, len(tokens))
	for _, token := range tokens {
		messages = append(messages, &messaging.Message{
			Token:        token,
			Notification: notification,
			Data:         data,
		})
	}
	resp, err := m.Client.SendEach(ctx, messages)
	if err != nil {
		return fmt.Errorf("fcm send: %w", err)
	}
	if resp.FailureCount > 0 {
		log.Printf("[FCM] %d of %d notifications failed", resp.FailureCount, len(messages))
		if resp.SuccessCount == 0 {
			return fmt.Errorf("fcm: all %d notifications failed", resp.FailureCount)
		}
	}
	return nil
}

func (m *FCMMessenger) publish(ctx context.Context, imagePath string) (string, error) {
	if m.Images == nil {
		return "", fmt.Errorf("no image publisher configured for fcm")
	}
	return m.Images.Publish(ctx, imagePath)
}

func (m *FCMMessenger) SendText(ctx context.Context, to, text string) error {
	return m.push(ctx, to, &messaging.Notification{Title: fcmNotificationTitle, Body: text}, map[string]string{"type": "text"})
}

func (m *FCMMessenger) SendImage(ctx context.Context, to, imagePath string) error {
	imageURL, err := m.publish(ctx, imagePath)
	if err != nil {
		return err
	}
	return m.push(ctx, to, &messaging.Notification{Title: fcmNotificationTitle, ImageURL: imageURL}, map[string]string{"type": "image", "image_url": imageURL})
}

func (m *FCMMessenger) SendCard(ctx context.Context, to, title, body, imagePath string) error {
	notification := &messaging.Notification{Title: title, Body: body}
	if imagePath != "" {
		imageURL, err := m.publish(ctx, imagePath)
		if err != nil {
			log.Printf("[FCM] card image publish failed: %v", err)
		} else {
			notification.ImageURL = imageURL
		}
	}
	return m.push(ctx, to, notification, map[string]string{"type": "card"})
}
