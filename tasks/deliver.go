package tasks

import (
	"context"
	"log"

	"outfitbot/models"
	"outfitbot/services"
)

const OutfitCardTitle = "✨ 今日穿搭推荐"

// ImageGenerator renders a prompt to an image file and returns its path.
type ImageGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

func generateImage(ctx context.Context, gen ImageGenerator, prompt string) string {
	if gen == nil {
		return ""
	}
	path, err := gen.Generate(ctx, prompt)
	if err != nil {
		log.Printf("[Outfit] image generation failed, sending text only: %v", err)
		return ""
	}
	return path
}

// Deliver sends the generated picture followed by the outfit text. A failed
// image send is skipped; the text is always attempted.
func Deliver(ctx context.Context, rec models.Recommendation, gen ImageGenerator, messenger services.Messenger, to string) (bool, error) {
	imagePath := generateImage(ctx, gen, rec.Prompt)
	imageSent := false
	if imagePath != "" {
		if err := messenger.SendImage(ctx, to, imagePath); err != nil {
			log.Printf("[Outfit] image delivery failed: %v", err)
		} else {
			imageSent = true
		}
	}
	return imageSent, messenger.SendText(ctx, to, rec.Message())
}

// DeliverCard sends the recommendation as one card with the picture inline.
func DeliverCard(ctx context.Context, rec models.Recommendation, gen ImageGenerator, messenger services.Messenger, to string) (bool, error) {
	imagePath := generateImage(ctx, gen, rec.Prompt)
	if err := messenger.SendCard(ctx, to, OutfitCardTitle, rec.Message(), imagePath); err != nil {
		return false, err
	}
	return imagePath != "", nil
}
