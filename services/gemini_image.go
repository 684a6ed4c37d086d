package services

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"outfitbot/config"

	"github.com/google/uuid"
	"google.golang.org/genai"
)

// Gemini image models accepted by image.model.
const (
	ImageModelPro3    = "gemini-3-pro-image-preview"
	ImageModelFlash25 = "gemini-2.5-flash-image-preview"
)

func floatPointer(f float32) *float32 {
	return &f
}

// GeminiImageGenerator redraws a reference character wearing the prompted
// outfit and writes the result as a PNG under OutputDir.
type GeminiImageGenerator struct {
	APIKey        string
	Model         string
	BaseImagePath string
	OutputDir     string
	MaxSide       int
	Temperature   float32
}

func NewGeminiImageGenerator(cfg config.ImageConfig) *GeminiImageGenerator {
	model := cfg.Model
	if model == "" {
		model = ImageModelPro3
	}
	return &GeminiImageGenerator{
		APIKey:        cfg.APIKey,
		Model:         model,
		BaseImagePath: cfg.BaseImagePath,
		OutputDir:     cfg.OutputDir,
		MaxSide:       cfg.MaxSide,
		Temperature:   cfg.Temperature,
	}
}

func (g *GeminiImageGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	baseImage, err := os.ReadFile(g.BaseImagePath)
	if err != nil {
		return "", fmt.Errorf("read base character image: %w", err)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  g.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("genai client: %w", err)
	}

	parts := []*genai.Part{
		{InlineData: &genai.Blob{MIMEType: http.DetectContentType(baseImage), Data: baseImage}},
		{Text: prompt},
	}
	result, err := client.Models.GenerateContent(ctx, g.Model, []*genai.Content{{Role: genai.RoleUser, Parts: parts}}, &genai.GenerateContentConfig{
		CandidateCount:     1,
		Temperature:        floatPointer(g.Temperature),
		ResponseModalities: []string{"IMAGE", "TEXT"},
	})
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	if result.UsageMetadata != nil {
		log.Printf("[Gemini] tokens in=%d out=%d total=%d", result.UsageMetadata.PromptTokenCount, result.UsageMetadata.CandidatesTokenCount, result.UsageMetadata.TotalTokenCount)
	}
	if result.PromptFeedback != nil && result.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("prompt blocked: %s %s", result.PromptFeedback.BlockReason, result.PromptFeedback.BlockReasonMessage)
	}

	images, err := GetAllInlineImages(result)
	if err != nil {
		return "", err
	}
	if len(images) == 0 {
		return "", fmt.Errorf("model returned no image")
	}
	return g.save(images[0])
}

func (g *GeminiImageGenerator) save(image []byte) (string, error) {
	resized, err := FitForDelivery(image, g.MaxSide)
	if err != nil {
		log.Printf("[Gemini] resize failed, keeping original: %v", err)
		resized = image
	}
	dir := g.OutputDir
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	out := filepath.Join(dir, fmt.Sprintf("outfit-%s.png", uuid.NewString()))
	if err := os.WriteFile(out, resized, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	return out, nil
}

// GetAllInlineImages collects inline image payloads from every candidate.
func GetAllInlineImages(result *genai.GenerateContentResponse) ([][]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("empty response")
	}

	var allImageData [][]byte
	for _, cand := range result.Candidates {
		for _, rating := range cand.SafetyRatings {
			if rating.Blocked {
				return nil, fmt.Errorf("content blocked by safety setting: %s", rating.Category)
			}
		}
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			inlineData := part.InlineData
			if inlineData != nil && strings.HasPrefix(inlineData.MIMEType, "image/") && len(inlineData.Data) > 0 {
				allImageData = append(allImageData, inlineData.Data)
			}
		}
	}
	return allImageData, nil
}
