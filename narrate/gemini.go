package narrate

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// defaultModel is used when no model name is configured.
const defaultModel = "gemini-2.0-flash"

// Gemini implements Generator against the Gemini API.
type Gemini struct {
	APIKey string
	Model  string
}

var _ Generator = (*Gemini)(nil)

// Generate sends one generateContent request.
func (g *Gemini) Generate(ctx context.Context, prompt, system string) (string, error) {
	if g.APIKey == "" {
		return "", fmt.Errorf("gemini api key not configured")
	}

	model := g.Model
	if model == "" {
		model = defaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  g.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("create genai client: %w", err)
	}

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(0.4)),
	}
	if system != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		}
	}

	result, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}

	return result.Text(), nil
}
