package etikett

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// DefaultGeminiModel is the model used by the gemini backend.
var DefaultGeminiModel = "gemini-2.5-flash"

// GeminiTagger describes images with the Gemini API, as an alternative to a
// local inference endpoint.
type GeminiTagger struct {
	Client *genai.Client
	Model  string
}

func (g *GeminiTagger) Describe(ctx context.Context, image []byte, prompt string) (string, error) {
	content := genai.NewContentFromParts([]*genai.Part{
		genai.NewPartFromBytes(image, "image/jpeg"),
		genai.NewPartFromText(prompt),
	}, genai.RoleUser)

	resp, err := g.Client.Models.GenerateContent(ctx, g.Model, []*genai.Content{content}, nil)
	if err != nil {
		return "", stageErr(ErrTransport, g.Model, fmt.Errorf("generate: %w", err))
	}

	return resp.Text(), nil
}
