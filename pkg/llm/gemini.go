package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Provider abstracts the LLM backend (Gemini today).
type Provider interface {
	// GenerateStructured prompts the model for JSON and decodes it into output.
	GenerateStructured(ctx context.Context, prompt string, output interface{}) error

	// Close shuts down the provider connection.
	Close()
}

// GeminiProvider implements Provider on Google Gemini.
type GeminiProvider struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiProvider creates a Gemini-backed provider. GEMINI_API_KEY must be
// set in the environment.
func NewGeminiProvider(ctx context.Context, modelName string) (*GeminiProvider, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.2)
	model.ResponseMIMEType = "application/json"

	return &GeminiProvider{
		client: client,
		model:  model,
	}, nil
}

// GenerateStructured implements Provider.
func (g *GeminiProvider) GenerateStructured(ctx context.Context, prompt string, output interface{}) error {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return err
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return fmt.Errorf("no response from LLM")
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			if err := json.Unmarshal([]byte(txt), output); err != nil {
				return fmt.Errorf("failed to parse JSON: %w", err)
			}
			return nil
		}
	}

	return fmt.Errorf("no text content in response")
}

// Close implements Provider.
func (g *GeminiProvider) Close() {
	g.client.Close()
}
