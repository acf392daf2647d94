package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"scriptvoice/internal/gemini"
)

const (
	DefaultModel       = "gemini-3-flash-preview"
	defaultTemperature = 0.9
)

// GeminiOptions allows overriding model behavior.
type GeminiOptions struct {
	Model       string
	Temperature float64
}

// GeminiClient implements scripts.Enhancer against the Gemini text models.
type GeminiClient struct {
	logger      *slog.Logger
	api         *gemini.Client
	model       string
	temperature float64
}

// NewGeminiClient constructs a new GeminiClient.
func NewGeminiClient(logger *slog.Logger, api *gemini.Client, opts *GeminiOptions) *GeminiClient {
	if opts == nil {
		opts = &GeminiOptions{}
	}

	model := opts.Model
	if model == "" {
		model = DefaultModel
	}

	temperature := opts.Temperature
	if temperature == 0 {
		temperature = defaultTemperature
	}

	return &GeminiClient{
		logger:      logger,
		api:         api,
		model:       model,
		temperature: temperature,
	}
}

// Enhance rewrites script into a punchier voice-over script.
func (c *GeminiClient) Enhance(ctx context.Context, script string) (string, error) {
	temperature := c.temperature
	resp, err := c.api.GenerateContent(ctx, c.model, gemini.Request{
		Contents: gemini.TextContent(BuildEnhancePrompt(script)),
		GenerationConfig: &gemini.GenerationConfig{
			Temperature: &temperature,
		},
	})
	if err != nil {
		return "", err
	}

	text := stripCodeFence(resp.Text())
	if text == "" {
		return "", fmt.Errorf("gemini returned no script text")
	}

	c.logger.Debug("script enhanced by model",
		slog.String("model", c.model),
		slog.Int("chars", len(text)),
	)
	return text, nil
}

// BuildEnhancePrompt wraps script in the scriptwriter instructions.
func BuildEnhancePrompt(script string) string {
	var sb strings.Builder
	sb.WriteString("You are an expert scriptwriter for viral social media videos. ")
	sb.WriteString("Rewrite the following script so it is more engaging and impactful.\n")
	sb.WriteString("Inject it with:\n")
	sb.WriteString("- A powerful, attention-grabbing hook at the beginning.\n")
	sb.WriteString("- Motivational and energetic language throughout.\n")
	sb.WriteString("- A natural, conversational tone.\n")
	sb.WriteString("- Keep the core message of the original script intact, but elevate the delivery.\n")
	sb.WriteString("- The final script should be concise and ready for voice-over.\n")
	sb.WriteString("- Return only the rewritten script, without any introductory text or labels.\n\n")
	sb.WriteString("Original Script:\n---\n")
	sb.WriteString(script)
	sb.WriteString("\n---\n\nRewritten Script:")
	return sb.String()
}

func stripCodeFence(v string) string {
	v = strings.TrimSpace(v)
	if strings.HasPrefix(v, "```") {
		v = strings.TrimPrefix(v, "```")
		if idx := strings.Index(v, "\n"); idx != -1 {
			v = v[idx+1:]
		}
		v = strings.TrimSuffix(v, "```")
	}
	return strings.TrimSpace(v)
}
