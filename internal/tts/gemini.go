package tts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"scriptvoice/internal/gemini"
	"scriptvoice/internal/scripts"
)

const DefaultModel = "gemini-2.5-flash-preview-tts"

// ErrNoAudio is returned when the model answers without inline audio.
var ErrNoAudio = errors.New("no audio data in response")

// GeminiOptions configures optional synthesizer behavior.
type GeminiOptions struct {
	Model string
}

// GeminiSynthesizer implements scripts.Synthesizer with the Gemini speech models.
type GeminiSynthesizer struct {
	logger *slog.Logger
	api    *gemini.Client
	model  string
}

// NewGeminiSynthesizer creates a new Gemini TTS client.
func NewGeminiSynthesizer(logger *slog.Logger, api *gemini.Client, opts *GeminiOptions) *GeminiSynthesizer {
	if opts == nil {
		opts = &GeminiOptions{}
	}

	model := opts.Model
	if model == "" {
		model = DefaultModel
	}

	return &GeminiSynthesizer{
		logger: logger,
		api:    api,
		model:  model,
	}
}

// Synthesize returns the base64 PCM payload for req.
func (s *GeminiSynthesizer) Synthesize(ctx context.Context, req scripts.SynthesisRequest) (string, error) {
	body := BuildRequest(req)

	s.logger.Info("starting speech synthesis",
		slog.String("model", s.model),
		slog.String("voice1", string(req.Voice1)),
		slog.String("voice2", string(req.Voice2)),
		slog.Int("text_length", len(req.Text)),
	)

	resp, err := s.api.GenerateContent(ctx, s.model, body)
	if err != nil {
		return "", fmt.Errorf("gemini synthesize: %w", err)
	}

	part, ok := resp.FirstPart()
	if !ok || part.InlineData == nil || part.InlineData.Data == "" {
		s.logger.Warn("speech response carried no audio", slog.String("model", s.model))
		return "", ErrNoAudio
	}

	s.logger.Debug("speech synthesis succeeded",
		slog.String("mime_type", part.InlineData.MimeType),
		slog.Int("payload_chars", len(part.InlineData.Data)),
	)
	return part.InlineData.Data, nil
}

// BuildRequest shapes req into a generateContent body. Dialogues are split
// into alternating SPEAKER1/SPEAKER2 turns with one voice per tag.
func BuildRequest(req scripts.SynthesisRequest) gemini.Request {
	speech := &gemini.SpeechConfig{}
	text := req.Text

	if req.Voice2 == "" {
		speech.VoiceConfig = voiceConfig(req.Voice1)
	} else {
		text = scripts.FormatConversation(req.Text)
		speech.MultiSpeakerVoiceConfig = &gemini.MultiSpeakerVoiceConfig{
			SpeakerVoiceConfigs: []gemini.SpeakerVoiceConfig{
				{Speaker: scripts.Speaker1Tag, VoiceConfig: *voiceConfig(req.Voice1)},
				{Speaker: scripts.Speaker2Tag, VoiceConfig: *voiceConfig(req.Voice2)},
			},
		}
	}

	return gemini.Request{
		Contents: gemini.TextContent(text),
		GenerationConfig: &gemini.GenerationConfig{
			ResponseModalities: []string{gemini.ModalityAudio},
			SpeechConfig:       speech,
		},
	}
}

func voiceConfig(v scripts.Voice) *gemini.VoiceConfig {
	return &gemini.VoiceConfig{
		PrebuiltVoiceConfig: gemini.PrebuiltVoiceConfig{VoiceName: string(v)},
	}
}
