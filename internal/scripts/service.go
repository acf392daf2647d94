package scripts

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"scriptvoice/internal/wav"
)

const defaultListLimit = 20

// Service orchestrates script enhancement, voice synthesis, and persistence.
type Service struct {
	logger *slog.Logger
	repo   Repository
	llm    Enhancer
	tts    Synthesizer
	format wav.Format
	now    func() time.Time
}

// NewService constructs a Service.
func NewService(logger *slog.Logger, repo Repository, llm Enhancer, tts Synthesizer) *Service {
	return &Service{
		logger: logger,
		repo:   repo,
		llm:    llm,
		tts:    tts,
		format: wav.DefaultFormat,
		now:    time.Now,
	}
}

// EnhanceScript rewrites input with the language model and records the result.
func (s *Service) EnhanceScript(ctx context.Context, input string) (Enhancement, error) {
	if strings.TrimSpace(input) == "" {
		return Enhancement{}, ErrEmptyInput
	}

	output, err := s.llm.Enhance(ctx, input)
	if err != nil {
		s.logger.Error("script enhancement failed", slog.String("error", err.Error()))
		return Enhancement{}, fmt.Errorf("%w: enhance script: %w", ErrService, err)
	}

	enh := Enhancement{
		ID:        uuid.New(),
		Input:     input,
		Output:    output,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.SaveEnhancement(ctx, enh); err != nil {
		return Enhancement{}, fmt.Errorf("persist enhancement: %w", err)
	}

	s.logger.Info("script enhanced",
		slog.String("id", enh.ID.String()),
		slog.Int("input_chars", len(input)),
		slog.Int("output_chars", len(output)),
	)
	return enh, nil
}

// GenerateVoice validates input, synthesizes audio, wraps it in a WAV
// container, and persists the result.
func (s *Service) GenerateVoice(ctx context.Context, input GenerateVoiceInput) (Generation, error) {
	req, err := validateGenerateInput(input)
	if err != nil {
		return Generation{}, err
	}

	s.logger.Debug("synthesizing voice",
		slog.String("voice1", string(req.Voice1)),
		slog.String("voice2", string(req.Voice2)),
		slog.Int("text_length", len(req.Text)),
	)

	b64, err := s.tts.Synthesize(ctx, req)
	if err != nil {
		s.logger.Error("voice synthesis failed", slog.String("error", err.Error()))
		return Generation{}, fmt.Errorf("%w: synthesize: %w", ErrService, err)
	}

	container, err := wav.EncodeBase64(b64, s.format)
	if err != nil {
		return Generation{}, fmt.Errorf("%w: %w", ErrService, err)
	}

	gen := Generation{
		ID:            uuid.New(),
		Script:        req.Text,
		Speaker1:      req.Voice1,
		Speaker2:      req.Voice2,
		SampleRate:    s.format.SampleRate,
		Channels:      s.format.Channels,
		BitsPerSample: s.format.BitsPerSample,
		Duration:      wav.Duration(len(container)-wav.HeaderSize, s.format),
		Audio:         container,
		CreatedAt:     s.now().UTC(),
	}

	if err := s.repo.CreateGeneration(ctx, gen); err != nil {
		return Generation{}, fmt.Errorf("persist generation: %w", err)
	}

	s.logger.Info("voice generated",
		slog.String("id", gen.ID.String()),
		slog.Int("audio_bytes", len(gen.Audio)),
		slog.Duration("duration", gen.Duration),
	)
	return gen, nil
}

// GetGeneration fetches a single generation by id.
func (s *Service) GetGeneration(ctx context.Context, id uuid.UUID) (Generation, error) {
	gen, err := s.repo.GetGeneration(ctx, id)
	if err != nil {
		return Generation{}, err
	}
	return gen, nil
}

// ListGenerations queries generations using filter criteria.
func (s *Service) ListGenerations(ctx context.Context, filter GenerationFilter) ([]Generation, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	return s.repo.ListGenerations(ctx, filter)
}

// RecentEnhancements returns the latest script rewrites.
func (s *Service) RecentEnhancements(ctx context.Context, limit int) ([]Enhancement, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	return s.repo.RecentEnhancements(ctx, limit)
}

func validateGenerateInput(input GenerateVoiceInput) (SynthesisRequest, error) {
	if strings.TrimSpace(input.Script) == "" {
		return SynthesisRequest{}, ErrEmptyInput
	}

	voice1, err := ParseVoice(string(input.Voice1))
	if err != nil {
		return SynthesisRequest{}, err
	}
	req := SynthesisRequest{Text: input.Script, Voice1: voice1}
	if !input.TwoSpeakers {
		return req, nil
	}

	if input.Voice1 == input.Voice2 {
		return SynthesisRequest{}, ErrDuplicateVoice
	}
	voice2, err := ParseVoice(string(input.Voice2))
	if err != nil {
		return SynthesisRequest{}, err
	}
	req.Voice2 = voice2
	return req, nil
}
