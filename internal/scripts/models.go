package scripts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound signals a missing generation.
	ErrNotFound = errors.New("generation not found")

	// ErrEmptyInput signals a request with no script text.
	ErrEmptyInput = errors.New("script text is empty")

	// ErrDuplicateVoice signals two-speaker mode with the same voice twice.
	ErrDuplicateVoice = errors.New("speakers must use different voices")

	// ErrUnknownVoice signals a voice outside the preset list.
	ErrUnknownVoice = errors.New("unknown voice")

	// ErrService wraps failures of the upstream enhancement or speech services.
	ErrService = errors.New("upstream service failure")
)

// Voice is a prebuilt speech-service voice.
type Voice string

const (
	VoiceKore   Voice = "Kore"
	VoicePuck   Voice = "Puck"
	VoiceCharon Voice = "Charon"
	VoiceFenrir Voice = "Fenrir"
	VoiceZephyr Voice = "Zephyr"
)

// Voices lists every supported voice.
var Voices = []Voice{VoiceKore, VoicePuck, VoiceCharon, VoiceFenrir, VoiceZephyr}

// ParseVoice validates a voice name.
func ParseVoice(name string) (Voice, error) {
	for _, v := range Voices {
		if string(v) == name {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownVoice, name)
}

// VoiceOption is a named, user-facing preset over a Voice.
type VoiceOption struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Voice       Voice  `json:"voice"`
}

// VoiceOptions are the presets offered in the UI.
var VoiceOptions = []VoiceOption{
	{ID: "Aura", Name: "Aura", Description: "Calm & Storyteller", Voice: VoiceKore},
	{ID: "Leo", Name: "Leo", Description: "Loud & Motivational", Voice: VoiceFenrir},
	{ID: "Seraph", Name: "Seraph", Description: "Deep & Authoritative", Voice: VoiceCharon},
	{ID: "Jaxx", Name: "Jaxx", Description: "Energetic & Fun", Voice: VoicePuck},
	{ID: "Nova", Name: "Nova", Description: "Warm & Clear", Voice: VoiceZephyr},
}

const (
	DefaultSpeaker1 = VoicePuck
	DefaultSpeaker2 = VoiceZephyr
)

// OptionFor returns the preset backed by v.
func OptionFor(v Voice) (VoiceOption, bool) {
	for _, opt := range VoiceOptions {
		if opt.Voice == v {
			return opt, true
		}
	}
	return VoiceOption{}, false
}

// Enhancement records one script rewrite.
type Enhancement struct {
	ID        uuid.UUID
	Input     string
	Output    string
	CreatedAt time.Time
}

// Generation is a synthesized voice-over stored as a WAV container.
type Generation struct {
	ID            uuid.UUID
	Script        string
	Speaker1      Voice
	Speaker2      Voice // empty for single-voice generations
	SampleRate    int
	Channels      int
	BitsPerSample int
	Duration      time.Duration
	Audio         []byte
	CreatedAt     time.Time
}

// TwoSpeakers reports whether the generation is a dialogue.
func (g Generation) TwoSpeakers() bool {
	return g.Speaker2 != ""
}

// SynthesisRequest is what the speech service receives.
type SynthesisRequest struct {
	Text   string
	Voice1 Voice
	Voice2 Voice // empty for a single speaker
}

// GenerateVoiceInput collects user input for a synthesis.
type GenerateVoiceInput struct {
	Script      string
	Voice1      Voice
	Voice2      Voice
	TwoSpeakers bool
}

// GenerationFilter is used for listing queries.
type GenerationFilter struct {
	Voice  *Voice
	Limit  int
	Offset int
}

// Repository defines the persistence layer contract.
type Repository interface {
	SaveEnhancement(ctx context.Context, enh Enhancement) error
	RecentEnhancements(ctx context.Context, limit int) ([]Enhancement, error)
	CreateGeneration(ctx context.Context, gen Generation) error
	GetGeneration(ctx context.Context, id uuid.UUID) (Generation, error)
	ListGenerations(ctx context.Context, filter GenerationFilter) ([]Generation, error)
}

// Enhancer rewrites a script with a language model.
type Enhancer interface {
	Enhance(ctx context.Context, script string) (string, error)
}

// Synthesizer turns text into base64-encoded raw PCM.
type Synthesizer interface {
	Synthesize(ctx context.Context, req SynthesisRequest) (string, error)
}
