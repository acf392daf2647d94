package playback

import (
	"context"
	"errors"
)

var (
	// ErrDecode signals malformed or unsupported container bytes.
	ErrDecode = errors.New("decode audio container")

	// ErrSuperseded is returned by a Load whose result was discarded because
	// a newer Load started while it was decoding.
	ErrSuperseded = errors.New("load superseded by a newer load")

	// ErrRateOutOfRange signals a playback rate outside [MinRate, MaxRate].
	ErrRateOutOfRange = errors.New("playback rate out of range")

	// ErrNoAudio signals that no container has been loaded.
	ErrNoAudio = errors.New("no audio loaded")

	// ErrNodeStopped is returned when starting a source node twice.
	ErrNodeStopped = errors.New("source node already started")

	// ErrClosed is returned by operations on a closed engine.
	ErrClosed = errors.New("engine closed")
)

const (
	MinRate     = 0.5
	MaxRate     = 2.0
	DefaultRate = 1.0

	// DownloadFilename is the file name offered for the loaded container.
	DownloadFilename = "generated_voice.wav"
)

// Buffer is a decoded, interleaved PCM sample buffer normalised to [-1, 1].
type Buffer struct {
	SampleRate int
	Channels   int
	Data       []float32
}

// Frames returns the number of sample frames in the buffer.
func (b *Buffer) Frames() int {
	if b == nil || b.Channels <= 0 {
		return 0
	}
	return len(b.Data) / b.Channels
}

// Duration returns the buffer length in seconds at rate 1.0.
func (b *Buffer) Duration() float64 {
	if b == nil || b.SampleRate <= 0 {
		return 0
	}
	return float64(b.Frames()) / float64(b.SampleRate)
}

// AudioContext is the audio graph a session plays through. It owns the
// audio clock and creates sound-producing nodes.
type AudioContext interface {
	// CurrentTime returns the audio clock in seconds. It never goes backwards.
	CurrentTime() float64
	// DecodeAudioData decodes a container into a sample buffer.
	DecodeAudioData(ctx context.Context, data []byte) (*Buffer, error)
	// CreateBufferSource returns a fresh node bound to buf.
	CreateBufferSource(buf *Buffer) SourceNode
}

// SourceNode plays a Buffer once. A stopped node cannot be restarted.
type SourceNode interface {
	SetPlaybackRate(rate float64)
	// Start begins playback at offset seconds into the buffer.
	Start(offset float64) error
	Stop() error
	// OnEnded registers fn to run once when the node finishes, either because
	// the buffer ran out or because Stop was called. fn is never invoked from
	// inside Stop.
	OnEnded(fn func())
}

// ContextFactory builds the AudioContext for an engine on first use.
type ContextFactory func() (AudioContext, error)

// State is the transport state of an Engine.
type State int

const (
	StateEmpty State = iota
	StateLoading
	StateReady
	StatePlaying
	StatePaused
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	default:
		return "unknown"
	}
}

// Status is a point-in-time view of an Engine.
type Status struct {
	State    State
	Rate     float64
	Position float64
	Duration float64
}

// Artifact is the downloadable form of the loaded container.
type Artifact struct {
	Name     string
	MIMEType string
	Data     []byte
}
