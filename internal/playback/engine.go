package playback

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// Engine is one playback session: a decoded buffer plus transport state.
type Engine struct {
	logger     *slog.Logger
	newContext ContextFactory

	mu         sync.Mutex
	audioCtx   AudioContext
	state      State
	container  []byte
	buffer     *Buffer
	source     SourceNode
	rate       float64
	startedAt  float64
	pausedAt   float64
	generation uint64
	closed     bool
}

// NewEngine constructs an Engine. The AudioContext is created by factory on
// the first Load and reused afterwards.
func NewEngine(logger *slog.Logger, factory ContextFactory) *Engine {
	return &Engine{
		logger:     logger,
		newContext: factory,
		state:      StateEmpty,
		rate:       DefaultRate,
	}
}

// Load tears down any active node and decodes container into a new buffer.
// If another Load begins before decoding finishes, this call's result is
// discarded and ErrSuperseded is returned.
func (e *Engine) Load(ctx context.Context, container []byte) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	audioCtx, err := e.contextLocked()
	if err != nil {
		e.mu.Unlock()
		return fmt.Errorf("create audio context: %w", err)
	}

	e.stopSourceLocked()
	e.pausedAt = 0
	e.startedAt = 0
	e.buffer = nil
	e.container = nil
	e.generation++
	gen := e.generation
	e.state = StateLoading
	e.mu.Unlock()

	e.logger.Debug("decoding audio container",
		slog.Uint64("generation", gen),
		slog.Int("bytes", len(container)),
	)

	buf, decodeErr := audioCtx.DecodeAudioData(ctx, container)

	e.mu.Lock()
	defer e.mu.Unlock()

	if gen != e.generation {
		e.logger.Debug("discarding stale decode",
			slog.Uint64("generation", gen),
			slog.Uint64("current", e.generation),
		)
		return ErrSuperseded
	}

	if decodeErr != nil {
		e.state = StateEmpty
		e.logger.Warn("audio decode failed", slog.String("error", decodeErr.Error()))
		return fmt.Errorf("%w: %w", ErrDecode, decodeErr)
	}

	e.buffer = buf
	e.container = append([]byte(nil), container...)
	e.state = StateReady

	e.logger.Info("audio loaded",
		slog.Int("sample_rate", buf.SampleRate),
		slog.Int("channels", buf.Channels),
		slog.Float64("duration_s", buf.Duration()),
	)
	return nil
}

// Play starts playback from the resume offset. It does nothing when already
// playing or when nothing is loaded.
func (e *Engine) Play() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == StatePlaying || e.buffer == nil || e.audioCtx == nil {
		return nil
	}

	src := e.audioCtx.CreateBufferSource(e.buffer)
	src.SetPlaybackRate(e.rate)
	src.OnEnded(func() { e.handleEnded(src) })

	startedAt := e.audioCtx.CurrentTime() - e.pausedAt
	if err := src.Start(e.pausedAt); err != nil {
		return fmt.Errorf("start source: %w", err)
	}

	e.startedAt = startedAt
	e.source = src
	e.state = StatePlaying
	return nil
}

// Pause stops the active node and records the resume offset. The offset is
// audio-clock time since start and is not scaled by the playback rate.
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StatePlaying {
		return
	}

	e.pausedAt = e.audioCtx.CurrentTime() - e.startedAt
	e.stopSourceLocked()
	e.state = StatePaused
}

// Toggle plays when idle and pauses when playing.
func (e *Engine) Toggle() error {
	e.mu.Lock()
	playing := e.state == StatePlaying
	e.mu.Unlock()

	if playing {
		e.Pause()
		return nil
	}
	return e.Play()
}

// SetRate changes the playback rate, updating the active node in place.
func (e *Engine) SetRate(rate float64) error {
	if rate < MinRate || rate > MaxRate {
		return fmt.Errorf("%w: %.2f", ErrRateOutOfRange, rate)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.rate = rate
	if e.source != nil {
		e.source.SetPlaybackRate(rate)
	}
	return nil
}

// Download returns the loaded container as a file artifact.
func (e *Engine) Download() (Artifact, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.container == nil {
		return Artifact{}, ErrNoAudio
	}
	return Artifact{
		Name:     DownloadFilename,
		MIMEType: "audio/wav",
		Data:     append([]byte(nil), e.container...),
	}, nil
}

// Status reports the current transport state.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()

	st := Status{
		State:    e.state,
		Rate:     e.rate,
		Position: e.pausedAt,
		Duration: e.buffer.Duration(),
	}
	if e.state == StatePlaying && e.audioCtx != nil {
		st.Position = e.audioCtx.CurrentTime() - e.startedAt
	}
	return st
}

// Close stops playback, discards any in-flight decode and releases the
// audio context.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}
	e.closed = true
	e.stopSourceLocked()
	e.generation++
	e.buffer = nil
	e.container = nil
	e.state = StateEmpty

	if closer, ok := e.audioCtx.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			return fmt.Errorf("close audio context: %w", err)
		}
	}
	return nil
}

func (e *Engine) handleEnded(src SourceNode) {
	e.mu.Lock()
	defer e.mu.Unlock()

	// ended callbacks from nodes we already released are ignored
	if e.source != src || e.state != StatePlaying {
		return
	}

	elapsed := e.audioCtx.CurrentTime() - e.startedAt
	// measured against the rate in effect now, which SetRate may have changed mid-play
	if elapsed < e.buffer.Duration()/e.rate {
		return
	}

	e.source = nil
	e.pausedAt = 0
	e.state = StateReady
	e.logger.Debug("playback completed", slog.Float64("elapsed_s", elapsed))
}

func (e *Engine) contextLocked() (AudioContext, error) {
	if e.audioCtx != nil {
		return e.audioCtx, nil
	}
	audioCtx, err := e.newContext()
	if err != nil {
		return nil, err
	}
	e.audioCtx = audioCtx
	return audioCtx, nil
}

func (e *Engine) stopSourceLocked() {
	if e.source == nil {
		return
	}
	if err := e.source.Stop(); err != nil {
		e.logger.Warn("stop source failed", slog.String("error", err.Error()))
	}
	e.source = nil
}
