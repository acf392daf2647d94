package device

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"scriptvoice/internal/playback"
)

const endPollInterval = 20 * time.Millisecond

// OtoContext is a playback.AudioContext backed by the system audio device.
// oto allows a single context per process, so the output format is fixed
// at construction and every buffer is resampled to it.
type OtoContext struct {
	logger     *slog.Logger
	otoCtx     *oto.Context
	sampleRate int
	channels   int
	origin     time.Time
}

// NewOtoContext opens the audio device at sampleRate and channels.
func NewOtoContext(logger *slog.Logger, sampleRate, channels int) (*OtoContext, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatSignedInt16LE,
	}

	otoCtx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("create oto context: %w", err)
	}
	<-ready

	logger.Info("audio output initialized",
		slog.Int("sample_rate", sampleRate),
		slog.Int("channels", channels),
	)

	return &OtoContext{
		logger:     logger,
		otoCtx:     otoCtx,
		sampleRate: sampleRate,
		channels:   channels,
		origin:     time.Now(),
	}, nil
}

// CurrentTime is the monotonic time since the context was opened.
func (c *OtoContext) CurrentTime() float64 {
	return time.Since(c.origin).Seconds()
}

// DecodeAudioData decodes data with playback.Decode.
func (c *OtoContext) DecodeAudioData(ctx context.Context, data []byte) (*playback.Buffer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return playback.Decode(data)
}

// CreateBufferSource returns a node that plays buf through the device.
func (c *OtoContext) CreateBufferSource(buf *playback.Buffer) playback.SourceNode {
	return &otoSource{
		ctx:    c,
		reader: playback.NewRenderer(buf, c.sampleRate, c.channels),
		stopCh: make(chan struct{}),
	}
}

// Close suspends the device.
func (c *OtoContext) Close() error {
	return c.otoCtx.Suspend()
}

type otoSource struct {
	ctx    *OtoContext
	reader *playback.Renderer

	mu       sync.Mutex
	player   *oto.Player
	started  bool
	onEnded  func()
	stopCh   chan struct{}
	stopOnce sync.Once
	endOnce  sync.Once
}

func (s *otoSource) SetPlaybackRate(rate float64) {
	s.reader.SetRate(rate)
}

func (s *otoSource) OnEnded(fn func()) {
	s.mu.Lock()
	s.onEnded = fn
	s.mu.Unlock()
}

func (s *otoSource) Start(offset float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return playback.ErrNodeStopped
	}
	s.started = true

	s.reader.Seek(offset)
	s.player = s.ctx.otoCtx.NewPlayer(s.reader)
	s.player.Play()

	go s.watch(s.player)
	return nil
}

func (s *otoSource) Stop() error {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		if s.player != nil {
			s.player.Pause()
		}
		s.mu.Unlock()
		close(s.stopCh)
	})
	return nil
}

// watch fires the ended callback once the player drains or is stopped.
func (s *otoSource) watch(player *oto.Player) {
	ticker := time.NewTicker(endPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			s.finish(player)
			return
		case <-ticker.C:
			if !player.IsPlaying() {
				s.finish(player)
				return
			}
		}
	}
}

func (s *otoSource) finish(player *oto.Player) {
	s.endOnce.Do(func() {
		if err := player.Close(); err != nil {
			s.ctx.logger.Warn("close player failed", slog.String("error", err.Error()))
		}
		s.mu.Lock()
		fn := s.onEnded
		s.mu.Unlock()
		if fn != nil {
			fn()
		}
	})
}
