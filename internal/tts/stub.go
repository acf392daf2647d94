package tts

import (
	"context"
	"encoding/base64"
	"encoding/binary"
	"math"
	"strings"

	"github.com/go-audio/audio"

	"scriptvoice/internal/scripts"
	"scriptvoice/internal/wav"
)

const (
	stubToneHz      = 440.0
	stubWordSeconds = 0.25
	stubAmplitude   = 0.3
)

// StubSynthesizer produces a sine tone sized to the script for development.
type StubSynthesizer struct {
	format wav.Format
}

// NewStubSynthesizer constructs StubSynthesizer.
func NewStubSynthesizer() *StubSynthesizer {
	return &StubSynthesizer{format: wav.DefaultFormat}
}

// Synthesize returns base64 16-bit mono PCM, a quarter second per word.
func (s *StubSynthesizer) Synthesize(ctx context.Context, req scripts.SynthesisRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	words := len(strings.Fields(req.Text))
	frames := int(float64(words) * stubWordSeconds * float64(s.format.SampleRate))

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: s.format.Channels, SampleRate: s.format.SampleRate},
		SourceBitDepth: s.format.BitsPerSample,
		Data:           make([]int, frames*s.format.Channels),
	}
	peak := stubAmplitude * math.MaxInt16
	for i := 0; i < frames; i++ {
		v := int(peak * math.Sin(2*math.Pi*stubToneHz*float64(i)/float64(s.format.SampleRate)))
		for ch := 0; ch < s.format.Channels; ch++ {
			buf.Data[i*s.format.Channels+ch] = v
		}
	}

	pcm := make([]byte, 2*len(buf.Data))
	for i, v := range buf.Data {
		binary.LittleEndian.PutUint16(pcm[2*i:], uint16(int16(v)))
	}
	return base64.StdEncoding.EncodeToString(pcm), nil
}
