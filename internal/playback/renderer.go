package playback

import (
	"encoding/binary"
	"io"
	"math"
	"sync"
)

// Renderer reads a Buffer as signed 16-bit little-endian PCM in a fixed
// output format, stepping through source frames at the playback rate. The
// rate may change between reads.
type Renderer struct {
	buf         *Buffer
	outRate     int
	outChannels int

	mu   sync.Mutex
	pos  float64 // source frames
	rate float64
}

// NewRenderer builds a Renderer producing outRate Hz with outChannels.
func NewRenderer(buf *Buffer, outRate, outChannels int) *Renderer {
	return &Renderer{
		buf:         buf,
		outRate:     outRate,
		outChannels: outChannels,
		rate:        DefaultRate,
	}
}

// SetRate sets the playback-rate multiplier.
func (r *Renderer) SetRate(rate float64) {
	r.mu.Lock()
	r.rate = rate
	r.mu.Unlock()
}

// Seek moves to offset seconds into the buffer.
func (r *Renderer) Seek(offset float64) {
	r.mu.Lock()
	r.pos = offset * float64(r.buf.SampleRate)
	r.mu.Unlock()
}

// Read implements io.Reader. It returns io.EOF once the buffer is exhausted.
func (r *Renderer) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	frameBytes := 2 * r.outChannels
	frames := r.buf.Frames()
	if int(r.pos) >= frames {
		return 0, io.EOF
	}

	step := r.rate * float64(r.buf.SampleRate) / float64(r.outRate)
	n := 0
	for n+frameBytes <= len(p) {
		idx := int(r.pos)
		if idx >= frames {
			break
		}
		for ch := 0; ch < r.outChannels; ch++ {
			binary.LittleEndian.PutUint16(p[n+2*ch:], uint16(toInt16(r.sample(idx, ch))))
		}
		n += frameBytes
		r.pos += step
	}
	return n, nil
}

// sample maps source channels onto output channel ch.
func (r *Renderer) sample(idx, ch int) float32 {
	src := r.buf.Channels
	base := idx * src
	switch {
	case src == r.outChannels:
		return r.buf.Data[base+ch]
	case src == 1:
		return r.buf.Data[base]
	case r.outChannels == 1:
		var sum float32
		for i := 0; i < src; i++ {
			sum += r.buf.Data[base+i]
		}
		return sum / float32(src)
	default:
		return r.buf.Data[base+min(ch, src-1)]
	}
}

func toInt16(v float32) int16 {
	scaled := math.Round(float64(v) * 32767)
	if scaled > math.MaxInt16 {
		return math.MaxInt16
	}
	if scaled < math.MinInt16 {
		return math.MinInt16
	}
	return int16(scaled)
}
