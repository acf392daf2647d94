package playback

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/wav"
	gomp3 "github.com/hajimehoshi/go-mp3"
)

// Decode turns a WAV or MP3 container into a Buffer.
func Decode(data []byte) (*Buffer, error) {
	switch {
	case isWAV(data):
		return decodeWAV(data)
	case isMP3(data):
		return decodeMP3(data)
	default:
		return nil, fmt.Errorf("%w: unrecognised container", ErrDecode)
	}
}

func isWAV(data []byte) bool {
	return len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WAVE"
}

func isMP3(data []byte) bool {
	if len(data) >= 3 && string(data[0:3]) == "ID3" {
		return true
	}
	// MPEG audio frame sync: 11 set bits
	return len(data) >= 2 && data[0] == 0xFF && data[1]&0xE0 == 0xE0
}

func decodeWAV(data []byte) (*Buffer, error) {
	// IsValidFile rejects zero-length data chunks, which are valid here.
	dec := wav.NewDecoder(bytes.NewReader(data))
	pcm, err := dec.FullPCMBuffer()
	// a trailing partial sample surfaces as a short read
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if pcm == nil || pcm.Format == nil {
		return nil, fmt.Errorf("%w: missing pcm data", ErrDecode)
	}

	channels := pcm.Format.NumChannels
	sampleRate := pcm.Format.SampleRate
	bitDepth := pcm.SourceBitDepth
	if channels <= 0 || sampleRate <= 0 || bitDepth <= 0 {
		return nil, fmt.Errorf("%w: bad format (channels=%d rate=%d bits=%d)", ErrDecode, channels, sampleRate, bitDepth)
	}

	samples := pcm.Data
	bytesPerSample := (bitDepth-1)/8 + 1
	// go-audio pads odd data chunks to an even length and decodes the pad
	// byte, so the declared chunk size bounds the whole samples.
	if size, ok := dataChunkSize(data); ok {
		if whole := size / bytesPerSample; whole < len(samples) {
			samples = samples[:whole]
		}
	}
	samples = samples[:len(samples)-len(samples)%channels]

	scale := float32(int64(1) << (bitDepth - 1))
	out := make([]float32, len(samples))
	for i, v := range samples {
		if bitDepth == 8 {
			// 8-bit WAV is unsigned
			v -= 128
		}
		out[i] = float32(v) / scale
	}

	return &Buffer{
		SampleRate: sampleRate,
		Channels:   channels,
		Data:       out,
	}, nil
}

// dataChunkSize returns the size field of the first "data" chunk.
func dataChunkSize(data []byte) (int, bool) {
	for off := 12; off+8 <= len(data); {
		id := string(data[off : off+4])
		size := int(binary.LittleEndian.Uint32(data[off+4 : off+8]))
		if id == "data" {
			return size, true
		}
		off += 8 + size + size&1
	}
	return 0, false
}

func decodeMP3(data []byte) (*Buffer, error) {
	dec, err := gomp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	// go-mp3 always yields 16-bit little-endian stereo
	const channels = 2
	n := len(raw) / 2
	n -= n % channels
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		v := int16(uint16(raw[2*i]) | uint16(raw[2*i+1])<<8)
		out[i] = float32(v) / 32768.0
	}

	return &Buffer{
		SampleRate: dec.SampleRate(),
		Channels:   channels,
		Data:       out,
	}, nil
}
