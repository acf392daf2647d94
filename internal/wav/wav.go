package wav

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"time"
)

const (
	// HeaderSize is the length of the canonical RIFF/WAVE header written by Encode.
	HeaderSize = 44

	// MIMEType is the content type of an encoded container.
	MIMEType = "audio/wav"

	fmtChunkSize = 16
	formatPCM    = 1
)

// ErrInvalidPayload signals a base64 payload that cannot be decoded.
var ErrInvalidPayload = errors.New("invalid audio payload")

// Format describes the raw PCM stream wrapped by the container.
type Format struct {
	SampleRate    int
	Channels      int
	BitsPerSample int
}

// DefaultFormat matches the speech service output: 24 kHz mono 16-bit.
var DefaultFormat = Format{
	SampleRate:    24000,
	Channels:      1,
	BitsPerSample: 16,
}

// BlockAlign is the size in bytes of one frame.
func (f Format) BlockAlign() int {
	return f.Channels * f.BitsPerSample / 8
}

// ByteRate is the number of payload bytes per second of audio.
func (f Format) ByteRate() int {
	return f.SampleRate * f.BlockAlign()
}

// Encode wraps payload in a WAV container. The payload is copied as-is;
// its length is not checked against the frame size.
func Encode(payload []byte, f Format) []byte {
	dataSize := uint32(len(payload))
	out := make([]byte, HeaderSize+len(payload))

	// RIFF header
	copy(out[0:4], "RIFF")
	binary.LittleEndian.PutUint32(out[4:8], 36+dataSize)
	copy(out[8:12], "WAVE")

	// fmt chunk
	copy(out[12:16], "fmt ")
	binary.LittleEndian.PutUint32(out[16:20], fmtChunkSize)
	binary.LittleEndian.PutUint16(out[20:22], formatPCM)
	binary.LittleEndian.PutUint16(out[22:24], uint16(f.Channels))
	binary.LittleEndian.PutUint32(out[24:28], uint32(f.SampleRate))
	binary.LittleEndian.PutUint32(out[28:32], uint32(f.ByteRate()))
	binary.LittleEndian.PutUint16(out[32:34], uint16(f.BlockAlign()))
	binary.LittleEndian.PutUint16(out[34:36], uint16(f.BitsPerSample))

	// data chunk
	copy(out[36:40], "data")
	binary.LittleEndian.PutUint32(out[40:44], dataSize)
	copy(out[HeaderSize:], payload)

	return out
}

// EncodeBase64 decodes a base64 PCM payload and wraps it with Encode.
func EncodeBase64(b64 string, f Format) ([]byte, error) {
	payload, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	return Encode(payload, f), nil
}

// Duration reports how long payloadLen bytes of PCM in format f play for.
func Duration(payloadLen int, f Format) time.Duration {
	rate := f.ByteRate()
	if rate <= 0 {
		return 0
	}
	return time.Duration(float64(payloadLen) / float64(rate) * float64(time.Second))
}
