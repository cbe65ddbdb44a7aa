// ABOUTME: PCM audio decoder
// ABOUTME: Decodes interleaved little-endian 16-bit PCM to float buffers
package decode

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/GeorgeYL/LingoPop/pkg/audio"
)

var (
	// ErrInvalidChannels is returned for a non-positive channel count
	ErrInvalidChannels = errors.New("channel count must be positive")

	// ErrInvalidSampleRate is returned for a non-positive sample rate
	ErrInvalidSampleRate = errors.New("sample rate must be positive")
)

// DecodePCM16 converts interleaved little-endian 16-bit PCM bytes to
// one normalized float sequence per channel. Sample i of channel c sits
// at position i*channels+c in the int16 stream. Each sample is divided
// by 32768, so the maximum positive value is 32767/32768, not 1.0.
//
// Trailing bytes that do not form a complete frame across all channels
// are dropped silently. Empty input yields a zero-frame buffer. The
// function is pure and safe for concurrent use.
func DecodePCM16(data []byte, sampleRate, channels int) (*audio.Buffer, error) {
	if channels <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChannels, channels)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSampleRate, sampleRate)
	}

	totalSamples := len(data) / 2
	frames := totalSamples / channels

	out := make([][]float32, channels)
	for c := range out {
		out[c] = make([]float32, frames)
	}

	for i := 0; i < frames; i++ {
		for c := 0; c < channels; c++ {
			pos := (i*channels + c) * 2
			sample := int16(binary.LittleEndian.Uint16(data[pos:]))
			out[c][i] = audio.Int16ToFloat(sample)
		}
	}

	return &audio.Buffer{
		SampleRate: sampleRate,
		Data:       out,
	}, nil
}

// DecodeBase64PCM decodes a base64 payload (standard RFC 4648 alphabet,
// as received from the speech synthesis call) and converts it with
// DecodePCM16.
func DecodeBase64PCM(encoded string, sampleRate, channels int) (*audio.Buffer, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 audio payload: %w", err)
	}
	return DecodePCM16(data, sampleRate, channels)
}

// PCMDecoder decodes raw 16-bit PCM speech payloads
type PCMDecoder struct {
	format audio.Format
}

// NewPCM creates a new PCM decoder
func NewPCM(format audio.Format) (Decoder, error) {
	if format.Codec != "pcm" {
		return nil, fmt.Errorf("invalid codec for PCM decoder: %s", format.Codec)
	}
	if format.BitDepth != 16 {
		return nil, fmt.Errorf("unsupported bit depth: %d (supported: 16)", format.BitDepth)
	}
	if format.Channels <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChannels, format.Channels)
	}
	if format.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSampleRate, format.SampleRate)
	}

	return &PCMDecoder{format: format}, nil
}

// Decode converts PCM bytes to a float buffer
func (d *PCMDecoder) Decode(data []byte) (*audio.Buffer, error) {
	return DecodePCM16(data, d.format.SampleRate, d.format.Channels)
}

// Close releases resources
func (d *PCMDecoder) Close() error {
	return nil
}
