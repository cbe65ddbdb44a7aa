// ABOUTME: Opus audio decoder
// ABOUTME: Decodes Opus speech frames to float buffers
package decode

import (
	"fmt"

	"github.com/GeorgeYL/LingoPop/pkg/audio"
	"gopkg.in/hraban/opus.v2"
)

// OpusDecoder decodes Opus audio frames
type OpusDecoder struct {
	decoder *opus.Decoder
	format  audio.Format
}

// NewOpus creates a new Opus decoder
func NewOpus(format audio.Format) (Decoder, error) {
	if format.Codec != "opus" {
		return nil, fmt.Errorf("invalid codec for Opus decoder: %s", format.Codec)
	}

	dec, err := opus.NewDecoder(format.SampleRate, format.Channels)
	if err != nil {
		return nil, fmt.Errorf("failed to create opus decoder: %w", err)
	}

	return &OpusDecoder{
		decoder: dec,
		format:  format,
	}, nil
}

// Decode converts one Opus frame to a float buffer
func (d *OpusDecoder) Decode(data []byte) (*audio.Buffer, error) {
	// Max Opus frame size is 5760 samples per channel at 48kHz
	pcm16 := make([]int16, 5760*d.format.Channels)

	n, err := d.decoder.Decode(data, pcm16)
	if err != nil {
		return nil, fmt.Errorf("opus decode failed: %w", err)
	}

	channels := d.format.Channels
	out := make([][]float32, channels)
	for c := range out {
		out[c] = make([]float32, n)
	}
	for i := 0; i < n; i++ {
		for c := 0; c < channels; c++ {
			out[c][i] = audio.Int16ToFloat(pcm16[i*channels+c])
		}
	}

	return &audio.Buffer{
		SampleRate: d.format.SampleRate,
		Data:       out,
	}, nil
}

// Close releases decoder resources
func (d *OpusDecoder) Close() error {
	return nil
}
