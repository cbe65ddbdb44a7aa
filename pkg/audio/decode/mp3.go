// ABOUTME: MP3 audio decoder
// ABOUTME: Decodes MP3 speech payloads to float buffers
package decode

import (
	"bytes"
	"fmt"
	"io"

	"github.com/GeorgeYL/LingoPop/pkg/audio"
	"github.com/hajimehoshi/go-mp3"
)

// MP3Decoder decodes MP3 audio. Some synthesis backends return MP3
// instead of raw PCM; go-mp3 always emits 16-bit stereo PCM at the
// source sample rate.
type MP3Decoder struct {
	format audio.Format
}

// NewMP3 creates a new MP3 decoder
func NewMP3(format audio.Format) (Decoder, error) {
	if format.Codec != "mp3" {
		return nil, fmt.Errorf("invalid codec for MP3 decoder: %s", format.Codec)
	}

	return &MP3Decoder{format: format}, nil
}

// Decode converts a complete MP3 payload to a float buffer
func (d *MP3Decoder) Decode(data []byte) (*audio.Buffer, error) {
	dec, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create mp3 decoder: %w", err)
	}

	pcm, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("mp3 decode error: %w", err)
	}

	// go-mp3 output is interleaved 16-bit LE stereo
	return DecodePCM16(pcm, dec.SampleRate(), 2)
}

// Close releases decoder resources
func (d *MP3Decoder) Close() error {
	return nil
}
