// ABOUTME: Audio output using oto library
// ABOUTME: Plays decoded float buffers with software volume control
package player

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"log"
	"time"

	"github.com/GeorgeYL/LingoPop/pkg/audio"
	"github.com/ebitengine/oto/v3"
)

// Output manages the platform audio output. The oto context is an
// explicitly constructed resource owned by this type; callers create an
// Output, Initialize it for a format, and Close it when done.
type Output struct {
	otoCtx *oto.Context
	format audio.Format
	volume int
	muted  bool
	ready  bool
}

// NewOutput creates an audio output
func NewOutput() *Output {
	return &Output{
		volume: 100,
		muted:  false,
	}
}

// Initialize sets up oto with the specified format
func (o *Output) Initialize(format audio.Format) error {
	if format.SampleRate <= 0 || format.Channels <= 0 {
		return fmt.Errorf("invalid output format: %dHz, %d channels",
			format.SampleRate, format.Channels)
	}

	op := &oto.NewContextOptions{
		SampleRate:   format.SampleRate,
		ChannelCount: format.Channels,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return fmt.Errorf("failed to create oto context: %w", err)
	}

	<-readyChan

	o.otoCtx = ctx
	o.format = format
	o.ready = true

	log.Printf("Audio output initialized: %dHz, %d channels",
		format.SampleRate, format.Channels)

	return nil
}

// Format returns the initialized output format
func (o *Output) Format() audio.Format {
	return o.format
}

// Play plays a decoded buffer and blocks until playback finishes
func (o *Output) Play(buf *audio.Buffer) error {
	if !o.ready {
		return fmt.Errorf("output not initialized")
	}
	if buf.Channels() != o.format.Channels {
		return fmt.Errorf("buffer has %d channels, output expects %d",
			buf.Channels(), o.format.Channels)
	}

	data := interleave(buf, o.volume, o.muted)
	if len(data) == 0 {
		return nil
	}

	player := o.otoCtx.NewPlayer(bytes.NewReader(data))
	player.Play()
	for player.IsPlaying() {
		time.Sleep(10 * time.Millisecond)
	}

	return player.Close()
}

// SetVolume sets the volume (0-100)
func (o *Output) SetVolume(volume int) {
	if volume < 0 {
		volume = 0
	}
	if volume > 100 {
		volume = 100
	}
	o.volume = volume
}

// SetMuted sets mute state
func (o *Output) SetMuted(muted bool) {
	o.muted = muted
}

// GetVolume returns current volume
func (o *Output) GetVolume() int {
	return o.volume
}

// IsMuted returns mute state
func (o *Output) IsMuted() bool {
	return o.muted
}

// Close closes the audio output
func (o *Output) Close() {
	if o.otoCtx != nil {
		o.otoCtx.Suspend()
		o.ready = false
	}
}

// interleave re-quantizes per-channel floats to interleaved 16-bit LE
// bytes with volume applied
func interleave(buf *audio.Buffer, volume int, muted bool) []byte {
	frames := buf.FrameCount()
	channels := buf.Channels()
	multiplier := getVolumeMultiplier(volume, muted)

	out := make([]byte, frames*channels*2)
	for i := 0; i < frames; i++ {
		for c := 0; c < channels; c++ {
			sample := audio.FloatToInt16(buf.Data[c][i] * float32(multiplier))
			pos := (i*channels + c) * 2
			binary.LittleEndian.PutUint16(out[pos:], uint16(sample))
		}
	}

	return out
}

// getVolumeMultiplier calculates volume multiplier
func getVolumeMultiplier(volume int, muted bool) float64 {
	if muted {
		return 0.0
	}
	return float64(volume) / 100.0
}
