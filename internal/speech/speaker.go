// ABOUTME: Speech synthesis orchestration
// ABOUTME: Synthesize, decode, and play with platform TTS fallback
package speech

import (
	"context"
	"fmt"
	"log"

	"github.com/GeorgeYL/LingoPop/pkg/audio"
	"github.com/GeorgeYL/LingoPop/pkg/audio/decode"
)

// Synthesizer converts text to raw PCM bytes.
// Concrete implementation wraps the generative backend.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, audio.Format, error)
}

// Sink plays one decoded buffer to completion
type Sink interface {
	Play(*audio.Buffer) error
}

// Fallback speaks raw text through a platform capability when the
// primary synthesis path fails
type Fallback interface {
	Say(ctx context.Context, text string) error
}

// Speaker reads text aloud: synthesize, decode, play. On any failure
// of the primary path it falls back to platform text-to-speech.
type Speaker struct {
	synth    Synthesizer
	sink     Sink
	fallback Fallback
}

// NewSpeaker creates a speaker. fallback may be nil to disable it.
func NewSpeaker(synth Synthesizer, sink Sink, fallback Fallback) *Speaker {
	return &Speaker{
		synth:    synth,
		sink:     sink,
		fallback: fallback,
	}
}

// Speak reads text aloud through the primary path, falling back to
// platform TTS on failure. The returned error is the primary error if
// the fallback also fails.
func (s *Speaker) Speak(ctx context.Context, text string) error {
	err := s.speakPrimary(ctx, text)
	if err == nil {
		return nil
	}

	if s.fallback == nil {
		return err
	}

	log.Printf("Primary speech path failed, using fallback: %v", err)
	if fbErr := s.fallback.Say(ctx, text); fbErr != nil {
		return fmt.Errorf("speech failed (fallback: %v): %w", fbErr, err)
	}

	return nil
}

// speakPrimary runs the synthesize → decode → play pipeline
func (s *Speaker) speakPrimary(ctx context.Context, text string) error {
	data, format, err := s.synth.Synthesize(ctx, text)
	if err != nil {
		return fmt.Errorf("synthesis failed: %w", err)
	}

	buf, err := decode.DecodePCM16(data, format.SampleRate, format.Channels)
	if err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}

	if err := s.sink.Play(buf); err != nil {
		return fmt.Errorf("playback failed: %w", err)
	}

	return nil
}
