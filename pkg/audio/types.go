// ABOUTME: Audio type definitions
// ABOUTME: Defines stream formats, decoded buffers, and sample conversions
package audio

// Speech synthesis contract: the generative TTS backend always returns
// raw 16-bit PCM at 24000 Hz mono.
const (
	SpeechSampleRate = 24000
	SpeechChannels   = 1
	SpeechBitDepth   = 16
)

// Format describes an audio stream format
type Format struct {
	Codec      string
	SampleRate int
	Channels   int
	BitDepth   int
}

// SpeechFormat returns the fixed format of synthesized speech
func SpeechFormat() Format {
	return Format{
		Codec:      "pcm",
		SampleRate: SpeechSampleRate,
		Channels:   SpeechChannels,
		BitDepth:   SpeechBitDepth,
	}
}

// Buffer holds decoded PCM audio as normalized float samples.
// Data is keyed by channel index; every channel slice has the same
// length (the frame count).
type Buffer struct {
	SampleRate int
	Data       [][]float32
}

// Channels returns the number of channels
func (b *Buffer) Channels() int {
	return len(b.Data)
}

// FrameCount returns the number of frames per channel
func (b *Buffer) FrameCount() int {
	if len(b.Data) == 0 {
		return 0
	}
	return len(b.Data[0])
}

// Int16ToFloat converts a 16-bit PCM sample to a normalized float.
// The divisor is 32768 for both polarities, so the maximum positive
// sample maps to 32767/32768 rather than exactly 1.0. This matches the
// standard PCM-to-float convention and must not be "fixed".
func Int16ToFloat(s int16) float32 {
	return float32(s) / 32768.0
}

// FloatToInt16 converts a normalized float back to a 16-bit PCM sample,
// rounding to nearest and clamping to the int16 range.
func FloatToInt16(f float32) int16 {
	var v int32
	if f >= 0 {
		v = int32(f*32768.0 + 0.5)
	} else {
		v = int32(f*32768.0 - 0.5)
	}
	if v > 32767 {
		v = 32767
	}
	if v < -32768 {
		v = -32768
	}
	return int16(v)
}
