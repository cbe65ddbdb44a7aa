// ABOUTME: Tests for PCM decoder
// ABOUTME: Tests sample-exact decoding, interleaving, and edge cases
package decode

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/GeorgeYL/LingoPop/pkg/audio"
)

func TestDecodePCM16Mono(t *testing.T) {
	// Two little-endian int16 values: 0 and 32767
	input := []byte{0x00, 0x00, 0xFF, 0x7F}

	buf, err := DecodePCM16(input, 24000, 1)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if buf.SampleRate != 24000 {
		t.Errorf("expected sample rate 24000, got %d", buf.SampleRate)
	}
	if buf.Channels() != 1 {
		t.Fatalf("expected 1 channel, got %d", buf.Channels())
	}
	if buf.FrameCount() != 2 {
		t.Fatalf("expected 2 frames, got %d", buf.FrameCount())
	}

	if buf.Data[0][0] != 0.0 {
		t.Errorf("expected first sample 0.0, got %v", buf.Data[0][0])
	}

	// Max positive sample maps to 32767/32768, not 1.0
	expected := float32(32767.0 / 32768.0)
	if buf.Data[0][1] != expected {
		t.Errorf("expected second sample %v, got %v", expected, buf.Data[0][1])
	}
}

func TestDecodePCM16StereoInterleave(t *testing.T) {
	// Four int16 samples [100, -100, 200, -200] interleaved for 2 channels
	samples := []int16{100, -100, 200, -200}
	input := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(input[i*2:], uint16(s))
	}

	buf, err := DecodePCM16(input, 48000, 2)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if buf.Channels() != 2 {
		t.Fatalf("expected 2 channels, got %d", buf.Channels())
	}
	if buf.FrameCount() != 2 {
		t.Fatalf("expected 2 frames, got %d", buf.FrameCount())
	}

	left := []float32{100.0 / 32768.0, 200.0 / 32768.0}
	right := []float32{-100.0 / 32768.0, -200.0 / 32768.0}

	for i := range left {
		if buf.Data[0][i] != left[i] {
			t.Errorf("channel 0 frame %d: expected %v, got %v", i, left[i], buf.Data[0][i])
		}
		if buf.Data[1][i] != right[i] {
			t.Errorf("channel 1 frame %d: expected %v, got %v", i, right[i], buf.Data[1][i])
		}
	}
}

func TestDecodePCM16DanglingByte(t *testing.T) {
	// 5 bytes: the final byte cannot form an int16 and is dropped
	input := []byte{0x01, 0x00, 0x02, 0x00, 0x03}

	buf, err := DecodePCM16(input, 24000, 1)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if buf.FrameCount() != 2 {
		t.Errorf("expected 2 frames, got %d", buf.FrameCount())
	}
}

func TestDecodePCM16IncompleteFrame(t *testing.T) {
	// 3 int16 samples for 2 channels: only one full frame, the odd
	// trailing sample is dropped
	input := []byte{0x01, 0x00, 0x02, 0x00, 0x03, 0x00}

	buf, err := DecodePCM16(input, 24000, 2)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if buf.FrameCount() != 1 {
		t.Errorf("expected 1 frame, got %d", buf.FrameCount())
	}
	if len(buf.Data[0]) != 1 || len(buf.Data[1]) != 1 {
		t.Errorf("expected both channels to hold 1 sample, got %d and %d",
			len(buf.Data[0]), len(buf.Data[1]))
	}
}

func TestDecodePCM16Empty(t *testing.T) {
	for _, channels := range []int{1, 2, 8} {
		buf, err := DecodePCM16([]byte{}, 24000, channels)
		if err != nil {
			t.Fatalf("decode failed with empty input, %d channels: %v", channels, err)
		}

		if buf.FrameCount() != 0 {
			t.Errorf("%d channels: expected 0 frames, got %d", channels, buf.FrameCount())
		}
		if buf.Channels() != channels {
			t.Errorf("expected %d channel slices, got %d", channels, buf.Channels())
		}
	}
}

func TestDecodePCM16InvalidChannels(t *testing.T) {
	for _, channels := range []int{0, -1} {
		buf, err := DecodePCM16([]byte{0x00, 0x00}, 24000, channels)
		if err == nil {
			t.Fatalf("expected error for %d channels, got nil", channels)
		}
		if !errors.Is(err, ErrInvalidChannels) {
			t.Errorf("expected ErrInvalidChannels, got %v", err)
		}
		if buf != nil {
			t.Errorf("expected nil buffer for %d channels", channels)
		}
	}
}

func TestDecodePCM16InvalidSampleRate(t *testing.T) {
	_, err := DecodePCM16([]byte{0x00, 0x00}, 0, 1)
	if !errors.Is(err, ErrInvalidSampleRate) {
		t.Errorf("expected ErrInvalidSampleRate, got %v", err)
	}
}

func TestDecodePCM16ChannelLengthInvariant(t *testing.T) {
	// 7 int16 samples across 3 channels: 2 full frames, 1 dropped sample
	input := make([]byte, 14)
	for i := 0; i < 7; i++ {
		binary.LittleEndian.PutUint16(input[i*2:], uint16(int16(i+1)))
	}

	buf, err := DecodePCM16(input, 24000, 3)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if buf.FrameCount() != 2 {
		t.Fatalf("expected 2 frames, got %d", buf.FrameCount())
	}
	for c := 0; c < 3; c++ {
		if len(buf.Data[c]) != 2 {
			t.Errorf("channel %d: expected 2 samples, got %d", c, len(buf.Data[c]))
		}
	}
}

func TestDecodePCM16RoundTrip(t *testing.T) {
	// Decoding then re-quantizing must reproduce the original samples
	samples := []int16{0, 1, -1, 100, -100, 12345, -12345, 32767, -32768}
	input := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(input[i*2:], uint16(s))
	}

	for _, channels := range []int{1, 3} {
		buf, err := DecodePCM16(input, 24000, channels)
		if err != nil {
			t.Fatalf("decode failed: %v", err)
		}

		frames := len(samples) / channels
		if buf.FrameCount() != frames {
			t.Fatalf("%d channels: expected %d frames, got %d", channels, frames, buf.FrameCount())
		}

		for i := 0; i < frames; i++ {
			for c := 0; c < channels; c++ {
				want := samples[i*channels+c]
				got := audio.FloatToInt16(buf.Data[c][i])
				if got != want {
					t.Errorf("%d channels, frame %d, channel %d: expected %d, got %d",
						channels, i, c, want, got)
				}
			}
		}
	}
}

func TestDecodeBase64PCM(t *testing.T) {
	raw := []byte{0x00, 0x00, 0xFF, 0x7F}
	encoded := base64.StdEncoding.EncodeToString(raw)

	buf, err := DecodeBase64PCM(encoded, 24000, 1)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if buf.FrameCount() != 2 {
		t.Errorf("expected 2 frames, got %d", buf.FrameCount())
	}
	if buf.Data[0][1] != float32(32767.0/32768.0) {
		t.Errorf("expected max sample 32767/32768, got %v", buf.Data[0][1])
	}
}

func TestDecodeBase64PCMInvalid(t *testing.T) {
	_, err := DecodeBase64PCM("not valid base64!!!", 24000, 1)
	if err == nil {
		t.Fatal("expected error for invalid base64, got nil")
	}
}

func TestNewPCM(t *testing.T) {
	decoder, err := NewPCM(audio.SpeechFormat())
	if err != nil {
		t.Fatalf("failed to create decoder: %v", err)
	}
	defer decoder.Close()

	input := []byte{0x00, 0x40, 0x00, 0xC0}
	buf, err := decoder.Decode(input)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if buf.Data[0][0] != 0.5 {
		t.Errorf("expected 0.5, got %v", buf.Data[0][0])
	}
	if buf.Data[0][1] != -0.5 {
		t.Errorf("expected -0.5, got %v", buf.Data[0][1])
	}
}

func TestNewPCM_InvalidCodec(t *testing.T) {
	format := audio.Format{
		Codec:      "opus",
		SampleRate: 48000,
		Channels:   2,
		BitDepth:   16,
	}

	decoder, err := NewPCM(format)
	if err == nil {
		t.Fatal("expected error for invalid codec, got nil")
	}
	if decoder != nil {
		t.Fatal("expected decoder to be nil for invalid codec")
	}
}

func TestNewPCM_UnsupportedBitDepth(t *testing.T) {
	format := audio.Format{
		Codec:      "pcm",
		SampleRate: 24000,
		Channels:   1,
		BitDepth:   24,
	}

	if _, err := NewPCM(format); err == nil {
		t.Fatal("expected error for unsupported bit depth, got nil")
	}
}
