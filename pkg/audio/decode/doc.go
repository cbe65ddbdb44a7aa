// ABOUTME: Audio decoder package for synthesized speech payloads
// ABOUTME: Provides Decoder interface and PCM, MP3, Opus implementations
// Package decode provides audio decoders for the payload formats a
// speech synthesis backend may return.
//
// Supports: raw 16-bit PCM (the primary TTS path), MP3, Opus
//
// All decoders implement the Decoder interface and output normalized
// per-channel float32 buffers ready for the playback sink.
//
// Example:
//
//	buf, err := decode.DecodeBase64PCM(payload, 24000, 1)
package decode
