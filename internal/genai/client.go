// ABOUTME: REST client for the generative language backend
// ABOUTME: Dictionary lookups, illustrations, and speech synthesis
package genai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/GeorgeYL/LingoPop/pkg/audio"
)

var (
	// ErrNoCandidates is returned when the backend produces no answer
	ErrNoCandidates = errors.New("no candidates in response")

	// ErrNoAudio is returned when a synthesis response carries no audio part
	ErrNoAudio = errors.New("no audio data in response")

	// ErrNoImage is returned when an image response carries no image part
	ErrNoImage = errors.New("no image data in response")
)

// ClientConfig holds backend connection settings
type ClientConfig struct {
	BaseURL     string
	APIKey      string
	TextModel   string
	ImageModel  string
	SpeechModel string
	Voice       string
	Language    string
}

// Client calls the generative backend over HTTP
type Client struct {
	config     ClientConfig
	httpClient *http.Client
}

// NewClient creates a backend client
func NewClient(config ClientConfig) *Client {
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Lookup asks the text model for a structured dictionary entry
func (c *Client) Lookup(ctx context.Context, word string) (*Entry, error) {
	prompt := fmt.Sprintf(
		"Give a dictionary entry for the %s word %q as JSON with fields: "+
			"word, phonetic, senses (array of {pos, definition, cefr_level, "+
			"translation, examples: [{sentence, translation}]}). "+
			"Keep definitions short and learner-friendly.",
		c.config.Language, word)

	req := GenerateRequest{
		Contents: []Content{{
			Role:  "user",
			Parts: []Part{{Text: prompt}},
		}},
		GenerationConfig: &GenerationConfig{
			ResponseMimeType: "application/json",
		},
	}

	resp, err := c.generate(ctx, c.config.TextModel, req)
	if err != nil {
		return nil, err
	}

	text, err := firstText(resp)
	if err != nil {
		return nil, err
	}

	var entry Entry
	if err := json.Unmarshal([]byte(text), &entry); err != nil {
		return nil, fmt.Errorf("failed to parse dictionary entry: %w", err)
	}
	if entry.Word == "" {
		entry.Word = word
	}

	return &entry, nil
}

// Illustrate asks the image model for a word illustration. Returns the
// raw image bytes and their mime type.
func (c *Client) Illustrate(ctx context.Context, word, definition string) ([]byte, string, error) {
	prompt := fmt.Sprintf(
		"A simple, friendly flashcard illustration of %q (%s). "+
			"Flat colors, no text in the image.",
		word, definition)

	req := GenerateRequest{
		Contents: []Content{{
			Role:  "user",
			Parts: []Part{{Text: prompt}},
		}},
		GenerationConfig: &GenerationConfig{
			ResponseModalities: []string{"IMAGE"},
		},
	}

	resp, err := c.generate(ctx, c.config.ImageModel, req)
	if err != nil {
		return nil, "", err
	}

	blob, err := firstBlob(resp, "image/")
	if err != nil {
		return nil, "", ErrNoImage
	}

	data, err := base64.StdEncoding.DecodeString(blob.Data)
	if err != nil {
		return nil, "", fmt.Errorf("invalid base64 image payload: %w", err)
	}

	return data, blob.MimeType, nil
}

// Synthesize asks the speech model to read text aloud. Returns raw
// 16-bit PCM bytes and their format; the caller decodes and plays them.
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, audio.Format, error) {
	req := GenerateRequest{
		Contents: []Content{{
			Role:  "user",
			Parts: []Part{{Text: text}},
		}},
		GenerationConfig: &GenerationConfig{
			ResponseModalities: []string{"AUDIO"},
			SpeechConfig: &SpeechConfig{
				VoiceConfig: VoiceConfig{
					PrebuiltVoiceConfig: PrebuiltVoiceConfig{
						VoiceName: c.config.Voice,
					},
				},
			},
		},
	}

	resp, err := c.generate(ctx, c.config.SpeechModel, req)
	if err != nil {
		return nil, audio.Format{}, err
	}

	blob, err := firstBlob(resp, "audio/")
	if err != nil {
		return nil, audio.Format{}, ErrNoAudio
	}

	data, err := base64.StdEncoding.DecodeString(blob.Data)
	if err != nil {
		return nil, audio.Format{}, fmt.Errorf("invalid base64 audio payload: %w", err)
	}

	format := audio.SpeechFormat()
	format.SampleRate = pcmRate(blob.MimeType)

	return data, format, nil
}

// generate performs one generateContent call
func (c *Client) generate(ctx context.Context, model string, req GenerateRequest) (*GenerateResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.config.BaseURL, model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.config.APIKey)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("backend request failed: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		var apiErr APIError
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("backend error %d: %s", httpResp.StatusCode, apiErr.Error.Message)
		}
		return nil, fmt.Errorf("backend error: status %d", httpResp.StatusCode)
	}

	var resp GenerateResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return &resp, nil
}

// firstText returns the first text part of the first candidate
func firstText(resp *GenerateResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", ErrNoCandidates
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" {
			return part.Text, nil
		}
	}
	return "", fmt.Errorf("no text part in response")
}

// firstBlob returns the first inline data part with a mime type prefix
func firstBlob(resp *GenerateResponse, mimePrefix string) (*Blob, error) {
	if len(resp.Candidates) == 0 {
		return nil, ErrNoCandidates
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.InlineData != nil && strings.HasPrefix(part.InlineData.MimeType, mimePrefix) {
			return part.InlineData, nil
		}
	}
	return nil, fmt.Errorf("no %s* part in response", mimePrefix)
}

// pcmRate extracts the sample rate from a mime type such as
// "audio/pcm;rate=24000", defaulting to the TTS contract rate.
func pcmRate(mimeType string) int {
	for _, param := range strings.Split(mimeType, ";") {
		param = strings.TrimSpace(param)
		if value, ok := strings.CutPrefix(param, "rate="); ok {
			if rate, err := strconv.Atoi(value); err == nil && rate > 0 {
				return rate
			}
		}
	}
	return audio.SpeechSampleRate
}
