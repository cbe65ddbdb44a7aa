// ABOUTME: Live websocket session with the generative backend
// ABOUTME: Streams text and base64 PCM audio chunks for story and chat
package genai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// LiveConfig holds live session settings
type LiveConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Voice   string
}

// AudioChunk is one decoded audio fragment of a model turn. Seq orders
// chunks within the session; the playback queue replays them in order.
type AudioChunk struct {
	Seq        int64
	SampleRate int
	Data       []byte // raw 16-bit PCM
}

// Live is a websocket session streaming model output incrementally
type Live struct {
	config    LiveConfig
	sessionID string
	conn      *websocket.Conn
	mu        sync.RWMutex
	connected bool
	seq       int64

	// Message channels
	AudioChunks  chan AudioChunk
	Text         chan string
	TurnComplete chan struct{}

	ctx    context.Context
	cancel context.CancelFunc
}

// NewLive creates a live session handle
func NewLive(config LiveConfig) *Live {
	ctx, cancel := context.WithCancel(context.Background())

	return &Live{
		config:       config,
		sessionID:    uuid.NewString(),
		AudioChunks:  make(chan AudioChunk, 100),
		Text:         make(chan string, 10),
		TurnComplete: make(chan struct{}, 1),
		ctx:          ctx,
		cancel:       cancel,
	}
}

// SessionID returns the session identifier
func (l *Live) SessionID() string {
	return l.sessionID
}

// Connect dials the backend and performs the setup handshake
func (l *Live) Connect() error {
	url := wsURL(l.config.BaseURL) + "/v1beta/live?key=" + l.config.APIKey
	log.Printf("Live session %s: connecting", l.sessionID)

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return fmt.Errorf("dial failed: %w", err)
	}

	l.mu.Lock()
	l.conn = conn
	l.connected = true
	l.mu.Unlock()

	if err := l.setup(); err != nil {
		l.Close()
		return fmt.Errorf("setup failed: %w", err)
	}

	go l.readMessages()

	return nil
}

// setup sends the session config and waits for the ack
func (l *Live) setup() error {
	msg := LiveClientMessage{
		Setup: &LiveSetup{
			Model: l.config.Model,
			GenerationConfig: &GenerationConfig{
				ResponseModalities: []string{"AUDIO", "TEXT"},
				SpeechConfig: &SpeechConfig{
					VoiceConfig: VoiceConfig{
						PrebuiltVoiceConfig: PrebuiltVoiceConfig{
							VoiceName: l.config.Voice,
						},
					},
				},
			},
		},
	}

	if err := l.sendJSON(msg); err != nil {
		return fmt.Errorf("failed to send setup: %w", err)
	}

	l.conn.SetReadDeadline(time.Now().Add(10 * time.Second))
	_, data, err := l.conn.ReadMessage()
	if err != nil {
		return fmt.Errorf("failed to read setup ack: %w", err)
	}
	l.conn.SetReadDeadline(time.Time{})

	var ack LiveServerMessage
	if err := json.Unmarshal(data, &ack); err != nil {
		return fmt.Errorf("failed to parse setup ack: %w", err)
	}
	if ack.SetupComplete == nil {
		return fmt.Errorf("expected setupComplete, got %s", data)
	}

	log.Printf("Live session %s: setup complete", l.sessionID)
	return nil
}

// SendText sends one user turn
func (l *Live) SendText(text string) error {
	msg := LiveClientMessage{
		ClientContent: &LiveClientContent{
			Turns: []Content{{
				Role:  "user",
				Parts: []Part{{Text: text}},
			}},
			TurnComplete: true,
		},
	}
	return l.sendJSON(msg)
}

// sendJSON sends a JSON message
func (l *Live) sendJSON(msg LiveClientMessage) error {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if !l.connected {
		return fmt.Errorf("not connected")
	}

	return l.conn.WriteJSON(msg)
}

// readMessages reads and routes incoming messages
func (l *Live) readMessages() {
	defer l.Close()

	for {
		select {
		case <-l.ctx.Done():
			return
		default:
		}

		_, data, err := l.conn.ReadMessage()
		if err != nil {
			log.Printf("Live session %s: read error: %v", l.sessionID, err)
			return
		}

		var msg LiveServerMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("Live session %s: failed to parse message: %v", l.sessionID, err)
			continue
		}

		if msg.ServerContent != nil {
			l.handleServerContent(msg.ServerContent)
		}
	}
}

// handleServerContent routes one model turn fragment
func (l *Live) handleServerContent(content *LiveServerContent) {
	if content.ModelTurn != nil {
		for _, part := range content.ModelTurn.Parts {
			switch {
			case part.Text != "":
				select {
				case l.Text <- part.Text:
				case <-l.ctx.Done():
					return
				}

			case part.InlineData != nil && strings.HasPrefix(part.InlineData.MimeType, "audio/"):
				data, err := base64.StdEncoding.DecodeString(part.InlineData.Data)
				if err != nil {
					log.Printf("Live session %s: invalid audio payload: %v", l.sessionID, err)
					continue
				}

				chunk := AudioChunk{
					Seq:        l.seq,
					SampleRate: pcmRate(part.InlineData.MimeType),
					Data:       data,
				}
				l.seq++

				select {
				case l.AudioChunks <- chunk:
				case <-l.ctx.Done():
					return
				}
			}
		}
	}

	if content.TurnComplete {
		select {
		case l.TurnComplete <- struct{}{}:
		default:
		}
	}
}

// Close tears down the session
func (l *Live) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.connected {
		l.conn.Close()
		l.connected = false
	}
	l.cancel()
}

// wsURL rewrites an HTTP base URL to its websocket scheme
func wsURL(base string) string {
	switch {
	case strings.HasPrefix(base, "https://"):
		return "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		return "ws://" + strings.TrimPrefix(base, "http://")
	default:
		return base
	}
}
