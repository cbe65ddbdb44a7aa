// ABOUTME: Tests for the live websocket session
// ABOUTME: Tests setup handshake and audio/text message routing
package genai

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestNewLive(t *testing.T) {
	live := NewLive(LiveConfig{
		BaseURL: "https://example.com",
		APIKey:  "test-key",
		Model:   "live-model",
		Voice:   "Kore",
	})

	if live == nil {
		t.Fatal("expected live session to be created")
	}
	if live.SessionID() == "" {
		t.Error("expected session ID to be assigned")
	}
}

func TestWSURL(t *testing.T) {
	tests := []struct {
		base     string
		expected string
	}{
		{"https://example.com", "wss://example.com"},
		{"http://localhost:8080", "ws://localhost:8080"},
		{"wss://already.ws", "wss://already.ws"},
	}

	for _, tt := range tests {
		if got := wsURL(tt.base); got != tt.expected {
			t.Errorf("%s: expected %s, got %s", tt.base, tt.expected, got)
		}
	}
}

// liveTestServer upgrades connections, acks setup, then streams one
// text part, one audio part, and a turn completion.
func liveTestServer(t *testing.T, pcm []byte) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		defer conn.Close()

		// Expect setup first
		var setup LiveClientMessage
		if err := conn.ReadJSON(&setup); err != nil {
			t.Errorf("failed to read setup: %v", err)
			return
		}
		if setup.Setup == nil || setup.Setup.Model != "live-model" {
			t.Error("expected setup message with live-model")
		}

		if err := conn.WriteJSON(LiveServerMessage{SetupComplete: &struct{}{}}); err != nil {
			return
		}

		// Wait for a user turn, then answer
		var turn LiveClientMessage
		if err := conn.ReadJSON(&turn); err != nil {
			return
		}

		resp := LiveServerMessage{
			ServerContent: &LiveServerContent{
				ModelTurn: &Content{
					Role: "model",
					Parts: []Part{
						{Text: "Once upon a time"},
						{InlineData: &Blob{
							MimeType: "audio/pcm;rate=24000",
							Data:     base64.StdEncoding.EncodeToString(pcm),
						}},
					},
				},
			},
		}
		if err := conn.WriteJSON(resp); err != nil {
			return
		}

		done := LiveServerMessage{
			ServerContent: &LiveServerContent{TurnComplete: true},
		}
		if err := conn.WriteJSON(done); err != nil {
			return
		}

		// Hold the connection open until the client hangs up
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
}

func TestLiveSession(t *testing.T) {
	pcm := []byte{0x01, 0x00, 0x02, 0x00}
	server := liveTestServer(t, pcm)
	defer server.Close()

	live := NewLive(LiveConfig{
		BaseURL: server.URL,
		APIKey:  "test-key",
		Model:   "live-model",
		Voice:   "Kore",
	})
	defer live.Close()

	if err := live.Connect(); err != nil {
		t.Fatalf("connect failed: %v", err)
	}

	if err := live.SendText("tell me a story"); err != nil {
		t.Fatalf("send failed: %v", err)
	}

	select {
	case text := <-live.Text:
		if text != "Once upon a time" {
			t.Errorf("unexpected text: %q", text)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for text")
	}

	select {
	case chunk := <-live.AudioChunks:
		if chunk.Seq != 0 {
			t.Errorf("expected first chunk seq 0, got %d", chunk.Seq)
		}
		if chunk.SampleRate != 24000 {
			t.Errorf("expected sample rate 24000, got %d", chunk.SampleRate)
		}
		if string(chunk.Data) != string(pcm) {
			t.Errorf("unexpected chunk data: %v", chunk.Data)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for audio chunk")
	}

	select {
	case <-live.TurnComplete:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for turn completion")
	}
}

func TestSendTextNotConnected(t *testing.T) {
	live := NewLive(LiveConfig{BaseURL: "https://example.com"})

	if err := live.SendText("hello"); err == nil {
		t.Fatal("expected error when not connected, got nil")
	}
}
