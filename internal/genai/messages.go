// ABOUTME: Wire types for the generative language backend
// ABOUTME: Defines generateContent JSON, live session messages, and entries
package genai

// Part is one piece of content: text or inline binary data
type Part struct {
	Text       string `json:"text,omitempty"`
	InlineData *Blob  `json:"inlineData,omitempty"`
}

// Blob carries base64-encoded binary data with its mime type.
// Audio arrives as "audio/pcm;rate=24000", images as "image/png".
type Blob struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

// Content is a sequence of parts attributed to a role
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// SpeechConfig selects the synthesis voice
type SpeechConfig struct {
	VoiceConfig VoiceConfig `json:"voiceConfig"`
}

// VoiceConfig wraps the prebuilt voice selection
type VoiceConfig struct {
	PrebuiltVoiceConfig PrebuiltVoiceConfig `json:"prebuiltVoiceConfig"`
}

// PrebuiltVoiceConfig names a stock voice
type PrebuiltVoiceConfig struct {
	VoiceName string `json:"voiceName"`
}

// GenerationConfig tunes a generateContent call
type GenerationConfig struct {
	ResponseMimeType   string        `json:"responseMimeType,omitempty"`
	ResponseModalities []string      `json:"responseModalities,omitempty"`
	SpeechConfig       *SpeechConfig `json:"speechConfig,omitempty"`
}

// GenerateRequest is the generateContent request body
type GenerateRequest struct {
	Contents         []Content         `json:"contents"`
	GenerationConfig *GenerationConfig `json:"generationConfig,omitempty"`
}

// Candidate is one generated answer
type Candidate struct {
	Content Content `json:"content"`
}

// GenerateResponse is the generateContent response body
type GenerateResponse struct {
	Candidates []Candidate `json:"candidates"`
}

// APIError is the backend's error envelope
type APIError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Entry is a structured dictionary entry produced by the text model
type Entry struct {
	Word     string  `json:"word"`
	Phonetic string  `json:"phonetic,omitempty"`
	Senses   []Sense `json:"senses"`
}

// Sense is one meaning of a word
type Sense struct {
	POS         string    `json:"pos"`
	Definition  string    `json:"definition"`
	CEFRLevel   string    `json:"cefr_level,omitempty"`
	Translation string    `json:"translation,omitempty"`
	Examples    []Example `json:"examples,omitempty"`
}

// Example is one usage example within a sense
type Example struct {
	Sentence    string `json:"sentence"`
	Translation string `json:"translation,omitempty"`
}

// Live session wire messages.

// LiveClientMessage is an outbound live session message
type LiveClientMessage struct {
	Setup         *LiveSetup         `json:"setup,omitempty"`
	ClientContent *LiveClientContent `json:"clientContent,omitempty"`
}

// LiveSetup opens a live session with a model and output config
type LiveSetup struct {
	Model            string            `json:"model"`
	GenerationConfig *GenerationConfig `json:"generationConfig,omitempty"`
}

// LiveClientContent carries a user turn
type LiveClientContent struct {
	Turns        []Content `json:"turns"`
	TurnComplete bool      `json:"turnComplete"`
}

// LiveServerMessage is an inbound live session message
type LiveServerMessage struct {
	SetupComplete *struct{}          `json:"setupComplete,omitempty"`
	ServerContent *LiveServerContent `json:"serverContent,omitempty"`
}

// LiveServerContent carries a model turn fragment
type LiveServerContent struct {
	ModelTurn    *Content `json:"modelTurn,omitempty"`
	TurnComplete bool     `json:"turnComplete,omitempty"`
}
