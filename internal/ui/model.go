// ABOUTME: Bubbletea model for the LingoPop TUI
// ABOUTME: Screen routing, keyboard handling, and state updates
package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Screen identifies the active view
type Screen int

const (
	ScreenOnboarding Screen = iota
	ScreenSearch
	ScreenResult
	ScreenNotebook
	ScreenFlashcards
	ScreenStory
	ScreenChat
)

// String returns the screen name for titles and logs
func (s Screen) String() string {
	switch s {
	case ScreenOnboarding:
		return "Welcome"
	case ScreenSearch:
		return "Search"
	case ScreenResult:
		return "Result"
	case ScreenNotebook:
		return "Notebook"
	case ScreenFlashcards:
		return "Flashcards"
	case ScreenStory:
		return "Story"
	case ScreenChat:
		return "Chat"
	default:
		return "Unknown"
	}
}

// SenseView is one rendered word sense
type SenseView struct {
	POS        string
	Definition string
	Example    string
}

// EntryView is a rendered dictionary entry
type EntryView struct {
	Word     string
	Phonetic string
	Senses   []SenseView
	Artwork  string // path to the cached illustration, if any
}

// CardView is a rendered notebook card
type CardView struct {
	ID         string
	Word       string
	Definition string
	Reviews    int
}

// Messages from the app layer.

// EntryMsg delivers a lookup result
type EntryMsg struct {
	Entry EntryView
}

// ArtworkMsg delivers an illustration path for the current entry
type ArtworkMsg struct {
	Path string
}

// NotebookMsg delivers the saved cards
type NotebookMsg struct {
	Cards []CardView
}

// SpeechStateMsg reports speech playback state
type SpeechStateMsg struct {
	Speaking bool
	Fallback bool
}

// LineMsg appends a streamed line to the story or chat transcript
type LineMsg struct {
	Screen Screen
	Text   string
}

// BusyMsg toggles the waiting indicator
type BusyMsg struct {
	Busy bool
}

// ErrorMsg reports a user-visible error
type ErrorMsg struct {
	Err string
}

// SavedMsg confirms a card was saved
type SavedMsg struct {
	Word string
}

// Model represents the TUI state
type Model struct {
	screen   Screen
	controls *Controls

	// Text being typed on search/story/chat screens
	input string

	// Current lookup result
	entry *EntryView

	// Notebook and flashcards
	cards    []CardView
	flashIdx int
	revealed bool

	// Streaming transcripts
	storyLines []string
	chatLines  []string

	// Status
	busy     bool
	speaking bool
	fallback bool
	errText  string
	saved    string

	// Dimensions
	width  int
	height int
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case EntryMsg:
		entry := msg.Entry
		m.entry = &entry
		m.busy = false
		m.errText = ""
		m.saved = ""
		m.screen = ScreenResult
	case ArtworkMsg:
		if m.entry != nil {
			m.entry.Artwork = msg.Path
		}
	case NotebookMsg:
		m.cards = msg.Cards
		if m.flashIdx >= len(m.cards) {
			m.flashIdx = 0
		}
	case SpeechStateMsg:
		m.speaking = msg.Speaking
		m.fallback = msg.Fallback
	case LineMsg:
		switch msg.Screen {
		case ScreenStory:
			m.storyLines = append(m.storyLines, msg.Text)
		case ScreenChat:
			m.chatLines = append(m.chatLines, msg.Text)
		}
	case BusyMsg:
		m.busy = msg.Busy
	case ErrorMsg:
		m.errText = msg.Err
		m.busy = false
	case SavedMsg:
		m.saved = msg.Word
		m.errText = ""
	}

	return m, nil
}

// handleKey handles keyboard input per screen
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		m.controls.quit()
		return m, tea.Quit
	}

	switch m.screen {
	case ScreenOnboarding:
		switch key {
		case "q":
			m.controls.quit()
			return m, tea.Quit
		default:
			m.screen = ScreenSearch
		}

	case ScreenSearch:
		return m.handleTyping(msg, func(text string) {
			m.controls.send(m.controls.Lookup, text)
		})

	case ScreenResult:
		switch key {
		case "q":
			m.controls.quit()
			return m, tea.Quit
		case "esc":
			m.screen = ScreenSearch
			m.input = ""
		case "s":
			if m.entry != nil {
				m.controls.send(m.controls.Speak, speakText(m.entry))
			}
		case "a":
			m.controls.signal(m.controls.Save)
		case "n":
			m.controls.signal(m.controls.OpenNotebook)
			m.screen = ScreenNotebook
		case "f":
			m.controls.signal(m.controls.OpenNotebook)
			m.screen = ScreenFlashcards
			m.flashIdx = 0
			m.revealed = false
		case "t":
			m.screen = ScreenStory
			m.input = ""
		case "c":
			m.screen = ScreenChat
			m.input = ""
		}

	case ScreenNotebook:
		switch key {
		case "q":
			m.controls.quit()
			return m, tea.Quit
		case "esc":
			m.screen = ScreenSearch
		case "f":
			m.screen = ScreenFlashcards
			m.flashIdx = 0
			m.revealed = false
		}

	case ScreenFlashcards:
		switch key {
		case "q":
			m.controls.quit()
			return m, tea.Quit
		case "esc":
			m.screen = ScreenNotebook
		case "enter", " ":
			m.revealed = true
		case "y":
			if m.revealed && m.flashIdx < len(m.cards) {
				m.controls.send(m.controls.Review, m.cards[m.flashIdx].ID)
				m = m.nextCard()
			}
		case "n":
			if m.revealed {
				m = m.nextCard()
			}
		case "s":
			if m.flashIdx < len(m.cards) {
				m.controls.send(m.controls.Speak, m.cards[m.flashIdx].Word)
			}
		}

	case ScreenStory:
		return m.handleTyping(msg, func(text string) {
			m.controls.send(m.controls.Story, text)
		})

	case ScreenChat:
		return m.handleTyping(msg, func(text string) {
			m.controls.send(m.controls.Chat, text)
		})
	}

	return m, nil
}

// handleTyping handles free-text input screens. Submit runs on enter
// with the typed text; esc returns to search.
func (m Model) handleTyping(msg tea.KeyMsg, submit func(string)) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		text := strings.TrimSpace(m.input)
		if text != "" {
			submit(text)
			m.input = ""
			m.busy = true
			m.errText = ""
		}
	case "esc":
		if m.screen == ScreenSearch {
			m.input = ""
		} else {
			m.screen = ScreenSearch
			m.input = ""
		}
	case "backspace":
		if len(m.input) > 0 {
			runes := []rune(m.input)
			m.input = string(runes[:len(runes)-1])
		}
	default:
		if msg.Type == tea.KeyRunes {
			m.input += string(msg.Runes)
		} else if msg.Type == tea.KeySpace {
			m.input += " "
		}
	}

	return m, nil
}

// nextCard advances the flashcard cursor
func (m Model) nextCard() Model {
	m.flashIdx++
	m.revealed = false
	if m.flashIdx >= len(m.cards) {
		m.flashIdx = 0
	}
	return m
}

// speakText picks what to read aloud for an entry
func speakText(entry *EntryView) string {
	if len(entry.Senses) > 0 && entry.Senses[0].Example != "" {
		return fmt.Sprintf("%s. %s", entry.Word, entry.Senses[0].Example)
	}
	return entry.Word
}

// View renders the active screen
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	s := m.renderHeader()

	switch m.screen {
	case ScreenOnboarding:
		s += m.renderOnboarding()
	case ScreenSearch:
		s += m.renderSearch()
	case ScreenResult:
		s += m.renderResult()
	case ScreenNotebook:
		s += m.renderNotebook()
	case ScreenFlashcards:
		s += m.renderFlashcards()
	case ScreenStory:
		s += m.renderTranscript(m.storyLines, "Describe a story to hear")
	case ScreenChat:
		s += m.renderTranscript(m.chatLines, "Say something to your tutor")
	}

	s += m.renderStatus()
	s += m.renderHelp()

	return s
}

// renderHeader renders the title bar
func (m Model) renderHeader() string {
	return fmt.Sprintf(`┌─ LingoPop ── %-38s ─┐
`, m.screen.String())
}

// renderOnboarding renders the welcome screen
func (m Model) renderOnboarding() string {
	return `│                                                      │
│   Learn words with a pop.                            │
│                                                      │
│   Type a word to get a definition, a picture, and    │
│   spoken audio. Save words to your notebook and      │
│   review them as flashcards.                         │
│                                                      │
│   Press any key to start.                            │
│                                                      │
`
}

// renderSearch renders the search prompt
func (m Model) renderSearch() string {
	return fmt.Sprintf(`│                                                      │
│   Look up: %-40s  │
│                                                      │
`, m.input+"▌")
}

// renderResult renders the current dictionary entry
func (m Model) renderResult() string {
	if m.entry == nil {
		return "│ No entry                                             │\n"
	}

	s := fmt.Sprintf("│ %-52s │\n", m.entry.Word)
	if m.entry.Phonetic != "" {
		s += fmt.Sprintf("│ %-52s │\n", m.entry.Phonetic)
	}
	s += "│                                                      │\n"

	for i, sense := range m.entry.Senses {
		if i >= 3 {
			s += fmt.Sprintf("│ (%d more senses)%-37s │\n", len(m.entry.Senses)-3, "")
			break
		}
		s += fmt.Sprintf("│ %d. [%s] %-43s │\n", i+1, sense.POS, truncate(sense.Definition, 43-len(sense.POS)))
		if sense.Example != "" {
			s += fmt.Sprintf("│    e.g. %-44s │\n", truncate(sense.Example, 44))
		}
	}

	if m.entry.Artwork != "" {
		s += fmt.Sprintf("│ Illustration: %-38s │\n", truncate(m.entry.Artwork, 38))
	}

	return s
}

// renderNotebook renders the saved cards list
func (m Model) renderNotebook() string {
	if len(m.cards) == 0 {
		return "│ Notebook is empty. Save words with 'a'.              │\n"
	}

	s := ""
	for i, card := range m.cards {
		if i >= 10 {
			s += fmt.Sprintf("│ (%d more cards)%-38s │\n", len(m.cards)-10, "")
			break
		}
		s += fmt.Sprintf("│ %-16s %-29s ×%-3d │\n",
			truncate(card.Word, 16), truncate(card.Definition, 29), card.Reviews)
	}
	return s
}

// renderFlashcards renders the review screen
func (m Model) renderFlashcards() string {
	if len(m.cards) == 0 {
		return "│ Nothing to review yet.                               │\n"
	}

	card := m.cards[m.flashIdx]
	s := fmt.Sprintf("│ Card %d/%d%-44s │\n", m.flashIdx+1, len(m.cards), "")
	s += "│                                                      │\n"
	s += fmt.Sprintf("│   %-50s │\n", card.Word)
	s += "│                                                      │\n"

	if m.revealed {
		s += fmt.Sprintf("│   %-50s │\n", truncate(card.Definition, 50))
	} else {
		s += "│   (enter to reveal)                                  │\n"
	}

	return s
}

// renderTranscript renders story or chat lines
func (m Model) renderTranscript(lines []string, placeholder string) string {
	s := ""
	if len(lines) == 0 {
		s += fmt.Sprintf("│ %-52s │\n", placeholder)
	}

	start := 0
	if len(lines) > 8 {
		start = len(lines) - 8
	}
	for _, line := range lines[start:] {
		s += fmt.Sprintf("│ %-52s │\n", truncate(line, 52))
	}

	s += "│                                                      │\n"
	s += fmt.Sprintf("│ > %-50s │\n", m.input+"▌")
	return s
}

// renderStatus renders the transient status line
func (m Model) renderStatus() string {
	status := ""
	switch {
	case m.errText != "":
		status = "✗ " + m.errText
	case m.speaking && m.fallback:
		status = "🔊 speaking (platform voice)"
	case m.speaking:
		status = "🔊 speaking"
	case m.busy:
		status = "… thinking"
	case m.saved != "":
		status = fmt.Sprintf("✓ saved %q", m.saved)
	}

	return fmt.Sprintf(`├──────────────────────────────────────────────────────┤
│ %-52s │
`, truncate(status, 52))
}

// renderHelp renders keyboard shortcuts for the active screen
func (m Model) renderHelp() string {
	var help string
	switch m.screen {
	case ScreenSearch:
		help = "enter:Look up  ctrl+c:Quit"
	case ScreenResult:
		help = "s:Speak  a:Save  n:Notebook  f:Cards  t:Story  c:Chat"
	case ScreenNotebook:
		help = "f:Flashcards  esc:Back  q:Quit"
	case ScreenFlashcards:
		help = "enter:Reveal  y:Got it  n:Again  s:Speak  esc:Back"
	case ScreenStory, ScreenChat:
		help = "enter:Send  esc:Back  ctrl+c:Quit"
	default:
		help = "q:Quit"
	}

	return fmt.Sprintf(`│ %-52s │
└──────────────────────────────────────────────────────┘
`, help)
}

// truncate shortens a string with an ellipsis
func truncate(s string, max int) string {
	if max <= 1 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
