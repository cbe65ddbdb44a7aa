// ABOUTME: TUI initialization and control channels
// ABOUTME: Wraps bubbletea program and carries user intents to the app
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Controls holds channels carrying user intents from the TUI to the
// app layer
type Controls struct {
	Lookup       chan string
	Speak        chan string
	Save         chan struct{}
	OpenNotebook chan struct{}
	Review       chan string
	Story        chan string
	Chat         chan string
	Quit         chan struct{}
}

// NewControls creates the control channels
func NewControls() *Controls {
	return &Controls{
		Lookup:       make(chan string, 1),
		Speak:        make(chan string, 1),
		Save:         make(chan struct{}, 1),
		OpenNotebook: make(chan struct{}, 1),
		Review:       make(chan string, 4),
		Story:        make(chan string, 1),
		Chat:         make(chan string, 1),
		Quit:         make(chan struct{}, 1),
	}
}

// send delivers a value without blocking the UI loop
func (c *Controls) send(ch chan string, value string) {
	if c == nil {
		return
	}
	select {
	case ch <- value:
	default:
	}
}

// signal delivers an empty intent without blocking the UI loop
func (c *Controls) signal(ch chan struct{}) {
	if c == nil {
		return
	}
	select {
	case ch <- struct{}{}:
	default:
	}
}

// quit signals shutdown
func (c *Controls) quit() {
	if c == nil {
		return
	}
	c.signal(c.Quit)
}

// NewModel creates a new TUI model
func NewModel(controls *Controls) Model {
	return Model{
		screen:   ScreenOnboarding,
		controls: controls,
	}
}

// Run starts the TUI
func Run(controls *Controls) (*tea.Program, error) {
	p := tea.NewProgram(NewModel(controls), tea.WithAltScreen())
	return p, nil
}
