// ABOUTME: Main application orchestration
// ABOUTME: Wires config, backend clients, audio, notebook, and TUI
package app

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/GeorgeYL/LingoPop/internal/artwork"
	"github.com/GeorgeYL/LingoPop/internal/config"
	"github.com/GeorgeYL/LingoPop/internal/genai"
	"github.com/GeorgeYL/LingoPop/internal/notebook"
	"github.com/GeorgeYL/LingoPop/internal/player"
	"github.com/GeorgeYL/LingoPop/internal/speech"
	"github.com/GeorgeYL/LingoPop/internal/ui"
	"github.com/GeorgeYL/LingoPop/pkg/audio"
	"github.com/GeorgeYL/LingoPop/pkg/audio/decode"
	tea "github.com/charmbracelet/bubbletea"
)

// App is the LingoPop application
type App struct {
	config   *config.Config
	client   *genai.Client
	speaker  *speech.Speaker
	output   *player.Output
	queue    *player.Queue
	store    *notebook.Store
	art      *artwork.Cache
	controls *ui.Controls
	tuiProg  *tea.Program

	mu         sync.Mutex
	entry      *genai.Entry
	live       *genai.Live
	liveTarget ui.Screen

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates the application
func New(cfg *config.Config) (*App, error) {
	store, err := notebook.Open(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open notebook: %w", err)
	}

	art, err := artwork.NewCache(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create artwork cache: %w", err)
	}

	client := genai.NewClient(genai.ClientConfig{
		BaseURL:     cfg.APIBase,
		APIKey:      cfg.APIKey,
		TextModel:   cfg.TextModel,
		ImageModel:  cfg.ImageModel,
		SpeechModel: cfg.SpeechModel,
		Voice:       cfg.Voice,
		Language:    cfg.Language,
	})

	output := player.NewOutput()

	var fallback speech.Fallback
	if tts := speech.NewPlatformTTS(); tts.Available() {
		fallback = tts
	} else {
		log.Printf("No platform speech command found, fallback disabled")
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &App{
		config:   cfg,
		client:   client,
		speaker:  speech.NewSpeaker(client, output, fallback),
		output:   output,
		queue:    player.NewQueue(output),
		store:    store,
		art:      art,
		controls: ui.NewControls(),
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Start runs the application until quit
func (a *App) Start() error {
	if err := a.output.Initialize(audio.SpeechFormat()); err != nil {
		return fmt.Errorf("audio output failed: %w", err)
	}

	tuiProg, err := ui.Run(a.controls)
	if err != nil {
		return fmt.Errorf("failed to start TUI: %w", err)
	}
	a.tuiProg = tuiProg

	go func() {
		if _, err := a.tuiProg.Run(); err != nil {
			log.Printf("TUI error: %v", err)
		}
		a.cancel()
	}()

	go a.queue.Run()
	go a.handleControls()

	<-a.ctx.Done()
	return nil
}

// Close releases application resources
func (a *App) Close() {
	a.cancel()
	a.queue.Stop()

	a.mu.Lock()
	if a.live != nil {
		a.live.Close()
	}
	a.mu.Unlock()

	a.output.Close()
	if a.tuiProg != nil {
		a.tuiProg.Quit()
	}
}

// send delivers a message to the TUI
func (a *App) send(msg tea.Msg) {
	if a.tuiProg != nil {
		a.tuiProg.Send(msg)
	}
}

// handleControls routes user intents from the TUI
func (a *App) handleControls() {
	for {
		select {
		case <-a.ctx.Done():
			return
		case word := <-a.controls.Lookup:
			go a.lookup(word)
		case text := <-a.controls.Speak:
			go a.speak(text)
		case <-a.controls.Save:
			a.saveEntry()
		case <-a.controls.OpenNotebook:
			a.sendNotebook()
		case id := <-a.controls.Review:
			a.review(id)
		case topic := <-a.controls.Story:
			go a.liveTurn(ui.ScreenStory, storyPrompt(topic))
		case text := <-a.controls.Chat:
			go a.liveTurn(ui.ScreenChat, text)
		case <-a.controls.Quit:
			a.cancel()
			return
		}
	}
}

// lookup fetches a dictionary entry and its illustration
func (a *App) lookup(word string) {
	entry, err := a.client.Lookup(a.ctx, word)
	if err != nil {
		log.Printf("Lookup failed for %q: %v", word, err)
		a.send(ui.ErrorMsg{Err: "lookup failed: " + err.Error()})
		return
	}

	a.mu.Lock()
	a.entry = entry
	a.mu.Unlock()

	a.send(ui.EntryMsg{Entry: entryView(entry)})

	// Illustration is best-effort and arrives late
	go a.illustrate(entry)
}

// illustrate fetches and caches an illustration for an entry
func (a *App) illustrate(entry *genai.Entry) {
	definition := ""
	if len(entry.Senses) > 0 {
		definition = entry.Senses[0].Definition
	}

	data, mimeType, err := a.client.Illustrate(a.ctx, entry.Word, definition)
	if err != nil {
		log.Printf("Illustration failed for %q: %v", entry.Word, err)
		return
	}

	path, err := a.art.Save(entry.Word, data, mimeType)
	if err != nil {
		log.Printf("Failed to cache illustration: %v", err)
		return
	}

	a.send(ui.ArtworkMsg{Path: path})
}

// speak reads text aloud through the speaker
func (a *App) speak(text string) {
	a.send(ui.SpeechStateMsg{Speaking: true})
	defer a.send(ui.SpeechStateMsg{Speaking: false})

	if err := a.speaker.Speak(a.ctx, text); err != nil {
		log.Printf("Speech failed: %v", err)
		a.send(ui.ErrorMsg{Err: "speech failed"})
	}
}

// saveEntry adds the current entry to the notebook
func (a *App) saveEntry() {
	a.mu.Lock()
	entry := a.entry
	a.mu.Unlock()

	if entry == nil {
		return
	}

	if _, err := a.store.Add(entryCard(entry)); err != nil {
		a.send(ui.ErrorMsg{Err: err.Error()})
		return
	}

	a.send(ui.SavedMsg{Word: entry.Word})
	a.sendNotebook()
}

// sendNotebook pushes the saved cards to the TUI
func (a *App) sendNotebook() {
	cards := a.store.List()
	views := make([]ui.CardView, len(cards))
	for i, c := range cards {
		views[i] = ui.CardView{
			ID:         c.ID,
			Word:       c.Word,
			Definition: c.Definition,
			Reviews:    c.Reviews,
		}
	}
	a.send(ui.NotebookMsg{Cards: views})
}

// review records a flashcard review
func (a *App) review(id string) {
	if err := a.store.MarkReviewed(id); err != nil {
		log.Printf("Review failed: %v", err)
		return
	}
	a.sendNotebook()
}

// liveTurn sends one turn through the live session, streaming the
// reply's text to the TUI and its audio through the playback queue
func (a *App) liveTurn(target ui.Screen, text string) {
	a.mu.Lock()
	a.liveTarget = target
	live := a.live
	a.mu.Unlock()

	if live == nil {
		fresh, err := a.connectLive()
		if err != nil {
			log.Printf("Live session failed: %v", err)
			a.send(ui.ErrorMsg{Err: "live session failed"})
			return
		}
		live = fresh
	}

	a.send(ui.BusyMsg{Busy: true})
	if err := live.SendText(text); err != nil {
		a.send(ui.ErrorMsg{Err: "send failed: " + err.Error()})
	}
}

// connectLive dials the live session and starts the pump
func (a *App) connectLive() (*genai.Live, error) {
	live := genai.NewLive(genai.LiveConfig{
		BaseURL: a.config.APIBase,
		APIKey:  a.config.APIKey,
		Model:   a.config.LiveModel,
		Voice:   a.config.Voice,
	})

	if err := live.Connect(); err != nil {
		return nil, err
	}

	a.mu.Lock()
	a.live = live
	a.mu.Unlock()

	a.queue.Reset()
	go a.pumpLive(live)

	return live, nil
}

// pumpLive routes live session output to the TUI and playback queue
func (a *App) pumpLive(live *genai.Live) {
	for {
		select {
		case <-a.ctx.Done():
			return

		case text := <-live.Text:
			a.mu.Lock()
			target := a.liveTarget
			a.mu.Unlock()
			a.send(ui.LineMsg{Screen: target, Text: text})

		case chunk := <-live.AudioChunks:
			buf, err := decode.DecodePCM16(chunk.Data, chunk.SampleRate, audio.SpeechChannels)
			if err != nil {
				log.Printf("Bad live audio chunk: %v", err)
				continue
			}
			a.queue.Enqueue(chunk.Seq, buf)

		case <-live.TurnComplete:
			a.send(ui.BusyMsg{Busy: false})
		}
	}
}

// storyPrompt frames a story request for a language learner
func storyPrompt(topic string) string {
	return fmt.Sprintf(
		"Tell a very short story (4 to 6 sentences) for a language "+
			"learner, featuring %q. Speak it aloud as you write it.", topic)
}

// entryView converts a backend entry for the TUI
func entryView(entry *genai.Entry) ui.EntryView {
	view := ui.EntryView{
		Word:     entry.Word,
		Phonetic: entry.Phonetic,
	}
	for _, sense := range entry.Senses {
		sv := ui.SenseView{
			POS:        sense.POS,
			Definition: sense.Definition,
		}
		if len(sense.Examples) > 0 {
			sv.Example = sense.Examples[0].Sentence
		}
		view.Senses = append(view.Senses, sv)
	}
	return view
}

// entryCard converts a backend entry to a notebook card
func entryCard(entry *genai.Entry) notebook.Card {
	card := notebook.Card{
		Word:     entry.Word,
		Phonetic: entry.Phonetic,
	}
	if len(entry.Senses) > 0 {
		sense := entry.Senses[0]
		card.Definition = sense.Definition
		card.Translation = sense.Translation
		if len(sense.Examples) > 0 {
			card.Example = sense.Examples[0].Sentence
		}
	}
	return card
}
