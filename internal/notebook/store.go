// ABOUTME: Notebook of saved vocabulary cards
// ABOUTME: Mutex-guarded store persisted as a JSON file in the data dir
package notebook

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a card does not exist
	ErrNotFound = errors.New("card not found")

	// ErrDuplicate is returned when a word is already saved
	ErrDuplicate = errors.New("word already saved")
)

// Card is one saved vocabulary entry
type Card struct {
	ID          string    `json:"id"`
	Word        string    `json:"word"`
	Phonetic    string    `json:"phonetic,omitempty"`
	Definition  string    `json:"definition"`
	Translation string    `json:"translation,omitempty"`
	Example     string    `json:"example,omitempty"`
	AddedAt     time.Time `json:"added_at"`
	Reviews     int       `json:"reviews"`
	LastReview  time.Time `json:"last_review,omitempty"`
}

// Store persists cards to a single JSON file
type Store struct {
	mu    sync.Mutex
	path  string
	cards []Card
}

// Open loads the notebook from dir, creating it on first use
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create notebook dir: %w", err)
	}

	s := &Store{path: filepath.Join(dir, "notebook.json")}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read notebook: %w", err)
	}

	if err := json.Unmarshal(data, &s.cards); err != nil {
		return nil, fmt.Errorf("failed to parse notebook: %w", err)
	}

	return s, nil
}

// Add saves a new card. The word must not already be in the notebook.
func (s *Store) Add(card Card) (Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.cards {
		if strings.EqualFold(c.Word, card.Word) {
			return Card{}, fmt.Errorf("%w: %s", ErrDuplicate, card.Word)
		}
	}

	card.ID = uuid.NewString()
	card.AddedAt = time.Now()
	s.cards = append(s.cards, card)

	if err := s.save(); err != nil {
		s.cards = s.cards[:len(s.cards)-1]
		return Card{}, err
	}

	return card, nil
}

// Get returns the card with the given ID
func (s *Store) Get(id string) (Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.cards {
		if c.ID == id {
			return c, nil
		}
	}
	return Card{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// List returns all cards, oldest first
func (s *Store) List() []Card {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Card, len(s.cards))
	copy(out, s.cards)
	return out
}

// Remove deletes a card by ID
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, c := range s.cards {
		if c.ID == id {
			s.cards = append(s.cards[:i], s.cards[i+1:]...)
			return s.save()
		}
	}
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}

// MarkReviewed records one flashcard review of a card
func (s *Store) MarkReviewed(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.cards {
		if s.cards[i].ID == id {
			s.cards[i].Reviews++
			s.cards[i].LastReview = time.Now()
			return s.save()
		}
	}
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Len returns the number of saved cards
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cards)
}

// save writes the card list to disk. Caller must hold the lock.
func (s *Store) save() error {
	data, err := json.MarshalIndent(s.cards, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode notebook: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write notebook: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace notebook: %w", err)
	}

	return nil
}
