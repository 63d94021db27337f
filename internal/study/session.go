package study

import (
	"fmt"
	"math/rand"

	"codeberg.org/tolvu/cardbox/internal/store"
)

// CardSource is the slice of the persistence facade a study session reads
// from and reports skips to.
type CardSource interface {
	Cards(collectionID int64) ([]store.Card, error)
	SetCardSkipped(cardID int64, skipped bool) error
}

// Session walks the cards of one collection, optionally narrowed to a
// single sub-collection. Cards marked skipped are left out of the deck but
// counted so the user can see how many are hidden.
type Session struct {
	source          CardSource
	collectionID    int64
	subCollectionID *int64

	cards   []store.Card
	index   int
	flipped bool
	skipped int
	loaded  bool
}

// NewSession creates an empty session; call Load to fill the deck.
func NewSession(source CardSource) *Session {
	return &Session{source: source}
}

// Load fetches the deck for a collection. A nil subCollectionID means all
// sub-collections. The pointer starts at the first card, question side up.
func (s *Session) Load(collectionID int64, subCollectionID *int64) error {
	cards, err := s.source.Cards(collectionID)
	if err != nil {
		return fmt.Errorf("failed to load cards: %w", err)
	}

	s.collectionID = collectionID
	s.subCollectionID = subCollectionID
	s.cards = s.cards[:0]
	s.skipped = 0
	for _, card := range cards {
		if subCollectionID != nil && card.SubCollectionID != *subCollectionID {
			continue
		}
		if card.Skipped {
			s.skipped++
			continue
		}
		s.cards = append(s.cards, card)
	}
	s.index = 0
	s.flipped = false
	s.loaded = true
	return nil
}

// Restart reloads the deck with the current filter, picking up cards added
// or un-skipped since the last load.
func (s *Session) Restart() error {
	if !s.loaded {
		return fmt.Errorf("no deck loaded")
	}
	return s.Load(s.collectionID, s.subCollectionID)
}

// Current returns the card under the pointer.
func (s *Session) Current() (store.Card, bool) {
	if len(s.cards) == 0 {
		return store.Card{}, false
	}
	return s.cards[s.index], true
}

// Index returns the zero-based pointer position.
func (s *Session) Index() int { return s.index }

// Len returns the deck size, skipped cards excluded.
func (s *Session) Len() int { return len(s.cards) }

// SkippedCount returns how many cards of the filtered set are hidden
// because they are marked skipped.
func (s *Session) SkippedCount() int { return s.skipped }

// Flipped reports whether the answer side is showing.
func (s *Session) Flipped() bool { return s.flipped }

// Flip turns the current card over.
func (s *Session) Flip() {
	if len(s.cards) == 0 {
		return
	}
	s.flipped = !s.flipped
}

// Next advances to the following card, wrapping to the start, and shows
// its question side.
func (s *Session) Next() {
	if len(s.cards) == 0 {
		return
	}
	s.index = (s.index + 1) % len(s.cards)
	s.flipped = false
}

// Prev steps back one card, wrapping to the end, and shows its question
// side.
func (s *Session) Prev() {
	if len(s.cards) == 0 {
		return
	}
	s.index = (s.index - 1 + len(s.cards)) % len(s.cards)
	s.flipped = false
}

// Shuffle reorders the deck and restarts from the first card.
func (s *Session) Shuffle() {
	rand.Shuffle(len(s.cards), func(i, j int) {
		s.cards[i], s.cards[j] = s.cards[j], s.cards[i]
	})
	s.index = 0
	s.flipped = false
}

// SkipCurrent marks the current card skipped and drops it from the deck.
// The pointer stays in place, clamped when the last card was removed.
func (s *Session) SkipCurrent() error {
	card, ok := s.Current()
	if !ok {
		return fmt.Errorf("no card to skip")
	}
	if err := s.source.SetCardSkipped(card.ID, true); err != nil {
		return fmt.Errorf("failed to skip card: %w", err)
	}

	s.cards = append(s.cards[:s.index], s.cards[s.index+1:]...)
	s.skipped++
	if s.index >= len(s.cards) {
		s.index = len(s.cards) - 1
	}
	if s.index < 0 {
		s.index = 0
	}
	s.flipped = false
	return nil
}
