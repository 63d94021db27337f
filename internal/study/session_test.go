package study

import (
	"fmt"
	"testing"

	"codeberg.org/tolvu/cardbox/internal/store"
)

type fakeSource struct {
	cards      []store.Card
	cardsErr   error
	skippedIDs []int64
	skipErr    error
}

func (f *fakeSource) Cards(collectionID int64) ([]store.Card, error) {
	if f.cardsErr != nil {
		return nil, f.cardsErr
	}
	return f.cards, nil
}

func (f *fakeSource) SetCardSkipped(cardID int64, skipped bool) error {
	if f.skipErr != nil {
		return f.skipErr
	}
	if skipped {
		f.skippedIDs = append(f.skippedIDs, cardID)
	}
	return nil
}

func deck(n int) []store.Card {
	cards := make([]store.Card, n)
	for i := range cards {
		cards[i] = store.Card{
			ID:              int64(i + 1),
			Question:        fmt.Sprintf("q%d", i+1),
			Answer:          fmt.Sprintf("a%d", i+1),
			SubCollectionID: 1,
		}
	}
	return cards
}

func TestLoadFiltersSkippedCards(t *testing.T) {
	cards := deck(4)
	cards[1].Skipped = true
	cards[3].Skipped = true
	session := NewSession(&fakeSource{cards: cards})

	if err := session.Load(1, nil); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if session.Len() != 2 {
		t.Errorf("deck size = %d, want 2", session.Len())
	}
	if session.SkippedCount() != 2 {
		t.Errorf("skipped count = %d, want 2", session.SkippedCount())
	}
	card, ok := session.Current()
	if !ok || card.Question != "q1" {
		t.Errorf("current = %+v, want q1", card)
	}
}

func TestLoadFiltersBySubCollection(t *testing.T) {
	cards := deck(3)
	cards[2].SubCollectionID = 2
	session := NewSession(&fakeSource{cards: cards})

	sub := int64(2)
	if err := session.Load(1, &sub); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if session.Len() != 1 {
		t.Fatalf("deck size = %d, want 1", session.Len())
	}
	card, _ := session.Current()
	if card.Question != "q3" {
		t.Errorf("current = %q, want q3", card.Question)
	}
}

func TestNextPrevWrapAround(t *testing.T) {
	session := NewSession(&fakeSource{cards: deck(3)})
	if err := session.Load(1, nil); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	session.Next()
	session.Next()
	if session.Index() != 2 {
		t.Errorf("index = %d, want 2", session.Index())
	}
	session.Next()
	if session.Index() != 0 {
		t.Errorf("index = %d after wrapping forward, want 0", session.Index())
	}
	session.Prev()
	if session.Index() != 2 {
		t.Errorf("index = %d after wrapping backward, want 2", session.Index())
	}
}

func TestFlipResetOnNavigation(t *testing.T) {
	session := NewSession(&fakeSource{cards: deck(2)})
	if err := session.Load(1, nil); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	session.Flip()
	if !session.Flipped() {
		t.Fatal("expected card to be flipped")
	}
	session.Flip()
	if session.Flipped() {
		t.Fatal("expected card to flip back")
	}

	session.Flip()
	session.Next()
	if session.Flipped() {
		t.Error("Next must show the question side")
	}
	session.Flip()
	session.Prev()
	if session.Flipped() {
		t.Error("Prev must show the question side")
	}
}

func TestShufflePreservesDeck(t *testing.T) {
	session := NewSession(&fakeSource{cards: deck(20)})
	if err := session.Load(1, nil); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	session.Next()
	session.Flip()

	session.Shuffle()
	if session.Index() != 0 || session.Flipped() {
		t.Error("Shuffle must restart at the first card, question side up")
	}
	if session.Len() != 20 {
		t.Fatalf("deck size = %d after shuffle, want 20", session.Len())
	}

	seen := make(map[int64]bool)
	for i := 0; i < session.Len(); i++ {
		card, _ := session.Current()
		if seen[card.ID] {
			t.Fatalf("card %d appears twice after shuffle", card.ID)
		}
		seen[card.ID] = true
		session.Next()
	}
	if len(seen) != 20 {
		t.Errorf("shuffle lost cards: %d unique of 20", len(seen))
	}
}

func TestSkipCurrentRemovesAndRecords(t *testing.T) {
	source := &fakeSource{cards: deck(3)}
	session := NewSession(source)
	if err := session.Load(1, nil); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	session.Next()
	if err := session.SkipCurrent(); err != nil {
		t.Fatalf("SkipCurrent failed: %v", err)
	}
	if len(source.skippedIDs) != 1 || source.skippedIDs[0] != 2 {
		t.Errorf("skipped IDs = %v, want [2]", source.skippedIDs)
	}
	if session.Len() != 2 || session.SkippedCount() != 1 {
		t.Errorf("deck = %d, skipped = %d; want 2 and 1", session.Len(), session.SkippedCount())
	}
	card, _ := session.Current()
	if card.Question != "q3" {
		t.Errorf("current = %q after skip, want q3", card.Question)
	}
}

func TestSkipLastCardClampsIndex(t *testing.T) {
	source := &fakeSource{cards: deck(2)}
	session := NewSession(source)
	if err := session.Load(1, nil); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	session.Next()
	if err := session.SkipCurrent(); err != nil {
		t.Fatalf("SkipCurrent failed: %v", err)
	}
	if session.Index() != 0 {
		t.Errorf("index = %d after skipping the last card, want 0", session.Index())
	}

	if err := session.SkipCurrent(); err != nil {
		t.Fatalf("SkipCurrent failed: %v", err)
	}
	if session.Len() != 0 || session.Index() != 0 {
		t.Errorf("deck = %d, index = %d; want empty deck with index 0", session.Len(), session.Index())
	}
	if _, ok := session.Current(); ok {
		t.Error("Current must report no card for an empty deck")
	}
	if err := session.SkipCurrent(); err == nil {
		t.Error("expected error skipping with an empty deck")
	}
}

func TestSkipCurrentKeepsCardOnStoreError(t *testing.T) {
	source := &fakeSource{cards: deck(1), skipErr: fmt.Errorf("locked")}
	session := NewSession(source)
	if err := session.Load(1, nil); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if err := session.SkipCurrent(); err == nil {
		t.Fatal("expected store error")
	}
	if session.Len() != 1 {
		t.Errorf("deck = %d after failed skip, want 1", session.Len())
	}
}

func TestRestartReloads(t *testing.T) {
	source := &fakeSource{cards: deck(1)}
	session := NewSession(source)
	if err := session.Load(1, nil); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	source.cards = deck(3)
	if err := session.Restart(); err != nil {
		t.Fatalf("Restart failed: %v", err)
	}
	if session.Len() != 3 || session.Index() != 0 {
		t.Errorf("deck = %d, index = %d after restart; want 3 and 0", session.Len(), session.Index())
	}

	unloaded := NewSession(source)
	if err := unloaded.Restart(); err == nil {
		t.Error("expected error restarting before any load")
	}
}

func TestEmptyDeckNavigation(t *testing.T) {
	session := NewSession(&fakeSource{})
	if err := session.Load(1, nil); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	session.Next()
	session.Prev()
	session.Flip()
	if session.Index() != 0 || session.Flipped() {
		t.Error("navigation on an empty deck must be a no-op")
	}
}
