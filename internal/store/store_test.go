package store

import (
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "cards.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenSeedsDefaultCollection(t *testing.T) {
	s := openTestStore(t)

	collections, err := s.Collections()
	if err != nil {
		t.Fatalf("Collections failed: %v", err)
	}
	if len(collections) != 1 {
		t.Fatalf("Expected 1 seeded collection, got %d", len(collections))
	}
	if collections[0].Name != "Default" {
		t.Errorf("Expected seeded collection 'Default', got '%s'", collections[0].Name)
	}

	// The seeded collection must carry the reserved null sub-collection.
	if _, err := s.NullSubCollectionID(collections[0].ID); err != nil {
		t.Errorf("Default collection has no null sub-collection: %v", err)
	}
}

func TestCreateCollection(t *testing.T) {
	s := openTestStore(t)

	c, err := s.CreateCollection("  Geography  ")
	if err != nil {
		t.Fatalf("CreateCollection failed: %v", err)
	}
	if c.Name != "Geography" {
		t.Errorf("Expected trimmed name 'Geography', got '%s'", c.Name)
	}

	if _, err := s.NullSubCollectionID(c.ID); err != nil {
		t.Errorf("New collection has no null sub-collection: %v", err)
	}

	if _, err := s.CreateCollection("   "); err == nil {
		t.Error("Expected error for empty collection name")
	}
	if _, err := s.CreateCollection("Geography"); err == nil {
		t.Error("Expected error for duplicate collection name")
	}
}

func TestPickableSubCollectionsExcludesNull(t *testing.T) {
	s := openTestStore(t)

	c, _ := s.CreateCollection("History")
	if _, err := s.CreateSubCollection(c.ID, "Antiquity"); err != nil {
		t.Fatalf("CreateSubCollection failed: %v", err)
	}

	all, err := s.SubCollections(c.ID)
	if err != nil {
		t.Fatalf("SubCollections failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("Expected 2 sub-collections including null entry, got %d", len(all))
	}

	pickable, err := s.PickableSubCollections(c.ID)
	if err != nil {
		t.Fatalf("PickableSubCollections failed: %v", err)
	}
	if len(pickable) != 1 || pickable[0].Name != "Antiquity" {
		t.Errorf("Expected only 'Antiquity' in pick list, got %+v", pickable)
	}
}

func TestCreateSubCollectionRejectsReservedName(t *testing.T) {
	s := openTestStore(t)
	c, _ := s.CreateCollection("History")

	if _, err := s.CreateSubCollection(c.ID, NullSubCollectionName); err == nil {
		t.Error("Expected error for reserved sub-collection name")
	}
	if _, err := s.CreateSubCollection(c.ID, "- none -"); err == nil {
		t.Error("Expected error for reserved name regardless of case")
	}
}

func TestAddCardResolvesNullSubCollection(t *testing.T) {
	s := openTestStore(t)
	c, _ := s.CreateCollection("Geography")

	card, err := s.AddCard("Capital of France?", "Paris", c.ID, "starts with P", nil)
	if err != nil {
		t.Fatalf("AddCard failed: %v", err)
	}

	nullID, _ := s.NullSubCollectionID(c.ID)
	if card.SubCollectionID != nullID {
		t.Errorf("Expected card in null sub-collection %d, got %d", nullID, card.SubCollectionID)
	}
}

func TestAddCardValidation(t *testing.T) {
	s := openTestStore(t)
	c, _ := s.CreateCollection("Geography")

	if _, err := s.AddCard("  ", "Paris", c.ID, "", nil); err == nil {
		t.Error("Expected error for empty question")
	}
	if _, err := s.AddCard("Capital of France?", "   ", c.ID, "", nil); err == nil {
		t.Error("Expected error for empty answer")
	}
}

func TestAddCardDuplicate(t *testing.T) {
	s := openTestStore(t)
	c, _ := s.CreateCollection("Geography")

	if _, err := s.AddCard("Capital of France?", "Paris", c.ID, "", nil); err != nil {
		t.Fatalf("AddCard failed: %v", err)
	}
	_, err := s.AddCard("Capital of France?", "Paris", c.ID, "", nil)
	if err == nil {
		t.Fatal("Expected error for duplicate card")
	}
	if err.Error() != "a card with this question and answer already exists in this sub-collection" {
		t.Errorf("Unexpected duplicate error message: %v", err)
	}
}

func TestUpdateCardMovesBetweenSubCollections(t *testing.T) {
	s := openTestStore(t)
	c, _ := s.CreateCollection("Geography")
	sub, _ := s.CreateSubCollection(c.ID, "Europe")

	card, _ := s.AddCard("Capital of France?", "Paris", c.ID, "", nil)
	if err := s.UpdateCard(card.ID, "Capital of France?", "Paris", c.ID, "hint", &sub.ID); err != nil {
		t.Fatalf("UpdateCard failed: %v", err)
	}

	cards, _ := s.Cards(c.ID)
	if len(cards) != 1 {
		t.Fatalf("Expected 1 card, got %d", len(cards))
	}
	if cards[0].SubCollectionID != sub.ID {
		t.Errorf("Expected card in sub-collection %d, got %d", sub.ID, cards[0].SubCollectionID)
	}
	if cards[0].Hint != "hint" {
		t.Errorf("Expected hint to be updated, got '%s'", cards[0].Hint)
	}
}

func TestDeleteSubCollectionReassignsCards(t *testing.T) {
	s := openTestStore(t)
	c, _ := s.CreateCollection("Geography")
	sub, _ := s.CreateSubCollection(c.ID, "Europe")

	card, _ := s.AddCard("Capital of France?", "Paris", c.ID, "", &sub.ID)

	if err := s.DeleteSubCollection(sub.ID); err != nil {
		t.Fatalf("DeleteSubCollection failed: %v", err)
	}

	nullID, _ := s.NullSubCollectionID(c.ID)
	cards, _ := s.Cards(c.ID)
	if len(cards) != 1 || cards[0].ID != card.ID {
		t.Fatalf("Expected the card to survive sub-collection deletion")
	}
	if cards[0].SubCollectionID != nullID {
		t.Errorf("Expected card reassigned to null sub-collection %d, got %d", nullID, cards[0].SubCollectionID)
	}
}

func TestDeleteSubCollectionRejectsNullEntry(t *testing.T) {
	s := openTestStore(t)
	c, _ := s.CreateCollection("Geography")
	nullID, _ := s.NullSubCollectionID(c.ID)

	if err := s.DeleteSubCollection(nullID); err == nil {
		t.Error("Expected error when deleting the reserved sub-collection")
	}
}

func TestDeleteCollectionCascades(t *testing.T) {
	s := openTestStore(t)
	c, _ := s.CreateCollection("Geography")
	sub, _ := s.CreateSubCollection(c.ID, "Europe")
	s.AddCard("Capital of France?", "Paris", c.ID, "", &sub.ID)

	if err := s.DeleteCollection(c.ID); err != nil {
		t.Fatalf("DeleteCollection failed: %v", err)
	}

	cards, err := s.Cards(c.ID)
	if err != nil {
		t.Fatalf("Cards failed: %v", err)
	}
	if len(cards) != 0 {
		t.Errorf("Expected no cards after cascade delete, got %d", len(cards))
	}
	subs, _ := s.SubCollections(c.ID)
	if len(subs) != 0 {
		t.Errorf("Expected no sub-collections after cascade delete, got %d", len(subs))
	}
}

func TestSkippedFlagLifecycle(t *testing.T) {
	s := openTestStore(t)
	c, _ := s.CreateCollection("Geography")
	card1, _ := s.AddCard("Capital of France?", "Paris", c.ID, "", nil)
	card2, _ := s.AddCard("Capital of Germany?", "Berlin", c.ID, "", nil)

	if err := s.SetCardSkipped(card1.ID, true); err != nil {
		t.Fatalf("SetCardSkipped failed: %v", err)
	}

	cards, _ := s.Cards(c.ID)
	if !cards[0].Skipped || cards[1].Skipped {
		t.Errorf("Expected only the first card skipped, got %+v", cards)
	}

	if err := s.ClearSkipped(c.ID); err != nil {
		t.Fatalf("ClearSkipped failed: %v", err)
	}

	cards, _ = s.Cards(c.ID)
	for _, card := range cards {
		if card.Skipped {
			t.Errorf("Expected card %d unskipped after ClearSkipped", card.ID)
		}
	}

	// Clearing skips must not delete anything.
	if len(cards) != 2 {
		t.Errorf("Expected 2 cards after ClearSkipped, got %d", len(cards))
	}
	_ = card2
}
