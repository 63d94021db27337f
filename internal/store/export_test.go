package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestExportImportRoundTrip(t *testing.T) {
	src := openTestStore(t)
	c, _ := src.CreateCollection("Geography")
	sub, _ := src.CreateSubCollection(c.ID, "Europe")
	src.AddCard("Capital of France?", "Paris", c.ID, "starts with P", &sub.ID)
	src.AddCard("Capital of Japan?", "Tokyo", c.ID, "", nil)

	exportPath := filepath.Join(t.TempDir(), "export.json")
	if err := src.ExportCollection(c.ID, exportPath); err != nil {
		t.Fatalf("ExportCollection failed: %v", err)
	}

	summaries, err := ReadExportFile(exportPath)
	if err != nil {
		t.Fatalf("ReadExportFile failed: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("Expected 1 collection in export file, got %d", len(summaries))
	}
	if summaries[0].Name != "Geography" || summaries[0].CardCount != 2 || summaries[0].SubCollectionCount != 1 {
		t.Errorf("Unexpected summary: %+v", summaries[0])
	}

	dst := openTestStore(t)
	result, err := dst.ImportCollection(exportPath, 0, nil, "Imported")
	if err != nil {
		t.Fatalf("ImportCollection failed: %v", err)
	}
	if result.Collections != 1 || result.CardsAdded != 2 {
		t.Errorf("Unexpected import result: %+v", result)
	}

	collections, _ := dst.Collections()
	var imported Collection
	for _, col := range collections {
		if col.Name == "Imported" {
			imported = col
		}
	}
	if imported.ID == 0 {
		t.Fatal("Imported collection not found")
	}

	cards, _ := dst.Cards(imported.ID)
	if len(cards) != 2 {
		t.Fatalf("Expected 2 imported cards, got %d", len(cards))
	}

	// The sub-collection must have been recreated by name and the card
	// attached to it.
	subs, _ := dst.PickableSubCollections(imported.ID)
	if len(subs) != 1 || subs[0].Name != "Europe" {
		t.Fatalf("Expected recreated sub-collection 'Europe', got %+v", subs)
	}
	found := false
	for _, card := range cards {
		if card.Question == "Capital of France?" && card.SubCollectionID == subs[0].ID {
			found = true
		}
	}
	if !found {
		t.Error("Imported card not attached to recreated sub-collection")
	}
}

func TestImportCollectionIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	c, _ := s.CreateCollection("Geography")
	s.AddCard("Capital of France?", "Paris", c.ID, "", nil)

	exportPath := filepath.Join(t.TempDir(), "export.json")
	if err := s.ExportCollection(c.ID, exportPath); err != nil {
		t.Fatalf("ExportCollection failed: %v", err)
	}

	// Importing into the same collection again adds nothing.
	result, err := s.ImportCollection(exportPath, 0, &c.ID, "")
	if err != nil {
		t.Fatalf("ImportCollection failed: %v", err)
	}
	if result.CardsAdded != 0 {
		t.Errorf("Expected 0 cards added on re-import, got %d", result.CardsAdded)
	}
}

func TestImportCollectionRequiresDestination(t *testing.T) {
	s := openTestStore(t)
	c, _ := s.CreateCollection("Geography")
	s.AddCard("Capital of France?", "Paris", c.ID, "", nil)

	exportPath := filepath.Join(t.TempDir(), "export.json")
	s.ExportCollection(c.ID, exportPath)

	if _, err := s.ImportCollection(exportPath, 0, nil, "   "); err == nil {
		t.Error("Expected error when neither destination id nor new name is given")
	}
	if _, err := s.ImportCollection(exportPath, 5, nil, "New"); err == nil {
		t.Error("Expected error for out-of-range collection index")
	}
}

func TestImportAllMergesByName(t *testing.T) {
	src := openTestStore(t)
	c1, _ := src.CreateCollection("Geography")
	c2, _ := src.CreateCollection("History")
	src.AddCard("Capital of France?", "Paris", c1.ID, "", nil)
	src.AddCard("First Roman emperor?", "Augustus", c2.ID, "", nil)

	exportPath := filepath.Join(t.TempDir(), "export.json")
	if err := src.ExportAll(exportPath); err != nil {
		t.Fatalf("ExportAll failed: %v", err)
	}

	dst := openTestStore(t)
	// Pre-create one of the collections so the import merges into it.
	existing, _ := dst.CreateCollection("Geography")

	result, err := dst.ImportAll(exportPath)
	if err != nil {
		t.Fatalf("ImportAll failed: %v", err)
	}
	// Default + Geography + History from the source file.
	if result.Collections != 3 {
		t.Errorf("Expected 3 collections imported, got %d", result.Collections)
	}
	if result.CardsAdded != 2 {
		t.Errorf("Expected 2 cards added, got %d", result.CardsAdded)
	}

	cards, _ := dst.Cards(existing.ID)
	if len(cards) != 1 || cards[0].Answer != "Paris" {
		t.Errorf("Expected merged card in pre-existing collection, got %+v", cards)
	}
}

func TestExportFileShape(t *testing.T) {
	s := openTestStore(t)
	c, _ := s.CreateCollection("Geography")
	s.AddCard("Capital of France?", "Paris", c.ID, "", nil)

	exportPath := filepath.Join(t.TempDir(), "export.json")
	if err := s.ExportCollection(c.ID, exportPath); err != nil {
		t.Fatalf("ExportCollection failed: %v", err)
	}

	raw, err := os.ReadFile(exportPath)
	if err != nil {
		t.Fatalf("Failed to read export file: %v", err)
	}

	var generic map[string]any
	if err := json.Unmarshal(raw, &generic); err != nil {
		t.Fatalf("Export file is not valid JSON: %v", err)
	}
	if _, ok := generic["collections"]; !ok {
		t.Error("Export file missing top-level 'collections' key")
	}
}

func TestReadExportFileErrors(t *testing.T) {
	if _, err := ReadExportFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Expected error for missing file")
	}

	badPath := filepath.Join(t.TempDir(), "bad.json")
	os.WriteFile(badPath, []byte("not json"), 0644)
	if _, err := ReadExportFile(badPath); err == nil {
		t.Error("Expected error for malformed file")
	}
}
