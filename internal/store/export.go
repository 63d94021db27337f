package store

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// ExportCard is the wire form of a card inside an export file. Ids are not
// exported; sub-collections are referenced by name so files stay portable
// between databases.
type ExportCard struct {
	Question          string  `json:"question"`
	Answer            string  `json:"answer"`
	Hint              string  `json:"hint"`
	Skipped           bool    `json:"skipped,omitempty"`
	SubCollectionName *string `json:"sub_collection_name,omitempty"`
}

// ExportSubCollection is a sub-collection in an export file (name only).
type ExportSubCollection struct {
	Name string `json:"name"`
}

// ExportCollection is one collection in an export file.
type ExportCollection struct {
	Name           string                `json:"name"`
	SubCollections []ExportSubCollection `json:"sub_collections"`
	Cards          []ExportCard          `json:"cards"`
}

// ExportData is the root of an export file.
type ExportData struct {
	Collections []ExportCollection `json:"collections"`
}

// ImportResult reports what an import actually changed.
type ImportResult struct {
	Collections int
	CardsAdded  int
}

// FileCollectionSummary describes one collection inside an export file,
// shown in the import dialog before anything is written.
type FileCollectionSummary struct {
	Name               string
	CardCount          int
	SubCollectionCount int
}

// ExportCollection writes a single collection to path as JSON.
func (s *Store) ExportCollection(collectionID int64, path string) error {
	var name string
	err := s.db.QueryRow(`SELECT name FROM collections WHERE id = ?`, collectionID).Scan(&name)
	if err != nil {
		return fmt.Errorf("collection not found")
	}

	exp, err := s.exportOne(collectionID, name)
	if err != nil {
		return err
	}

	return writeExportFile(path, ExportData{Collections: []ExportCollection{exp}})
}

// ExportAll writes every collection to path as JSON.
func (s *Store) ExportAll(path string) error {
	collections, err := s.Collections()
	if err != nil {
		return err
	}

	data := ExportData{}
	for _, c := range collections {
		exp, err := s.exportOne(c.ID, c.Name)
		if err != nil {
			return err
		}
		data.Collections = append(data.Collections, exp)
	}

	return writeExportFile(path, data)
}

func (s *Store) exportOne(collectionID int64, name string) (ExportCollection, error) {
	subs, err := s.PickableSubCollections(collectionID)
	if err != nil {
		return ExportCollection{}, err
	}

	idToName := make(map[int64]string, len(subs))
	var expSubs []ExportSubCollection
	for _, sc := range subs {
		idToName[sc.ID] = sc.Name
		expSubs = append(expSubs, ExportSubCollection{Name: sc.Name})
	}

	cards, err := s.Cards(collectionID)
	if err != nil {
		return ExportCollection{}, err
	}

	var expCards []ExportCard
	for _, c := range cards {
		ec := ExportCard{
			Question: c.Question,
			Answer:   c.Answer,
			Hint:     c.Hint,
			Skipped:  c.Skipped,
		}
		if n, ok := idToName[c.SubCollectionID]; ok {
			ec.SubCollectionName = &n
		}
		expCards = append(expCards, ec)
	}

	return ExportCollection{Name: name, SubCollections: expSubs, Cards: expCards}, nil
}

func writeExportFile(path string, data ExportData) error {
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode export data: %w", err)
	}
	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	return nil
}

// ReadExportFile parses an export file and summarizes its collections.
func ReadExportFile(path string) ([]FileCollectionSummary, error) {
	data, err := readExportFile(path)
	if err != nil {
		return nil, err
	}

	summaries := make([]FileCollectionSummary, 0, len(data.Collections))
	for _, c := range data.Collections {
		summaries = append(summaries, FileCollectionSummary{
			Name:               c.Name,
			CardCount:          len(c.Cards),
			SubCollectionCount: len(c.SubCollections),
		})
	}
	return summaries, nil
}

func readExportFile(path string) (ExportData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return ExportData{}, fmt.Errorf("failed to read export file: %w", err)
	}
	var data ExportData
	if err := json.Unmarshal(raw, &data); err != nil {
		return ExportData{}, fmt.Errorf("failed to parse export file: %w", err)
	}
	return data, nil
}

// ImportCollection imports the collection at fileIndex from an export file
// into an existing collection (destinationID) or a freshly created one
// (newName). Exactly one destination must be given.
func (s *Store) ImportCollection(path string, fileIndex int, destinationID *int64, newName string) (ImportResult, error) {
	data, err := readExportFile(path)
	if err != nil {
		return ImportResult{}, err
	}
	if fileIndex < 0 || fileIndex >= len(data.Collections) {
		return ImportResult{}, fmt.Errorf("invalid collection index")
	}
	exp := data.Collections[fileIndex]

	var collectionID int64
	switch {
	case destinationID != nil:
		collectionID = *destinationID
	case strings.TrimSpace(newName) != "":
		c, err := s.CreateCollection(newName)
		if err != nil {
			return ImportResult{}, err
		}
		collectionID = c.ID
	default:
		return ImportResult{}, fmt.Errorf("specify an existing collection or a new collection name")
	}

	added, err := s.importInto(collectionID, exp)
	if err != nil {
		return ImportResult{}, err
	}
	return ImportResult{Collections: 1, CardsAdded: added}, nil
}

// ImportAll imports every collection in an export file, merging into
// existing collections by name and creating the rest.
func (s *Store) ImportAll(path string) (ImportResult, error) {
	data, err := readExportFile(path)
	if err != nil {
		return ImportResult{}, err
	}

	result := ImportResult{}
	for _, exp := range data.Collections {
		name := strings.TrimSpace(exp.Name)
		if name == "" {
			continue
		}

		var collectionID int64
		err := s.db.QueryRow(`SELECT id FROM collections WHERE name = ?`, name).Scan(&collectionID)
		if err != nil {
			c, err := s.CreateCollection(name)
			if err != nil {
				return result, err
			}
			collectionID = c.ID
		}
		result.Collections++

		added, err := s.importInto(collectionID, exp)
		if err != nil {
			return result, err
		}
		result.CardsAdded += added
	}
	return result, nil
}

func (s *Store) importInto(collectionID int64, exp ExportCollection) (int, error) {
	nullID, err := s.NullSubCollectionID(collectionID)
	if err != nil {
		return 0, err
	}

	nameToID := map[string]int64{NullSubCollectionName: nullID}
	for _, sub := range exp.SubCollections {
		name := strings.TrimSpace(sub.Name)
		if name == "" {
			continue
		}
		if _, ok := nameToID[name]; ok {
			continue
		}
		id, err := s.getOrCreateSubCollection(collectionID, name)
		if err != nil {
			return 0, err
		}
		nameToID[name] = id
	}

	added := 0
	for _, card := range exp.Cards {
		question := strings.TrimSpace(card.Question)
		answer := strings.TrimSpace(card.Answer)
		subID := nullID
		if card.SubCollectionName != nil {
			if id, ok := nameToID[strings.TrimSpace(*card.SubCollectionName)]; ok {
				subID = id
			}
		}
		skipped := int64(0)
		if card.Skipped {
			skipped = 1
		}
		res, err := s.db.Exec(
			`INSERT OR IGNORE INTO cards (question, answer, collection_id, hint, skipped, sub_collection_id)
				VALUES (?, ?, ?, ?, ?, ?)`,
			question, answer, collectionID, strings.TrimSpace(card.Hint), skipped, subID)
		if err != nil {
			return added, err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return added, err
		}
		added += int(n)
	}
	return added, nil
}

func (s *Store) getOrCreateSubCollection(collectionID int64, name string) (int64, error) {
	var id int64
	err := s.db.QueryRow(
		`SELECT id FROM sub_collections WHERE collection_id = ? AND name = ?`,
		collectionID, name).Scan(&id)
	if err == nil {
		return id, nil
	}

	sc, err := s.CreateSubCollection(collectionID, name)
	if err != nil {
		return 0, err
	}
	return sc.ID, nil
}
