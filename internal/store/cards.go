package store

import (
	"fmt"
	"strings"
)

// Cards returns all cards of a collection in insertion order.
func (s *Store) Cards(collectionID int64) ([]Card, error) {
	rows, err := s.db.Query(
		`SELECT id, question, answer, COALESCE(hint, ''), COALESCE(skipped, 0), sub_collection_id
			FROM cards WHERE collection_id = ? ORDER BY id`,
		collectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	defer rows.Close()

	var cards []Card
	for rows.Next() {
		var c Card
		var skipped int64
		if err := rows.Scan(&c.ID, &c.Question, &c.Answer, &c.Hint, &skipped, &c.SubCollectionID); err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		c.Skipped = skipped != 0
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

// AddCard inserts a new card. A nil sub-collection resolves to the reserved
// null entry of the destination collection.
func (s *Store) AddCard(question, answer string, collectionID int64, hint string, subCollectionID *int64) (Card, error) {
	question = strings.TrimSpace(question)
	answer = strings.TrimSpace(answer)
	if question == "" || answer == "" {
		return Card{}, fmt.Errorf("question and answer cannot be empty")
	}

	subID, err := s.resolveSubCollection(collectionID, subCollectionID)
	if err != nil {
		return Card{}, err
	}

	res, err := s.db.Exec(
		`INSERT INTO cards (question, answer, collection_id, hint, sub_collection_id) VALUES (?, ?, ?, ?, ?)`,
		question, answer, collectionID, hint, subID)
	if err != nil {
		return Card{}, mapUniqueConstraint(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Card{}, err
	}
	return Card{
		ID:              id,
		Question:        question,
		Answer:          answer,
		Hint:            hint,
		SubCollectionID: subID,
	}, nil
}

// UpdateCard rewrites a card in place; moving it between collections or
// sub-collections is the same operation with different ids.
func (s *Store) UpdateCard(id int64, question, answer string, collectionID int64, hint string, subCollectionID *int64) error {
	question = strings.TrimSpace(question)
	answer = strings.TrimSpace(answer)
	if question == "" || answer == "" {
		return fmt.Errorf("question and answer cannot be empty")
	}

	subID, err := s.resolveSubCollection(collectionID, subCollectionID)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(
		`UPDATE cards SET question = ?, answer = ?, collection_id = ?, hint = ?, sub_collection_id = ? WHERE id = ?`,
		question, answer, collectionID, hint, subID, id)
	return mapUniqueConstraint(err)
}

// DeleteCard removes a card.
func (s *Store) DeleteCard(id int64) error {
	_, err := s.db.Exec(`DELETE FROM cards WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete card: %w", err)
	}
	return nil
}

// SetCardSkipped toggles the skipped flag of a single card.
func (s *Store) SetCardSkipped(cardID int64, skipped bool) error {
	val := int64(0)
	if skipped {
		val = 1
	}
	_, err := s.db.Exec(`UPDATE cards SET skipped = ? WHERE id = ?`, val, cardID)
	if err != nil {
		return fmt.Errorf("failed to set skipped flag: %w", err)
	}
	return nil
}

// ClearSkipped resets the skipped flag for every card in a collection.
func (s *Store) ClearSkipped(collectionID int64) error {
	_, err := s.db.Exec(`UPDATE cards SET skipped = 0 WHERE collection_id = ?`, collectionID)
	if err != nil {
		return fmt.Errorf("failed to clear skipped flags: %w", err)
	}
	return nil
}

func (s *Store) resolveSubCollection(collectionID int64, subCollectionID *int64) (int64, error) {
	if subCollectionID != nil {
		return *subCollectionID, nil
	}
	return s.NullSubCollectionID(collectionID)
}
