package store

import (
	"database/sql"
	"fmt"
	"strings"
)

// Collections returns all collections ordered by name.
func (s *Store) Collections() ([]Collection, error) {
	rows, err := s.db.Query(`SELECT id, name FROM collections ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	defer rows.Close()

	var collections []Collection
	for rows.Next() {
		var c Collection
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("failed to scan collection: %w", err)
		}
		collections = append(collections, c)
	}
	return collections, rows.Err()
}

// CreateCollection creates a collection and its reserved null sub-collection.
func (s *Store) CreateCollection(name string) (Collection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Collection{}, fmt.Errorf("collection name cannot be empty")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return Collection{}, err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`INSERT INTO collections (name) VALUES (?)`, name)
	if err != nil {
		return Collection{}, fmt.Errorf("failed to create collection: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Collection{}, err
	}

	_, err = tx.Exec(`INSERT INTO sub_collections (name, collection_id) VALUES (?, ?)`,
		NullSubCollectionName, id)
	if err != nil {
		return Collection{}, fmt.Errorf("failed to create null sub-collection: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Collection{}, err
	}
	return Collection{ID: id, Name: name}, nil
}

// RenameCollection updates a collection's name.
func (s *Store) RenameCollection(id int64, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("collection name cannot be empty")
	}
	_, err := s.db.Exec(`UPDATE collections SET name = ? WHERE id = ?`, name, id)
	if err != nil {
		return fmt.Errorf("failed to rename collection: %w", err)
	}
	return nil
}

// DeleteCollection deletes a collection together with its cards and
// sub-collections.
func (s *Store) DeleteCollection(id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM cards WHERE collection_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete cards: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM sub_collections WHERE collection_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete sub-collections: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM collections WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete collection: %w", err)
	}

	return tx.Commit()
}

// SubCollections returns all sub-collections of a collection, including the
// reserved null entry, ordered by name.
func (s *Store) SubCollections(collectionID int64) ([]SubCollection, error) {
	rows, err := s.db.Query(
		`SELECT id, name, collection_id FROM sub_collections WHERE collection_id = ? ORDER BY name`,
		collectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sub-collections: %w", err)
	}
	defer rows.Close()

	var subs []SubCollection
	for rows.Next() {
		var sc SubCollection
		if err := rows.Scan(&sc.ID, &sc.Name, &sc.CollectionID); err != nil {
			return nil, fmt.Errorf("failed to scan sub-collection: %w", err)
		}
		subs = append(subs, sc)
	}
	return subs, rows.Err()
}

// PickableSubCollections returns the sub-collections shown in user-facing
// pick lists, i.e. everything except the reserved null entry.
func (s *Store) PickableSubCollections(collectionID int64) ([]SubCollection, error) {
	subs, err := s.SubCollections(collectionID)
	if err != nil {
		return nil, err
	}
	picked := subs[:0]
	for _, sc := range subs {
		if sc.Name != NullSubCollectionName {
			picked = append(picked, sc)
		}
	}
	return picked, nil
}

// NullSubCollectionID returns the id of the reserved null sub-collection for
// the given collection.
func (s *Store) NullSubCollectionID(collectionID int64) (int64, error) {
	var id int64
	err := s.db.QueryRow(
		`SELECT id FROM sub_collections WHERE collection_id = ? AND name = ?`,
		collectionID, NullSubCollectionName).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve null sub-collection: %w", err)
	}
	return id, nil
}

// CreateSubCollection creates a sub-collection. The reserved null name is
// rejected.
func (s *Store) CreateSubCollection(collectionID int64, name string) (SubCollection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return SubCollection{}, fmt.Errorf("sub collection name cannot be empty")
	}
	if strings.EqualFold(name, NullSubCollectionName) {
		return SubCollection{}, fmt.Errorf("that name is reserved for internal use")
	}

	res, err := s.db.Exec(`INSERT INTO sub_collections (name, collection_id) VALUES (?, ?)`,
		name, collectionID)
	if err != nil {
		return SubCollection{}, fmt.Errorf("failed to create sub-collection: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return SubCollection{}, err
	}
	return SubCollection{ID: id, Name: name, CollectionID: collectionID}, nil
}

// RenameSubCollection updates a sub-collection's name. The reserved null
// entry cannot be renamed and its name cannot be taken.
func (s *Store) RenameSubCollection(id int64, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("sub collection name cannot be empty")
	}
	if strings.EqualFold(name, NullSubCollectionName) {
		return fmt.Errorf("that name is reserved for internal use")
	}

	var current string
	if err := s.db.QueryRow(`SELECT name FROM sub_collections WHERE id = ?`, id).Scan(&current); err != nil {
		if err == sql.ErrNoRows {
			return fmt.Errorf("sub-collection not found")
		}
		return err
	}
	if current == NullSubCollectionName {
		return fmt.Errorf("the reserved sub-collection cannot be renamed")
	}

	_, err := s.db.Exec(`UPDATE sub_collections SET name = ? WHERE id = ?`, name, id)
	if err != nil {
		return fmt.Errorf("failed to rename sub-collection: %w", err)
	}
	return nil
}

// DeleteSubCollection deletes a sub-collection, reassigning its cards to the
// reserved null entry of the same collection.
func (s *Store) DeleteSubCollection(id int64) error {
	var name string
	var collectionID int64
	err := s.db.QueryRow(
		`SELECT name, collection_id FROM sub_collections WHERE id = ?`, id).
		Scan(&name, &collectionID)
	if err != nil {
		if err == sql.ErrNoRows {
			return fmt.Errorf("sub-collection not found")
		}
		return err
	}
	if name == NullSubCollectionName {
		return fmt.Errorf("the reserved sub-collection cannot be deleted")
	}

	nullID, err := s.NullSubCollectionID(collectionID)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`UPDATE cards SET sub_collection_id = ? WHERE sub_collection_id = ?`,
		nullID, id); err != nil {
		return fmt.Errorf("failed to reassign cards: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM sub_collections WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete sub-collection: %w", err)
	}

	return tx.Commit()
}
