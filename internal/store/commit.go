package store

import "fmt"

// CommitBatch inserts all buffered declarations from a BatchedStore into
// SQLite within a single transaction. Fake (negative) IDs are remapped to
// real IDs and parent references inside the batch are rewritten using the
// fakeToReal mapping. Parents are always buffered before their children.
func (s *Store) CommitBatch(batch *BatchedStore) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("store: commit batch: begin: %w", err)
	}
	defer tx.Rollback()

	fakeToReal := make(map[int64]int64, len(batch.Declarations))
	for _, d := range batch.Declarations {
		if d.ParentDeclarationID != nil && *d.ParentDeclarationID < 0 {
			realID, ok := fakeToReal[*d.ParentDeclarationID]
			if !ok {
				return fmt.Errorf("store: commit batch: declaration %q has parent_declaration_id=%d not in fakeToReal map", d.Name, *d.ParentDeclarationID)
			}
			d.ParentDeclarationID = &realID
		}
		res, err := tx.Exec(insertDeclarationSQL, declarationArgs(&d)...)
		if err != nil {
			return fmt.Errorf("store: commit batch: declaration %q: %w", d.Name, err)
		}
		realID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("store: commit batch: last insert id: %w", err)
		}
		fakeToReal[d.ID] = realID
	}

	return tx.Commit()
}
