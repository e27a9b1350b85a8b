package store

import "sync"

// BatchedStore buffers declaration inserts in memory using fake (negative)
// IDs, so one file's declarations can be collected before any of them hit
// SQLite and committed together with CommitBatch.
//
// Thread safety: the mutex protects fake ID allocation and slice appends.
// Read queries pass through to the underlying Store.
type BatchedStore struct {
	store *Store // for read passthrough
	mu    sync.Mutex

	Declarations []Declaration

	nextFakeID int64 // starts at -1, decrements
}

// Compile-time check: *BatchedStore satisfies DataStore.
var _ DataStore = (*BatchedStore)(nil)

// NewBatchedStore creates a BatchedStore backed by the given Store for read queries.
func NewBatchedStore(s *Store) *BatchedStore {
	return &BatchedStore{
		store:      s,
		nextFakeID: -1,
	}
}

func (b *BatchedStore) allocFakeID() int64 {
	id := b.nextFakeID
	b.nextFakeID--
	return id
}

func (b *BatchedStore) InsertDeclaration(d *Declaration) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fakeID := b.allocFakeID()
	d.ID = fakeID
	b.Declarations = append(b.Declarations, *d)
	return fakeID, nil
}

// DeclarationsByName passes through to the underlying Store and appends
// matching buffered declarations.
func (b *BatchedStore) DeclarationsByName(name string) ([]*Declaration, error) {
	dbDecls, err := b.store.DeclarationsByName(name)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.Declarations {
		if b.Declarations[i].Name == name {
			dbDecls = append(dbDecls, &b.Declarations[i])
		}
	}
	return dbDecls, nil
}

// DeclarationsByFile returns declarations for a file, merging any buffered
// (not yet committed) declarations with those already in the database.
func (b *BatchedStore) DeclarationsByFile(fileID int64) ([]*Declaration, error) {
	dbDecls, err := b.store.DeclarationsByFile(fileID)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.Declarations {
		if b.Declarations[i].FileID != nil && *b.Declarations[i].FileID == fileID {
			dbDecls = append(dbDecls, &b.Declarations[i])
		}
	}
	return dbDecls, nil
}
