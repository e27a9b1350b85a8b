package store

// DataStore is the interface for indexing-phase data access. Both Store
// (direct SQLite) and BatchedStore (in-memory buffering) implement it.
type DataStore interface {
	// InsertDeclaration returns the assigned ID.
	InsertDeclaration(d *Declaration) (int64, error)

	DeclarationsByName(name string) ([]*Declaration, error)
	DeclarationsByFile(fileID int64) ([]*Declaration, error)
}

// Compile-time check: *Store satisfies DataStore.
var _ DataStore = (*Store)(nil)
