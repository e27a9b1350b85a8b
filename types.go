package sapling

import (
	"github.com/jward/sapling/internal/runtime"
	"github.com/jward/sapling/internal/store"
)

// Aliases for internal types that appear in the public API.

type Store = store.Store
type FileRecord = store.File
type IndexedDeclaration = store.Declaration
type DeclarationInfo = runtime.Declaration
