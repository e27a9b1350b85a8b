package sapling

// Structure describes desired node state for Fill. Nil fields are left
// alone; each capability layer reads only its own fields.
type Structure struct {
	Name              *string // Named
	IsExported        *bool   // Exportable
	IsAbstract        *bool   // Abstractable
	IsAsync           *bool   // Asyncable
	IsStatic          *bool   // Staticable
	IsReadonly        *bool   // Readonlyable
	Scope             *Scope  // Scoped
	HasDeclareKeyword *bool   // Ambientable
}

// Ptr returns a pointer to v, for building Structures.
func Ptr[T any](v T) *T { return &v }
