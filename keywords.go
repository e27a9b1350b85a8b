package sapling

// AbstractableNode is implemented by classes and class members.
type AbstractableNode interface {
	ModifierableNode
	IsAbstract() bool
	AbstractKeyword() Node
	SetIsAbstract(value bool) error
}

// Abstractable manages the abstract keyword. On a class the grammar
// production changes between class and abstract class; the wrapper follows.
type Abstractable struct {
	n *nodeBase
}

func (a Abstractable) IsAbstract() bool      { return a.n.firstModifier(KeywordAbstract) != nil }
func (a Abstractable) AbstractKeyword() Node { return a.n.firstModifier(KeywordAbstract) }
func (a Abstractable) SetIsAbstract(value bool) error {
	return a.n.toggleModifier(KeywordAbstract, value)
}

func fillAbstractable(n *nodeBase, s Structure) error {
	if s.IsAbstract == nil {
		return nil
	}
	return n.toggleModifier(KeywordAbstract, *s.IsAbstract)
}

// AsyncableNode is implemented by functions and methods.
type AsyncableNode interface {
	ModifierableNode
	IsAsync() bool
	AsyncKeyword() Node
	SetIsAsync(value bool) error
}

type Asyncable struct {
	n *nodeBase
}

func (a Asyncable) IsAsync() bool      { return a.n.firstModifier(KeywordAsync) != nil }
func (a Asyncable) AsyncKeyword() Node { return a.n.firstModifier(KeywordAsync) }
func (a Asyncable) SetIsAsync(value bool) error {
	return a.n.toggleModifier(KeywordAsync, value)
}

func fillAsyncable(n *nodeBase, s Structure) error {
	if s.IsAsync == nil {
		return nil
	}
	return n.toggleModifier(KeywordAsync, *s.IsAsync)
}

// StaticableNode is implemented by class members.
type StaticableNode interface {
	ModifierableNode
	IsStatic() bool
	StaticKeyword() Node
	SetIsStatic(value bool) error
}

type Staticable struct {
	n *nodeBase
}

func (st Staticable) IsStatic() bool      { return st.n.firstModifier(KeywordStatic) != nil }
func (st Staticable) StaticKeyword() Node { return st.n.firstModifier(KeywordStatic) }
func (st Staticable) SetIsStatic(value bool) error {
	return st.n.toggleModifier(KeywordStatic, value)
}

func fillStaticable(n *nodeBase, s Structure) error {
	if s.IsStatic == nil {
		return nil
	}
	return n.toggleModifier(KeywordStatic, *s.IsStatic)
}

// ReadonlyableNode is implemented by properties.
type ReadonlyableNode interface {
	ModifierableNode
	IsReadonly() bool
	ReadonlyKeyword() Node
	SetIsReadonly(value bool) error
}

type Readonlyable struct {
	n *nodeBase
}

func (r Readonlyable) IsReadonly() bool      { return r.n.firstModifier(KeywordReadonly) != nil }
func (r Readonlyable) ReadonlyKeyword() Node { return r.n.firstModifier(KeywordReadonly) }
func (r Readonlyable) SetIsReadonly(value bool) error {
	return r.n.toggleModifier(KeywordReadonly, value)
}

func fillReadonlyable(n *nodeBase, s Structure) error {
	if s.IsReadonly == nil {
		return nil
	}
	return n.toggleModifier(KeywordReadonly, *s.IsReadonly)
}
