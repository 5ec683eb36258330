package internal

// Type is one of *PrimitiveType, *NamedType or *ArrayType.
type Type interface {
	String() string
	typeNode()
}

// PrimitiveType values are shared singletons, so they are compared by identity.
type PrimitiveType struct {
	name string
}

// NamedType refers to a class or interface by name.
type NamedType struct {
	ID *Identifier
}

type ArrayType struct {
	Location Location
	ElemType Type
}

var (
	IntType    = &PrimitiveType{name: "int"}
	DoubleType = &PrimitiveType{name: "double"}
	BoolType   = &PrimitiveType{name: "bool"}
	VoidType   = &PrimitiveType{name: "void"}
	StringType = &PrimitiveType{name: "string"}
	NullType   = &PrimitiveType{name: "null"}
	// ErrorType is equivalent to every type. It replaces the type of anything that already failed a
	// check so no further diagnostics are reported for it.
	ErrorType = &PrimitiveType{name: "error"}
)

var primitiveTypes = map[string]*PrimitiveType{
	IntType.name:    IntType,
	DoubleType.name: DoubleType,
	BoolType.name:   BoolType,
	VoidType.name:   VoidType,
	StringType.name: StringType,
}

// LookUpPrimitiveType returns the built-in type spelled name. null and error cannot be written in
// source, so they are not found.
func LookUpPrimitiveType(name string) (*PrimitiveType, bool) {
	t, ok := primitiveTypes[name]
	return t, ok
}

func NewNamedType(id *Identifier) *NamedType {
	return &NamedType{ID: id}
}

func NewArrayType(loc Location, elem Type) *ArrayType {
	return &ArrayType{Location: loc, ElemType: elem}
}

func (t *PrimitiveType) String() string { return t.name }
func (t *NamedType) String() string     { return t.ID.Name }
func (t *ArrayType) String() string     { return t.ElemType.String() + "[]" }

func (t *NamedType) Name() string { return t.ID.Name }

func (*PrimitiveType) typeNode() {}
func (*NamedType) typeNode()     {}
func (*ArrayType) typeNode()     {}

// IsEqualTo is structural identity: the same primitive, the same class name, or arrays of equal
// element types. It never looks at the class hierarchy.
func IsEqualTo(a, b Type) bool {
	switch a := a.(type) {
	case *PrimitiveType:
		return a == b
	case *NamedType:
		other, ok := b.(*NamedType)
		return ok && a.ID.Name == other.ID.Name
	case *ArrayType:
		other, ok := b.(*ArrayType)
		return ok && IsEqualTo(a.ElemType, other.ElemType)
	}
	return false
}

// IsEquivalentTo reports whether a value of type a can be used where b is expected. global is the
// program's global scope, used to resolve class names while walking the hierarchy.
func IsEquivalentTo(global *Scope, a, b Type) bool {
	if a == ErrorType || b == ErrorType {
		return true
	}
	if a == NullType {
		if _, ok := b.(*NamedType); ok {
			return true
		}
	}
	switch a := a.(type) {
	case *NamedType:
		other, ok := b.(*NamedType)
		if !ok {
			return false
		}
		return IsEqualTo(a, other) || isSubtypeOf(global, a, other)
	case *ArrayType:
		other, ok := b.(*ArrayType)
		if !ok {
			return false
		}
		return IsEquivalentTo(global, a.ElemType, other.ElemType)
	}
	return IsEqualTo(a, b)
}

// isSubtypeOf walks the extends chain of sub; at each class it compares target against the class's
// implements list and its superclass.
func isSubtypeOf(global *Scope, sub, target *NamedType) bool {
	if global == nil {
		return false
	}
	visited := map[*ClassDecl]bool{}
	for t := sub; t != nil; {
		classDecl, ok := global.LookupLocal(t.Name()).(*ClassDecl)
		if !ok || visited[classDecl] {
			return false
		}
		visited[classDecl] = true
		for _, imp := range classDecl.Implements {
			if IsEqualTo(imp, target) {
				return true
			}
		}
		t = classDecl.Extends
		if t != nil && IsEqualTo(t, target) {
			return true
		}
	}
	return false
}

func isNumeric(t Type) bool {
	return t == IntType || t == DoubleType
}
