package internal

// Scope is a name -> declaration table with a link to its parent. Scopes form a tree mirroring
// lexical nesting: global -> class/interface -> function formals -> block -> nested block or loop.
// The parent link is only used for lookups, a scope never owns its parent.
type Scope struct {
	parent *Scope
	table  map[string]Decl

	classDecl     *ClassDecl
	interfaceDecl *InterfaceDecl
	fnDecl        *FnDecl
	loopStmt      Stmt
}

func NewScope(parent *Scope) *Scope {
	return &Scope{parent: parent, table: map[string]Decl{}}
}

func newClassScope(parent *Scope, classDecl *ClassDecl) *Scope {
	scope := NewScope(parent)
	scope.classDecl = classDecl
	return scope
}

func newInterfaceScope(parent *Scope, interfaceDecl *InterfaceDecl) *Scope {
	scope := NewScope(parent)
	scope.interfaceDecl = interfaceDecl
	return scope
}

func newFnScope(parent *Scope, fnDecl *FnDecl) *Scope {
	scope := NewScope(parent)
	scope.fnDecl = fnDecl
	return scope
}

func newLoopScope(parent *Scope, loop Stmt) *Scope {
	scope := NewScope(parent)
	scope.loopStmt = loop
	return scope
}

func (s *Scope) Parent() *Scope { return s.parent }

// AddDecl inserts decl unless its name is already declared in this very scope (parents are not
// consulted, so shadowing an outer declaration is fine). On a collision the table is left unchanged
// and the declaration already holding the name is returned.
func (s *Scope) AddDecl(decl Decl) (existing Decl, ok bool) {
	name := declName(decl)
	if prev, found := s.table[name]; found {
		return prev, false
	}
	s.table[name] = decl
	return nil, true
}

// LookupLocal looks name up in this scope only.
func (s *Scope) LookupLocal(name string) Decl {
	if s == nil {
		return nil
	}
	return s.table[name]
}

// Lookup looks name up in this scope and then in each ancestor, returning the first match.
func (s *Scope) Lookup(name string) Decl {
	for cur := s; cur != nil; cur = cur.parent {
		if d, ok := cur.table[name]; ok {
			return d
		}
	}
	return nil
}

// Len returns the number of declarations held directly by this scope.
func (s *Scope) Len() int { return len(s.table) }

// ClassDecl returns the class that introduced this very scope, if any.
func (s *Scope) ClassDecl() *ClassDecl { return s.classDecl }

func (s *Scope) InterfaceDecl() *InterfaceDecl { return s.interfaceDecl }

func (s *Scope) FnDecl() *FnDecl { return s.fnDecl }

func (s *Scope) LoopStmt() Stmt { return s.loopStmt }

// EnclosingClass returns the nearest class whose scope contains s.
func (s *Scope) EnclosingClass() *ClassDecl {
	for cur := s; cur != nil; cur = cur.parent {
		if cur.classDecl != nil {
			return cur.classDecl
		}
	}
	return nil
}

// EnclosingFunction returns the nearest function whose scope contains s.
func (s *Scope) EnclosingFunction() *FnDecl {
	for cur := s; cur != nil; cur = cur.parent {
		if cur.fnDecl != nil {
			return cur.fnDecl
		}
	}
	return nil
}

// EnclosingLoop returns the nearest while or for statement whose scope contains s. The walk stops
// at a function boundary.
func (s *Scope) EnclosingLoop() Stmt {
	for cur := s; cur != nil; cur = cur.parent {
		if cur.loopStmt != nil {
			return cur.loopStmt
		}
		if cur.fnDecl != nil {
			return nil
		}
	}
	return nil
}

// Global returns the root of the scope tree.
func (s *Scope) Global() *Scope {
	cur := s
	for cur != nil && cur.parent != nil {
		cur = cur.parent
	}
	return cur
}
