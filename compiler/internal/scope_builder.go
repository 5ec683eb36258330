package internal

// The scope builder is the first pass. It creates a Scope for every scope-introducing node, links it
// to its parent and registers declarations. Declarations at one level are all registered before any
// of them is recursed into, so forward references among classes, interfaces, functions and class
// members resolve regardless of textual order.
type scopeBuilder struct {
	errorReporter
}

// BuildScopes runs the scope-building pass over program, reporting declaration conflicts to sink.
// It must run exactly once per tree, before checking.
func BuildScopes(program *Program, sink Reporter) {
	builder := &scopeBuilder{errorReporter{sink: sink}}
	builder.buildProgram(program)
}

func (b *scopeBuilder) buildProgram(program *Program) {
	program.Scope = NewScope(nil)
	b.addDecls(program.Scope, program.Decls)
	for _, decl := range program.Decls {
		b.buildDecl(decl, program.Scope)
	}
}

// addDecls registers decls in source order, so the first declaration of a name wins and the later
// ones are reported against it.
func (b *scopeBuilder) addDecls(scope *Scope, decls []Decl) {
	for _, decl := range decls {
		b.addDecl(scope, decl)
	}
}

func (b *scopeBuilder) addDecl(scope *Scope, decl Decl) {
	if prev, ok := scope.AddDecl(decl); !ok {
		b.declConflict(decl, prev)
	}
}

func (b *scopeBuilder) buildDecl(decl Decl, parent *Scope) {
	switch decl := decl.(type) {
	case *VarDecl:
		return
	case *FnDecl:
		b.buildFn(decl, parent)
	case *ClassDecl:
		if decl.typ == nil {
			decl.typ = NewNamedType(decl.ID)
		}
		decl.Scope = newClassScope(parent, decl)
		b.addDecls(decl.Scope, decl.Members)
		for _, member := range decl.Members {
			b.buildDecl(member, decl.Scope)
		}
	case *InterfaceDecl:
		if decl.typ == nil {
			decl.typ = NewNamedType(decl.ID)
		}
		decl.Scope = newInterfaceScope(parent, decl)
		b.addDecls(decl.Scope, decl.Members)
		for _, member := range decl.Members {
			b.buildDecl(member, decl.Scope)
		}
	}
}

func (b *scopeBuilder) buildFn(fn *FnDecl, parent *Scope) {
	fn.Scope = newFnScope(parent, fn)
	for _, formal := range fn.Formals {
		b.addDecl(fn.Scope, formal)
	}
	if fn.Body != nil {
		b.buildStmt(fn.Body, fn.Scope)
	}
}

func (b *scopeBuilder) buildStmt(stmt Stmt, parent *Scope) {
	switch stmt := stmt.(type) {
	case *StmtBlock:
		stmt.Scope = NewScope(parent)
		for _, decl := range stmt.Decls {
			b.addDecl(stmt.Scope, decl)
		}
		for _, s := range stmt.Stmts {
			b.buildStmt(s, stmt.Scope)
		}
	case *IfStmt:
		b.buildStmt(stmt.Then, parent)
		if stmt.Else != nil {
			b.buildStmt(stmt.Else, parent)
		}
	case *WhileStmt:
		stmt.Scope = newLoopScope(parent, stmt)
		b.buildStmt(stmt.Body, stmt.Scope)
	case *ForStmt:
		stmt.Scope = newLoopScope(parent, stmt)
		b.buildStmt(stmt.Body, stmt.Scope)
	}
	// Remaining statements and expressions bind nothing; they are checked in the scope passed down.
}
