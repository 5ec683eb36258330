package internal

// checker is the second pass. It relies on the scopes the scope builder attached to the tree and
// never modifies the tree, so checking the same tree twice reports the same diagnostics.
type checker struct {
	errorReporter
	global *Scope
}

// CheckProgram runs the checking pass. BuildScopes must have been run on program first.
func CheckProgram(program *Program, sink Reporter) {
	c := &checker{errorReporter: errorReporter{sink: sink}, global: program.Scope}
	for _, decl := range program.Decls {
		c.checkDecl(decl, program.Scope)
	}
}

func (c *checker) checkDecl(decl Decl, scope *Scope) {
	switch decl := decl.(type) {
	case *VarDecl:
		c.checkVarDecl(decl)
	case *FnDecl:
		c.checkFnDecl(decl, scope)
	case *ClassDecl:
		c.checkClassDecl(decl)
	case *InterfaceDecl:
		c.checkInterfaceDecl(decl)
	}
}

func (c *checker) checkVarDecl(decl *VarDecl) {
	if decl.Type == VoidType {
		c.voidTypeNotAllowed(decl.Loc(), LookingForType)
		return
	}
	c.checkDeclaredType(decl.Type, LookingForType)
}

// checkDeclaredType verifies a named type, possibly wrapped in arrays, names a class or interface of
// the global scope. Arrays of void are rejected.
func (c *checker) checkDeclaredType(t Type, reason Reason) bool {
	switch t := t.(type) {
	case *NamedType:
		switch c.global.LookupLocal(t.Name()).(type) {
		case *ClassDecl, *InterfaceDecl:
			return true
		}
		c.typeNotDeclared(t, reason)
		return false
	case *ArrayType:
		if t.ElemType == VoidType {
			c.voidTypeNotAllowed(t.Location, reason)
			return false
		}
		return c.checkDeclaredType(t.ElemType, reason)
	}
	return true
}

func (c *checker) checkFnDecl(fn *FnDecl, parent *Scope) {
	c.checkDeclaredType(fn.ReturnType, LookingForType)
	for _, formal := range fn.Formals {
		c.checkVarDecl(formal)
	}
	if fn.Body == nil {
		return
	}
	scope := fn.Scope
	if scope == nil {
		// The scope builder was skipped for this function, the body cannot be resolved.
		return
	}
	c.checkStmt(fn.Body, scope)
}

func (c *checker) checkClassDecl(classDecl *ClassDecl) {
	if classDecl.Scope == nil {
		return
	}
	c.checkHierarchy(classDecl)
	for _, member := range classDecl.Members {
		c.checkDecl(member, classDecl.Scope)
	}
}

func (c *checker) checkInterfaceDecl(interfaceDecl *InterfaceDecl) {
	if interfaceDecl.Scope == nil {
		return
	}
	for _, member := range interfaceDecl.Members {
		c.checkDecl(member, interfaceDecl.Scope)
	}
}
