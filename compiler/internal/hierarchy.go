package internal

// The class hierarchy verifier checks extends / implements targets, inherited members that a class
// redeclares, and that every interface a class implements is fully provided by the class or one of
// its superclasses.

func (c *checker) lookUpClass(t *NamedType) *ClassDecl {
	classDecl, _ := c.global.LookupLocal(t.Name()).(*ClassDecl)
	return classDecl
}

func (c *checker) lookUpInterface(t *NamedType) *InterfaceDecl {
	interfaceDecl, _ := c.global.LookupLocal(t.Name()).(*InterfaceDecl)
	return interfaceDecl
}

// superclasses returns the extends chain of classDecl, nearest first, excluding classDecl itself. The
// walk stops at a class without extends or with an unresolved one. cyclic is true when the chain runs
// into a class it has already visited.
func (c *checker) superclasses(classDecl *ClassDecl) (chain []*ClassDecl, cyclic bool) {
	visited := map[*ClassDecl]bool{classDecl: true}
	for cur := classDecl; cur.Extends != nil; {
		next := c.lookUpClass(cur.Extends)
		if next == nil {
			return chain, false
		}
		if visited[next] {
			return chain, true
		}
		visited[next] = true
		chain = append(chain, next)
		cur = next
	}
	return chain, false
}

func (c *checker) checkHierarchy(classDecl *ClassDecl) {
	if classDecl.Extends != nil && c.lookUpClass(classDecl.Extends) == nil {
		c.identifierNotDeclared(classDecl.Extends.ID, LookingForClass)
	}
	var implemented []*NamedType
	var interfaces []*InterfaceDecl
	for _, imp := range classDecl.Implements {
		interfaceDecl := c.lookUpInterface(imp)
		if interfaceDecl == nil {
			c.identifierNotDeclared(imp.ID, LookingForInterface)
			continue
		}
		implemented = append(implemented, imp)
		interfaces = append(interfaces, interfaceDecl)
	}
	ancestors, cyclic := c.superclasses(classDecl)
	if cyclic {
		c.cyclicInheritance(classDecl)
		return
	}
	reported := map[Decl]bool{}
	seen := map[string]bool{}
	for _, ancestor := range ancestors {
		for _, member := range ancestor.Members {
			name := declName(member)
			if seen[name] {
				continue
			}
			seen[name] = true
			c.checkOverride(classDecl, ancestor.Scope.LookupLocal(name), reported)
		}
	}
	for i, interfaceDecl := range interfaces {
		for _, member := range interfaceDecl.Members {
			c.checkOverride(classDecl, interfaceDecl.Scope.LookupLocal(declName(member)), reported)
		}
		if !c.providesInterface(classDecl, ancestors, interfaceDecl) {
			c.interfaceNotImplemented(classDecl, implemented[i])
		}
	}
}

// checkOverride compares the member classDecl declares under inherited's name, if any, with
// inherited. A class may not redeclare an inherited field, and a method overriding another one must
// keep its signature.
func (c *checker) checkOverride(classDecl *ClassDecl, inherited Decl, reported map[Decl]bool) {
	if inherited == nil {
		return
	}
	own := classDecl.Scope.LookupLocal(declName(inherited))
	if own == nil || reported[own] {
		return
	}
	switch own := own.(type) {
	case *FnDecl:
		inheritedFn, ok := inherited.(*FnDecl)
		if !ok {
			reported[own] = true
			c.declConflict(own, inherited)
			return
		}
		if !c.sameSignature(own, inheritedFn) {
			reported[own] = true
			c.overrideMismatch(own)
		}
	default:
		reported[own] = true
		c.declConflict(own, inherited)
	}
}

// sameSignature reports whether fn can override expected: equivalent return types and the same
// number of formals with pairwise equivalent types.
func (c *checker) sameSignature(fn, expected *FnDecl) bool {
	if !IsEquivalentTo(c.global, fn.ReturnType, expected.ReturnType) {
		return false
	}
	if len(fn.Formals) != len(expected.Formals) {
		return false
	}
	for i, formal := range fn.Formals {
		if !IsEquivalentTo(c.global, formal.Type, expected.Formals[i].Type) {
			return false
		}
	}
	return true
}

// providesInterface reports whether each method of interfaceDecl is matched by the nearest
// declaration of the same name found walking from classDecl up its superclasses.
func (c *checker) providesInterface(classDecl *ClassDecl, ancestors []*ClassDecl, interfaceDecl *InterfaceDecl) bool {
	chain := append([]*ClassDecl{classDecl}, ancestors...)
	for _, member := range interfaceDecl.Members {
		required, ok := member.(*FnDecl)
		if !ok {
			continue
		}
		if !c.chainProvides(chain, required) {
			return false
		}
	}
	return true
}

func (c *checker) chainProvides(chain []*ClassDecl, required *FnDecl) bool {
	for _, cls := range chain {
		d := cls.Scope.LookupLocal(required.ID.Name)
		if d == nil {
			continue
		}
		fn, ok := d.(*FnDecl)
		return ok && c.sameSignature(fn, required)
	}
	return false
}

// lookUpMember finds the member name on values of type t: the class's own scope and then its
// superclasses, or the interface's scope. Other types have no members.
func (c *checker) lookUpMember(t Type, name string) Decl {
	named, ok := t.(*NamedType)
	if !ok {
		return nil
	}
	switch decl := c.global.LookupLocal(named.Name()).(type) {
	case *ClassDecl:
		visited := map[*ClassDecl]bool{}
		for cls := decl; cls != nil && !visited[cls]; {
			visited[cls] = true
			if member := cls.Scope.LookupLocal(name); member != nil {
				return member
			}
			if cls.Extends == nil {
				break
			}
			cls = c.lookUpClass(cls.Extends)
		}
	case *InterfaceDecl:
		return decl.Scope.LookupLocal(name)
	}
	return nil
}
