package internal

// checkExpr checks expr and returns its type. A node that fails a check reports it and evaluates to
// ErrorType, which every later comparison accepts, so a single mistake yields a single diagnostic.
func (c *checker) checkExpr(expr Expr, scope *Scope) Type {
	switch expr := expr.(type) {
	case nil:
		return VoidType
	case *EmptyExpr:
		return VoidType
	case *IntConstant:
		return IntType
	case *DoubleConstant:
		return DoubleType
	case *BoolConstant:
		return BoolType
	case *StringConstant:
		return StringType
	case *NullConstant:
		return NullType
	case *ReadIntegerExpr:
		return IntType
	case *ReadLineExpr:
		return StringType
	case *ArithmeticExpr:
		return c.checkArithmetic(expr, scope)
	case *RelationalExpr:
		return c.checkRelational(expr, scope)
	case *EqualityExpr:
		return c.checkEquality(expr, scope)
	case *LogicalExpr:
		return c.checkLogical(expr, scope)
	case *AssignExpr:
		return c.checkAssign(expr, scope)
	case *This:
		return c.checkThis(expr, scope)
	case *ArrayAccess:
		return c.checkArrayAccess(expr, scope)
	case *FieldAccess:
		return c.checkFieldAccess(expr, scope)
	case *Call:
		return c.checkCall(expr, scope)
	case *NewExpr:
		return c.checkNew(expr)
	case *NewArrayExpr:
		return c.checkNewArray(expr, scope)
	}
	return ErrorType
}

func (c *checker) checkArithmetic(expr *ArithmeticExpr, scope *Scope) Type {
	rtype := c.checkExpr(expr.Right, scope)
	if expr.Left == nil {
		if rtype == ErrorType || isNumeric(rtype) {
			return rtype
		}
		c.incompatibleOperand(expr.Op, rtype)
		return ErrorType
	}
	ltype := c.checkExpr(expr.Left, scope)
	if ltype == ErrorType || rtype == ErrorType {
		return ErrorType
	}
	if isNumeric(ltype) && ltype == rtype {
		return ltype
	}
	c.incompatibleOperands(expr.Op, ltype, rtype)
	return ErrorType
}

func (c *checker) checkRelational(expr *RelationalExpr, scope *Scope) Type {
	ltype := c.checkExpr(expr.Left, scope)
	rtype := c.checkExpr(expr.Right, scope)
	if ltype == ErrorType || rtype == ErrorType {
		return BoolType
	}
	if !isNumeric(ltype) || ltype != rtype {
		c.incompatibleOperands(expr.Op, ltype, rtype)
	}
	return BoolType
}

func (c *checker) checkEquality(expr *EqualityExpr, scope *Scope) Type {
	ltype := c.checkExpr(expr.Left, scope)
	rtype := c.checkExpr(expr.Right, scope)
	if !IsEquivalentTo(c.global, rtype, ltype) && !IsEquivalentTo(c.global, ltype, rtype) {
		c.incompatibleOperands(expr.Op, ltype, rtype)
	}
	return BoolType
}

func (c *checker) checkLogical(expr *LogicalExpr, scope *Scope) Type {
	rtype := c.checkExpr(expr.Right, scope)
	if expr.Left == nil {
		if !IsEquivalentTo(c.global, rtype, BoolType) {
			c.incompatibleOperand(expr.Op, rtype)
		}
		return BoolType
	}
	ltype := c.checkExpr(expr.Left, scope)
	if !IsEquivalentTo(c.global, ltype, BoolType) || !IsEquivalentTo(c.global, rtype, BoolType) {
		c.incompatibleOperands(expr.Op, ltype, rtype)
	}
	return BoolType
}

func (c *checker) checkAssign(expr *AssignExpr, scope *Scope) Type {
	ltype := c.checkExpr(expr.Left, scope)
	rtype := c.checkExpr(expr.Right, scope)
	if !IsEquivalentTo(c.global, rtype, ltype) {
		c.incompatibleOperands(expr.Op, ltype, rtype)
	}
	return ltype
}

func (c *checker) checkThis(expr *This, scope *Scope) Type {
	classDecl := scope.EnclosingClass()
	if classDecl == nil {
		c.thisOutsideClassScope(expr)
		return ErrorType
	}
	return classDecl.Type()
}

func (c *checker) checkArrayAccess(expr *ArrayAccess, scope *Scope) Type {
	btype := c.checkExpr(expr.Base, scope)
	stype := c.checkExpr(expr.Subscript, scope)
	if stype != ErrorType && stype != IntType {
		c.subscriptNotInteger(expr.Subscript)
	}
	if btype == ErrorType {
		return ErrorType
	}
	arrayType, ok := btype.(*ArrayType)
	if !ok {
		c.bracketsOnNonArray(expr.Base)
		return ErrorType
	}
	return arrayType.ElemType
}

// lookUpUnqualified resolves a name used without a base. It walks the lexical chain outwards; at a
// class scope it searches the class and its superclasses, so inherited members hide globals.
func (c *checker) lookUpUnqualified(name string, scope *Scope) Decl {
	for cur := scope; cur != nil; cur = cur.Parent() {
		if classDecl := cur.ClassDecl(); classDecl != nil {
			if d := c.lookUpMember(classDecl.Type(), name); d != nil {
				return d
			}
			continue
		}
		if d := cur.LookupLocal(name); d != nil {
			return d
		}
	}
	return nil
}

func (c *checker) checkFieldAccess(expr *FieldAccess, scope *Scope) Type {
	if expr.Base == nil {
		varDecl, ok := c.lookUpUnqualified(expr.Field.Name, scope).(*VarDecl)
		if !ok {
			c.identifierNotDeclared(expr.Field, LookingForVariable)
			return ErrorType
		}
		return varDecl.Type
	}
	btype := c.checkExpr(expr.Base, scope)
	if btype == ErrorType {
		return ErrorType
	}
	d := c.lookUpMember(btype, expr.Field.Name)
	if d == nil {
		c.fieldNotFoundInBase(expr.Field, btype)
		return ErrorType
	}
	varDecl, ok := d.(*VarDecl)
	if !ok {
		c.identifierNotDeclared(expr.Field, LookingForVariable)
		return ErrorType
	}
	if !c.canAccessFields(btype, scope) {
		c.inaccessibleField(expr.Field, btype)
		return ErrorType
	}
	return varDecl.Type
}

// canAccessFields reports whether code in scope may read fields through a value of type base. Fields
// are protected: only code inside a class can reach them, and only through values of that class or
// one of its subclasses.
func (c *checker) canAccessFields(base Type, scope *Scope) bool {
	classDecl := scope.EnclosingClass()
	if classDecl == nil {
		return false
	}
	return IsEquivalentTo(c.global, base, classDecl.Type())
}

func (c *checker) checkCall(expr *Call, scope *Scope) Type {
	var d Decl
	if expr.Base == nil {
		d = c.lookUpUnqualified(expr.Field.Name, scope)
		if d == nil {
			c.checkActuals(expr, nil, scope)
			c.identifierNotDeclared(expr.Field, LookingForFunction)
			return ErrorType
		}
	} else {
		btype := c.checkExpr(expr.Base, scope)
		if btype == ErrorType {
			c.checkActuals(expr, nil, scope)
			return ErrorType
		}
		if _, isArray := btype.(*ArrayType); isArray && expr.Field.Name == "length" {
			c.checkActuals(expr, nil, scope)
			if len(expr.Actuals) != 0 {
				c.numArgsMismatch(expr.Field, 0, len(expr.Actuals))
			}
			return IntType
		}
		d = c.lookUpMember(btype, expr.Field.Name)
		if d == nil {
			c.checkActuals(expr, nil, scope)
			c.fieldNotFoundInBase(expr.Field, btype)
			return ErrorType
		}
	}
	fn, ok := d.(*FnDecl)
	if !ok {
		c.checkActuals(expr, nil, scope)
		c.identifierNotDeclared(expr.Field, LookingForFunction)
		return ErrorType
	}
	c.checkActuals(expr, fn, scope)
	return fn.ReturnType
}

// checkActuals checks every argument expression and, when fn is known, matches them against its
// formals.
func (c *checker) checkActuals(expr *Call, fn *FnDecl, scope *Scope) {
	given := make([]Type, len(expr.Actuals))
	for i, actual := range expr.Actuals {
		given[i] = c.checkExpr(actual, scope)
	}
	if fn == nil {
		return
	}
	if len(fn.Formals) != len(expr.Actuals) {
		c.numArgsMismatch(expr.Field, len(fn.Formals), len(expr.Actuals))
		return
	}
	for i, formal := range fn.Formals {
		if !IsEquivalentTo(c.global, given[i], formal.Type) {
			c.argMismatch(expr.Actuals[i], i+1, given[i], formal.Type)
		}
	}
}

func (c *checker) checkNew(expr *NewExpr) Type {
	classDecl := c.lookUpClass(expr.Class)
	if classDecl == nil {
		c.identifierNotDeclared(expr.Class.ID, LookingForClass)
		return ErrorType
	}
	return classDecl.Type()
}

func (c *checker) checkNewArray(expr *NewArrayExpr, scope *Scope) Type {
	stype := c.checkExpr(expr.Size, scope)
	if stype != ErrorType && stype != IntType {
		c.newArraySizeNotInteger(expr.Size)
	}
	if expr.ElemType == VoidType {
		c.voidTypeNotAllowed(expr.Location, LookingForType)
		return ErrorType
	}
	if !c.checkDeclaredType(expr.ElemType, LookingForType) {
		return ErrorType
	}
	return NewArrayType(expr.Location, expr.ElemType)
}
