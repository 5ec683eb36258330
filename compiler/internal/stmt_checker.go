package internal

func (c *checker) checkStmt(stmt Stmt, scope *Scope) {
	switch stmt := stmt.(type) {
	case *StmtBlock:
		c.checkStmtBlock(stmt, scope)
	case *IfStmt:
		c.checkTest(stmt.Test, scope)
		c.checkStmt(stmt.Then, scope)
		if stmt.Else != nil {
			c.checkStmt(stmt.Else, scope)
		}
	case *WhileStmt:
		loopScope := scopeOr(stmt.Scope, scope)
		c.checkTest(stmt.Test, loopScope)
		c.checkStmt(stmt.Body, loopScope)
	case *ForStmt:
		loopScope := scopeOr(stmt.Scope, scope)
		c.checkExpr(stmt.Init, loopScope)
		c.checkTest(stmt.Test, loopScope)
		c.checkExpr(stmt.Step, loopScope)
		c.checkStmt(stmt.Body, loopScope)
	case *BreakStmt:
		if scope.EnclosingLoop() == nil {
			c.breakOutsideLoop(stmt)
		}
	case *ReturnStmt:
		c.checkReturn(stmt, scope)
	case *PrintStmt:
		c.checkPrint(stmt, scope)
	case Expr:
		c.checkExpr(stmt, scope)
	}
}

// scopeOr returns own unless the scope builder never attached it.
func scopeOr(own, parent *Scope) *Scope {
	if own == nil {
		return parent
	}
	return own
}

func (c *checker) checkStmtBlock(block *StmtBlock, parent *Scope) {
	scope := scopeOr(block.Scope, parent)
	for _, decl := range block.Decls {
		c.checkVarDecl(decl)
	}
	for _, stmt := range block.Stmts {
		c.checkStmt(stmt, scope)
	}
}

// checkTest checks the condition of an if, while or for, which must be boolean.
func (c *checker) checkTest(test Expr, scope *Scope) {
	if !IsEquivalentTo(c.global, c.checkExpr(test, scope), BoolType) {
		c.testNotBoolean(test)
	}
}

func (c *checker) checkReturn(stmt *ReturnStmt, scope *Scope) {
	given := c.checkExpr(stmt.Expr, scope)
	fn := scope.EnclosingFunction()
	if fn == nil {
		c.returnOutsideFunction(stmt)
		return
	}
	if !IsEquivalentTo(c.global, given, fn.ReturnType) {
		c.returnMismatch(stmt, given, fn.ReturnType)
	}
}

func (c *checker) checkPrint(stmt *PrintStmt, scope *Scope) {
	for i, arg := range stmt.Args {
		t := c.checkExpr(arg, scope)
		if t == ErrorType || t == IntType || t == BoolType || t == StringType {
			continue
		}
		c.printArgMismatch(arg, i+1, t)
	}
}
