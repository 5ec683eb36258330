package internal

import "fmt"

// In this file, we defined all ast nodes the semantic checker consumes. The tree is produced by an
// external parser and handed over already built; the checker only annotates scope-introducing nodes
// with their Scope. There are four families: Decl, Stmt, Expr and Type (see types.go). Each family is
// a closed set, every implementation lives in this package.

type Location struct {
	FirstLine   int
	FirstColumn int
	LastLine    int
	LastColumn  int
}

func (loc Location) String() string {
	return fmt.Sprintf("%d:%d", loc.FirstLine, loc.FirstColumn)
}

// Join returns the span covering both a and b.
func Join(a, b Location) Location {
	return Location{FirstLine: a.FirstLine, FirstColumn: a.FirstColumn, LastLine: b.LastLine, LastColumn: b.LastColumn}
}

type Node interface {
	Loc() Location
}

type Identifier struct {
	Name     string
	Location Location
}

func NewIdentifier(loc Location, name string) *Identifier {
	return &Identifier{Name: name, Location: loc}
}

func (id *Identifier) Loc() Location  { return id.Location }
func (id *Identifier) String() string { return id.Name }

// Program is the root of the tree. Scope is the global scope, filled by the scope builder.
type Program struct {
	Decls []Decl
	Scope *Scope
}

// ---------------------------------------------------------------------------------------------------
// Declarations.

type Decl interface {
	Node
	Ident() *Identifier
	declNode()
}

func declName(d Decl) string { return d.Ident().Name }

type VarDecl struct {
	ID   *Identifier
	Type Type
}

type FnDecl struct {
	ID         *Identifier
	ReturnType Type
	Formals    []*VarDecl
	// Body is nil for prototypes (interface methods).
	Body Stmt

	Scope *Scope // formals scope, set by the scope builder.
}

type ClassDecl struct {
	ID         *Identifier
	Extends    *NamedType
	Implements []*NamedType
	Members    []Decl

	Scope *Scope
	typ   *NamedType
}

type InterfaceDecl struct {
	ID      *Identifier
	Members []Decl

	Scope *Scope
	typ   *NamedType
}

func (d *VarDecl) Loc() Location       { return d.ID.Location }
func (d *FnDecl) Loc() Location        { return d.ID.Location }
func (d *ClassDecl) Loc() Location     { return d.ID.Location }
func (d *InterfaceDecl) Loc() Location { return d.ID.Location }

func (d *VarDecl) Ident() *Identifier       { return d.ID }
func (d *FnDecl) Ident() *Identifier        { return d.ID }
func (d *ClassDecl) Ident() *Identifier     { return d.ID }
func (d *InterfaceDecl) Ident() *Identifier { return d.ID }

func (*VarDecl) declNode()       {}
func (*FnDecl) declNode()        {}
func (*ClassDecl) declNode()     {}
func (*InterfaceDecl) declNode() {}

// Type returns the named type denoting this class. The tree loader and the scope builder set it once;
// a declaration built by hand gets a fresh value on each call.
func (d *ClassDecl) Type() *NamedType {
	if d.typ == nil {
		return NewNamedType(d.ID)
	}
	return d.typ
}

func (d *InterfaceDecl) Type() *NamedType {
	if d.typ == nil {
		return NewNamedType(d.ID)
	}
	return d.typ
}

// ---------------------------------------------------------------------------------------------------
// Statements.

type Stmt interface {
	Node
	stmtNode()
}

type StmtBlock struct {
	Location Location
	Decls    []*VarDecl
	Stmts    []Stmt

	Scope *Scope
}

type IfStmt struct {
	Location Location
	Test     Expr
	Then     Stmt
	Else     Stmt // nil when absent.
}

type WhileStmt struct {
	Location Location
	Test     Expr
	Body     Stmt

	Scope *Scope
}

type ForStmt struct {
	Location Location
	Init     Expr
	Test     Expr
	Step     Expr
	Body     Stmt

	Scope *Scope
}

type BreakStmt struct {
	Location Location
}

type ReturnStmt struct {
	Location Location
	Expr     Expr // EmptyExpr for a bare return.
}

type PrintStmt struct {
	Location Location
	Args     []Expr
}

func (s *StmtBlock) Loc() Location  { return s.Location }
func (s *IfStmt) Loc() Location     { return s.Location }
func (s *WhileStmt) Loc() Location  { return s.Location }
func (s *ForStmt) Loc() Location    { return s.Location }
func (s *BreakStmt) Loc() Location  { return s.Location }
func (s *ReturnStmt) Loc() Location { return s.Location }
func (s *PrintStmt) Loc() Location  { return s.Location }

func (*StmtBlock) stmtNode()  {}
func (*IfStmt) stmtNode()     {}
func (*WhileStmt) stmtNode()  {}
func (*ForStmt) stmtNode()    {}
func (*BreakStmt) stmtNode()  {}
func (*ReturnStmt) stmtNode() {}
func (*PrintStmt) stmtNode()  {}

// ---------------------------------------------------------------------------------------------------
// Expressions. An expression can stand alone as a statement.

type Expr interface {
	Stmt
	exprNode()
}

type Operator struct {
	Location Location
	Token    string
}

func (op *Operator) String() string { return op.Token }

// EmptyExpr is used where an expression is optional, like a bare return.
type EmptyExpr struct {
	Location Location
}

type IntConstant struct {
	Location Location
	Value    int
}

type DoubleConstant struct {
	Location Location
	Value    float64
}

type BoolConstant struct {
	Location Location
	Value    bool
}

type StringConstant struct {
	Location Location
	Value    string
}

type NullConstant struct {
	Location Location
}

// For unary ArithmeticExpr and LogicalExpr, Left is nil.
type ArithmeticExpr struct {
	Op          *Operator
	Left, Right Expr
}

type RelationalExpr struct {
	Op          *Operator
	Left, Right Expr
}

type EqualityExpr struct {
	Op          *Operator
	Left, Right Expr
}

type LogicalExpr struct {
	Op          *Operator
	Left, Right Expr
}

type AssignExpr struct {
	Op          *Operator
	Left, Right Expr
}

type This struct {
	Location Location
}

type ArrayAccess struct {
	Location  Location
	Base      Expr
	Subscript Expr
}

// FieldAccess is used both for base.field and a bare field. Base is nil when there is no explicit
// base; whether it means a local, a global or an implicit this.field is sorted out by the checker.
type FieldAccess struct {
	Base  Expr
	Field *Identifier
}

// Call is like FieldAccess: Base is nil for an unqualified call.
type Call struct {
	Location Location
	Base     Expr
	Field    *Identifier
	Actuals  []Expr
}

type NewExpr struct {
	Location Location
	Class    *NamedType
}

type NewArrayExpr struct {
	Location Location
	Size     Expr
	ElemType Type
}

type ReadIntegerExpr struct {
	Location Location
}

type ReadLineExpr struct {
	Location Location
}

func (e *EmptyExpr) Loc() Location       { return e.Location }
func (e *IntConstant) Loc() Location     { return e.Location }
func (e *DoubleConstant) Loc() Location  { return e.Location }
func (e *BoolConstant) Loc() Location    { return e.Location }
func (e *StringConstant) Loc() Location  { return e.Location }
func (e *NullConstant) Loc() Location    { return e.Location }
func (e *ArithmeticExpr) Loc() Location  { return compoundLoc(e.Left, e.Op, e.Right) }
func (e *RelationalExpr) Loc() Location  { return compoundLoc(e.Left, e.Op, e.Right) }
func (e *EqualityExpr) Loc() Location    { return compoundLoc(e.Left, e.Op, e.Right) }
func (e *LogicalExpr) Loc() Location     { return compoundLoc(e.Left, e.Op, e.Right) }
func (e *AssignExpr) Loc() Location      { return compoundLoc(e.Left, e.Op, e.Right) }
func (e *This) Loc() Location            { return e.Location }
func (e *ArrayAccess) Loc() Location     { return e.Location }
func (e *Call) Loc() Location            { return e.Location }
func (e *NewExpr) Loc() Location         { return e.Location }
func (e *NewArrayExpr) Loc() Location    { return e.Location }
func (e *ReadIntegerExpr) Loc() Location { return e.Location }
func (e *ReadLineExpr) Loc() Location    { return e.Location }

func (e *FieldAccess) Loc() Location {
	if e.Base == nil {
		return e.Field.Location
	}
	return Join(e.Base.Loc(), e.Field.Location)
}

func compoundLoc(left Expr, op *Operator, right Expr) Location {
	if left == nil {
		return Join(op.Location, right.Loc())
	}
	return Join(left.Loc(), right.Loc())
}

func (*EmptyExpr) stmtNode()       {}
func (*IntConstant) stmtNode()     {}
func (*DoubleConstant) stmtNode()  {}
func (*BoolConstant) stmtNode()    {}
func (*StringConstant) stmtNode()  {}
func (*NullConstant) stmtNode()    {}
func (*ArithmeticExpr) stmtNode()  {}
func (*RelationalExpr) stmtNode()  {}
func (*EqualityExpr) stmtNode()    {}
func (*LogicalExpr) stmtNode()     {}
func (*AssignExpr) stmtNode()      {}
func (*This) stmtNode()            {}
func (*ArrayAccess) stmtNode()     {}
func (*FieldAccess) stmtNode()     {}
func (*Call) stmtNode()            {}
func (*NewExpr) stmtNode()         {}
func (*NewArrayExpr) stmtNode()    {}
func (*ReadIntegerExpr) stmtNode() {}
func (*ReadLineExpr) stmtNode()    {}

func (*EmptyExpr) exprNode()       {}
func (*IntConstant) exprNode()     {}
func (*DoubleConstant) exprNode()  {}
func (*BoolConstant) exprNode()    {}
func (*StringConstant) exprNode()  {}
func (*NullConstant) exprNode()    {}
func (*ArithmeticExpr) exprNode()  {}
func (*RelationalExpr) exprNode()  {}
func (*EqualityExpr) exprNode()    {}
func (*LogicalExpr) exprNode()     {}
func (*AssignExpr) exprNode()      {}
func (*This) exprNode()            {}
func (*ArrayAccess) exprNode()     {}
func (*FieldAccess) exprNode()     {}
func (*Call) exprNode()            {}
func (*NewExpr) exprNode()         {}
func (*NewArrayExpr) exprNode()    {}
func (*ReadIntegerExpr) exprNode() {}
func (*ReadLineExpr) exprNode()    {}
