package internal

import (
	"fmt"
	"strings"
)

type Kind int

const (
	DeclConflictKind Kind = iota
	OverrideMismatchKind
	InterfaceNotImplementedKind
	CyclicInheritanceKind
	IdentifierNotDeclaredKind
	IncompatibleOperandKind
	IncompatibleOperandsKind
	TestNotBooleanKind
	ReturnMismatchKind
	NumArgsMismatchKind
	ArgMismatchKind
	PrintArgMismatchKind
	SubscriptNotIntegerKind
	NewArraySizeNotIntegerKind
	BracketsOnNonArrayKind
	FieldNotFoundInBaseKind
	InaccessibleFieldKind
	ThisOutsideClassScopeKind
	BreakOutsideLoopKind
	ReturnOutsideFunctionKind
)

type Category int

const (
	ConflictCategory Category = iota
	UnresolvedCategory
	MismatchCategory
	MisuseCategory
)

var kindCodes = map[Kind]string{
	DeclConflictKind:            "S0001",
	OverrideMismatchKind:        "S0002",
	InterfaceNotImplementedKind: "S0003",
	CyclicInheritanceKind:       "S0004",
	IdentifierNotDeclaredKind:   "S0101",
	IncompatibleOperandKind:     "S0201",
	IncompatibleOperandsKind:    "S0202",
	TestNotBooleanKind:          "S0203",
	ReturnMismatchKind:          "S0204",
	NumArgsMismatchKind:         "S0205",
	ArgMismatchKind:             "S0206",
	PrintArgMismatchKind:        "S0207",
	SubscriptNotIntegerKind:     "S0208",
	NewArraySizeNotIntegerKind:  "S0209",
	BracketsOnNonArrayKind:      "S0301",
	FieldNotFoundInBaseKind:     "S0302",
	InaccessibleFieldKind:       "S0303",
	ThisOutsideClassScopeKind:   "S0304",
	BreakOutsideLoopKind:        "S0305",
	ReturnOutsideFunctionKind:   "S0306",
}

// Code is a stable identifier of the diagnostic kind, like S0001.
func (k Kind) Code() string { return kindCodes[k] }

func (k Kind) Category() Category {
	switch k {
	case DeclConflictKind, OverrideMismatchKind:
		return ConflictCategory
	case IdentifierNotDeclaredKind:
		return UnresolvedCategory
	case IncompatibleOperandKind, IncompatibleOperandsKind, TestNotBooleanKind, ReturnMismatchKind,
		NumArgsMismatchKind, ArgMismatchKind, PrintArgMismatchKind, SubscriptNotIntegerKind,
		NewArraySizeNotIntegerKind:
		return MismatchCategory
	}
	return MisuseCategory
}

// Reason says what an unresolved identifier was expected to name.
type Reason int

const (
	LookingForType Reason = iota
	LookingForClass
	LookingForInterface
	LookingForVariable
	LookingForFunction
)

func (r Reason) String() string {
	switch r {
	case LookingForType:
		return "type"
	case LookingForClass:
		return "class"
	case LookingForInterface:
		return "interface"
	case LookingForVariable:
		return "variable"
	case LookingForFunction:
		return "function"
	}
	return "identifier"
}

// Diagnostic is a located semantic error. Related, when set, points at a second location the message
// refers to, e.g. the earlier declaration in a conflict.
type Diagnostic struct {
	Loc     Location
	Kind    Kind
	Msg     string
	Related *Location
}

func (d *Diagnostic) Error() string {
	if d.Loc.FirstLine == 0 {
		return d.Msg
	}
	return fmt.Sprintf("%d:%d: %s", d.Loc.FirstLine, d.Loc.FirstColumn, d.Msg)
}

// Reporter is the sink the checker sends diagnostics to.
type Reporter interface {
	Report(d *Diagnostic)
}

// DiagnosticBag is a Reporter that keeps diagnostics in the order they were reported.
type DiagnosticBag struct {
	diagnostics []*Diagnostic
}

func NewDiagnosticBag() *DiagnosticBag {
	return &DiagnosticBag{}
}

func (bag *DiagnosticBag) Report(d *Diagnostic) {
	bag.diagnostics = append(bag.diagnostics, d)
}

func (bag *DiagnosticBag) Diagnostics() []*Diagnostic {
	ret := make([]*Diagnostic, len(bag.diagnostics))
	copy(ret, bag.diagnostics)
	return ret
}

func (bag *DiagnosticBag) HasErrors() bool { return len(bag.diagnostics) > 0 }

func (bag *DiagnosticBag) Len() int { return len(bag.diagnostics) }

// Count returns the number of diagnostics of the given kind.
func (bag *DiagnosticBag) Count(kind Kind) int {
	n := 0
	for _, d := range bag.diagnostics {
		if d.Kind == kind {
			n++
		}
	}
	return n
}

func (bag *DiagnosticBag) String() string {
	var b strings.Builder
	for _, d := range bag.diagnostics {
		b.WriteString(d.Error())
		b.WriteByte('\n')
	}
	return b.String()
}

// errorReporter builds the diagnostics of every kind and hands them to the sink.
type errorReporter struct {
	sink Reporter
}

func (r errorReporter) report(loc Location, kind Kind, format string, args ...interface{}) *Diagnostic {
	d := &Diagnostic{Loc: loc, Kind: kind, Msg: fmt.Sprintf(format, args...)}
	r.sink.Report(d)
	return d
}

func (r errorReporter) declConflict(decl, prev Decl) {
	d := r.report(decl.Loc(), DeclConflictKind, "Declaration of '%s' here conflicts with declaration on line %d",
		declName(decl), prev.Loc().FirstLine)
	related := prev.Loc()
	d.Related = &related
}

func (r errorReporter) overrideMismatch(fn *FnDecl) {
	r.report(fn.Loc(), OverrideMismatchKind, "Method '%s' must match inherited type signature", fn.ID.Name)
}

func (r errorReporter) interfaceNotImplemented(classDecl *ClassDecl, iface *NamedType) {
	r.report(iface.ID.Location, InterfaceNotImplementedKind, "Class '%s' does not implement entire interface '%s'",
		classDecl.ID.Name, iface.Name())
}

func (r errorReporter) cyclicInheritance(classDecl *ClassDecl) {
	r.report(classDecl.Loc(), CyclicInheritanceKind, "Class '%s' has a cyclic inheritance chain", classDecl.ID.Name)
}

func (r errorReporter) identifierNotDeclared(id *Identifier, reason Reason) {
	r.report(id.Location, IdentifierNotDeclaredKind, "No declaration found for %s '%s'", reason, id.Name)
}

// voidTypeNotAllowed reports void used where a value type is needed: a variable or an array element.
func (r errorReporter) voidTypeNotAllowed(loc Location, reason Reason) {
	r.report(loc, IdentifierNotDeclaredKind, "No declaration found for %s '%s'", reason, VoidType)
}

// typeNotDeclared reports the identifier at the root of t; array wrappers are looked through.
func (r errorReporter) typeNotDeclared(t Type, reason Reason) {
	switch t := t.(type) {
	case *NamedType:
		r.identifierNotDeclared(t.ID, reason)
	case *ArrayType:
		r.typeNotDeclared(t.ElemType, reason)
	}
}

func (r errorReporter) incompatibleOperand(op *Operator, rhs Type) {
	r.report(op.Location, IncompatibleOperandKind, "Incompatible operand: %s %s", op, rhs)
}

func (r errorReporter) incompatibleOperands(op *Operator, lhs, rhs Type) {
	r.report(op.Location, IncompatibleOperandsKind, "Incompatible operands: %s %s %s", lhs, op, rhs)
}

func (r errorReporter) testNotBoolean(test Expr) {
	r.report(test.Loc(), TestNotBooleanKind, "Test expression must have boolean type")
}

func (r errorReporter) returnMismatch(stmt *ReturnStmt, given, expected Type) {
	r.report(stmt.Loc(), ReturnMismatchKind, "Incompatible return: %s given, %s expected", given, expected)
}

func (r errorReporter) numArgsMismatch(fnID *Identifier, expected, given int) {
	r.report(fnID.Location, NumArgsMismatchKind, "Function '%s' expects %d arguments but %d given",
		fnID.Name, expected, given)
}

func (r errorReporter) argMismatch(arg Expr, argIndex int, given, expected Type) {
	r.report(arg.Loc(), ArgMismatchKind, "Incompatible argument %d: %s given, %s expected", argIndex, given, expected)
}

func (r errorReporter) printArgMismatch(arg Expr, argIndex int, given Type) {
	r.report(arg.Loc(), PrintArgMismatchKind, "Incompatible argument %d: %s given, int/bool/string expected",
		argIndex, given)
}

func (r errorReporter) subscriptNotInteger(subscript Expr) {
	r.report(subscript.Loc(), SubscriptNotIntegerKind, "Array subscript must be an integer")
}

func (r errorReporter) newArraySizeNotInteger(size Expr) {
	r.report(size.Loc(), NewArraySizeNotIntegerKind, "Size for NewArray must be an integer")
}

func (r errorReporter) bracketsOnNonArray(base Expr) {
	r.report(base.Loc(), BracketsOnNonArrayKind, "[] can only be applied to arrays")
}

func (r errorReporter) fieldNotFoundInBase(field *Identifier, base Type) {
	r.report(field.Location, FieldNotFoundInBaseKind, "%s has no such field '%s'", base, field.Name)
}

func (r errorReporter) inaccessibleField(field *Identifier, base Type) {
	r.report(field.Location, InaccessibleFieldKind, "%s field '%s' only accessible within class scope", base, field.Name)
}

func (r errorReporter) thisOutsideClassScope(this *This) {
	r.report(this.Loc(), ThisOutsideClassScopeKind, "'this' is only valid within class scope")
}

func (r errorReporter) breakOutsideLoop(stmt *BreakStmt) {
	r.report(stmt.Loc(), BreakOutsideLoopKind, "break is only allowed inside a loop")
}

func (r errorReporter) returnOutsideFunction(stmt *ReturnStmt) {
	r.report(stmt.Loc(), ReturnOutsideFunctionKind, "return is only allowed inside a function")
}
