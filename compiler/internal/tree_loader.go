package internal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/xiaobogaga/decaf/util"
	"gopkg.in/yaml.v3"
)

// The external parser hands the syntax tree over as a YAML document. The root is a sequence of
// declarations; every node is a mapping whose first key names its kind, e.g.
//
//	- class: Circle
//	  implements: [Shape]
//	  members:
//	    - var: radius
//	      type: double
//	    - func: area
//	      returns: double
//	      body:
//	        - return: {op: "*", left: radius, right: radius}
//
// Locations come from the line and column of each node's defining scalar.

type treeLoader struct {
	path string
}

// LoadTreeFile reads the YAML syntax tree at path.
func LoadTreeFile(path string) (*Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("tree: open %s: %w", path, err)
	}
	defer f.Close()
	loader := &treeLoader{path: path}
	return loader.load(f)
}

// LoadTree reads a YAML syntax tree from r.
func LoadTree(r io.Reader) (*Program, error) {
	loader := &treeLoader{path: "<input>"}
	return loader.load(r)
}

func (loader *treeLoader) load(r io.Reader) (*Program, error) {
	var doc yaml.Node
	err := yaml.NewDecoder(r).Decode(&doc)
	if errors.Is(err, io.EOF) {
		return &Program{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("tree: parse %s: %w", loader.path, err)
	}
	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind == yaml.ScalarNode && root.Tag == "!!null" {
		return &Program{}, nil
	}
	if root.Kind != yaml.SequenceNode {
		return nil, loader.makeTreeError(root, "expected a sequence of declarations")
	}
	program := &Program{}
	for _, item := range root.Content {
		decl, err := loader.loadDecl(item)
		if err != nil {
			return nil, err
		}
		program.Decls = append(program.Decls, decl)
	}
	return program, nil
}

func (loader *treeLoader) makeTreeError(node *yaml.Node, format string, args ...interface{}) error {
	return fmt.Errorf("tree: %s:%d:%d: %s", loader.path, node.Line, node.Column, fmt.Sprintf(format, args...))
}

// fields is a decoded yaml mapping. kind is the first key, the one naming the node.
type fields struct {
	node   *yaml.Node
	kind   string
	keys   map[string]*yaml.Node
	values map[string]*yaml.Node
}

func (loader *treeLoader) mappingFields(node *yaml.Node) (*fields, error) {
	if node.Kind != yaml.MappingNode || len(node.Content) == 0 {
		return nil, loader.makeTreeError(node, "expected a non-empty mapping")
	}
	f := &fields{node: node, keys: map[string]*yaml.Node{}, values: map[string]*yaml.Node{}}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if _, dup := f.values[key.Value]; dup {
			return nil, loader.makeTreeError(key, "duplicate key %q", key.Value)
		}
		if i == 0 {
			f.kind = key.Value
		}
		f.keys[key.Value], f.values[key.Value] = key, value
	}
	return f, nil
}

func (f *fields) get(key string) (*yaml.Node, bool) {
	v, ok := f.values[key]
	return v, ok
}

// location of a scalar spanning its text on one line.
func location(node *yaml.Node) Location {
	width := len(node.Value)
	if width == 0 {
		width = 1
	}
	return Location{FirstLine: node.Line, FirstColumn: node.Column, LastLine: node.Line, LastColumn: node.Column + width - 1}
}

func (loader *treeLoader) identifier(node *yaml.Node) (*Identifier, error) {
	if node.Kind != yaml.ScalarNode || !util.IsIdentifier(node.Value) {
		return nil, loader.makeTreeError(node, "invalid identifier %q", node.Value)
	}
	return NewIdentifier(location(node), node.Value), nil
}

// ---------------------------------------------------------------------------------------------------
// Types.

func (loader *treeLoader) loadType(node *yaml.Node) (Type, error) {
	if node.Kind != yaml.ScalarNode {
		return nil, loader.makeTreeError(node, "expected a type name")
	}
	name, dims := util.SplitArraySuffix(node.Value)
	var t Type
	if primitive, ok := LookUpPrimitiveType(name); ok {
		t = primitive
	} else {
		if !util.IsIdentifier(name) {
			return nil, loader.makeTreeError(node, "invalid type %q", node.Value)
		}
		loc := location(node)
		loc.LastColumn = loc.FirstColumn + len(name) - 1
		t = NewNamedType(NewIdentifier(loc, name))
	}
	for i := 0; i < dims; i++ {
		t = NewArrayType(location(node), t)
	}
	return t, nil
}

// optionalType loads the type under key, or returns def when the key is absent.
func (loader *treeLoader) optionalType(f *fields, key string, def Type) (Type, error) {
	node, ok := f.get(key)
	if !ok {
		return def, nil
	}
	return loader.loadType(node)
}

// ---------------------------------------------------------------------------------------------------
// Declarations.

func (loader *treeLoader) loadDecl(node *yaml.Node) (Decl, error) {
	f, err := loader.mappingFields(node)
	if err != nil {
		return nil, err
	}
	switch f.kind {
	case "var":
		return loader.loadVarDecl(f)
	case "func":
		return loader.loadFnDecl(f)
	case "class":
		return loader.loadClassDecl(f)
	case "interface":
		return loader.loadInterfaceDecl(f)
	}
	return nil, loader.makeTreeError(node, "unknown declaration %q", f.kind)
}

func (loader *treeLoader) loadVarDecl(f *fields) (*VarDecl, error) {
	id, err := loader.identifier(f.values["var"])
	if err != nil {
		return nil, err
	}
	typeNode, ok := f.get("type")
	if !ok {
		return nil, loader.makeTreeError(f.node, "variable %s has no type", id.Name)
	}
	t, err := loader.loadType(typeNode)
	if err != nil {
		return nil, err
	}
	return &VarDecl{ID: id, Type: t}, nil
}

func (loader *treeLoader) loadVarDecls(node *yaml.Node) ([]*VarDecl, error) {
	if node.Kind != yaml.SequenceNode {
		return nil, loader.makeTreeError(node, "expected a sequence of variables")
	}
	var decls []*VarDecl
	for _, item := range node.Content {
		f, err := loader.mappingFields(item)
		if err != nil {
			return nil, err
		}
		if f.kind != "var" {
			return nil, loader.makeTreeError(item, "expected a variable, got %q", f.kind)
		}
		decl, err := loader.loadVarDecl(f)
		if err != nil {
			return nil, err
		}
		decls = append(decls, decl)
	}
	return decls, nil
}

func (loader *treeLoader) loadFnDecl(f *fields) (*FnDecl, error) {
	id, err := loader.identifier(f.values["func"])
	if err != nil {
		return nil, err
	}
	fn := &FnDecl{ID: id}
	if fn.ReturnType, err = loader.optionalType(f, "returns", VoidType); err != nil {
		return nil, err
	}
	if formals, ok := f.get("formals"); ok {
		if fn.Formals, err = loader.loadVarDecls(formals); err != nil {
			return nil, err
		}
	}
	if body, ok := f.get("body"); ok {
		if fn.Body, err = loader.loadBlock(f.keys["body"], body); err != nil {
			return nil, err
		}
	}
	return fn, nil
}

func (loader *treeLoader) loadMembers(f *fields) ([]Decl, error) {
	node, ok := f.get("members")
	if !ok {
		return nil, nil
	}
	if node.Kind != yaml.SequenceNode {
		return nil, loader.makeTreeError(node, "expected a sequence of members")
	}
	var members []Decl
	for _, item := range node.Content {
		member, err := loader.loadDecl(item)
		if err != nil {
			return nil, err
		}
		switch member.(type) {
		case *ClassDecl, *InterfaceDecl:
			return nil, loader.makeTreeError(item, "%s cannot be declared as a member", declName(member))
		}
		members = append(members, member)
	}
	return members, nil
}

func (loader *treeLoader) namedType(node *yaml.Node) (*NamedType, error) {
	id, err := loader.identifier(node)
	if err != nil {
		return nil, err
	}
	return NewNamedType(id), nil
}

func (loader *treeLoader) loadClassDecl(f *fields) (*ClassDecl, error) {
	id, err := loader.identifier(f.values["class"])
	if err != nil {
		return nil, err
	}
	classDecl := &ClassDecl{ID: id, typ: NewNamedType(id)}
	if extends, ok := f.get("extends"); ok {
		if classDecl.Extends, err = loader.namedType(extends); err != nil {
			return nil, err
		}
	}
	if implements, ok := f.get("implements"); ok {
		if implements.Kind != yaml.SequenceNode {
			return nil, loader.makeTreeError(implements, "expected a sequence of interfaces")
		}
		for _, item := range implements.Content {
			imp, err := loader.namedType(item)
			if err != nil {
				return nil, err
			}
			classDecl.Implements = append(classDecl.Implements, imp)
		}
	}
	if classDecl.Members, err = loader.loadMembers(f); err != nil {
		return nil, err
	}
	return classDecl, nil
}

func (loader *treeLoader) loadInterfaceDecl(f *fields) (*InterfaceDecl, error) {
	id, err := loader.identifier(f.values["interface"])
	if err != nil {
		return nil, err
	}
	members, err := loader.loadMembers(f)
	if err != nil {
		return nil, err
	}
	for _, member := range members {
		fn, ok := member.(*FnDecl)
		if !ok || fn.Body != nil {
			return nil, loader.makeTreeError(f.node, "interface %s may only declare method prototypes", id.Name)
		}
	}
	return &InterfaceDecl{ID: id, Members: members, typ: NewNamedType(id)}, nil
}

// ---------------------------------------------------------------------------------------------------
// Statements.

// loadBlock turns a sequence of items into a block; variable items become the block's declarations.
// at gives the block its location.
func (loader *treeLoader) loadBlock(at, node *yaml.Node) (*StmtBlock, error) {
	block := &StmtBlock{Location: location(at)}
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		return block, nil
	}
	if node.Kind != yaml.SequenceNode {
		return nil, loader.makeTreeError(node, "expected a sequence of statements")
	}
	for _, item := range node.Content {
		if item.Kind == yaml.MappingNode && len(item.Content) > 0 && item.Content[0].Value == "var" {
			f, err := loader.mappingFields(item)
			if err != nil {
				return nil, err
			}
			decl, err := loader.loadVarDecl(f)
			if err != nil {
				return nil, err
			}
			block.Decls = append(block.Decls, decl)
			continue
		}
		stmt, err := loader.loadStmt(item)
		if err != nil {
			return nil, err
		}
		block.Stmts = append(block.Stmts, stmt)
	}
	return block, nil
}

// loadBody loads the body of an if, while or for: a list is a block, anything else one statement.
func (loader *treeLoader) loadBody(at, node *yaml.Node) (Stmt, error) {
	if node.Kind == yaml.SequenceNode || (node.Kind == yaml.ScalarNode && node.Tag == "!!null") {
		return loader.loadBlock(at, node)
	}
	return loader.loadStmt(node)
}

func (loader *treeLoader) loadStmt(node *yaml.Node) (Stmt, error) {
	if node.Kind == yaml.ScalarNode && node.Value == "break" {
		return &BreakStmt{Location: location(node)}, nil
	}
	if node.Kind != yaml.MappingNode {
		return loader.loadExpr(node)
	}
	f, err := loader.mappingFields(node)
	if err != nil {
		return nil, err
	}
	loc := location(f.keys[f.kind])
	switch f.kind {
	case "block":
		return loader.loadBlock(f.keys["block"], f.values["block"])
	case "if":
		return loader.loadIf(f, loc)
	case "while":
		stmt := &WhileStmt{Location: loc}
		if stmt.Test, err = loader.loadExpr(f.values["while"]); err != nil {
			return nil, err
		}
		if stmt.Body, err = loader.requiredBody(f, "do"); err != nil {
			return nil, err
		}
		return stmt, nil
	case "for":
		return loader.loadFor(f, loc)
	case "break":
		return &BreakStmt{Location: loc}, nil
	case "return":
		stmt := &ReturnStmt{Location: loc}
		if stmt.Expr, err = loader.loadOptionalExpr(f.values["return"], loc); err != nil {
			return nil, err
		}
		return stmt, nil
	case "print":
		return loader.loadPrint(f, loc)
	}
	return loader.loadExpr(node)
}

func (loader *treeLoader) requiredBody(f *fields, key string) (Stmt, error) {
	node, ok := f.get(key)
	if !ok {
		return nil, loader.makeTreeError(f.node, "%s statement has no %s", f.kind, key)
	}
	return loader.loadBody(f.keys[key], node)
}

func (loader *treeLoader) loadIf(f *fields, loc Location) (*IfStmt, error) {
	var err error
	stmt := &IfStmt{Location: loc}
	if stmt.Test, err = loader.loadExpr(f.values["if"]); err != nil {
		return nil, err
	}
	if stmt.Then, err = loader.requiredBody(f, "then"); err != nil {
		return nil, err
	}
	if elseNode, ok := f.get("else"); ok {
		if stmt.Else, err = loader.loadBody(f.keys["else"], elseNode); err != nil {
			return nil, err
		}
	}
	return stmt, nil
}

func (loader *treeLoader) loadFor(f *fields, loc Location) (*ForStmt, error) {
	var err error
	stmt := &ForStmt{Location: loc}
	if stmt.Test, err = loader.loadExpr(f.values["for"]); err != nil {
		return nil, err
	}
	if stmt.Init, err = loader.optionalExprField(f, "init", loc); err != nil {
		return nil, err
	}
	if stmt.Step, err = loader.optionalExprField(f, "step", loc); err != nil {
		return nil, err
	}
	if stmt.Body, err = loader.requiredBody(f, "do"); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (loader *treeLoader) loadPrint(f *fields, loc Location) (*PrintStmt, error) {
	stmt := &PrintStmt{Location: loc}
	args := f.values["print"]
	if args.Kind != yaml.SequenceNode {
		return nil, loader.makeTreeError(args, "print expects a sequence of arguments")
	}
	for _, item := range args.Content {
		arg, err := loader.loadExpr(item)
		if err != nil {
			return nil, err
		}
		stmt.Args = append(stmt.Args, arg)
	}
	return stmt, nil
}

// ---------------------------------------------------------------------------------------------------
// Expressions.

// isEmpty reports whether node is an absent value: "", "~" or no value at all. An explicit null is
// the null constant.
func isEmpty(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.Tag == "!!null" && node.Value != "null"
}

func (loader *treeLoader) loadOptionalExpr(node *yaml.Node, at Location) (Expr, error) {
	if isEmpty(node) {
		return &EmptyExpr{Location: at}, nil
	}
	return loader.loadExpr(node)
}

func (loader *treeLoader) optionalExprField(f *fields, key string, at Location) (Expr, error) {
	node, ok := f.get(key)
	if !ok {
		return &EmptyExpr{Location: at}, nil
	}
	return loader.loadOptionalExpr(node, at)
}

func (loader *treeLoader) loadExpr(node *yaml.Node) (Expr, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		return loader.loadScalarExpr(node)
	case yaml.MappingNode:
		return loader.loadMappingExpr(node)
	}
	return nil, loader.makeTreeError(node, "expected an expression")
}

func (loader *treeLoader) loadScalarExpr(node *yaml.Node) (Expr, error) {
	loc := location(node)
	switch node.Tag {
	case "!!int":
		v, err := strconv.ParseInt(node.Value, 0, 0)
		if err != nil {
			return nil, loader.makeTreeError(node, "invalid integer %q", node.Value)
		}
		return &IntConstant{Location: loc, Value: int(v)}, nil
	case "!!float":
		v, err := strconv.ParseFloat(node.Value, 64)
		if err != nil {
			return nil, loader.makeTreeError(node, "invalid double %q", node.Value)
		}
		return &DoubleConstant{Location: loc, Value: v}, nil
	case "!!bool":
		return &BoolConstant{Location: loc, Value: node.Value == "true"}, nil
	case "!!null":
		return &NullConstant{Location: loc}, nil
	}
	switch node.Value {
	case "this":
		return &This{Location: loc}, nil
	case "ReadInteger()":
		return &ReadIntegerExpr{Location: loc}, nil
	case "ReadLine()":
		return &ReadLineExpr{Location: loc}, nil
	}
	id, err := loader.identifier(node)
	if err != nil {
		return nil, err
	}
	return &FieldAccess{Field: id}, nil
}

func (loader *treeLoader) loadMappingExpr(node *yaml.Node) (Expr, error) {
	f, err := loader.mappingFields(node)
	if err != nil {
		return nil, err
	}
	keyLoc := location(f.keys[f.kind])
	switch f.kind {
	case "string":
		return &StringConstant{Location: location(f.values["string"]), Value: f.values["string"].Value}, nil
	case "op":
		return loader.loadOperation(f)
	case "field":
		base, err := loader.optionalBase(f)
		if err != nil {
			return nil, err
		}
		field, err := loader.identifier(f.values["field"])
		if err != nil {
			return nil, err
		}
		return &FieldAccess{Base: base, Field: field}, nil
	case "call":
		return loader.loadCall(f)
	case "index":
		base, err := loader.requiredExpr(f, "of")
		if err != nil {
			return nil, err
		}
		subscript, err := loader.loadExpr(f.values["index"])
		if err != nil {
			return nil, err
		}
		return &ArrayAccess{Location: Join(base.Loc(), subscript.Loc()), Base: base, Subscript: subscript}, nil
	case "new":
		class, err := loader.namedType(f.values["new"])
		if err != nil {
			return nil, err
		}
		return &NewExpr{Location: keyLoc, Class: class}, nil
	case "newarray":
		elemType, err := loader.loadType(f.values["newarray"])
		if err != nil {
			return nil, err
		}
		size, err := loader.requiredExpr(f, "size")
		if err != nil {
			return nil, err
		}
		return &NewArrayExpr{Location: keyLoc, Size: size, ElemType: elemType}, nil
	}
	return nil, loader.makeTreeError(node, "unknown expression %q", f.kind)
}

func (loader *treeLoader) requiredExpr(f *fields, key string) (Expr, error) {
	node, ok := f.get(key)
	if !ok {
		return nil, loader.makeTreeError(f.node, "%s expression has no %s", f.kind, key)
	}
	return loader.loadExpr(node)
}

func (loader *treeLoader) optionalBase(f *fields) (Expr, error) {
	node, ok := f.get("of")
	if !ok {
		return nil, nil
	}
	return loader.loadExpr(node)
}

func (loader *treeLoader) loadCall(f *fields) (*Call, error) {
	field, err := loader.identifier(f.values["call"])
	if err != nil {
		return nil, err
	}
	call := &Call{Location: field.Location, Field: field}
	if call.Base, err = loader.optionalBase(f); err != nil {
		return nil, err
	}
	if call.Base != nil {
		call.Location = Join(call.Base.Loc(), field.Location)
	}
	if args, ok := f.get("args"); ok {
		if args.Kind != yaml.SequenceNode {
			return nil, loader.makeTreeError(args, "call arguments must be a sequence")
		}
		for _, item := range args.Content {
			arg, err := loader.loadExpr(item)
			if err != nil {
				return nil, err
			}
			call.Actuals = append(call.Actuals, arg)
		}
	}
	return call, nil
}

type opClass int

const (
	arithmeticOp opClass = iota
	relationalOp
	equalityOp
	logicalOp
	assignOp
)

var operators = map[string]opClass{
	"+": arithmeticOp, "-": arithmeticOp, "*": arithmeticOp, "/": arithmeticOp, "%": arithmeticOp,
	"<": relationalOp, "<=": relationalOp, ">": relationalOp, ">=": relationalOp,
	"==": equalityOp, "!=": equalityOp,
	"&&": logicalOp, "||": logicalOp, "!": logicalOp,
	"=": assignOp,
}

func (loader *treeLoader) loadOperation(f *fields) (Expr, error) {
	opNode := f.values["op"]
	class, ok := operators[opNode.Value]
	if !ok {
		return nil, loader.makeTreeError(opNode, "unknown operator %q", opNode.Value)
	}
	op := &Operator{Location: location(opNode), Token: opNode.Value}
	right, err := loader.requiredExpr(f, "right")
	if err != nil {
		return nil, err
	}
	leftNode, binary := f.get("left")
	if !binary {
		switch op.Token {
		case "-":
			return &ArithmeticExpr{Op: op, Right: right}, nil
		case "!":
			return &LogicalExpr{Op: op, Right: right}, nil
		}
		return nil, loader.makeTreeError(opNode, "operator %s needs a left operand", op.Token)
	}
	if op.Token == "!" {
		return nil, loader.makeTreeError(opNode, "operator ! is unary")
	}
	left, err := loader.loadExpr(leftNode)
	if err != nil {
		return nil, err
	}
	switch class {
	case arithmeticOp:
		return &ArithmeticExpr{Op: op, Left: left, Right: right}, nil
	case relationalOp:
		return &RelationalExpr{Op: op, Left: left, Right: right}, nil
	case equalityOp:
		return &EqualityExpr{Op: op, Left: left, Right: right}, nil
	case logicalOp:
		return &LogicalExpr{Op: op, Left: left, Right: right}, nil
	}
	return &AssignExpr{Op: op, Left: left, Right: right}, nil
}
