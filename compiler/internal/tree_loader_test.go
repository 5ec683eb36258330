package internal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTreeLoader_Declarations(t *testing.T) {
	program, err := LoadTree(strings.NewReader(`
- var: grid
  type: Cell[][]
- func: area
  returns: double
  formals:
    - var: w
      type: double
  body: []
- func: proto
- class: Square
  extends: Shape
  implements: [Sized, Named]
  members:
    - var: side
      type: double
- interface: Sized
  members:
    - func: size
      returns: int
`))
	require.NoError(t, err)
	require.Len(t, program.Decls, 5)

	grid := program.Decls[0].(*VarDecl)
	assert.Equal(t, "grid", grid.ID.Name)
	assert.Equal(t, Location{FirstLine: 2, FirstColumn: 8, LastLine: 2, LastColumn: 11}, grid.ID.Location)
	assert.Equal(t, "Cell[][]", grid.Type.String())
	outer := grid.Type.(*ArrayType)
	inner := outer.ElemType.(*ArrayType)
	cell := inner.ElemType.(*NamedType)
	assert.Equal(t, "Cell", cell.Name())
	assert.Equal(t, 3, cell.ID.Location.FirstLine)

	area := program.Decls[1].(*FnDecl)
	assert.Same(t, DoubleType, area.ReturnType)
	require.Len(t, area.Formals, 1)
	assert.Equal(t, "w", area.Formals[0].ID.Name)
	body := area.Body.(*StmtBlock)
	assert.Empty(t, body.Stmts)

	proto := program.Decls[2].(*FnDecl)
	assert.Same(t, VoidType, proto.ReturnType)
	assert.Nil(t, proto.Body)

	square := program.Decls[3].(*ClassDecl)
	require.NotNil(t, square.Extends)
	assert.Equal(t, "Shape", square.Extends.Name())
	require.Len(t, square.Implements, 2)
	assert.Equal(t, "Named", square.Implements[1].Name())
	require.Len(t, square.Members, 1)
	assert.Same(t, square.Type(), square.Type())

	sized := program.Decls[4].(*InterfaceDecl)
	require.Len(t, sized.Members, 1)
	assert.Same(t, IntType, sized.Members[0].(*FnDecl).ReturnType)
}

func TestTreeLoader_Statements(t *testing.T) {
	program, err := LoadTree(strings.NewReader(`
- func: main
  body:
    - var: i
      type: int
    - if: true
      then: [break]
      else:
        print: [1]
    - while: false
      do: []
    - for: true
      do: []
    - break
    - return: ~
    - return: null
    - return:
    - block: []
    - {call: f}
`))
	require.NoError(t, err)
	body := program.Decls[0].(*FnDecl).Body.(*StmtBlock)
	require.Len(t, body.Decls, 1)
	require.Len(t, body.Stmts, 9)

	ifStmt := body.Stmts[0].(*IfStmt)
	assert.IsType(t, &BoolConstant{}, ifStmt.Test)
	assert.IsType(t, &StmtBlock{}, ifStmt.Then)
	assert.IsType(t, &PrintStmt{}, ifStmt.Else)

	assert.IsType(t, &WhileStmt{}, body.Stmts[1])
	forStmt := body.Stmts[2].(*ForStmt)
	assert.IsType(t, &EmptyExpr{}, forStmt.Init)
	assert.IsType(t, &EmptyExpr{}, forStmt.Step)
	assert.IsType(t, &BreakStmt{}, body.Stmts[3])
	assert.IsType(t, &EmptyExpr{}, body.Stmts[4].(*ReturnStmt).Expr)
	assert.IsType(t, &NullConstant{}, body.Stmts[5].(*ReturnStmt).Expr)
	assert.IsType(t, &EmptyExpr{}, body.Stmts[6].(*ReturnStmt).Expr)
	assert.IsType(t, &StmtBlock{}, body.Stmts[7])
	assert.IsType(t, &Call{}, body.Stmts[8])
}

func TestTreeLoader_Expressions(t *testing.T) {
	testData := []struct {
		content string
		expect  Expr
	}{
		{content: `42`, expect: &IntConstant{}},
		{content: `0x10`, expect: &IntConstant{}},
		{content: `4.5`, expect: &DoubleConstant{}},
		{content: `false`, expect: &BoolConstant{}},
		{content: `null`, expect: &NullConstant{}},
		{content: `this`, expect: &This{}},
		{content: `ReadInteger()`, expect: &ReadIntegerExpr{}},
		{content: `ReadLine()`, expect: &ReadLineExpr{}},
		{content: `name`, expect: &FieldAccess{}},
		{content: `{string: "a b"}`, expect: &StringConstant{}},
		{content: `{op: "%", left: 1, right: 2}`, expect: &ArithmeticExpr{}},
		{content: `{op: "-", right: 2}`, expect: &ArithmeticExpr{}},
		{content: `{op: ">=", left: 1, right: 2}`, expect: &RelationalExpr{}},
		{content: `{op: "!=", left: 1, right: 2}`, expect: &EqualityExpr{}},
		{content: `{op: "||", left: true, right: false}`, expect: &LogicalExpr{}},
		{content: `{op: "!", right: false}`, expect: &LogicalExpr{}},
		{content: `{op: "=", left: a, right: 2}`, expect: &AssignExpr{}},
		{content: `{field: x, of: this}`, expect: &FieldAccess{}},
		{content: `{call: f, of: a, args: [1, 2]}`, expect: &Call{}},
		{content: `{index: 0, of: a}`, expect: &ArrayAccess{}},
		{content: `{new: Point}`, expect: &NewExpr{}},
		{content: `{newarray: "int[]", size: 4}`, expect: &NewArrayExpr{}},
	}
	for _, data := range testData {
		loader := &treeLoader{path: "test"}
		program, err := loader.load(strings.NewReader("- func: main\n  body:\n    - " + data.content + "\n"))
		require.NoError(t, err, data.content)
		stmts := program.Decls[0].(*FnDecl).Body.(*StmtBlock).Stmts
		require.Len(t, stmts, 1, data.content)
		assert.IsType(t, data.expect, stmts[0], data.content)
	}
}

func TestTreeLoader_ExpressionDetails(t *testing.T) {
	program, err := LoadTree(strings.NewReader(`
- func: main
  body:
    - {op: "=", left: {index: i, of: a}, right: {call: f, of: this, args: [1, 0x1F, {string: s}]}}
    - {newarray: "Cell[]", size: n}
`))
	require.NoError(t, err)
	stmts := program.Decls[0].(*FnDecl).Body.(*StmtBlock).Stmts

	assign := stmts[0].(*AssignExpr)
	assert.Equal(t, "=", assign.Op.Token)
	access := assign.Left.(*ArrayAccess)
	assert.Equal(t, "a", access.Base.(*FieldAccess).Field.Name)
	assert.Equal(t, "i", access.Subscript.(*FieldAccess).Field.Name)
	call := assign.Right.(*Call)
	assert.Equal(t, "f", call.Field.Name)
	assert.IsType(t, &This{}, call.Base)
	require.Len(t, call.Actuals, 3)
	assert.Equal(t, 31, call.Actuals[1].(*IntConstant).Value)
	assert.Equal(t, "s", call.Actuals[2].(*StringConstant).Value)

	newArray := stmts[1].(*NewArrayExpr)
	assert.Equal(t, "Cell[]", newArray.ElemType.String())
}

func TestTreeLoader_Errors(t *testing.T) {
	testData := []struct {
		name    string
		content string
		errText string
	}{
		{name: "root not a sequence", content: "var: x\n", errText: "expected a sequence of declarations"},
		{name: "unknown declaration", content: "- struct: S\n", errText: `unknown declaration "struct"`},
		{name: "invalid identifier", content: "- var: 1x\n  type: int\n", errText: "invalid identifier"},
		{name: "missing variable type", content: "- var: x\n", errText: "variable x has no type"},
		{name: "invalid type", content: "- var: x\n  type: \"in t\"\n", errText: "invalid type"},
		{name: "nested class", content: "- class: A\n  members:\n    - class: B\n", errText: "cannot be declared as a member"},
		{name: "interface with body", content: "- interface: I\n  members:\n    - func: f\n      body: []\n", errText: "may only declare method prototypes"},
		{name: "interface with field", content: "- interface: I\n  members:\n    - var: x\n      type: int\n", errText: "may only declare method prototypes"},
		{name: "unknown operator", content: "- func: f\n  body:\n    - {op: \"^\", left: 1, right: 2}\n", errText: `unknown operator "^"`},
		{name: "binary operator without left", content: "- func: f\n  body:\n    - {op: \"*\", right: 2}\n", errText: "needs a left operand"},
		{name: "binary not", content: "- func: f\n  body:\n    - {op: \"!\", left: true, right: false}\n", errText: "operator ! is unary"},
		{name: "while without body", content: "- func: f\n  body:\n    - while: true\n", errText: "while statement has no do"},
		{name: "unknown expression", content: "- func: f\n  body:\n    - {lambda: x}\n", errText: `unknown expression "lambda"`},
		{name: "duplicate key", content: "- var: x\n  type: int\n  type: bool\n", errText: `key "type"`},
		{name: "malformed yaml", content: "- [\n", errText: "tree: parse"},
	}
	for _, data := range testData {
		t.Run(data.name, func(t *testing.T) {
			_, err := LoadTree(strings.NewReader(data.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), data.errText)
		})
	}
}

func TestTreeLoader_ErrorLocation(t *testing.T) {
	_, err := LoadTree(strings.NewReader("- var: x\n  type: int\n- var: 9\n  type: int\n"))
	require.Error(t, err)
	assert.Equal(t, `tree: <input>:3:8: invalid identifier "9"`, err.Error())
}

func TestTreeLoader_Empty(t *testing.T) {
	for _, content := range []string{"", "~\n", "[]\n"} {
		program, err := LoadTree(strings.NewReader(content))
		require.NoError(t, err, content)
		assert.Empty(t, program.Decls)
	}
}

func TestTreeLoader_LoadTreeFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- var: x\n  type: int\n"), 0644))
	program, err := LoadTreeFile(path)
	require.NoError(t, err)
	require.Len(t, program.Decls, 1)

	_, err = LoadTreeFile(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
