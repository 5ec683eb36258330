package internal

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopeBuilder_BuildScopes(t *testing.T) {
	content := `
- var: count
  type: int
- class: Stack
  members:
    - var: items
      type: int[]
    - func: push
      formals:
        - var: item
          type: int
      body:
        - var: tmp
          type: int
        - while: true
          do:
            - var: inner
              type: bool
            - break
- interface: Sized
  members:
    - func: size
      returns: int
- func: main
  body: []
`
	program, err := LoadTree(strings.NewReader(content))
	require.NoError(t, err)
	bag := NewDiagnosticBag()
	BuildScopes(program, bag)
	require.False(t, bag.HasErrors())

	global := program.Scope
	require.NotNil(t, global)
	assert.Equal(t, 4, global.Len())
	assert.Nil(t, global.Parent())

	stack := global.LookupLocal("Stack").(*ClassDecl)
	require.NotNil(t, stack.Scope)
	assert.Same(t, global, stack.Scope.Parent())
	assert.Equal(t, 2, stack.Scope.Len())
	assert.Same(t, stack, stack.Scope.ClassDecl())

	push := stack.Scope.LookupLocal("push").(*FnDecl)
	require.NotNil(t, push.Scope)
	assert.Same(t, stack.Scope, push.Scope.Parent())
	assert.NotNil(t, push.Scope.LookupLocal("item"))
	assert.Same(t, push, push.Scope.FnDecl())

	body := push.Body.(*StmtBlock)
	assert.Same(t, push.Scope, body.Scope.Parent())
	assert.NotNil(t, body.Scope.LookupLocal("tmp"))

	loop := body.Stmts[0].(*WhileStmt)
	require.NotNil(t, loop.Scope)
	assert.Equal(t, Stmt(loop), loop.Scope.LoopStmt())
	loopBody := loop.Body.(*StmtBlock)
	assert.Same(t, loop.Scope, loopBody.Scope.Parent())
	assert.NotNil(t, loopBody.Scope.LookupLocal("inner"))
	assert.Same(t, stack, loopBody.Scope.EnclosingClass())
	assert.Same(t, push, loopBody.Scope.EnclosingFunction())

	sized := global.LookupLocal("Sized").(*InterfaceDecl)
	require.NotNil(t, sized.Scope)
	assert.Same(t, sized, sized.Scope.InterfaceDecl())
	assert.NotNil(t, sized.Scope.LookupLocal("size"))
}

func TestScopeBuilder_Conflicts(t *testing.T) {
	testData := []struct {
		name        string
		fileContent string
		conflicts   int
	}{
		{
			name: "global names share one namespace",
			fileContent: `
- var: A
  type: int
- class: A
- interface: A
- func: A
  body: []
`,
			conflicts: 3,
		},
		{
			name: "field and method with the same name",
			fileContent: `
- class: C
  members:
    - var: m
      type: int
    - func: m
      body: []
`,
			conflicts: 1,
		},
		{
			name: "locals in the same block",
			fileContent: `
- func: f
  body:
    - var: a
      type: int
    - var: a
      type: bool
`,
			conflicts: 1,
		},
		{
			name: "formal and local live in different scopes",
			fileContent: `
- func: f
  formals:
    - var: a
      type: int
  body:
    - var: a
      type: int
`,
		},
		{
			name: "sibling blocks",
			fileContent: `
- func: f
  body:
    - block:
        - var: a
          type: int
    - block:
        - var: a
          type: int
`,
		},
	}
	for _, data := range testData {
		t.Run(data.name, func(t *testing.T) {
			program, err := LoadTree(strings.NewReader(data.fileContent))
			require.NoError(t, err)
			bag := NewDiagnosticBag()
			BuildScopes(program, bag)
			assert.Equal(t, data.conflicts, bag.Count(DeclConflictKind), bag.String())
			assert.Equal(t, data.conflicts, bag.Len())
		})
	}
}

func TestScopeBuilder_FirstDeclarationWins(t *testing.T) {
	program, err := LoadTree(strings.NewReader(`
- var: x
  type: int
- func: x
  body: []
`))
	require.NoError(t, err)
	bag := NewDiagnosticBag()
	BuildScopes(program, bag)
	_, isVar := program.Scope.LookupLocal("x").(*VarDecl)
	assert.True(t, isVar)
	require.Equal(t, 1, bag.Len())
	assert.Equal(t, 4, bag.Diagnostics()[0].Loc.FirstLine)
}

func TestScopeBuilder_SetsDeclaredTypes(t *testing.T) {
	classDecl := &ClassDecl{ID: NewIdentifier(Location{FirstLine: 1}, "C")}
	iface := &InterfaceDecl{ID: NewIdentifier(Location{FirstLine: 2}, "I")}

	// Before the scope builder ran, asking for the type leaves the declaration untouched.
	assert.Equal(t, "C", classDecl.Type().Name())
	assert.Nil(t, classDecl.typ)

	BuildScopes(&Program{Decls: []Decl{classDecl, iface}}, NewDiagnosticBag())
	require.NotNil(t, classDecl.typ)
	require.NotNil(t, iface.typ)
	assert.Same(t, classDecl.Type(), classDecl.Type())
	assert.Same(t, iface.Type(), iface.Type())
}
