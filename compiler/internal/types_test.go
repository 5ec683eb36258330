package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func named(name string) *NamedType {
	return NewNamedType(NewIdentifier(Location{}, name))
}

func arrayOf(t Type) *ArrayType {
	return NewArrayType(Location{}, t)
}

func TestTypes_LookUpPrimitiveType(t *testing.T) {
	for _, name := range []string{"int", "double", "bool", "void", "string"} {
		typ, ok := LookUpPrimitiveType(name)
		assert.True(t, ok, name)
		assert.Equal(t, name, typ.String())
	}
	for _, name := range []string{"null", "error", "Int", ""} {
		_, ok := LookUpPrimitiveType(name)
		assert.False(t, ok, name)
	}
}

func TestTypes_String(t *testing.T) {
	assert.Equal(t, "int[][]", arrayOf(arrayOf(IntType)).String())
	assert.Equal(t, "Shape[]", arrayOf(named("Shape")).String())
}

func TestTypes_IsEqualTo(t *testing.T) {
	testData := []struct {
		a, b  Type
		equal bool
	}{
		{a: IntType, b: IntType, equal: true},
		{a: IntType, b: DoubleType},
		{a: named("A"), b: named("A"), equal: true},
		{a: named("A"), b: named("B")},
		{a: arrayOf(IntType), b: arrayOf(IntType), equal: true},
		{a: arrayOf(IntType), b: IntType},
		{a: arrayOf(named("A")), b: arrayOf(named("B"))},
		{a: ErrorType, b: IntType},
	}
	for _, data := range testData {
		assert.Equal(t, data.equal, IsEqualTo(data.a, data.b), "%s == %s", data.a, data.b)
	}
}

func TestTypes_IsEquivalentTo(t *testing.T) {
	program, _ := loadScopedProgram(t, `
- interface: I
  members:
    - func: m
- class: A
- class: B
  extends: A
  implements: [I]
- class: C
  extends: B
`)
	global := program.Scope
	testData := []struct {
		a, b       Type
		equivalent bool
	}{
		{a: IntType, b: IntType, equivalent: true},
		{a: IntType, b: DoubleType},
		{a: ErrorType, b: IntType, equivalent: true},
		{a: named("A"), b: ErrorType, equivalent: true},
		{a: NullType, b: named("A"), equivalent: true},
		{a: NullType, b: named("I"), equivalent: true},
		{a: NullType, b: IntType},
		{a: NullType, b: arrayOf(IntType)},
		{a: NullType, b: NullType, equivalent: true},
		{a: named("B"), b: named("A"), equivalent: true},
		{a: named("C"), b: named("A"), equivalent: true},
		{a: named("A"), b: named("B")},
		{a: named("B"), b: named("I"), equivalent: true},
		{a: named("C"), b: named("I"), equivalent: true},
		{a: named("A"), b: named("I")},
		{a: named("Undeclared"), b: named("A")},
		{a: arrayOf(named("C")), b: arrayOf(named("A")), equivalent: true},
		{a: arrayOf(IntType), b: arrayOf(DoubleType)},
		{a: arrayOf(IntType), b: IntType},
		{a: IntType, b: named("A")},
	}
	for _, data := range testData {
		assert.Equal(t, data.equivalent, IsEquivalentTo(global, data.a, data.b), "%s ~ %s", data.a, data.b)
	}
}

func TestTypes_IsEquivalentToTerminatesOnCycle(t *testing.T) {
	program, _ := loadScopedProgram(t, `
- class: X
  extends: Y
- class: Y
  extends: X
- class: Z
`)
	assert.True(t, IsEquivalentTo(program.Scope, named("X"), named("Y")))
	assert.False(t, IsEquivalentTo(program.Scope, named("X"), named("Z")))
}
