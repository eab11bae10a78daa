package merge

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/splice/java/ast"
	"github.com/dhamidi/splice/java/parser"
)

func parse(t *testing.T, src string) *ast.Node {
	t.Helper()
	unit, err := parser.Parse("Test.java", []byte(src))
	require.NoError(t, err)
	return unit
}

func TestSignatures(t *testing.T) {
	unit := parse(t, `import java.util.List;
import java.util.*;
import static java.lang.Math.max;
import static org.junit.Assert.*;

class T {
    void none() {}
    int add(int a, int b) { return 0; }
    <K> Map<K, List<String>> group(Collection< K > items, Function<K,String> fn) { return null; }
    void log(String format, Object... args) {}
    void grid(int[][] cells) {}
}
`)
	var imports []Signature
	for _, imp := range unit.Imports() {
		imports = append(imports, ImportSignature(imp))
	}
	assert.Equal(t, []Signature{
		"java.util.List",
		"java.util.*",
		"static java.lang.Math.max",
		"static org.junit.Assert.*",
	}, imports)

	var methods []Signature
	for _, m := range unit.Types()[0].Methods() {
		methods = append(methods, MethodSignature(m))
	}
	assert.Equal(t, []Signature{
		"none()",
		"add(int,int)",
		"group(Collection<K>,Function<K,String>)",
		"log(String,Object...)",
		"grid(int[][])",
	}, methods)
}

func TestMatchPairs(t *testing.T) {
	base := parse(t, `import a.A;
import b.B;
class T {
    int x, y;
    void f() {}
    void g(int a) {}
    class Inner {}
}
`)
	candidate := parse(t, `import b.B;
import c.C;
class T {
    int y, z;
    void h() {}
    void f() {}
    class Other {}
    class Inner {}
}
`)
	m, err := Match(base, candidate)
	require.NoError(t, err)
	assert.Equal(t, "T", m.BaseType.Name)

	type view struct {
		Sig   Signature
		State State
	}
	flatten := func(pairs []Pair) []view {
		var result []view
		for _, p := range pairs {
			result = append(result, view{p.Signature, p.State()})
		}
		return result
	}

	assert.Equal(t, []view{{"b.B", Both}, {"c.C", OnlyCandidate}, {"a.A", OnlyBase}}, flatten(m.Imports))
	assert.Equal(t, []view{{"y", Both}, {"z", OnlyCandidate}, {"x", OnlyBase}}, flatten(m.Fields))
	assert.Equal(t, []view{{"h()", OnlyCandidate}, {"f()", Both}, {"g(int)", OnlyBase}}, flatten(m.Methods))
	assert.Equal(t, []view{{"Other", OnlyCandidate}, {"Inner", Both}}, flatten(m.Types))

	field := m.Fields[0]
	assert.Equal(t, ast.KindFieldDeclaration, field.Base.Kind)
	assert.Same(t, base.Types()[0].Fields()[0], field.Base)
}

func TestMatchDuplicateSignatureLastWins(t *testing.T) {
	base := parse(t, "class T {}\n")
	candidate := parse(t, `class T {
    int f() { return 1; }
    long f() { return 2; }
}
`)
	m, err := Match(base, candidate)
	require.NoError(t, err)
	require.Len(t, m.Methods, 1)
	assert.Equal(t, "long", m.Methods[0].Candidate.ReturnType().Text)

	decisions := Reconcile(NewContext(base, candidate, []byte("class T {}\n"), DefaultPolicy()), m)
	var inserted int
	for _, d := range decisions {
		if d.Action == Insert && d.Target == TargetMethod {
			inserted++
		}
	}
	assert.Equal(t, 1, inserted)
}

func TestMatchShape(t *testing.T) {
	one := parse(t, "class A {}")
	two := parse(t, "class A {}\nclass B {}")

	_, err := Match(two, one)
	var shapeErr *ShapeError
	require.True(t, errors.As(err, &shapeErr))
	assert.Equal(t, "base", shapeErr.Side)
	assert.Equal(t, 2, shapeErr.Types)

	_, err = Match(one, &ast.Node{Kind: ast.KindTypeDeclaration})
	require.True(t, errors.As(err, &shapeErr))
	assert.Equal(t, "candidate", shapeErr.Side)
	assert.True(t, errors.Is(err, ErrInvalidInputShape))
}
