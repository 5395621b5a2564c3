package emitter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plclang/plc/internal/ast"
	"github.com/plclang/plc/internal/lexer"
	"github.com/plclang/plc/internal/parser"
)

func parseForEmit(t *testing.T, source string) *ast.Source {
	t.Helper()
	tokens, err := lexer.Tokenize(source)
	require.NoError(t, err)
	src, err := parser.Parse(tokens)
	require.NoError(t, err)
	return src
}

func TestEmitConstantFieldWithInitializer(t *testing.T) {
	src := parseForEmit(t, `LET CONST x : Integer = 5;`)
	out := Emit(src)
	assert.Contains(t, out, "static final int x = 5;")
}

func TestEmitFieldWithoutInitializer(t *testing.T) {
	src := parseForEmit(t, `LET ready : Boolean;`)
	out := Emit(src)
	assert.Contains(t, out, "static boolean ready;")
}

func TestEmitMethodSignatureAndBody(t *testing.T) {
	src := parseForEmit(t, `
		DEF square(n : Integer) : Integer DO
			RETURN n * n;
		END
	`)
	out := Emit(src)
	assert.Contains(t, out, "static int square(int n) {")
	assert.Contains(t, out, "return n * n;")
}

func TestEmitMethodWithoutReturnTypeIsVoid(t *testing.T) {
	src := parseForEmit(t, `
		DEF main() DO
			print("hi");
		END
	`)
	out := Emit(src)
	assert.Contains(t, out, "static void main() {")
	assert.Contains(t, out, "System.out.println(\"hi\");")
}

func TestEmitUntypedLocalDeclarationUsesVarKeyword(t *testing.T) {
	src := parseForEmit(t, `
		DEF main() : Integer DO
			LET x = 5;
			RETURN x;
		END
	`)
	out := Emit(src)
	assert.Contains(t, out, "var x = 5;")
}

func TestEmitHigherPrecedenceRightOperandNeedsNoParens(t *testing.T) {
	src := parseForEmit(t, `
		DEF main() : Integer DO
			RETURN 1 + 2 * 3;
		END
	`)
	out := Emit(src)
	assert.Contains(t, out, "return 1 + 2 * 3;")
}

func TestEmitParenthesizedGroupIsPreserved(t *testing.T) {
	src := parseForEmit(t, `
		DEF main() : Integer DO
			RETURN (1 + 2) * 3;
		END
	`)
	out := Emit(src)
	assert.Contains(t, out, "return (1 + 2) * 3;")
}

func TestEmitRightAssociativeSubtractionNeedsParens(t *testing.T) {
	// 1 - (2 - 3) is not the same as 1 - 2 - 3, so the right child of a
	// same-precedence left-associative operator must be parenthesized.
	src := parseForEmit(t, `
		DEF main() : Integer DO
			RETURN 1 - (2 - 3);
		END
	`)
	out := Emit(src)
	assert.Contains(t, out, "return 1 - (2 - 3);")
}

func TestEmitForLoopHeader(t *testing.T) {
	src := parseForEmit(t, `
		DEF main() : Integer DO
			LET i : Integer = 0;
			FOR (; i < 3; i = i + 1) DO
				print(i);
			END
			RETURN i;
		END
	`)
	out := Emit(src)
	assert.Contains(t, out, "for (; i < 3; i = i + 1) {")
	assert.Contains(t, out, "System.out.println(i);")
}

func TestEmitIfElse(t *testing.T) {
	src := parseForEmit(t, `
		DEF main() : Integer DO
			IF a DO
				RETURN 1;
			ELSE
				RETURN 0;
			END
		END
	`)
	out := Emit(src)
	assert.Contains(t, out, "if (a) {")
	assert.Contains(t, out, "} else {")
}

func TestEmitStringAndCharacterEscapes(t *testing.T) {
	src := parseForEmit(t, `LET s : String = "a\nb"; LET c : Character = '\t';`)
	out := Emit(src)
	assert.Contains(t, out, `"a\nb"`)
	assert.Contains(t, out, `'\t'`)
}

func TestEmitWholeProgramWrapsInPublicClass(t *testing.T) {
	src := parseForEmit(t, `
		DEF main() : Integer DO
			RETURN 0;
		END
	`)
	out := Emit(src)
	assert.Contains(t, out, "public class Program {")
	assert.True(t, len(out) > 0 && out[len(out)-2] == '}')
}

func TestEmitEntryPointInvokesMainAndExits(t *testing.T) {
	src := parseForEmit(t, `
		DEF main() : Integer DO
			RETURN 0;
		END
	`)
	out := Emit(src)
	assert.Contains(t, out, "public static void main(String[] args) {")
	assert.Contains(t, out, "System.exit(main());")
	// The entry point comes before the user-defined main method in emission
	// order, per spec.md's field / entry-point / method ordering.
	entryIdx := strings.Index(out, "public static void main")
	userMainIdx := strings.Index(out, "static int main()")
	require.True(t, entryIdx >= 0 && userMainIdx >= 0)
	assert.Less(t, entryIdx, userMainIdx)
}
