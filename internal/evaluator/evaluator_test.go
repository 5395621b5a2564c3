package evaluator

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plclang/plc/internal/ast"
	"github.com/plclang/plc/internal/diagnostics"
	"github.com/plclang/plc/internal/lexer"
	"github.com/plclang/plc/internal/parser"
)

func compile(t *testing.T, source string) *ast.Source {
	t.Helper()
	tokens, err := lexer.Tokenize(source)
	require.NoError(t, err)
	src, err := parser.Parse(tokens)
	require.NoError(t, err)
	return src
}

func runProgram(t *testing.T, source string) (int64, string, error) {
	t.Helper()
	src := compile(t, source)
	var out bytes.Buffer
	code, err := Run(src, &out)
	return code, out.String(), err
}

func TestRunArithmeticReturn(t *testing.T) {
	code, _, err := runProgram(t, `
		DEF main() : Integer DO
			RETURN 1 + 2 * 3;
		END
	`)
	require.NoError(t, err)
	assert.Equal(t, int64(7), code)
}

func TestRunPrintHelloWorld(t *testing.T) {
	_, out, err := runProgram(t, `
		DEF main() : Integer DO
			print("Hello, World!");
			RETURN 0;
		END
	`)
	require.NoError(t, err)
	assert.Equal(t, "Hello, World!\n", out)
}

func TestRunForLoopPrintsAndReturnsCount(t *testing.T) {
	_, out, err := runProgram(t, `
		DEF main() : Integer DO
			LET i : Integer = 0;
			FOR (; i < 3; i = i + 1) DO
				print(i);
			END
			RETURN i;
		END
	`)
	require.NoError(t, err)
	assert.Equal(t, "0\n1\n2\n", out)
}

func TestRunIntegerDivisionTruncatesTowardZero(t *testing.T) {
	code, _, err := runProgram(t, `
		DEF main() : Integer DO
			RETURN 7 / 2;
		END
	`)
	require.NoError(t, err)
	assert.Equal(t, int64(3), code)
}

func TestRunIntegerDivisionByZeroIsRuntimeError(t *testing.T) {
	_, _, err := runProgram(t, `
		DEF main() : Integer DO
			RETURN 1 / 0;
		END
	`)
	require.Error(t, err)
	var diag *diagnostics.Error
	require.ErrorAs(t, err, &diag)
	assert.Equal(t, diagnostics.ErrR001, diag.Code)
	assert.Equal(t, diagnostics.PhaseRuntime, diag.Phase)
}

func TestRunMixedIntegerAndDecimalArithmeticIsRuntimeError(t *testing.T) {
	// compile() here is lexer+parser only (no Analyze call), so this reaches
	// the Evaluator exactly the way an untyped AST would, per spec.md §4.4's
	// requirement that the Evaluator run "the already analyzed or untyped"
	// tree without panicking on a mismatch the Analyzer would have caught.
	_, _, err := runProgram(t, `
		DEF main() : Integer DO
			LET x : Integer = 1 + 2.0;
			RETURN 0;
		END
	`)
	require.Error(t, err)
	var diag *diagnostics.Error
	require.ErrorAs(t, err, &diag)
	assert.Equal(t, diagnostics.ErrR001, diag.Code)
	assert.Equal(t, diagnostics.PhaseRuntime, diag.Phase)
}

func TestRunDecimalDivisionByZeroIsRuntimeError(t *testing.T) {
	_, _, err := runProgram(t, `
		DEF main() : Integer DO
			LET x : Decimal = 1.0 / 0.0;
			RETURN 0;
		END
	`)
	require.Error(t, err)
}

func TestRunWhileLoop(t *testing.T) {
	code, _, err := runProgram(t, `
		DEF main() : Integer DO
			LET n : Integer = 0;
			WHILE n < 5 DO
				n = n + 1;
			END
			RETURN n;
		END
	`)
	require.NoError(t, err)
	assert.Equal(t, int64(5), code)
}

func TestRunShortCircuitAnd(t *testing.T) {
	// The right-hand side of && must never run when the left side is false;
	// if it did, dividing by zero would abort the program.
	code, _, err := runProgram(t, `
		DEF alwaysFalse() : Boolean DO
			RETURN FALSE;
		END
		DEF main() : Integer DO
			IF alwaysFalse() && (1 / 0 == 0) DO
				RETURN 1;
			END
			RETURN 0;
		END
	`)
	require.NoError(t, err)
	assert.Equal(t, int64(0), code)
}

func TestRunStringConcatenationWidening(t *testing.T) {
	_, out, err := runProgram(t, `
		DEF main() : Integer DO
			print("count: " + 5);
			RETURN 0;
		END
	`)
	require.NoError(t, err)
	assert.Equal(t, "count: 5\n", out)
}

func TestRunUserDefinedFunctionCall(t *testing.T) {
	code, _, err := runProgram(t, `
		DEF square(n : Integer) : Integer DO
			RETURN n * n;
		END
		DEF main() : Integer DO
			RETURN square(6);
		END
	`)
	require.NoError(t, err)
	assert.Equal(t, int64(36), code)
}

func TestRunDecimalArithmeticWithBankersRounding(t *testing.T) {
	_, out, err := runProgram(t, `
		DEF main() : Integer DO
			LET x : Decimal = 0.25 / 2.00;
			print(x);
			RETURN 0;
		END
	`)
	require.NoError(t, err)
	assert.Equal(t, "0.12\n", out)
}
