package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plclang/plc/internal/ast"
	"github.com/plclang/plc/internal/diagnostics"
	"github.com/plclang/plc/internal/lexer"
)

func parseSource(t *testing.T, source string) (*ast.Source, error) {
	t.Helper()
	tokens, err := lexer.Tokenize(source)
	require.NoError(t, err)
	return Parse(tokens)
}

func TestParseFieldWithInitializer(t *testing.T) {
	src, err := parseSource(t, `LET CONST x : Integer = 5;`)
	require.NoError(t, err)
	require.Len(t, src.Fields, 1)
	field := src.Fields[0]
	assert.Equal(t, "x", field.Name)
	assert.Equal(t, "Integer", field.TypeName)
	assert.True(t, field.Constant)
	require.NotNil(t, field.Initializer)
	lit, ok := field.Initializer.(*ast.Literal)
	require.True(t, ok)
	assert.Equal(t, "5", lit.IntegerText)
}

func TestParseFieldWithoutInitializer(t *testing.T) {
	src, err := parseSource(t, `LET x : Boolean;`)
	require.NoError(t, err)
	require.Len(t, src.Fields, 1)
	assert.Nil(t, src.Fields[0].Initializer)
}

func TestParseMethodSignatureAndBody(t *testing.T) {
	src, err := parseSource(t, `
		DEF add(a : Integer, b : Integer) : Integer DO
			RETURN a + b;
		END
	`)
	require.NoError(t, err)
	require.Len(t, src.Methods, 1)
	method := src.Methods[0]
	assert.Equal(t, "add", method.Name)
	require.Len(t, method.Parameters, 2)
	assert.Equal(t, "a", method.Parameters[0].Name)
	assert.Equal(t, "Integer", method.Parameters[0].TypeName)
	assert.Equal(t, "Integer", method.ReturnTypeName)
	require.Len(t, method.Statements, 1)
	ret, ok := method.Statements[0].(*ast.Return)
	require.True(t, ok)
	bin, ok := ret.Value.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, "+", bin.Operator)
}

func TestParseMethodWithoutReturnType(t *testing.T) {
	src, err := parseSource(t, `
		DEF main() DO
			print("hi");
		END
	`)
	require.NoError(t, err)
	assert.Equal(t, "", src.Methods[0].ReturnTypeName)
}

func TestParseOperatorPrecedence(t *testing.T) {
	src, err := parseSource(t, `
		DEF main() : Integer DO
			RETURN 1 + 2 * 3;
		END
	`)
	require.NoError(t, err)
	ret := src.Methods[0].Statements[0].(*ast.Return)
	top, ok := ret.Value.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, "+", top.Operator)
	_, leftIsLiteral := top.Left.(*ast.Literal)
	assert.True(t, leftIsLiteral)
	right, ok := top.Right.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, "*", right.Operator)
}

func TestParseComparisonDoesNotSwallowEquals(t *testing.T) {
	src, err := parseSource(t, `
		DEF main() : Integer DO
			IF a <= b DO
				RETURN 1;
			END
			RETURN 0;
		END
	`)
	require.NoError(t, err)
	ifStmt := src.Methods[0].Statements[0].(*ast.If)
	bin := ifStmt.Condition.(*ast.Binary)
	assert.Equal(t, "<=", bin.Operator)
}

func TestParseIfElse(t *testing.T) {
	src, err := parseSource(t, `
		DEF main() : Integer DO
			IF a DO
				RETURN 1;
			ELSE
				RETURN 0;
			END
		END
	`)
	require.NoError(t, err)
	ifStmt := src.Methods[0].Statements[0].(*ast.If)
	require.Len(t, ifStmt.Then, 1)
	require.Len(t, ifStmt.Else, 1)
}

func TestParseForLoopHeaderClauses(t *testing.T) {
	src, err := parseSource(t, `
		DEF main() : Integer DO
			LET i = 0;
			FOR (; i < 3; i = i + 1) DO
				print(i);
			END
			RETURN i;
		END
	`)
	require.NoError(t, err)
	forStmt := src.Methods[0].Statements[1].(*ast.For)
	assert.Nil(t, forStmt.Init)
	require.NotNil(t, forStmt.Condition)
	require.NotNil(t, forStmt.Increment)
	require.Len(t, forStmt.Statements, 1)
}

func TestParseAssignmentVsExpressionStatement(t *testing.T) {
	src, err := parseSource(t, `
		DEF main() : Integer DO
			LET x = 1;
			x = 2;
			print(x);
			RETURN x;
		END
	`)
	require.NoError(t, err)
	stmts := src.Methods[0].Statements
	_, isAssign := stmts[1].(*ast.Assignment)
	assert.True(t, isAssign)
	_, isExprStmt := stmts[2].(*ast.ExpressionStatement)
	assert.True(t, isExprStmt)
}

func TestParseCallChainAfterDot(t *testing.T) {
	src, err := parseSource(t, `
		DEF main() : Integer DO
			RETURN a.b.c(1, 2);
		END
	`)
	require.NoError(t, err)
	ret := src.Methods[0].Statements[0].(*ast.Return)
	call, ok := ret.Value.(*ast.Call)
	require.True(t, ok)
	assert.Equal(t, "c", call.Name)
	require.Len(t, call.Arguments, 2)
	access, ok := call.Receiver.(*ast.Access)
	require.True(t, ok)
	assert.Equal(t, "b", access.Name)
}

func TestParseGroupAcceptsAnyExpressionSyntactically(t *testing.T) {
	// The parser only enforces the grammar shape "( expr )"; whether the
	// inner expression must be a Binary is an Analyzer-time rule.
	src, err := parseSource(t, `
		DEF main() : Integer DO
			RETURN (1);
		END
	`)
	require.NoError(t, err)
	ret := src.Methods[0].Statements[0].(*ast.Return)
	group, ok := ret.Value.(*ast.Group)
	require.True(t, ok)
	_, innerIsLiteral := group.Inner.(*ast.Literal)
	assert.True(t, innerIsLiteral)
}

func TestParseEmptyParensIsAnError(t *testing.T) {
	_, err := parseSource(t, `
		DEF main() : Integer DO
			RETURN ();
		END
	`)
	require.Error(t, err)
}

func TestParseUnexpectedTokenReportsOffset(t *testing.T) {
	_, err := parseSource(t, `LET 5 : Integer;`)
	require.Error(t, err)
	var diag *diagnostics.Error
	require.ErrorAs(t, err, &diag)
	assert.Equal(t, diagnostics.ErrP001, diag.Code)
	assert.Equal(t, 4, diag.Offset)
}

func TestParseUnexpectedEOFReportsPastEndOffset(t *testing.T) {
	_, err := parseSource(t, `LET x : Integer`)
	require.Error(t, err)
	var diag *diagnostics.Error
	require.ErrorAs(t, err, &diag)
	assert.Equal(t, diagnostics.ErrP002, diag.Code)
}

func TestParseStringAndCharacterEscapes(t *testing.T) {
	src, err := parseSource(t, `LET s : String = "a\nb"; LET c : Character = '\t';`)
	require.NoError(t, err)
	str := src.Fields[0].Initializer.(*ast.Literal)
	assert.Equal(t, "a\nb", str.Str)
	ch := src.Fields[1].Initializer.(*ast.Literal)
	assert.Equal(t, '\t', ch.Char)
}
