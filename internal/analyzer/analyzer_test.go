package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plclang/plc/internal/diagnostics"
	"github.com/plclang/plc/internal/lexer"
	"github.com/plclang/plc/internal/parser"
	"github.com/plclang/plc/internal/types"
)

func analyzeSource(t *testing.T, source string) (*Info, error) {
	t.Helper()
	tokens, err := lexer.Tokenize(source)
	require.NoError(t, err)
	src, err := parser.Parse(tokens)
	require.NoError(t, err)
	return Analyze(src)
}

func requireAnalyzeError(t *testing.T, source string, code diagnostics.Code) {
	t.Helper()
	_, err := analyzeSource(t, source)
	require.Error(t, err)
	var diag *diagnostics.Error
	require.ErrorAs(t, err, &diag)
	assert.Equal(t, code, diag.Code)
}

const validProgram = `
LET total : Integer = 0;

DEF main() : Integer DO
	RETURN 1 + 2 * 3;
END
`

func TestAnalyzeValidProgram(t *testing.T) {
	info, err := analyzeSource(t, validProgram)
	require.NoError(t, err)
	require.NotNil(t, info)
}

func TestAnalyzeMissingMainIsError(t *testing.T) {
	requireAnalyzeError(t, `LET x : Integer = 1;`, diagnostics.ErrA006)
}

func TestAnalyzeMainWrongReturnTypeIsError(t *testing.T) {
	requireAnalyzeError(t, `
		DEF main() : Boolean DO
			RETURN TRUE;
		END
	`, diagnostics.ErrA006)
}

func TestAnalyzeUndeclaredNameIsError(t *testing.T) {
	requireAnalyzeError(t, `
		DEF main() : Integer DO
			RETURN missing;
		END
	`, diagnostics.ErrA001)
}

func TestAnalyzeUnknownTypeIsError(t *testing.T) {
	requireAnalyzeError(t, `
		LET x : Quux = 1;
		DEF main() : Integer DO
			RETURN 0;
		END
	`, diagnostics.ErrA002)
}

func TestAnalyzeRedefinitionIsError(t *testing.T) {
	requireAnalyzeError(t, `
		LET x : Integer = 1;
		LET x : Integer = 2;
		DEF main() : Integer DO
			RETURN 0;
		END
	`, diagnostics.ErrA004)
}

func TestAnalyzeAssignToConstantIsError(t *testing.T) {
	requireAnalyzeError(t, `
		LET CONST x : Integer = 1;
		DEF main() : Integer DO
			x = 2;
			RETURN x;
		END
	`, diagnostics.ErrA005)
}

func TestAnalyzeIntegerLiteralOutOfRangeIsError(t *testing.T) {
	requireAnalyzeError(t, `
		DEF main() : Integer DO
			RETURN 99999999999;
		END
	`, diagnostics.ErrA007)
}

func TestAnalyzeGroupMustWrapBinary(t *testing.T) {
	requireAnalyzeError(t, `
		DEF main() : Integer DO
			RETURN (1);
		END
	`, diagnostics.ErrA003)
}

func TestAnalyzeTypeMismatchOnDeclaration(t *testing.T) {
	requireAnalyzeError(t, `
		DEF main() : Integer DO
			LET x : Integer = TRUE;
			RETURN x;
		END
	`, diagnostics.ErrA003)
}

func TestAnalyzeConditionMustBeBoolean(t *testing.T) {
	requireAnalyzeError(t, `
		DEF main() : Integer DO
			IF 1 DO
				RETURN 1;
			END
			RETURN 0;
		END
	`, diagnostics.ErrA003)
}

func TestAnalyzeEmptyIfBodyIsError(t *testing.T) {
	requireAnalyzeError(t, `
		DEF main() : Integer DO
			IF TRUE DO
			END
			RETURN 0;
		END
	`, diagnostics.ErrA003)
}

func TestAnalyzeStringWideningPlus(t *testing.T) {
	info, err := analyzeSource(t, `
		DEF greeting() : String DO
			RETURN "count: " + 5;
		END
		DEF main() : Integer DO
			RETURN 0;
		END
	`)
	require.NoError(t, err)
	assert.True(t, anyTypeRecorded(info, types.String))
}

func TestAnalyzeComparisonRequiresSameComparableType(t *testing.T) {
	requireAnalyzeError(t, `
		DEF main() : Integer DO
			IF 1 < TRUE DO
				RETURN 1;
			END
			RETURN 0;
		END
	`, diagnostics.ErrA003)
}

func TestAnalyzeCallArgumentTypeChecked(t *testing.T) {
	requireAnalyzeError(t, `
		DEF takesInt(x : Integer) : Integer DO
			RETURN x;
		END
		DEF main() : Integer DO
			RETURN takesInt(TRUE);
		END
	`, diagnostics.ErrA003)
}

func TestAnalyzeForLoopHeaderResolvesOuterLoopVariable(t *testing.T) {
	// A for(...) header's init/increment clauses are assignments or bare
	// expression statements, never a LET — the loop variable is always
	// declared before the loop, as here.
	info, err := analyzeSource(t, `
		DEF main() : Integer DO
			LET i : Integer = 0;
			FOR (; i < 3; i = i + 1) DO
				print(i);
			END
			RETURN i;
		END
	`)
	require.NoError(t, err)
	require.NotNil(t, info)
}

func anyTypeRecorded(info *Info, want types.Type) bool {
	for _, typ := range info.Types {
		if typ.Equal(want) {
			return true
		}
	}
	return false
}
