package pg

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// splitColumns separa una lista SELECT respetando paréntesis (COALESCE).
func splitColumns(list string) []string {
	var cols []string
	depth, start := 0, 0
	for i, r := range list {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				cols = append(cols, strings.TrimSpace(list[start:i]))
				start = i + 1
			}
		}
	}
	return append(cols, strings.TrimSpace(list[start:]))
}

func TestCaseReturningDropsAlias(t *testing.T) {
	// RETURNING va sin alias de tabla en INSERT/UPDATE
	require.NotContains(t, caseReturning, "c.")
	require.Contains(t, caseReturning, "primary_owner_id")
}

func TestCaseColumnsMatchScanArity(t *testing.T) {
	// scanCase escanea 21 campos; ambas listas deben coincidir
	require.Len(t, splitColumns(caseColumns), 21)
	require.Len(t, splitColumns(caseReturning), 21)
}
