package classql_test

import (
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/CFdefense/ClassQL"
)

type scenario struct {
	Name        string        `yaml:"name"`
	Input       string        `yaml:"input"`
	SQLContains []string      `yaml:"sql_contains"`
	Params      []interface{} `yaml:"params"`
}

func loadScenarios(t *testing.T) []scenario {
	t.Helper()
	raw, err := os.ReadFile("testdata/scenarios.yaml")
	require.NoError(t, err)
	var scenarios []scenario
	require.NoError(t, yaml.Unmarshal(raw, &scenarios))
	return scenarios
}

func TestCompile_ConcreteScenarios(t *testing.T) {
	for _, sc := range loadScenarios(t) {
		t.Run(sc.Name, func(t *testing.T) {
			result, diags := classql.Compile(sc.Input, nil)
			require.Empty(t, diags, "input: %s", sc.Input)

			for _, want := range sc.SQLContains {
				assert.Contains(t, result.SQL, want)
			}

			require.Len(t, result.Params, len(sc.Params))
			for i, want := range sc.Params {
				got := result.Params[i]
				switch w := want.(type) {
				case string:
					assert.Equal(t, w, got.Str)
				case int:
					assert.Equal(t, int64(w), got.Int)
				default:
					t.Fatalf("unsupported fixture param type %T", want)
				}
			}

			assert.Equal(t, len(result.Params), countPlaceholders(result.SQL))
		})
	}
}

func TestCompile_EmptyQuery(t *testing.T) {
	result, diags := classql.Compile("", nil)
	require.Empty(t, diags)
	assert.NotContains(t, result.SQL, "WHERE")
	assert.Empty(t, result.Params)
}

func TestCompile_SemanticDiagnosticStopsPipeline(t *testing.T) {
	_, diags := classql.Compile("credit hours contains 3", nil)
	require.Len(t, diags, 1)
	assert.Equal(t, "semantic", diags[0].Kind.String())
}

func TestExplain_IsDeterministic(t *testing.T) {
	viaExplain, diags := classql.Explain("sub is CS and monday")
	require.Empty(t, diags)

	tokens, diags := classql.Tokenize("sub is CS and monday")
	require.Empty(t, diags)
	assert.NotEmpty(t, tokens)

	// Explain must be deterministic: running it twice over the same
	// source produces structurally identical trees.
	again, diags := classql.Explain("sub is CS and monday")
	require.Empty(t, diags)
	if diff := cmp.Diff(viaExplain, again); diff != "" {
		t.Errorf("Explain is not deterministic (-first +second):\n%s", diff)
	}
}

func countPlaceholders(sql string) int {
	count := 0
	for _, r := range sql {
		if r == '?' {
			count++
		}
	}
	return count
}
