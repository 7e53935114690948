package yamlmerger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func parseDoc(t *testing.T, text string) *yaml.Node {
	t.Helper()
	var n yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(text), &n))
	return &n
}

func TestRecursiveMergeAddsNewKeys(t *testing.T) {
	from := parseDoc(t, "format: tree\n")
	into := parseDoc(t, "no_parallel: true\n")

	require.NoError(t, RecursiveMerge(from, into))

	out, err := yaml.Marshal(into)
	require.NoError(t, err)
	assert.Contains(t, string(out), "format: tree")
	assert.Contains(t, string(out), "no_parallel: true")
}

func TestRecursiveMergePreservesExistingScalarOnOverlap(t *testing.T) {
	from := parseDoc(t, "format: tree\n")
	into := parseDoc(t, "format: yaml\n")

	require.NoError(t, RecursiveMerge(from, into))

	out, err := yaml.Marshal(into)
	require.NoError(t, err)
	assert.Contains(t, string(out), "format: yaml")
}

func TestRecursiveMergeRejectsMismatchedKinds(t *testing.T) {
	from := parseDoc(t, "- a\n- b\n")
	into := parseDoc(t, "format: yaml\n")

	assert.Error(t, RecursiveMerge(from, into))
}

func TestRecursiveMergeSequenceAppendsMissingItems(t *testing.T) {
	from := parseDoc(t, "- a\n- c\n")
	into := parseDoc(t, "- a\n- b\n")

	require.NoError(t, RecursiveMerge(from, into))

	out, err := yaml.Marshal(into)
	require.NoError(t, err)
	assert.Contains(t, string(out), "- a")
	assert.Contains(t, string(out), "- b")
	assert.Contains(t, string(out), "- c")
}
