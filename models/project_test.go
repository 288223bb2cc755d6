package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileNodeJSON(t *testing.T) {
	tree := []*FileNode{
		{Name: "empty", Path: "empty", Type: NodeTypeDirectory, Children: []*FileNode{}},
		{Name: "nil", Path: "nil", Type: NodeTypeDirectory},
		{Name: "src", Path: "src", Type: NodeTypeDirectory, Children: []*FileNode{
			{Name: "main.go", Path: "src/main.go", Type: NodeTypeFile},
		}},
		{Name: "go.mod", Path: "go.mod", Type: NodeTypeFile},
	}

	data, err := json.Marshal(tree)
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 4)

	assert.Equal(t, []any{}, decoded[0]["children"])
	assert.Equal(t, []any{}, decoded[1]["children"])
	assert.Equal(t, "directory", decoded[1]["type"])

	children, ok := decoded[2]["children"].([]any)
	require.True(t, ok)
	require.Len(t, children, 1)
	child := children[0].(map[string]any)
	assert.Equal(t, "src/main.go", child["path"])
	assert.NotContains(t, child, "children")

	assert.NotContains(t, decoded[3], "children")
	assert.Equal(t, "go.mod", decoded[3]["name"])
}
