package schema

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type testItem struct {
	Label string `json:"label" jsonschema:"Display label"`
}

type testRecord struct {
	Name     string     `json:"name" jsonschema:"Record name"`
	Count    int        `json:"count"`
	Active   bool       `json:"active"`
	Note     *string    `json:"note"`
	Optional string     `json:"optional,omitempty"`
	Items    []testItem `json:"items"`
}

func TestFor(t *testing.T) {
	s, err := For[testRecord]()
	require.NoError(t, err)
	require.NotNil(t, s)

	m, err := ToMap(s)
	require.NoError(t, err)
	require.Equal(t, "object", m["type"])

	props, ok := m["properties"].(map[string]any)
	require.True(t, ok)
	for _, name := range []string{"name", "count", "active", "note", "optional", "items"} {
		require.Contains(t, props, name)
	}

	name := props["name"].(map[string]any)
	require.Equal(t, "Record name", name["description"])

	required, ok := m["required"].([]any)
	require.True(t, ok)
	require.Contains(t, required, "name")
	require.Contains(t, required, "items")
	require.NotContains(t, required, "optional")
}

func TestStrict(t *testing.T) {
	s, err := For[testRecord]()
	require.NoError(t, err)
	m, err := ToMap(s)
	require.NoError(t, err)

	Strict(m)

	require.Equal(t, false, m["additionalProperties"])
	required := m["required"].([]any)
	require.Equal(t, []any{"active", "count", "items", "name", "note", "optional"}, required)

	items := m["properties"].(map[string]any)["items"].(map[string]any)
	element := items["items"].(map[string]any)
	require.Equal(t, false, element["additionalProperties"])
	require.Equal(t, []any{"label"}, element["required"])
}

func TestStrictNil(t *testing.T) {
	// Should not panic
	Strict(nil)
	Strict(map[string]any{"type": "string"})
}

func TestToMapNil(t *testing.T) {
	_, err := ToMap(nil)
	require.Error(t, err)
}
