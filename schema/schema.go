// Package schema derives JSON Schemas from Go types and prepares them for
// structured-output requests.
package schema

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/jsonschema-go/jsonschema"
)

// Schema describes the structure of a JSON value.
type Schema = jsonschema.Schema

// For generates a JSON schema for the Go type T. Struct fields without
// "omitempty" are required; pointer fields are nullable; `jsonschema`
// struct tags become property descriptions.
func For[T any]() (*Schema, error) {
	s, err := jsonschema.For[T](nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate schema: %w", err)
	}
	return s, nil
}

// ToMap converts a schema into a generic JSON object.
func ToMap(s *Schema) (map[string]any, error) {
	if s == nil {
		return nil, fmt.Errorf("cannot convert nil schema")
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema: %w", err)
	}
	return m, nil
}

// Strict rewrites a schema object in place so that every object node lists
// all of its properties as required and disallows additional properties.
// Strict structured-output modes reject schemas that do not satisfy this.
func Strict(m map[string]any) {
	if m == nil {
		return
	}
	if props, ok := m["properties"].(map[string]any); ok {
		names := make([]any, 0, len(props))
		keys := make([]string, 0, len(props))
		for name := range props {
			keys = append(keys, name)
		}
		sort.Strings(keys)
		for _, name := range keys {
			names = append(names, name)
			if child, ok := props[name].(map[string]any); ok {
				Strict(child)
			}
		}
		m["required"] = names
		m["additionalProperties"] = false
	}
	if items, ok := m["items"].(map[string]any); ok {
		Strict(items)
	}
	for _, key := range []string{"$defs", "definitions"} {
		if defs, ok := m[key].(map[string]any); ok {
			for _, def := range defs {
				if child, ok := def.(map[string]any); ok {
					Strict(child)
				}
			}
		}
	}
}
