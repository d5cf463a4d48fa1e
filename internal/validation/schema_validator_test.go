package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const personSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"properties": {
		"name": { "type": "string" },
		"age": { "type": "integer", "minimum": 0 }
	},
	"required": ["name"]
}`

func TestNewSchemaValidator_BadSchema(t *testing.T) {
	_, err := NewSchemaValidator("broken.json", []byte(`{"type": `))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.json")
}

func TestValidate(t *testing.T) {
	v, err := NewSchemaValidator("person.json", []byte(personSchema))
	require.NoError(t, err)

	tests := []struct {
		name     string
		doc      any
		wantErr  bool
		location string
	}{
		{"valid", map[string]any{"name": "Ada", "age": 36}, false, ""},
		{"optional field omitted", map[string]any{"name": "Ada"}, false, ""},
		{"missing required", map[string]any{"age": 3}, true, RootLocation},
		{"wrong type", map[string]any{"name": "Ada", "age": "old"}, true, "/age"},
		{"constraint", map[string]any{"name": "Ada", "age": -1}, true, "/age"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.doc)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrSchemaViolation)
			assert.Contains(t, err.Error(), tt.location)
		})
	}
}

func TestValidate_UnlocatedCauseUsesParentLocation(t *testing.T) {
	v, err := NewSchemaValidator("keys.json", []byte(`{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type": "object",
		"properties": {
			"limits": {
				"type": "object",
				"propertyNames": { "pattern": "^[a-z]+$" },
				"required": ["max"]
			}
		}
	}`))
	require.NoError(t, err)

	err = v.Validate(map[string]any{"limits": map[string]any{"MAX": 3}})
	require.Error(t, err)

	lines := strings.Split(err.Error(), "\n")[1:]
	require.Len(t, lines, 2)
	for _, line := range lines {
		assert.Contains(t, line, "at /limits:")
	}
}

func TestValidateYAML_Rules(t *testing.T) {
	v, err := NewRulesValidator()
	require.NoError(t, err)

	tests := []struct {
		name     string
		yaml     string
		wantErr  bool
		location string
	}{
		{"empty document", "", false, ""},
		{"partial override", "economy:\n  starting_coins: 80\n", false, ""},
		{"integer run tiers", "runs:\n  min_length: 3\n  tiers: { 3: 1.0, 4: 2 }\n", false, ""},
		{"unknown top-level key", "jackpot_odds: 0.5\n", true, RootLocation},
		{"misspelled economy key", "economy:\n  startng_coins: 80\n", true, "/economy"},
		{"string where integer expected", "grid: { rows: four, cols: 5 }\n", true, "/grid/rows"},
		{"offer without spins", "economy:\n  offers:\n    - { id: a, cost: 1 }\n", true, "/economy/offers/0"},
		{"non-numeric tier length", "runs:\n  tiers: { long: 2.0 }\n", true, "at /runs/tiers: additional properties 'long' not allowed"},
		{"non-numeric tier multiplier", "runs:\n  tiers: { 3: big }\n", true, "/runs/tiers/3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateYAML([]byte(tt.yaml))
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrSchemaViolation)
			assert.Contains(t, err.Error(), tt.location)
		})
	}
}

func TestValidateYAML_Malformed(t *testing.T) {
	v, err := NewRulesValidator()
	require.NoError(t, err)

	err = v.ValidateYAML([]byte("grid: ["))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSchemaViolation)
}

func TestNormalize(t *testing.T) {
	in := map[string]any{
		"tiers": map[any]any{3: 1.0, 4: 2.0},
		"list":  []any{map[any]any{"a": 1}},
	}

	out := normalize(in).(map[string]any)
	assert.Equal(t, map[string]any{"3": 1.0, "4": 2.0}, out["tiers"])
	assert.Equal(t, []any{map[string]any{"a": 1}}, out["list"])
}
