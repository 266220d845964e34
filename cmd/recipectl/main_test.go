package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCatalog = `[
  {"id": "1", "title": "חביתה", "ingredients": [{"name": "ביצה", "amount": "2"}, {"name": "מלח"}], "steps": ["לטגן"]},
  {"id": "2", "title": "Tomato salad", "ingredients": [{"name": "tomato", "amount": "3"}, {"name": "olive oil", "amount": "1.5 tbsp"}], "steps": ["Chop", "Mix"]}
]`

func writeTestData(t *testing.T) (catalog, synonyms, substitutions string) {
	t.Helper()
	dir := t.TempDir()
	catalog = filepath.Join(dir, "recipes.json")
	synonyms = filepath.Join(dir, "synonyms.json")
	substitutions = filepath.Join(dir, "substitutions.json")
	require.NoError(t, os.WriteFile(catalog, []byte(testCatalog), 0o644))
	require.NoError(t, os.WriteFile(synonyms, []byte(`{"עגבניה": ["tomato"]}`), 0o644))
	require.NoError(t, os.WriteFile(substitutions, []byte(`{"ביצה": [{"name": "רסק תפוחים", "note": "1/4 כוס לביצה"}]}`), 0o644))
	return catalog, synonyms, substitutions
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	catalog, synonyms, substitutions := writeTestData(t)
	app := newApp()
	var out bytes.Buffer
	app.Writer = &out
	full := append([]string{"recipectl", "--catalog", catalog, "--synonyms", synonyms, "--substitutions", substitutions, "--log-level", "error"}, args...)
	err := app.Run(full)
	return out.String(), err
}

func TestSearchCommand(t *testing.T) {
	out, err := run(t, "search", "-q", "עגבניה")
	require.NoError(t, err)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "2", rows[0]["id"])
	assert.EqualValues(t, 1, rows[0]["hits"])
}

func TestSearchCommand_BadMode(t *testing.T) {
	_, err := run(t, "search", "-q", "x", "--mode", "XOR")
	assert.Error(t, err)
}

func TestVeganizeCommand(t *testing.T) {
	out, err := run(t, "veganize", "--id", "1")
	require.NoError(t, err)

	var result map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "חביתה (גרסה טבעונית)", result["title"])
	ingredients := result["ingredients"].([]any)
	assert.Equal(t, "רסק תפוחים", ingredients[0].(map[string]any)["name"])
}

func TestScaleCommand(t *testing.T) {
	out, err := run(t, "scale", "--id", "2", "--from", "2", "--to", "4")
	require.NoError(t, err)

	var result map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	ingredients := result["ingredients"].([]any)
	assert.Equal(t, "6", ingredients[0].(map[string]any)["amount"])
	assert.Equal(t, "3 tbsp", ingredients[1].(map[string]any)["amount"])
}

func TestScaleCommand_Errors(t *testing.T) {
	_, err := run(t, "scale", "--id", "2", "--from", "0", "--to", "4")
	assert.Error(t, err)

	_, err = run(t, "scale", "--id", "missing", "--from", "1", "--to", "2")
	assert.Error(t, err)
}
