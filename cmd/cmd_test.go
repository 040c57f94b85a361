package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testGeoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"iso": "FR", "name": "France"}, "geometry": {"type": "Point", "coordinates": [2, 46]}},
    {"type": "Feature", "properties": {"iso": "DE", "name": "Germany"}, "geometry": {"type": "Point", "coordinates": [10, 51]}},
    {"type": "Feature", "properties": {"iso": "XX"}, "geometry": null}
  ]
}`

func setupCLI(t *testing.T) (dbPath, geojsonPath string) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	t.Setenv("GEOQUIZ_DB", "")

	geojsonPath = filepath.Join(dir, "europe.geojson")
	require.NoError(t, os.WriteFile(geojsonPath, []byte(testGeoJSON), 0o644))
	return filepath.Join(dir, "geoquiz.db"), geojsonPath
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestDatasetAndQuizCommands(t *testing.T) {
	dbPath, geojsonPath := setupCLI(t)

	out, err := execute(t, "dataset", "import", geojsonPath, "--db", dbPath,
		"--id-key", "iso", "--label-key", "name", "--name", "Europe")
	require.NoError(t, err)
	assert.Contains(t, out, "2 regions")
	assert.Contains(t, out, "1 features skipped")

	fields := strings.Fields(out)
	require.GreaterOrEqual(t, len(fields), 3)
	datasetID := fields[2]

	out, err = execute(t, "dataset", "show", datasetID, "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "France")
	assert.Contains(t, out, "Germany")

	out, err = execute(t, "quiz", "create", "--dataset", datasetID, "--db", dbPath,
		"--name", "Capitals", "--type", "multiple-choice")
	require.NoError(t, err)
	assert.Contains(t, out, "Created quiz")

	out, err = execute(t, "quiz", "list", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Capitals")
	assert.Contains(t, out, "multiple-choice")
	assert.Contains(t, out, "1 quizzes")

	out, err = execute(t, "export", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, `"quizzes"`)
	assert.Contains(t, out, `"Capitals"`)
}

func TestDatasetImport_UnknownKey(t *testing.T) {
	dbPath, geojsonPath := setupCLI(t)

	_, err := execute(t, "dataset", "import", geojsonPath, "--db", dbPath,
		"--id-key", "code", "--label-key", "name")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "available keys: iso, name")
}

func TestDatasetKeys(t *testing.T) {
	_, geojsonPath := setupCLI(t)

	out, err := execute(t, "dataset", "keys", geojsonPath)
	require.NoError(t, err)
	assert.Equal(t, "iso\nname\n", out)
}

func TestQuizCreate_UnknownType(t *testing.T) {
	dbPath, _ := setupCLI(t)

	_, err := execute(t, "quiz", "create", "--dataset", "x", "--type", "trivia", "--db", dbPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown quiz type")
}
