package sprout

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/sprout/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDelimit(t *testing.T) {
	assert.Equal(t, "%NAME%", delimit("NAME"))
	assert.Equal(t, "%NAME%", delimit("%NAME%"))
	assert.Equal(t, "%NAME%", delimit("NAME%"))
}

func TestParseVarFlag(t *testing.T) {
	name, value, err := parseVarFlag("AUTHOR=amy")
	require.NoError(t, err)
	assert.Equal(t, "AUTHOR", name)
	assert.Equal(t, "amy", value)

	// Only the first = separates; the rest belongs to the value.
	name, value, err = parseVarFlag("GREETING=a=b")
	require.NoError(t, err)
	assert.Equal(t, "GREETING", name)
	assert.Equal(t, "a=b", value)

	name, value, err = parseVarFlag(" AUTHOR =amy")
	require.NoError(t, err)
	assert.Equal(t, "AUTHOR", name)
	assert.Equal(t, "amy", value)

	_, _, err = parseVarFlag("NOVALUE")
	assert.Error(t, err)

	_, _, err = parseVarFlag("=value")
	assert.Error(t, err)
}

func TestReadVarsFileFormats(t *testing.T) {
	tmpDir := t.TempDir()
	want := map[string]string{"%AUTHOR%": "amy", "%PORT%": "8080"}

	cases := []struct {
		name    string
		content string
	}{
		{"vars.yaml", "AUTHOR: amy\nPORT: 8080\n"},
		{"vars.toml", "AUTHOR = \"amy\"\nPORT = 8080\n"},
		{"vars.json", `{"AUTHOR": "amy", "PORT": 8080}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(tmpDir, tc.name)
			require.NoError(t, os.WriteFile(path, []byte(tc.content), 0o644))
			vars, err := readVarsFile(path)
			require.NoError(t, err)
			assert.Equal(t, want, vars)
		})
	}
}

func TestReadVarsFileDelimitedKeysAndEmptyValues(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "vars.yaml")
	require.NoError(t, os.WriteFile(path, []byte("\"%AUTHOR%\": amy\nEMPTY:\n"), 0o644))

	vars, err := readVarsFile(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"%AUTHOR%": "amy", "%EMPTY%": ""}, vars)
}

func TestReadVarsFileRejectsNestedValues(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "vars.yaml")
	require.NoError(t, os.WriteFile(path, []byte("DB:\n  host: localhost\n"), 0o644))

	_, err := readVarsFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a scalar")
}

func TestReadVarsFileRejectsUnknownExtension(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "vars.ini")
	require.NoError(t, os.WriteFile(path, []byte("AUTHOR=amy\n"), 0o644))

	_, err := readVarsFile(path)
	assert.Error(t, err)
}

func TestCollectVarsPrecedence(t *testing.T) {
	tmpDir := t.TempDir()
	varsPath := filepath.Join(tmpDir, "vars.yaml")
	require.NoError(t, os.WriteFile(varsPath, []byte("B: file\nC: file\n"), 0o644))

	input := schemaInput{
		Template: &types.Template{
			Variables: map[string]string{"%A%": "stored", "%B%": "stored"},
		},
	}
	resolved := map[string]string{"A": "schema", "D": "schema"}

	vars, err := collectVars(input, resolved, varsPath, []string{"C=flag"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"%A%": "stored",
		"%B%": "file",
		"%C%": "flag",
		"%D%": "schema",
	}, vars)
}
