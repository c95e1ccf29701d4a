package substitute

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubstitute_Simple(t *testing.T) {
	vars := map[string]string{"%NAME%": "world"}
	assert.Equal(t, "Hello world!", Substitute("Hello %NAME%!", vars))
}

func TestSubstitute_NoReferences(t *testing.T) {
	vars := map[string]string{"%NAME%": "world"}
	text := "plain text, 100% reference-free"
	assert.Equal(t, text, Substitute(text, vars))
}

func TestSubstitute_WithTransforms(t *testing.T) {
	vars := map[string]string{"%NAME%": "hello world"}

	tests := []struct {
		text     string
		expected string
	}{
		{"%NAME:uppercase%", "HELLO WORLD"},
		{"%NAME:camelCase%", "helloWorld"},
		{"%NAME:PascalCase%", "HelloWorld"},
		{"%NAME:kebab-case%", "hello-world"},
		{"%NAME:snake_case%", "hello_world"},
		{"%NAME:length%", "11"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.expected, Substitute(tt.text, vars))
		})
	}
}

func TestSubstitute_MissingVariableLeftVerbatim(t *testing.T) {
	assert.Equal(t, "Hello %NAME%!", Substitute("Hello %NAME%!", nil))
}

func TestSubstitute_UnknownTransformLeftVerbatim(t *testing.T) {
	vars := map[string]string{"%X%": "v"}
	assert.Equal(t, "%X:bogus%", Substitute("%X:bogus%", vars))
}

func TestSubstitute_ReplacesAllOccurrences(t *testing.T) {
	vars := map[string]string{"%N%": "x"}
	assert.Equal(t, "x x x", Substitute("%N% %N% %N%", vars))
}

func TestSubstitute_Idempotent(t *testing.T) {
	vars := map[string]string{"%NAME%": "world"}
	once := Substitute("Hello %NAME%!", vars)
	assert.Equal(t, once, Substitute(once, vars))
}

func TestSubstitute_NonRecursive(t *testing.T) {
	// A substituted value that itself looks like a reference is not
	// re-expanded in the same pass.
	vars := map[string]string{
		"%A%": "%B%",
		"%B%": "final",
	}
	assert.Equal(t, "%B%", Substitute("%A%", vars))
}

func TestExtractVariables(t *testing.T) {
	names := ExtractVariables("%A% %B:upper% %A% %C:format(YYYY)%")
	assert.Equal(t, []string{"A", "B", "C"}, names)
}

func TestExtractVariables_None(t *testing.T) {
	assert.Nil(t, ExtractVariables("no refs"))
}

func TestBuildEnv_Builtins(t *testing.T) {
	env := BuildEnv(nil, "")

	now := time.Now()
	assert.Equal(t, now.Format("2006-01-02"), env["%DATE%"])
	assert.Equal(t, now.Format("2006"), env["%YEAR%"])
	assert.Equal(t, now.Format("01"), env["%MONTH%"])
	assert.Equal(t, now.Format("02"), env["%DAY%"])
	_, hasProject := env["%PROJECT_NAME%"]
	assert.False(t, hasProject)
}

func TestBuildEnv_ProjectName(t *testing.T) {
	env := BuildEnv(nil, "my-app")
	assert.Equal(t, "my-app", env["%PROJECT_NAME%"])
}

func TestBuildEnv_CallerWins(t *testing.T) {
	env := BuildEnv(map[string]string{
		"%YEAR%":         "2000",
		"%PROJECT_NAME%": "override",
		"%CUSTOM%":       "value",
	}, "injected")

	assert.Equal(t, "2000", env["%YEAR%"])
	assert.Equal(t, "override", env["%PROJECT_NAME%"])
	assert.Equal(t, "value", env["%CUSTOM%"])
}

func TestSubstitute_DateBuiltinWithFormat(t *testing.T) {
	env := BuildEnv(nil, "")
	got := Substitute("%DATE:format(YYYY)%", env)
	require.Equal(t, time.Now().Format("2006"), got)
}
