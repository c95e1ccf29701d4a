package topics

import (
	"bytes"
	"os"
	"testing"
	"testing/fstest"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"help/dry-run.txt":      {Data: []byte("Information about dry-run mode")},
		"help/architecture.md":  {Data: []byte("# Architecture\n\nSystem architecture details")},
		"help/config.txxt":      {Data: []byte("Configuration Guide\n==================")},
		"help/ignore.json":      {Data: []byte("This should be ignored")},
		"help/option-force.txt": {Data: []byte("Force help")},
	}
}

func TestTopicManagerScanTopics(t *testing.T) {
	t.Run("default extensions", func(t *testing.T) {
		tm := New(testFS(), "help")
		require.NoError(t, tm.scanTopics())

		tests := []struct {
			name    string
			exists  bool
			content string
		}{
			{"dry-run", true, "Information about dry-run mode"},
			{"architecture", true, "# Architecture\n\nSystem architecture details"},
			{"config", false, ""}, // .txxt not in defaults
			{"ignore", false, ""},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				topic, exists := tm.GetTopic(tt.name)
				assert.Equal(t, tt.exists, exists)
				if exists {
					assert.Equal(t, tt.content, topic.Content)
				}
			})
		}
	})

	t.Run("custom extensions", func(t *testing.T) {
		tm := NewWithOptions(testFS(), "help", Options{
			Extensions: []string{".txt", ".md", ".txxt"},
		})
		require.NoError(t, tm.scanTopics())

		topic, exists := tm.GetTopic("config")
		require.True(t, exists)
		assert.Equal(t, "Configuration Guide\n==================", topic.Content)

		_, exists = tm.GetTopic("ignore")
		assert.False(t, exists)
	})
}

func TestTopicManagerGetTopic(t *testing.T) {
	fsys := fstest.MapFS{
		"help/option-dry-run.txt": {Data: []byte("Dry run help")},
		"help/option-verbose.txt": {Data: []byte("Verbose help")},
		"help/architecture.txt":   {Data: []byte("Architecture help")},
	}

	tm := New(fsys, "help")
	require.NoError(t, tm.scanTopics())

	tests := []struct {
		input    string
		expected string
		exists   bool
	}{
		// Direct topic name
		{"architecture", "architecture", true},
		// Option topics with prefix
		{"option-dry-run", "option-dry-run", true},
		// Flag-style lookups should find option- prefixed files
		{"dry-run", "option-dry-run", true},
		{"--dry-run", "option-dry-run", true},
		{"-dry-run", "option-dry-run", true},
		{"verbose", "option-verbose", true},
		{"-v", "", false}, // Single letter flags don't match
		{"--verbose", "option-verbose", true},
		{"nonexistent", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			topic, exists := tm.GetTopic(tt.input)
			assert.Equal(t, tt.exists, exists)
			if exists {
				assert.Equal(t, tt.expected, topic.Name)
			}
		})
	}
}

func TestTopicManagerListTopics(t *testing.T) {
	fsys := fstest.MapFS{
		"help/create.txt":  {Data: []byte("Help for create")},
		"help/undo.txt":    {Data: []byte("Help for undo")},
		"help/dry-run.txt": {Data: []byte("Help for dry-run")},
		"help/config.txt":  {Data: []byte("Help for config")},
	}

	tm := New(fsys, "help")
	require.NoError(t, tm.scanTopics())

	list := tm.ListTopics()
	assert.Len(t, list, 4)
	assert.ElementsMatch(t, []string{"create", "undo", "dry-run", "config"}, list)
}

func TestInitialize(t *testing.T) {
	fsys := fstest.MapFS{
		"help/test-topic.txt": {Data: []byte("Test topic content")},
	}

	rootCmd := &cobra.Command{
		Use:   "testapp",
		Short: "Test application",
	}
	rootCmd.AddCommand(&cobra.Command{
		Use:   "create",
		Short: "Create something",
		Run:   func(cmd *cobra.Command, args []string) {},
	})

	require.NoError(t, Initialize(rootCmd, fsys, "help"))

	// Check that help command exists
	helpCmd, _, err := rootCmd.Find([]string{"help"})
	require.NoError(t, err)
	assert.Equal(t, "help", helpCmd.Name())
	assert.Equal(t, "help [command or topic]", helpCmd.Use)
}

func TestNonexistentTopicsDir(t *testing.T) {
	// A missing topics directory is fine, just no topics
	tm := New(fstest.MapFS{}, "nonexistent")
	require.NoError(t, tm.scanTopics())
	assert.Empty(t, tm.ListTopics())
}

func TestSubdirectoryTopics(t *testing.T) {
	fsys := fstest.MapFS{
		"help/advanced/generators.txt": {Data: []byte("Generator help")},
	}

	tm := New(fsys, "help")
	require.NoError(t, tm.scanTopics())

	// Subdirectory files are found under their base name
	topic, exists := tm.GetTopic("generators")
	require.True(t, exists)
	assert.Equal(t, "Generator help", topic.Content)
}

func TestHelpCommandRendersTopic(t *testing.T) {
	fsys := fstest.MapFS{
		"help/dry-run.txt": {Data: []byte("DRY RUN MODE\nNothing is written to disk.")},
	}

	rootCmd := &cobra.Command{
		Use:   "testapp",
		Short: "Test application",
	}
	require.NoError(t, Initialize(rootCmd, fsys, "help"))

	output := captureStdout(t, func() {
		rootCmd.SetArgs([]string{"help", "dry-run"})
		_ = rootCmd.Execute()
	})

	assert.Contains(t, output, "DRY RUN MODE")
}

// captureStdout redirects os.Stdout around f. The help command prints
// through fmt directly, so cobra's SetOut does not reach it.
func captureStdout(t *testing.T, f func()) string {
	t.Helper()

	r, w, err := os.Pipe()
	require.NoError(t, err)

	stdout := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = stdout }()

	f()
	require.NoError(t, w.Close())

	var buf bytes.Buffer
	_, err = buf.ReadFrom(r)
	require.NoError(t, err)
	return buf.String()
}
