// Package topics provides a pluggable, topic-based help system for Cobra CLI
// applications. It extends the default Cobra help functionality to support
// arbitrary help topics loaded from an fs.FS, so binaries can embed their
// documentation and stay self-contained.
package topics

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

// TopicManager manages help topics for a Cobra application
type TopicManager struct {
	fsys         fs.FS
	topicsDir    string
	topics       map[string]*Topic
	originalHelp func(*cobra.Command, []string)
	extensions   []string
	renderer     Renderer
}

// Topic represents a help topic
type Topic struct {
	Name     string
	FilePath string
	Content  string
}

// Options configures the TopicManager
type Options struct {
	// Extensions is the list of file extensions to consider as topics
	// Defaults to [".txt", ".md"] if not specified
	Extensions []string

	// Renderer for formatting topic content (optional)
	// Defaults to PlainRenderer if not specified
	Renderer Renderer
}

// New creates a new TopicManager with default extensions
func New(fsys fs.FS, topicsDir string) *TopicManager {
	return NewWithOptions(fsys, topicsDir, Options{})
}

// NewWithOptions creates a new TopicManager with custom options
func NewWithOptions(fsys fs.FS, topicsDir string, opts Options) *TopicManager {
	tm := &TopicManager{
		fsys:       fsys,
		topicsDir:  topicsDir,
		topics:     make(map[string]*Topic),
		extensions: opts.Extensions,
		renderer:   opts.Renderer,
	}

	// Set default extensions if none provided
	if len(tm.extensions) == 0 {
		tm.extensions = []string{".txt", ".md"}
	}

	// Set default renderer if none provided
	if tm.renderer == nil {
		tm.renderer = &PlainRenderer{}
	}

	return tm
}

// scanTopics scans the topics directory for help files
func (tm *TopicManager) scanTopics() error {
	// A missing topics directory is not an error, just no topics available
	if _, err := fs.Stat(tm.fsys, tm.topicsDir); err != nil {
		return nil
	}

	return fs.WalkDir(tm.fsys, tm.topicsDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		// Check if file has a supported extension
		ext := path.Ext(p)
		supported := false
		for _, validExt := range tm.extensions {
			if ext == validExt {
				supported = true
				break
			}
		}
		if !supported {
			return nil
		}

		// The topic name is the filename without its extension
		topicName := strings.TrimSuffix(path.Base(p), ext)

		content, err := fs.ReadFile(tm.fsys, p)
		if err != nil {
			return err
		}

		tm.topics[topicName] = &Topic{
			Name:     topicName,
			FilePath: p,
			Content:  string(content),
		}
		return nil
	})
}

// GetTopic retrieves a topic by name
func (tm *TopicManager) GetTopic(name string) (*Topic, bool) {
	// Handle flag-style topics (e.g., --dry-run -> dry-run)
	name = strings.TrimPrefix(name, "--")
	name = strings.TrimPrefix(name, "-")

	// First try exact match
	topic, exists := tm.topics[name]
	if exists {
		return topic, true
	}

	// For flag-style topics, also try with "option-" prefix
	optionName := "option-" + name
	topic, exists = tm.topics[optionName]
	return topic, exists
}

// ListTopics returns all available topic names
func (tm *TopicManager) ListTopics() []string {
	topics := make([]string, 0, len(tm.topics))
	for name := range tm.topics {
		topics = append(topics, name)
	}
	return topics
}

// Initialize sets up the topic-based help system with default extensions
func Initialize(rootCmd *cobra.Command, fsys fs.FS, topicsDir string) error {
	return InitializeWithOptions(rootCmd, fsys, topicsDir, Options{})
}

// InitializeWithOptions sets up the topic-based help system with custom options
func InitializeWithOptions(rootCmd *cobra.Command, fsys fs.FS, topicsDir string, opts Options) error {
	tm := NewWithOptions(fsys, topicsDir, opts)

	// Scan for topics
	if err := tm.scanTopics(); err != nil {
		return fmt.Errorf("failed to scan topics: %w", err)
	}

	// Store the original help function
	tm.originalHelp = rootCmd.HelpFunc()

	// Create custom help command
	helpCmd := &cobra.Command{
		Use:   "help [command or topic]",
		Short: "Help about any command or topic",
		Long: `Help provides help for any command or topic in the application.
Simply type ` + rootCmd.Name() + ` help [path to command or topic] for full details.

To see all available help topics:
  ` + rootCmd.Name() + ` help topics`,
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			// Combine command names and topic names for completion
			var completions []string

			// Add special keywords
			completions = append(completions, "topics")

			// Add commands
			for _, c := range rootCmd.Commands() {
				if !c.Hidden {
					completions = append(completions, c.Name())
				}
			}

			// Add topics
			completions = append(completions, tm.ListTopics()...)

			return completions, cobra.ShellCompDirectiveNoFileComp
		},
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) == 0 {
				// No args - show root help
				tm.originalHelp(rootCmd, []string{})
				return
			}

			// Check if asking for topics list
			if args[0] == "topics" {
				topics := tm.ListTopics()
				if len(topics) == 0 {
					fmt.Println("No help topics available.")
				} else {
					// Sort topics alphabetically
					sort.Strings(topics)

					// Separate options and general topics
					var options []string
					var general []string

					for _, name := range topics {
						if strings.HasPrefix(name, "option-") {
							// Remove prefix for display
							options = append(options, strings.TrimPrefix(name, "option-"))
						} else {
							general = append(general, name)
						}
					}

					fmt.Println("Available help topics:")
					if len(general) > 0 {
						fmt.Println("\nGeneral topics:")
						for _, name := range general {
							fmt.Printf("  %s\n", name)
						}
					}

					if len(options) > 0 {
						fmt.Println("\nOption topics:")
						for _, name := range options {
							fmt.Printf("  --%s\n", name)
						}
					}

					fmt.Printf("\nUse '%s help <topic>' to read about a specific topic.\n", rootCmd.Name())
				}
				return
			}

			// Check if it's a topic
			topic, exists := tm.GetTopic(args[0])
			if exists {
				// Get file extension for format detection
				ext := path.Ext(topic.FilePath)
				rendered := tm.renderer.Render(topic.Content, ext)
				fmt.Print(rendered)
				return
			}

			// Not a topic - fall back to original help
			tm.originalHelp(rootCmd, args)
		},
	}

	// Remove any existing help command
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == "help" {
			rootCmd.RemoveCommand(cmd)
			break
		}
	}

	// Add our custom help command
	rootCmd.AddCommand(helpCmd)

	// Also override the help function for --help flag
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		// If args contain a topic, show it
		if len(args) > 0 {
			topic, exists := tm.GetTopic(args[0])
			if exists {
				// Get file extension for format detection
				ext := path.Ext(topic.FilePath)
				rendered := tm.renderer.Render(topic.Content, ext)
				fmt.Print(rendered)
				return
			}
		}

		// Otherwise use original help
		tm.originalHelp(cmd, args)
	})

	return nil
}
