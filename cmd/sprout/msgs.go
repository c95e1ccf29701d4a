package sprout

import (
	_ "embed"
	"strings"
)

// Short messages defined as constants
const (
	// Command descriptions
	MsgRootShort              = "Materialize folder structures from schema templates"
	MsgCreateShort            = "Create a folder structure from a schema"
	MsgDiffShort              = "Preview what a create would change"
	MsgUndoShort              = "Reverse the last create"
	MsgValidateShort          = "Check a schema for problems without creating anything"
	MsgParseShort             = "Show a schema's tree, stats, and variables"
	MsgScanShort              = "Turn an existing directory into a schema"
	MsgTemplatesShort         = "Manage the local template library"
	MsgTemplatesListShort     = "List saved templates"
	MsgTemplatesShowShort     = "Show one saved template in full"
	MsgTemplatesSaveShort     = "Save a schema as a template"
	MsgTemplatesDeleteShort   = "Delete a saved template"
	MsgTemplatesExportShort   = "Export templates to a JSON document"
	MsgTemplatesImportShort   = "Import templates from a file or URL"
	MsgTemplatesFavoriteShort = "Toggle a template's favorite flag"
	MsgConfigShort            = "Show or initialize the configuration"
	MsgTopicsShort            = "Learn more about sprout"
	MsgTopicsLong             = "Display the list of available documentation topics."
	MsgCompletionShort        = "Generate shell completion scripts"

	// Status messages
	MsgTemplateSaved       = "Saved template '%s'"
	MsgTemplateDeleted     = "Deleted template '%s'"
	MsgTemplateFavorited   = "Template '%s' is now a favorite"
	MsgTemplateUnfavorited = "Template '%s' is no longer a favorite"
	MsgTemplatesExported   = "Exported %d template(s) to %s"
	MsgConfigWritten       = "Wrote default configuration to %s"
	MsgSchemaWritten       = "Wrote schema to %s"

	// Error messages
	MsgErrInitPaths     = "failed to initialize paths: %w"
	MsgErrLoadConfig    = "failed to load configuration: %w"
	MsgErrOpenStore     = "failed to open template store: %w"
	MsgErrReadSchema    = "failed to read schema file %s: %w"
	MsgErrReadStdin     = "failed to read schema from stdin: %w"
	MsgErrSchemaInput   = "provide a schema with --schema or --template (not both)"
	MsgErrSaveSchema    = "provide the schema to save with --schema"
	MsgErrExportArgs    = "name templates to export or pass --all"
	MsgErrOnDuplicate   = "invalid --on-duplicate %q, want skip, replace, or rename"
	MsgErrInvalidFormat = "invalid output format: %w"

	// Flag descriptions
	MsgFlagVerbose   = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagDryRun    = "Report what would happen without changing anything"
	MsgFlagJSON      = "Emit results as JSON"
	MsgFlagSchema    = "Schema file to read ('-' for stdin)"
	MsgFlagTemplate  = "Saved template to use"
	MsgFlagOutput    = "Directory to create the structure under"
	MsgFlagVar       = "Set a variable as NAME=value (repeatable)"
	MsgFlagVarsFile  = "Read variables from a YAML, TOML, or JSON file"
	MsgFlagProject   = "Project name for %PROJECT_NAME% (defaults to the root folder)"
	MsgFlagOverwrite = "Replace files that already exist"
	MsgFlagNoHooks   = "Skip the schema's post-create hooks"
	MsgFlagUndoFile  = "Where to write the undo manifest"
	MsgFlagManifest  = "Undo manifest to read (defaults to the last create's)"

	MsgFlagVars             = "List referenced variables instead of the tree"
	MsgFlagScanOutput       = "Write the schema to a file instead of stdout"
	MsgFlagExportOutput     = "Write the export to a file instead of stdout"
	MsgFlagIncludeVariables = "Include variable defaults"
	MsgFlagAll              = "Export every template as a bundle"
	MsgFlagOnDuplicate      = "On a name collision: skip, replace, or rename"
	MsgFlagDescription      = "Template description"
	MsgFlagTag              = "Tag the template (repeatable)"
	MsgFlagFavorite         = "Mark the template as a favorite"
	MsgFlagWrite            = "Write a default config file at its standard location"
)

// Long messages loaded from embedded text files

//go:embed msgs/root-long.txt
var msgRootLongRaw string

// MsgRootLong is the detailed description for the root command
var MsgRootLong = strings.TrimSpace(msgRootLongRaw)

//go:embed msgs/create-long.txt
var msgCreateLongRaw string

// MsgCreateLong is the detailed description for the create command
var MsgCreateLong = strings.TrimSpace(msgCreateLongRaw)

//go:embed msgs/create-example.txt
var msgCreateExampleRaw string

// MsgCreateExample shows usage examples for the create command
var MsgCreateExample = strings.TrimRight(msgCreateExampleRaw, "\n")

//go:embed msgs/diff-long.txt
var msgDiffLongRaw string

// MsgDiffLong is the detailed description for the diff command
var MsgDiffLong = strings.TrimSpace(msgDiffLongRaw)

//go:embed msgs/undo-long.txt
var msgUndoLongRaw string

// MsgUndoLong is the detailed description for the undo command
var MsgUndoLong = strings.TrimSpace(msgUndoLongRaw)

//go:embed msgs/validate-long.txt
var msgValidateLongRaw string

// MsgValidateLong is the detailed description for the validate command
var MsgValidateLong = strings.TrimSpace(msgValidateLongRaw)

//go:embed msgs/parse-long.txt
var msgParseLongRaw string

// MsgParseLong is the detailed description for the parse command
var MsgParseLong = strings.TrimSpace(msgParseLongRaw)

//go:embed msgs/scan-long.txt
var msgScanLongRaw string

// MsgScanLong is the detailed description for the scan command
var MsgScanLong = strings.TrimSpace(msgScanLongRaw)

//go:embed msgs/templates-long.txt
var msgTemplatesLongRaw string

// MsgTemplatesLong is the detailed description for the templates command
var MsgTemplatesLong = strings.TrimSpace(msgTemplatesLongRaw)

//go:embed msgs/templates-example.txt
var msgTemplatesExampleRaw string

// MsgTemplatesExample shows usage examples for the templates command
var MsgTemplatesExample = strings.TrimRight(msgTemplatesExampleRaw, "\n")

//go:embed msgs/config-long.txt
var msgConfigLongRaw string

// MsgConfigLong is the detailed description for the config command
var MsgConfigLong = strings.TrimSpace(msgConfigLongRaw)

//go:embed msgs/completion-long.txt
var msgCompletionLongRaw string

// MsgCompletionLong is the detailed description for the completion command
var MsgCompletionLong = strings.TrimSpace(msgCompletionLongRaw)

//go:embed msgs/usage-template.txt
var msgUsageTemplateRaw string

// MsgUsageTemplate is the custom usage template with grouped commands
var MsgUsageTemplate = msgUsageTemplateRaw
