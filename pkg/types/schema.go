package types

// NodeKind discriminates the schema tree node variants.
type NodeKind string

const (
	NodeFolder NodeKind = "folder"
	NodeFile   NodeKind = "file"
	NodeIf     NodeKind = "if"
	NodeElse   NodeKind = "else"
	NodeRepeat NodeKind = "repeat"
)

// SchemaNode is one node of the parsed schema tree. Sibling order is
// execution order: only an If immediately followed by an Else forms a
// conditional chain, and any other node kind in between breaks it.
type SchemaNode struct {
	Kind NodeKind `json:"kind"`

	// Name may contain %VAR% references; resolved at materialization time.
	// Empty for if/else/repeat nodes.
	Name string `json:"name,omitempty"`

	// File-only fields
	URL            string `json:"url,omitempty"`
	Content        string `json:"content,omitempty"`
	Generate       string `json:"generate,omitempty"`
	GenerateConfig string `json:"generate_config,omitempty"`
	// Template opts the file content into directive processing.
	Template bool `json:"template,omitempty"`

	// If/Else condition variable, stored without % delimiters.
	ConditionVar string `json:"condition_var,omitempty"`

	// Repeat fields. RepeatCount is kept raw because it may itself
	// contain %VAR% references.
	RepeatCount string `json:"repeat_count,omitempty"`
	RepeatAs    string `json:"repeat_as,omitempty"`

	Children []*SchemaNode `json:"children,omitempty"`
}

// SchemaStats holds aggregate counts computed once at parse time.
type SchemaStats struct {
	Folders   int `json:"folders"`
	Files     int `json:"files"`
	Downloads int `json:"downloads"`
}

// SchemaTree owns the root node plus parse-time aggregates, the ordered
// post-create hook commands, and any variable defaults declared inline.
type SchemaTree struct {
	Root  *SchemaNode `json:"root"`
	Stats SchemaStats `json:"stats"`
	Hooks []string    `json:"hooks,omitempty"`

	// Variables holds defaults from a <variables> block, keyed by bare
	// name. Lowest precedence: caller-supplied values win.
	Variables map[string]string `json:"variables,omitempty"`
}

// TemplateData is what the inheritance resolver's loader callback returns
// for a named parent template.
type TemplateData struct {
	SchemaXML string            `json:"schema_xml"`
	Variables map[string]string `json:"variables,omitempty"`
}

// VariableReport lists the distinct variable names a schema references,
// bare and in first-seen order. Variables holds the names the caller must
// supply; Provided holds names the engine fills in itself (date built-ins,
// the project name, repeat loop variables).
type VariableReport struct {
	Variables []string `json:"variables"`
	Provided  []string `json:"provided,omitempty"`
}
