package types

// ValidationRule constrains one template variable's value.
type ValidationRule struct {
	Pattern   string `json:"pattern,omitempty"`
	MinLength int    `json:"min_length,omitempty"`
	MaxLength int    `json:"max_length,omitempty"`
	Required  bool   `json:"required,omitempty"`
}

// Template is a stored schema plus its default variables and metadata.
type Template struct {
	ID                 string                    `json:"id"`
	Name               string                    `json:"name"`
	Description        string                    `json:"description,omitempty"`
	SchemaXML          string                    `json:"schema_xml"`
	Variables          map[string]string         `json:"variables"`
	VariableValidation map[string]ValidationRule `json:"variable_validation,omitempty"`
	IconColor          string                    `json:"icon_color,omitempty"`
	IsFavorite         bool                      `json:"is_favorite"`
	UseCount           int                       `json:"use_count"`
	CreatedAt          string                    `json:"created_at"`
	UpdatedAt          string                    `json:"updated_at"`
	Tags               []string                  `json:"tags,omitempty"`
}

// CreateTemplateInput is the write shape for storing a new template.
type CreateTemplateInput struct {
	Name               string                    `json:"name"`
	Description        string                    `json:"description,omitempty"`
	SchemaXML          string                    `json:"schema_xml"`
	Variables          map[string]string         `json:"variables"`
	VariableValidation map[string]ValidationRule `json:"variable_validation,omitempty"`
	IconColor          string                    `json:"icon_color,omitempty"`
	IsFavorite         bool                      `json:"is_favorite,omitempty"`
	Tags               []string                  `json:"tags,omitempty"`
}

// UpdateTemplateInput carries optional metadata updates; nil fields are
// left untouched.
type UpdateTemplateInput struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	IconColor   *string `json:"icon_color,omitempty"`
}

// TemplateExport is the portable form of one template.
type TemplateExport struct {
	Name               string                    `json:"name"`
	Description        string                    `json:"description,omitempty"`
	SchemaXML          string                    `json:"schema_xml"`
	Variables          map[string]string         `json:"variables,omitempty"`
	VariableValidation map[string]ValidationRule `json:"variable_validation,omitempty"`
	IconColor          string                    `json:"icon_color,omitempty"`
	Tags               []string                  `json:"tags,omitempty"`
}

// ExportFileType distinguishes single-template exports from bundles.
type ExportFileType string

const (
	ExportTemplate       ExportFileType = "template"
	ExportTemplateBundle ExportFileType = "template_bundle"
)

// TemplateExportFile is the on-disk envelope for exports.
type TemplateExportFile struct {
	Version    string           `json:"version"`
	FileType   ExportFileType   `json:"type"`
	ExportedAt string           `json:"exported_at"`
	Template   *TemplateExport  `json:"template,omitempty"`
	Templates  []TemplateExport `json:"templates,omitempty"`
}

// ImportResult reports the per-template outcomes of one import.
type ImportResult struct {
	Imported []string `json:"imported"`
	Skipped  []string `json:"skipped"`
	Errors   []string `json:"errors"`
}

// DuplicateStrategy selects how imports treat an existing template name.
type DuplicateStrategy string

const (
	DuplicateSkip    DuplicateStrategy = "skip"
	DuplicateReplace DuplicateStrategy = "replace"
	DuplicateRename  DuplicateStrategy = "rename"
)
