// Template exchange as versioned .sct JSON documents. A single export
// carries one template under "template"; a bundle carries many under
// "templates". Imports validate names and schema XML before touching
// the database and resolve name collisions per DuplicateStrategy.

package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/arthur-debert/sprout/pkg/download"
	"github.com/arthur-debert/sprout/pkg/errors"
	"github.com/arthur-debert/sprout/pkg/schema"
	"github.com/arthur-debert/sprout/pkg/types"
)

// ExportVersion is written into every export file. Imports accept any
// 1.x version.
const ExportVersion = "1.0"

// MaxImportFileSize caps .sct downloads from URLs.
const MaxImportFileSize = 5 * 1024 * 1024

// Export packages one template as a single-template export file.
// Default variables travel along only when includeVariables is set.
func (s *Store) Export(id string, includeVariables bool) (*types.TemplateExportFile, error) {
	t, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	export := exportTemplate(t, includeVariables)
	return &types.TemplateExportFile{
		Version:    ExportVersion,
		FileType:   types.ExportTemplate,
		ExportedAt: nowTimestamp(),
		Template:   &export,
	}, nil
}

// ExportBundle packages the named templates as a bundle export file.
// An empty id list exports every template; unknown ids are skipped.
func (s *Store) ExportBundle(ids []string, includeVariables bool) (*types.TemplateExportFile, error) {
	var templates []*types.Template
	if len(ids) == 0 {
		all, err := s.List()
		if err != nil {
			return nil, err
		}
		templates = all
	} else {
		for _, id := range ids {
			t, err := s.Get(id)
			if errors.IsErrorCode(err, errors.ErrTemplateNotFound) {
				continue
			}
			if err != nil {
				return nil, err
			}
			templates = append(templates, t)
		}
	}

	exports := make([]types.TemplateExport, 0, len(templates))
	for _, t := range templates {
		exports = append(exports, exportTemplate(t, includeVariables))
	}

	return &types.TemplateExportFile{
		Version:    ExportVersion,
		FileType:   types.ExportTemplateBundle,
		ExportedAt: nowTimestamp(),
		Templates:  exports,
	}, nil
}

func exportTemplate(t *types.Template, includeVariables bool) types.TemplateExport {
	export := types.TemplateExport{
		Name:        t.Name,
		Description: t.Description,
		SchemaXML:   t.SchemaXML,
		IconColor:   t.IconColor,
		Tags:        t.Tags,
	}
	if includeVariables {
		export.Variables = t.Variables
		export.VariableValidation = t.VariableValidation
	}
	return export
}

// Import reads an .sct document and stores its templates. Per-template
// failures are collected in the result; only malformed documents and
// database faults abort the whole import.
func (s *Store) Import(data []byte, strategy types.DuplicateStrategy, includeVariables bool) (*types.ImportResult, error) {
	switch strategy {
	case types.DuplicateSkip, types.DuplicateReplace, types.DuplicateRename:
	default:
		return nil, errors.Newf(errors.ErrInvalidInput,
			"Invalid duplicate strategy: '%s' (expected skip, replace, or rename)", strategy)
	}

	var file types.TemplateExportFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrap(err, errors.ErrImport, "Invalid .sct file format")
	}
	if !validVersion(file.Version) {
		return nil, errors.Newf(errors.ErrImport,
			"Unsupported file version: '%s'. Expected format: 1.x (e.g., 1.0)", file.Version)
	}

	var toImport []types.TemplateExport
	switch file.FileType {
	case types.ExportTemplate:
		if file.Template == nil {
			return nil, errors.New(errors.ErrImport, "Missing template data in single-template export")
		}
		toImport = []types.TemplateExport{*file.Template}
	case types.ExportTemplateBundle:
		if file.Templates == nil {
			return nil, errors.New(errors.ErrImport, "Missing templates array in bundle export")
		}
		toImport = file.Templates
	default:
		return nil, errors.Newf(errors.ErrImport,
			"Invalid .sct file format: unknown export type '%s'", file.FileType)
	}

	result := &types.ImportResult{
		Imported: []string{},
		Skipped:  []string{},
		Errors:   []string{},
	}
	for _, export := range toImport {
		if err := s.importOne(export, strategy, includeVariables, result); err != nil {
			return nil, err
		}
	}

	s.logger.Debug().
		Int("imported", len(result.Imported)).
		Int("skipped", len(result.Skipped)).
		Int("errors", len(result.Errors)).
		Msg("import finished")
	return result, nil
}

// importOne stores a single exported template, appending its outcome
// to result. A non-nil return means a database fault that should abort
// the remaining imports.
func (s *Store) importOne(export types.TemplateExport, strategy types.DuplicateStrategy, includeVariables bool, result *types.ImportResult) error {
	name, err := ValidateTemplateName(export.Name)
	if err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Invalid template '%s': %s", export.Name, errors.UserMessage(err)))
		return nil
	}

	exists, err := s.ExistsByName(name)
	if err != nil {
		return err
	}

	finalName := name
	if exists {
		switch strategy {
		case types.DuplicateSkip:
			result.Skipped = append(result.Skipped, name)
			return nil
		case types.DuplicateReplace:
			if _, err := s.DeleteByName(name); err != nil {
				result.Errors = append(result.Errors,
					fmt.Sprintf("Failed to replace '%s': %s", name, errors.UserMessage(err)))
				return nil
			}
		case types.DuplicateRename:
			unique, err := s.UniqueName(name)
			if err != nil {
				result.Errors = append(result.Errors,
					fmt.Sprintf("Failed to generate unique name for '%s': %s", name, errors.UserMessage(err)))
				return nil
			}
			finalName = unique
		}
	}

	if _, err := schema.Parse(export.SchemaXML); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Invalid schema in '%s': %s", name, errors.UserMessage(err)))
		return nil
	}

	var variables map[string]string
	var rules map[string]types.ValidationRule
	if includeVariables {
		variables = export.Variables
		rules = export.VariableValidation
	}

	_, err = s.Create(types.CreateTemplateInput{
		Name:               finalName,
		Description:        export.Description,
		SchemaXML:          export.SchemaXML,
		Variables:          variables,
		VariableValidation: rules,
		IconColor:          export.IconColor,
		IsFavorite:         false,
		Tags:               export.Tags,
	})
	if err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Failed to import '%s': %s", finalName, errors.UserMessage(err)))
		return nil
	}

	result.Imported = append(result.Imported, finalName)
	return nil
}

// ImportFromURL downloads an .sct document and imports it. The URL is
// vetted the same way schema file URLs are, and the payload is capped
// at MaxImportFileSize.
func (s *Store) ImportFromURL(ctx context.Context, client *download.Client, rawURL string, strategy types.DuplicateStrategy, includeVariables bool) (*types.ImportResult, error) {
	if err := download.ValidateURL(rawURL); err != nil {
		return nil, err
	}
	data, err := client.FetchWithLimit(ctx, rawURL, MaxImportFileSize)
	if err != nil {
		return nil, err
	}
	return s.Import(data, strategy, includeVariables)
}
