package download

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/sprout/pkg/errors"
	"github.com/arthur-debert/sprout/pkg/substitute"
)

// Family groups file extensions by how downloaded content is processed
// before being written. Text gets plain variable substitution, Jupyter
// gets JSON-aware substitution, and the binary families pass through
// byte for byte.
type Family string

const (
	FamilyText    Family = "text"
	FamilySVG     Family = "svg"
	FamilyJupyter Family = "jupyter"
	FamilyOffice  Family = "office"
	FamilyEPUB    Family = "epub"
	FamilyPDF     Family = "pdf"
	FamilyImage   Family = "image"
	FamilyAudio   Family = "audio"
	FamilySQLite  Family = "sqlite"
	FamilyArchive Family = "archive"
)

var familyByExtension = map[string]Family{
	"svg":   FamilySVG,
	"ipynb": FamilyJupyter,

	"docx": FamilyOffice, "xlsx": FamilyOffice, "pptx": FamilyOffice,
	"epub": FamilyEPUB,
	"pdf":  FamilyPDF,
	"jpg":  FamilyImage, "jpeg": FamilyImage, "png": FamilyImage,
	"webp": FamilyImage, "tif": FamilyImage, "tiff": FamilyImage,
	"mp3": FamilyAudio, "m4a": FamilyAudio, "flac": FamilyAudio,
	"ogg": FamilyAudio, "wav": FamilyAudio,
	"db": FamilySQLite, "sqlite": FamilySQLite, "sqlite3": FamilySQLite,
	"zip": FamilyArchive,
}

// Classify maps a file name to its processing family. Anything without
// a recognized extension is text.
func Classify(name string) Family {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if family, ok := familyByExtension[ext]; ok {
		return family
	}
	return FamilyText
}

// Binary reports whether the family's bytes pass through untouched.
func (f Family) Binary() bool {
	switch f {
	case FamilyOffice, FamilyEPUB, FamilyPDF, FamilyImage, FamilyAudio, FamilySQLite, FamilyArchive:
		return true
	}
	return false
}

// Label is the short name used in log details for processed downloads.
func (f Family) Label() string {
	switch f {
	case FamilyOffice:
		return "Office"
	case FamilyEPUB:
		return "EPUB"
	case FamilyPDF:
		return "PDF"
	case FamilyImage:
		return "Image"
	case FamilyAudio:
		return "Audio"
	case FamilySQLite:
		return "SQLite"
	case FamilyArchive:
		return "Archive"
	case FamilyJupyter:
		return "Jupyter notebook"
	case FamilySVG:
		return "SVG"
	}
	return "text"
}

// Process applies the family's substitution policy to downloaded data.
// Text and SVG get variable substitution, Jupyter notebooks get
// cell-aware substitution, binary families come back unchanged. The
// error is non-nil only for Jupyter content that is not valid JSON;
// callers typically fall back to plain text substitution then.
func Process(name string, data []byte, vars map[string]string) ([]byte, error) {
	family := Classify(name)
	switch {
	case family == FamilyJupyter:
		processed, err := ProcessJupyter(string(data), vars)
		if err != nil {
			return nil, err
		}
		return []byte(processed), nil
	case family.Binary():
		return data, nil
	default:
		return []byte(substitute.Substitute(string(data), vars)), nil
	}
}

// ProcessJupyter substitutes variables inside a notebook's cell sources
// and nothing else, so notebook structure, outputs and metadata keep
// their exact values. The result is re-serialized with two-space
// indentation.
func ProcessJupyter(content string, vars map[string]string) (string, error) {
	var notebook map[string]interface{}
	if err := json.Unmarshal([]byte(content), &notebook); err != nil {
		return "", errors.Wrap(err, errors.ErrInvalidInput, "notebook is not valid JSON")
	}

	cells, ok := notebook["cells"].([]interface{})
	if ok {
		for _, cell := range cells {
			cellMap, ok := cell.(map[string]interface{})
			if !ok {
				continue
			}
			// source is a list of lines in modern notebooks, but a single
			// string is also legal.
			switch source := cellMap["source"].(type) {
			case string:
				cellMap["source"] = substitute.Substitute(source, vars)
			case []interface{}:
				for i, line := range source {
					if s, ok := line.(string); ok {
						source[i] = substitute.Substitute(s, vars)
					}
				}
			}
		}
	}

	out, err := json.MarshalIndent(notebook, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "failed to serialize notebook")
	}
	return string(out), nil
}
