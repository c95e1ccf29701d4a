package transforms

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// varRefPattern matches %NAME%, %NAME:transform% and %NAME:transform(args)%.
// Group 1 is the variable name, group 2 the transform name, group 3 the
// argument string. Arguments may be empty but never contain ')'.
var varRefPattern = regexp.MustCompile(`%([A-Za-z_][A-Za-z0-9_]*)(?::([a-zA-Z_-]+)(?:\(([^)]*)\))?)?%`)

// Kind enumerates the supported text transforms.
type Kind int

const (
	Uppercase Kind = iota
	Lowercase
	CamelCase
	PascalCase
	KebabCase
	SnakeCase
	Plural
	Length
	DateFormat
)

// Transform is a resolved transform. Format is only meaningful for
// DateFormat, where it holds the format argument (default "YYYY-MM-DD").
type Transform struct {
	Kind   Kind
	Format string
}

// VariableRef is one parsed %...% occurrence. Refs are ephemeral: they are
// recomputed on every substitution call and never persisted.
type VariableRef struct {
	// FullMatch is the exact matched substring including delimiters and any
	// transform syntax, e.g. "%NAME:uppercase%".
	FullMatch string
	// BaseName is the plain variable reference, e.g. "%NAME%". Variable maps
	// are keyed by this form.
	BaseName string
	// Transform is set when the reference names a recognized transform.
	Transform *Transform
	// UnknownTransform holds the lowercased transform name when it was not
	// recognized. Such references are left untouched by substitution.
	UnknownTransform string
}

// parseTransform resolves a transform name (case-insensitive) and optional
// argument string. hasArgs distinguishes "format()" from "format": only the
// parenless form falls back to the default date format.
func parseTransform(name, args string, hasArgs bool) (*Transform, string) {
	switch strings.ToLower(name) {
	case "uppercase", "upper":
		return &Transform{Kind: Uppercase}, ""
	case "lowercase", "lower":
		return &Transform{Kind: Lowercase}, ""
	case "camelcase", "camel":
		return &Transform{Kind: CamelCase}, ""
	case "pascalcase", "pascal":
		return &Transform{Kind: PascalCase}, ""
	case "kebabcase", "kebab-case", "kebab":
		return &Transform{Kind: KebabCase}, ""
	case "snakecase", "snake_case", "snake":
		return &Transform{Kind: SnakeCase}, ""
	case "plural", "pluralize":
		return &Transform{Kind: Plural}, ""
	case "length", "len":
		return &Transform{Kind: Length}, ""
	case "format", "date-format", "dateformat":
		format := args
		if !hasArgs {
			format = "YYYY-MM-DD"
		}
		return &Transform{Kind: DateFormat, Format: format}, ""
	default:
		return nil, strings.ToLower(name)
	}
}

// FindRefs returns every distinct variable reference in text, in first-seen
// order. Occurrences with identical full matches are reported once.
func FindRefs(text string) []VariableRef {
	matches := varRefPattern.FindAllStringSubmatchIndex(text, -1)
	if matches == nil {
		return nil
	}

	refs := make([]VariableRef, 0, len(matches))
	seen := make(map[string]struct{}, len(matches))

	for _, m := range matches {
		fullMatch := text[m[0]:m[1]]
		if _, ok := seen[fullMatch]; ok {
			continue
		}
		seen[fullMatch] = struct{}{}

		ref := VariableRef{
			FullMatch: fullMatch,
			BaseName:  "%" + text[m[2]:m[3]] + "%",
		}
		if m[4] >= 0 {
			args := ""
			hasArgs := m[6] >= 0
			if hasArgs {
				args = text[m[6]:m[7]]
			}
			ref.Transform, ref.UnknownTransform = parseTransform(text[m[4]:m[5]], args, hasArgs)
		}
		refs = append(refs, ref)
	}
	return refs
}

// Apply runs a transform over a value. Application is pure except for
// DateFormat, which reads the clock when the value is "today" or "now".
func Apply(value string, t Transform) string {
	switch t.Kind {
	case Uppercase:
		return strings.ToUpper(value)
	case Lowercase:
		return strings.ToLower(value)
	case CamelCase:
		return toCamelCase(value)
	case PascalCase:
		return toPascalCase(value)
	case KebabCase:
		return toKebabCase(value)
	case SnakeCase:
		return toSnakeCase(value)
	case Plural:
		return pluralize(value)
	case Length:
		return strconv.Itoa(utf8.RuneCountInString(value))
	case DateFormat:
		return formatDate(value, t.Format)
	default:
		return value
	}
}
