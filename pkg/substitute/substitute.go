// Package substitute resolves %VAR% references in text against a variable
// map, applying transforms through the transforms package. Variable maps are
// keyed by the delimited form ("%NAME%"), matching how schema variables are
// stored throughout sprout.
package substitute

import (
	"strings"
	"time"

	"github.com/arthur-debert/sprout/pkg/transforms"
)

// Substitute replaces every resolvable variable reference in text in a
// single pass. References with unknown transforms and references to missing
// variables are left verbatim, so typos surface in the output instead of
// silently dropping content. Substituted values are never re-scanned.
func Substitute(text string, vars map[string]string) string {
	refs := transforms.FindRefs(text)
	if len(refs) == 0 {
		return text
	}

	result := text
	for _, ref := range refs {
		if ref.UnknownTransform != "" {
			continue
		}
		value, ok := vars[ref.BaseName]
		if !ok {
			continue
		}
		if ref.Transform != nil {
			value = transforms.Apply(value, *ref.Transform)
		}
		result = strings.ReplaceAll(result, ref.FullMatch, value)
	}
	return result
}

// ExtractVariables returns the distinct base variable names referenced in
// text, without % delimiters, in first-seen order.
func ExtractVariables(text string) []string {
	refs := transforms.FindRefs(text)
	if len(refs) == 0 {
		return nil
	}

	names := make([]string, 0, len(refs))
	seen := make(map[string]struct{}, len(refs))
	for _, ref := range refs {
		name := strings.Trim(ref.BaseName, "%")
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// BuiltinNames lists the variable names sprout injects automatically.
// PROJECT_NAME is only present when a project name is supplied.
var BuiltinNames = []string{"DATE", "YEAR", "MONTH", "DAY", "PROJECT_NAME"}

// BuildEnv assembles the variable environment for a run: built-ins first,
// then caller-supplied values, so callers can override any built-in.
func BuildEnv(vars map[string]string, projectName string) map[string]string {
	now := time.Now()
	env := map[string]string{
		"%DATE%":  now.Format("2006-01-02"),
		"%YEAR%":  now.Format("2006"),
		"%MONTH%": now.Format("01"),
		"%DAY%":   now.Format("02"),
	}
	if projectName != "" {
		env["%PROJECT_NAME%"] = projectName
	}
	for k, v := range vars {
		env[k] = v
	}
	return env
}
