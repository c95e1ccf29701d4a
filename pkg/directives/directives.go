// Package directives expands {{if}}/{{else}}/{{endif}} conditionals and
// {{for item in VAR}}/{{endfor}} loops embedded in file content.
//
// Processing is opt-in per file (template="true" in the schema), so
// unrelated {{...}} syntaxes such as Handlebars partials pass through
// untouched. Plain %VAR% substitution is handled separately by the
// substitute package and runs after directive expansion.
package directives

import (
	"regexp"
	"strings"

	"github.com/arthur-debert/sprout/pkg/errors"
)

// DefaultMaxDepth bounds directive nesting. Deeper input fails with a
// typed error instead of recursing unbounded.
const DefaultMaxDepth = 20

var (
	ifPattern     = regexp.MustCompile(`\{\{if\s+([A-Za-z_][A-Za-z0-9_]*)\s*\}\}`)
	elsePattern   = regexp.MustCompile(`\{\{else\}\}`)
	endifPattern  = regexp.MustCompile(`\{\{endif\}\}`)
	forPattern    = regexp.MustCompile(`\{\{for\s+([a-z_][a-z0-9_]*)\s+in\s+([A-Za-z_][A-Za-z0-9_]*)\s*\}\}`)
	endforPattern = regexp.MustCompile(`\{\{endfor\}\}`)

	// forOpenerPattern catches anything that starts like a for directive,
	// so malformed loops are reported instead of silently passing through.
	forOpenerPattern = regexp.MustCompile(`\{\{for\s[^}]*\}\}`)

	// directiveVarPattern extracts the variable named by an if condition or
	// a for loop source.
	directiveVarPattern = regexp.MustCompile(`\{\{(?:if|for\s+[a-z_][a-z0-9_]*\s+in)\s+([A-Za-z_][A-Za-z0-9_]*)\s*\}\}`)
)

// Processor expands template directives against a variable map.
type Processor struct {
	maxDepth int
}

// New returns a Processor with the default nesting bound.
func New() *Processor {
	return NewWithMaxDepth(DefaultMaxDepth)
}

// NewWithMaxDepth returns a Processor with a custom nesting bound.
func NewWithMaxDepth(maxDepth int) *Processor {
	return &Processor{maxDepth: maxDepth}
}

// Process expands all directives in content. Loops are expanded first, then
// conditionals, so a loop body may contain conditionals and vice versa. A
// document without directives comes back byte-for-byte identical.
//
// Errors are structural only: unclosed or orphaned blocks, malformed for
// syntax, and exceeded nesting depth. They carry ErrTemplateSyntax or
// ErrDepthExceeded codes.
func (p *Processor) Process(content string, vars map[string]string) (string, error) {
	afterFor, err := p.expandForLoops(content, vars, 0)
	if err != nil {
		return "", err
	}
	return p.expandIfBlocks(afterFor, vars, 0)
}

func (p *Processor) expandForLoops(content string, vars map[string]string, depth int) (string, error) {
	if depth > p.maxDepth {
		return "", errors.Newf(errors.ErrDepthExceeded, "maximum nesting depth (%d) exceeded", p.maxDepth)
	}

	result := content
	for {
		loc := forPattern.FindStringSubmatchIndex(result)
		if loc == nil {
			break
		}
		itemVar := result[loc[2]:loc[3]]
		sourceVar := result[loc[4]:loc[5]]

		bodyEnd, blockEnd, err := findMatchingEndfor(result, loc[1], itemVar, sourceVar)
		if err != nil {
			return "", err
		}
		body := result[loc[1]:bodyEnd]

		// Each iteration substitutes the loop variable, then expands any
		// nested loops one level deeper.
		var expanded strings.Builder
		itemToken := "{{" + itemVar + "}}"
		for _, item := range List(vars, sourceVar) {
			iteration := strings.ReplaceAll(body, itemToken, item)
			iteration, err = p.expandForLoops(iteration, vars, depth+1)
			if err != nil {
				return "", err
			}
			expanded.WriteString(iteration)
		}

		result = result[:loc[0]] + expanded.String() + result[blockEnd:]
	}

	if endforPattern.MatchString(result) {
		return "", errors.New(errors.ErrTemplateSyntax, "unexpected {{endfor}} without matching {{for}}")
	}
	if m := malformedFor(result); m != "" {
		return "", errors.Newf(errors.ErrTemplateSyntax, "invalid {{for}} syntax: %s", m)
	}
	return result, nil
}

// findMatchingEndfor scans from the end of an opening {{for}} tag, counting
// nested loops, and returns the start of the matching {{endfor}} (the body
// end) and the position just past it.
func findMatchingEndfor(content string, from int, itemVar, sourceVar string) (bodyEnd, blockEnd int, err error) {
	depth := 1
	pos := from

	for pos < len(content) {
		rest := content[pos:]
		forLoc := forPattern.FindStringIndex(rest)
		endLoc := endforPattern.FindStringIndex(rest)

		if endLoc == nil {
			break
		}
		if forLoc != nil && forLoc[0] < endLoc[0] {
			depth++
			pos += forLoc[1]
			continue
		}

		depth--
		if depth == 0 {
			return pos + endLoc[0], pos + endLoc[1], nil
		}
		pos += endLoc[1]
	}

	return 0, 0, errors.Newf(errors.ErrTemplateSyntax, "unclosed {{for %s in %s}} block", itemVar, sourceVar)
}

func (p *Processor) expandIfBlocks(content string, vars map[string]string, depth int) (string, error) {
	if depth > p.maxDepth {
		return "", errors.Newf(errors.ErrDepthExceeded, "maximum nesting depth (%d) exceeded", p.maxDepth)
	}

	result := content
	for {
		loc := ifPattern.FindStringSubmatchIndex(result)
		if loc == nil {
			break
		}
		conditionVar := result[loc[2]:loc[3]]

		thenContent, elseContent, blockEnd, err := findIfBlockParts(result, loc[1], conditionVar)
		if err != nil {
			return "", err
		}

		chosen := thenContent
		if !IsTruthy(vars, conditionVar) {
			chosen = elseContent
		}
		// The discarded branch is dropped without expansion; the chosen one
		// is processed one level deeper.
		processed, err := p.expandIfBlocks(chosen, vars, depth+1)
		if err != nil {
			return "", err
		}

		result = result[:loc[0]] + processed + result[blockEnd:]
	}

	if endifPattern.MatchString(result) {
		return "", errors.New(errors.ErrTemplateSyntax, "unexpected {{endif}} without matching {{if}}")
	}
	if elsePattern.MatchString(result) {
		return "", errors.New(errors.ErrTemplateSyntax, "unexpected {{else}} without matching {{if}}")
	}
	return result, nil
}

// findIfBlockParts scans from the end of an opening {{if}} tag and splits
// the block into its then and else parts. Only the first {{else}} at depth
// exactly 1 is honored as the branch boundary; later ones are left in the
// else content and surface as orphan errors after expansion.
func findIfBlockParts(content string, from int, conditionVar string) (thenContent, elseContent string, blockEnd int, err error) {
	depth := 1
	pos := from
	elseStart := -1

	for pos < len(content) {
		rest := content[pos:]

		var next []int
		var kind string
		consider := func(loc []int, k string) {
			if loc != nil && (next == nil || loc[0] < next[0]) {
				next = loc
				kind = k
			}
		}
		consider(ifPattern.FindStringIndex(rest), "if")
		consider(elsePattern.FindStringIndex(rest), "else")
		consider(endifPattern.FindStringIndex(rest), "endif")

		if next == nil {
			break
		}

		switch kind {
		case "if":
			depth++
		case "else":
			if depth == 1 && elseStart < 0 {
				elseStart = pos + next[0]
			}
		case "endif":
			depth--
			if depth == 0 {
				endifStart := pos + next[0]
				blockEnd = pos + next[1]
				if elseStart >= 0 {
					thenContent = content[from:elseStart]
					elseContent = content[elseStart+len("{{else}}") : endifStart]
				} else {
					thenContent = content[from:endifStart]
				}
				return thenContent, elseContent, blockEnd, nil
			}
		}
		pos += next[1]
	}

	return "", "", 0, errors.Newf(errors.ErrTemplateSyntax, "unclosed {{if %s}} block", conditionVar)
}

// malformedFor returns the first substring that opens like a for directive
// but does not parse as one, or "" if there is none.
func malformedFor(content string) string {
	for _, m := range forOpenerPattern.FindAllString(content, -1) {
		if !forPattern.MatchString(m) {
			return m
		}
	}
	return ""
}

// IsTruthy reports whether name resolves to a truthy value. A variable is
// truthy when present and its trimmed, lowercased value is not "", "false"
// or "0". The same rule governs <if> nodes in the schema tree.
func IsTruthy(vars map[string]string, name string) bool {
	value, ok := vars["%"+name+"%"]
	if !ok {
		return false
	}
	trimmed := strings.ToLower(strings.TrimSpace(value))
	return trimmed != "" && trimmed != "false" && trimmed != "0"
}

// List resolves name as a comma-separated list: elements are trimmed and
// empty ones dropped. A missing variable yields an empty list, so a loop
// over it expands to nothing.
func List(vars map[string]string, name string) []string {
	value, ok := vars["%"+name+"%"]
	if !ok {
		return nil
	}

	parts := strings.Split(value, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}

// ExtractVariables returns the variables named by if conditions and for
// loop sources, without % delimiters, in first-seen order. Names containing
// lowercase letters are skipped: user variables are uppercase by
// convention, and lowercase names are loop-local.
func ExtractVariables(content string) []string {
	matches := directiveVarPattern.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return nil
	}

	names := make([]string, 0, len(matches))
	seen := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		name := m[1]
		if !isUpperName(name) {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

func isUpperName(name string) bool {
	for _, r := range name {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') && r != '_' {
			return false
		}
	}
	return true
}
