// Package validate runs pre-creation checks over a schema document:
// XML syntax, undefined variable references, duplicate sibling names,
// URL format, and template inheritance. Syntax problems are errors and
// block creation; everything else is advisory.
package validate

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/arthur-debert/sprout/pkg/errors"
	"github.com/arthur-debert/sprout/pkg/inherit"
	"github.com/arthur-debert/sprout/pkg/logging"
	"github.com/arthur-debert/sprout/pkg/schema"
	"github.com/arthur-debert/sprout/pkg/substitute"
	"github.com/arthur-debert/sprout/pkg/transforms"
	"github.com/arthur-debert/sprout/pkg/types"
)

// Severity labels an issue as blocking or advisory.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// IssueType classifies what a validation issue is about.
type IssueType string

const (
	IssueXMLSyntax           IssueType = "xml_syntax"
	IssueUndefinedVariable   IssueType = "undefined_variable"
	IssueDuplicateName       IssueType = "duplicate_name"
	IssueCircularInheritance IssueType = "circular_inheritance"
	IssueInheritanceError    IssueType = "inheritance_error"
	IssueInvalidURL          IssueType = "invalid_url"
)

// Issue is a single finding, with optional node path and offending value.
type Issue struct {
	Severity Severity  `json:"severity"`
	Type     IssueType `json:"issueType"`
	Message  string    `json:"message"`
	NodePath string    `json:"nodePath,omitempty"`
	Value    string    `json:"value,omitempty"`
}

// Result collects issues from one or more checks. Valid stays true as
// long as only warnings were found.
type Result struct {
	Valid    bool    `json:"isValid"`
	Errors   []Issue `json:"errors"`
	Warnings []Issue `json:"warnings"`
}

// NewResult returns an empty, valid result.
func NewResult() *Result {
	return &Result{Valid: true}
}

// AddError records a blocking issue and marks the result invalid.
func (r *Result) AddError(issue Issue) {
	issue.Severity = SeverityError
	r.Valid = false
	r.Errors = append(r.Errors, issue)
}

// AddWarning records an advisory issue.
func (r *Result) AddWarning(issue Issue) {
	issue.Severity = SeverityWarning
	r.Warnings = append(r.Warnings, issue)
}

// Merge folds another result into this one.
func (r *Result) Merge(other *Result) {
	if !other.Valid {
		r.Valid = false
	}
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
}

// Validate runs every check over a schema document. The variable map is
// keyed by %NAME%. A nil loader skips the inheritance check.
func Validate(content string, vars map[string]string, loader inherit.LoaderFunc) *Result {
	logger := logging.GetLogger("validate")
	result := NewResult()

	frag, err := schema.ParseFragment(content)
	if err != nil {
		result.AddError(Issue{Type: IssueXMLSyntax, Message: fmt.Sprintf("XML syntax error: %v", err)})
		return result
	}
	// A nodeless document is only meaningful as a child template that
	// inherits its tree from a parent.
	if len(frag.Nodes) == 0 && frag.Extends == "" {
		result.AddError(Issue{Type: IssueXMLSyntax, Message: "XML syntax error: schema contains no folder or file nodes"})
		return result
	}
	for _, w := range frag.Warnings {
		result.AddWarning(Issue{Type: IssueXMLSyntax, Message: w})
	}

	result.Merge(checkUndefinedVariables(content, vars, repeatLoopNames(frag.Nodes)))

	for _, node := range frag.Nodes {
		result.Merge(CheckDuplicateNames(node))
		result.Merge(CheckURLs(node))
	}

	if loader != nil {
		result.Merge(CheckInheritance(content, loader))
	}

	logger.Debug().
		Bool("valid", result.Valid).
		Int("errors", len(result.Errors)).
		Int("warnings", len(result.Warnings)).
		Msg("schema validated")
	return result
}

// CheckSyntax parses the schema and reports syntax problems. On success
// the parsed tree is returned alongside the (possibly warning-bearing)
// result.
func CheckSyntax(content string) (*Result, *types.SchemaTree) {
	result := NewResult()

	parsed, err := schema.Parse(content)
	if err != nil {
		result.AddError(Issue{Type: IssueXMLSyntax, Message: fmt.Sprintf("XML syntax error: %v", err)})
		return result, nil
	}
	for _, w := range parsed.Warnings {
		result.AddWarning(Issue{Type: IssueXMLSyntax, Message: w})
	}
	return result, parsed.Tree
}

// CheckUndefinedVariables warns about %VAR% references with no caller
// value. Built-ins such as %DATE% are always considered defined.
func CheckUndefinedVariables(content string, vars map[string]string) *Result {
	return checkUndefinedVariables(content, vars, nil)
}

func checkUndefinedVariables(content string, vars map[string]string, skip map[string]bool) *Result {
	result := NewResult()

	reported := make(map[string]bool)
	for _, ref := range transforms.FindRefs(content) {
		if _, ok := vars[ref.BaseName]; ok {
			continue
		}
		if builtinRefs[ref.BaseName] || skip[ref.BaseName] || reported[ref.BaseName] {
			continue
		}
		reported[ref.BaseName] = true
		result.AddWarning(Issue{
			Type:    IssueUndefinedVariable,
			Message: fmt.Sprintf("Variable %s is referenced but not defined", ref.BaseName),
			Value:   ref.BaseName,
		})
	}
	return result
}

var builtinRefs = func() map[string]bool {
	refs := make(map[string]bool, len(substitute.BuiltinNames))
	for _, name := range substitute.BuiltinNames {
		refs["%"+name+"%"] = true
	}
	return refs
}()

// repeatLoopNames collects the iteration variables bound by repeat
// nodes, in %name% and %name_1% form, so references to them are not
// reported as undefined.
func repeatLoopNames(nodes []*types.SchemaNode) map[string]bool {
	skip := make(map[string]bool)

	var walk func(*types.SchemaNode)
	walk = func(n *types.SchemaNode) {
		if n.Kind == types.NodeRepeat {
			name := n.RepeatAs
			if name == "" {
				name = "i"
			}
			skip["%"+name+"%"] = true
			skip["%"+name+"_1%"] = true
		}
		for _, child := range n.Children {
			walk(child)
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	return skip
}

// CheckDuplicateNames warns when two siblings share a name. Children of
// if, else and repeat nodes are checked within their own branch only,
// since at most one branch materializes.
func CheckDuplicateNames(root *types.SchemaNode) *Result {
	result := NewResult()
	checkDuplicates(root, "", result)
	return result
}

func checkDuplicates(node *types.SchemaNode, parentPath string, result *Result) {
	path := joinPath(parentPath, node)

	seen := make(map[string]int)
	for _, child := range node.Children {
		if isControlNode(child) {
			checkDuplicates(child, path, result)
			continue
		}

		seen[child.Name]++
		// Warn once, on the second occurrence.
		if seen[child.Name] == 2 {
			result.AddWarning(Issue{
				Type:     IssueDuplicateName,
				Message:  fmt.Sprintf("Duplicate name '%s' found in %s", child.Name, path),
				NodePath: path,
				Value:    child.Name,
			})
		}
		checkDuplicates(child, path, result)
	}
}

// CheckURLs warns about download URLs that do not parse as absolute
// URLs. Format check only, nothing is fetched. URLs containing variable
// references cannot be judged statically and are skipped.
func CheckURLs(root *types.SchemaNode) *Result {
	result := NewResult()
	checkURLs(root, "", result)
	return result
}

func checkURLs(node *types.SchemaNode, parentPath string, result *Result) {
	path := joinPath(parentPath, node)

	if node.URL != "" && !strings.Contains(node.URL, "%") {
		if reason := urlFormatIssue(node.URL); reason != "" {
			result.AddWarning(Issue{
				Type:     IssueInvalidURL,
				Message:  "Invalid URL format: " + reason,
				NodePath: path,
				Value:    node.URL,
			})
		}
	}

	for _, child := range node.Children {
		checkURLs(child, path, result)
	}
}

func urlFormatIssue(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return err.Error()
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "relative URL without a base"
	}
	return ""
}

// CheckInheritance resolves the schema's extends chain and converts any
// failure into a blocking issue. Cycles get their own issue type so
// callers can surface them distinctly.
func CheckInheritance(content string, loader inherit.LoaderFunc) *Result {
	result := NewResult()

	if _, err := inherit.Resolve(content, loader); err != nil {
		issueType := IssueInheritanceError
		if errors.IsErrorCode(err, errors.ErrInheritanceCycle) {
			issueType = IssueCircularInheritance
		}
		result.AddError(Issue{Type: issueType, Message: err.Error()})
	}
	return result
}

func isControlNode(node *types.SchemaNode) bool {
	switch node.Kind {
	case types.NodeIf, types.NodeElse, types.NodeRepeat:
		return true
	}
	return false
}

// joinPath extends a node path with this node's label. Control nodes
// have no name, so their kind stands in.
func joinPath(parentPath string, node *types.SchemaNode) string {
	label := node.Name
	if label == "" {
		label = string(node.Kind)
	}
	if parentPath == "" {
		return label
	}
	return parentPath + "/" + label
}
