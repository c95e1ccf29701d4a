package store

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/arthur-debert/sprout/pkg/logging"
)

const (
	// maxTagLength bounds one tag, measured in runes.
	maxTagLength = 50
	// maxTagsPerTemplate caps how many tags a template may carry.
	maxTagsPerTemplate = 20
)

// Tags are lowercase alphanumeric with interior dashes or underscores.
var tagPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9\-_]*$`)

// validateTags normalizes tags to trimmed lowercase, drops empty,
// overlong, malformed, and duplicate entries, and stops once the
// per-template cap is reached. Order of the survivors is preserved.
func validateTags(tags []string) []string {
	logger := logging.GetLogger("store")

	validated := make([]string, 0, min(len(tags), maxTagsPerTemplate))
	seen := make(map[string]struct{})

	for _, tag := range tags {
		if len(validated) >= maxTagsPerTemplate {
			logger.Warn().Int("max", maxTagsPerTemplate).Msg("too many tags, ignoring remaining")
			break
		}

		normalized := strings.ToLower(strings.TrimSpace(tag))
		if normalized == "" {
			continue
		}
		if utf8.RuneCountInString(normalized) > maxTagLength {
			logger.Warn().Str("tag", tagPreview(normalized)).Msg("tag exceeds maximum length, skipping")
			continue
		}
		if !tagPattern.MatchString(normalized) {
			logger.Warn().Str("tag", normalized).Msg("invalid tag, skipping")
			continue
		}
		if _, dup := seen[normalized]; dup {
			continue
		}
		seen[normalized] = struct{}{}
		validated = append(validated, normalized)
	}
	return validated
}

func tagPreview(tag string) string {
	runes := []rune(tag)
	if len(runes) <= 20 {
		return tag
	}
	return string(runes[:20]) + "..."
}
