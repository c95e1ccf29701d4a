package transforms

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// irregularPlurals maps singular forms to their plurals, including
// uncountables that stay unchanged and Latin/Greek loanwords.
var irregularPlurals = map[string]string{
	"child":  "children",
	"person": "people",
	"man":    "men",
	"woman":  "women",
	"tooth":  "teeth",
	"foot":   "feet",
	"mouse":  "mice",
	"goose":  "geese",
	"ox":     "oxen",

	"fish":      "fish",
	"sheep":     "sheep",
	"deer":      "deer",
	"moose":     "moose",
	"series":    "series",
	"species":   "species",
	"aircraft":  "aircraft",
	"offspring": "offspring",

	"cactus":     "cacti",
	"focus":      "foci",
	"fungus":     "fungi",
	"nucleus":    "nuclei",
	"syllabus":   "syllabi",
	"analysis":   "analyses",
	"diagnosis":  "diagnoses",
	"thesis":     "theses",
	"crisis":     "crises",
	"phenomenon": "phenomena",
	"criterion":  "criteria",
	"datum":      "data",
	"index":      "indices",
	"appendix":   "appendices",

	"life":  "lives",
	"wife":  "wives",
	"elf":   "elves",
	"shelf": "shelves",
	"self":  "selves",
	"half":  "halves",
	"calf":  "calves",
	"loaf":  "loaves",
	"wolf":  "wolves",
}

// oExceptions end in consonant+'o' but pluralize with a bare 's'
// (photo -> photos, not photoes).
var oExceptions = map[string]struct{}{
	"photo": {}, "piano": {}, "halo": {}, "studio": {}, "video": {},
	"radio": {}, "ratio": {}, "portfolio": {}, "patio": {}, "cello": {},
	"memo": {}, "solo": {}, "euro": {}, "auto": {}, "zoo": {},
	"kangaroo": {}, "bamboo": {}, "tattoo": {}, "taboo": {}, "voodoo": {},
	"shampoo": {}, "pro": {}, "disco": {}, "limo": {}, "info": {},
	"demo": {}, "logo": {}, "motto": {},
}

// fExceptions end in 'f' or 'fe' but pluralize with a bare 's'
// (roof -> roofs, not rooves).
var fExceptions = map[string]struct{}{
	"roof": {}, "chief": {}, "belief": {}, "brief": {}, "cliff": {},
	"proof": {}, "reef": {}, "grief": {}, "safe": {}, "chef": {},
	"fief": {}, "gulf": {}, "surf": {}, "turf": {}, "motif": {},
	"sheriff": {}, "tariff": {}, "plaintiff": {}, "bailiff": {},
}

// pluralize applies simple English pluralization rules. Only the ending is
// inspected, so multi-word values pluralize their last word.
func pluralize(s string) string {
	if s == "" {
		return ""
	}

	lower := strings.ToLower(s)

	if plural, ok := irregularPlurals[lower]; ok {
		first, _ := utf8.DecodeRuneInString(s)
		if unicode.IsUpper(first) {
			return capitalizeFirst(plural)
		}
		return plural
	}

	runes := []rune(s)
	lowerRunes := []rune(lower)
	secondLast := func() rune {
		if len(lowerRunes) >= 2 {
			return lowerRunes[len(lowerRunes)-2]
		}
		return 'a'
	}

	// consonant + y -> ies
	if strings.HasSuffix(lower, "y") && len(runes) > 1 {
		if !strings.ContainsRune("aeiou", secondLast()) {
			return string(runes[:len(runes)-1]) + "ies"
		}
	}

	// s, x, z, ch, sh -> es
	if strings.HasSuffix(lower, "s") || strings.HasSuffix(lower, "x") ||
		strings.HasSuffix(lower, "z") || strings.HasSuffix(lower, "ch") ||
		strings.HasSuffix(lower, "sh") {
		return s + "es"
	}

	// consonant + o -> es (potato -> potatoes), except common loanwords
	if strings.HasSuffix(lower, "o") && len(runes) > 1 {
		if !strings.ContainsRune("aeiou", secondLast()) {
			if _, ok := oExceptions[lower]; !ok {
				return s + "es"
			}
		}
	}

	// f / fe -> ves (leaf -> leaves), except words that take a bare 's'
	if strings.HasSuffix(lower, "fe") && len(runes) > 2 {
		if _, ok := fExceptions[lower]; !ok {
			return string(runes[:len(runes)-2]) + "ves"
		}
	}
	if strings.HasSuffix(lower, "f") && len(runes) > 1 {
		if _, ok := fExceptions[lower]; !ok {
			return string(runes[:len(runes)-1]) + "ves"
		}
	}

	return s + "s"
}
