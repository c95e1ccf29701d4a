package transforms

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// splitWords breaks an identifier into lowercase words. Delimiters are '_',
// '-' and space; an uppercase rune also starts a new word, which handles
// camelCase and PascalCase input.
func splitWords(s string) []string {
	var words []string
	var current strings.Builder

	for _, r := range s {
		switch {
		case r == '_' || r == '-' || r == ' ':
			if current.Len() > 0 {
				words = append(words, strings.ToLower(current.String()))
				current.Reset()
			}
		case unicode.IsUpper(r) && current.Len() > 0:
			words = append(words, strings.ToLower(current.String()))
			current.Reset()
			current.WriteRune(r)
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		words = append(words, strings.ToLower(current.String()))
	}
	return words
}

// toCamelCase: "hello world" -> "helloWorld".
func toCamelCase(s string) string {
	words := splitWords(s)
	if len(words) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(words[0])
	for _, w := range words[1:] {
		b.WriteString(capitalizeFirst(w))
	}
	return b.String()
}

// toPascalCase: "hello world" -> "HelloWorld".
func toPascalCase(s string) string {
	var b strings.Builder
	for _, w := range splitWords(s) {
		b.WriteString(capitalizeFirst(w))
	}
	return b.String()
}

// toKebabCase: "HelloWorld" -> "hello-world".
func toKebabCase(s string) string {
	return strings.Join(splitWords(s), "-")
}

// toSnakeCase: "HelloWorld" -> "hello_world".
func toSnakeCase(s string) string {
	return strings.Join(splitWords(s), "_")
}

// capitalizeFirst uppercases the first rune and leaves the rest untouched.
func capitalizeFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
