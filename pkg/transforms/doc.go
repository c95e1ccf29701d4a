// Package transforms parses %VAR% references and applies named text
// transforms to variable values.
//
// Supported reference syntax:
//
//	%VAR%                      direct substitution
//	%VAR:uppercase%            transform applied to the value
//	%DATE:format(YYYY-MM-DD)%  transform with an argument
//
// Transform names are case-insensitive and most have short aliases (upper,
// lower, camel, pascal, kebab, snake, pluralize, len). Unrecognized names
// are tagged as unknown rather than failing, so substitution can leave the
// reference in place and keep typos visible in the output.
package transforms
