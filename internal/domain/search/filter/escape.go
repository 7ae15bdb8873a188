package filter

import "strings"

// reservedEscaper backslash-prefixes the index's reserved characters.
// "/" is included because the index treats it as a regex delimiter.
var reservedEscaper = strings.NewReplacer(
	`\`, `\\`,
	`+`, `\+`,
	`-`, `\-`,
	`&`, `\&`,
	`|`, `\|`,
	`!`, `\!`,
	`(`, `\(`,
	`)`, `\)`,
	`{`, `\{`,
	`}`, `\}`,
	`[`, `\[`,
	`]`, `\]`,
	`^`, `\^`,
	`"`, `\"`,
	`~`, `\~`,
	`*`, `\*`,
	`?`, `\?`,
	`:`, `\:`,
	`/`, `\/`,
)

// Escape prefixes every reserved character in s with a backslash.
func Escape(s string) string {
	return reservedEscaper.Replace(s)
}

// EscapeTerm escapes s for use as an unquoted single term: reserved characters and whitespace.
func EscapeTerm(s string) string {
	return strings.ReplaceAll(Escape(s), " ", `\ `)
}

// Equals renders a quoted field-equality predicate: field:"value".
func Equals(field, value string) string {
	return field + `:"` + Escape(value) + `"`
}
