package strings

import (
	"strings"
	"unicode"
)

// SplitWords breaks an identifier-ish string into its word parts.
// Handles snake_case, kebab-case, spaces, digit runs, and CamelCase with
// acronyms (HTTPRequest -> [HTTP Request]).
func SplitWords(s string) []string {
	var words []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			words = append(words, current.String())
			current.Reset()
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		switch {
		case r == '_' || r == '-' || r == ' ' || r == '.' || r == '/':
			flush()
		case unicode.IsUpper(r):
			if i > 0 {
				prev := runes[i-1]
				if unicode.IsLower(prev) || unicode.IsDigit(prev) {
					flush()
				} else if i+1 < len(runes) && unicode.IsLower(runes[i+1]) && unicode.IsUpper(prev) {
					// Acronym boundary: HTTPRequest -> HTTP | Request
					flush()
				}
			}
			current.WriteRune(r)
		case unicode.IsDigit(r):
			if i > 0 && !unicode.IsDigit(runes[i-1]) {
				flush()
			}
			current.WriteRune(r)
		default:
			if i > 0 && unicode.IsDigit(runes[i-1]) {
				flush()
			}
			current.WriteRune(r)
		}
	}
	flush()
	return words
}

// ToPascalCase converts any identifier-ish string to PascalCase.
func ToPascalCase(s string) string {
	var result strings.Builder
	for _, w := range SplitWords(s) {
		result.WriteString(capitalize(strings.ToLower(w)))
	}
	return result.String()
}

// ToCamelCase converts any identifier-ish string to camelCase.
func ToCamelCase(s string) string {
	words := SplitWords(s)
	var result strings.Builder
	for i, w := range words {
		w = strings.ToLower(w)
		if i > 0 {
			w = capitalize(w)
		}
		result.WriteString(w)
	}
	return result.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// Legalize strips characters that cannot appear in an identifier and
// guarantees a non-empty result that does not start with a digit.
func Legalize(s string) string {
	var result strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			result.WriteRune(r)
		}
	}
	out := result.String()
	if out == "" {
		return "Empty"
	}
	if unicode.IsDigit([]rune(out)[0]) {
		return "The" + out
	}
	return out
}

// Singularize turns a plural English word into its singular form. It
// covers the regular cases well enough for inferred type names; unknown
// shapes pass through unchanged.
func Singularize(s string) string {
	lower := strings.ToLower(s)
	switch {
	case strings.HasSuffix(lower, "ies") && len(s) > 3:
		return s[:len(s)-3] + "y"
	case strings.HasSuffix(lower, "sses"), strings.HasSuffix(lower, "shes"), strings.HasSuffix(lower, "ches"), strings.HasSuffix(lower, "xes"):
		return s[:len(s)-2]
	case strings.HasSuffix(lower, "ss"), strings.HasSuffix(lower, "us"), strings.HasSuffix(lower, "is"):
		return s
	case strings.HasSuffix(lower, "s") && len(s) > 1:
		return s[:len(s)-1]
	default:
		return s
	}
}

// CommonPrefixLength returns the number of leading words shared by a and b.
func CommonPrefixLength(a, b []string) int {
	n := 0
	for n < len(a) && n < len(b) && strings.EqualFold(a[n], b[n]) {
		n++
	}
	return n
}

// CommonSuffixLength returns the number of trailing words shared by a and b.
func CommonSuffixLength(a, b []string) int {
	n := 0
	for n < len(a) && n < len(b) && strings.EqualFold(a[len(a)-1-n], b[len(b)-1-n]) {
		n++
	}
	return n
}
