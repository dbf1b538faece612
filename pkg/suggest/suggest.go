// Package suggest proposes corrections for diagnostics. It only builds
// replacement text; applying it to a file is the caller's business.
package suggest

import (
	"strings"

	"github.com/ormasoftchile/ngslint/pkg/catalog"
	"github.com/ormasoftchile/ngslint/pkg/diagnostic"
)

// SuggestValue returns the replacement value for a diagnostic, or false
// when no mechanical fix exists. The mapping is table-driven per kind;
// free-form problems (forbidden columns, custom rules) have no single
// correct value and return false.
func SuggestValue(d *diagnostic.Diagnostic) (string, bool) {
	switch d.Kind {
	case diagnostic.KindIncorrectCapitalization:
		if d.ExpectedValue != "" {
			return d.ExpectedValue, true
		}
	case diagnostic.KindInvalidValue:
		if fix, ok := catalog.CorrectValue(lastField(d.FieldPath), d.CurrentValue); ok {
			return fix, true
		}
		if d.ExpectedValue != "" {
			return d.ExpectedValue, true
		}
	case diagnostic.KindInvalidColumnType:
		if d.ExpectedValue != "" {
			return d.ExpectedValue, true
		}
	case diagnostic.KindFormattingError:
		// Normalize fully so applying one description fix does not leave
		// the sibling rule firing on the patched text.
		if d.CurrentValue != "" {
			return punctuate(capitalize(d.CurrentValue)), true
		}
		if d.Suggestion != "" {
			return d.Suggestion, true
		}
	case diagnostic.KindPerformanceWarning:
		return "String", true
	case diagnostic.KindInvalidLength:
		if d.CurrentValue != "" {
			return ellipsize(d.CurrentValue, catalog.MaxTableNameLength), true
		}
	case diagnostic.KindMissingField, diagnostic.KindMissingRequiredColumn:
		if d.Suggestion != "" {
			return d.Suggestion, true
		}
	}
	return "", false
}

// SuggestLine rewrites a located source line with the suggested value,
// or returns false when the diagnostic has no value fix or the current
// value does not appear on the line. Quoted occurrences are preferred so
// a value that happens to match the field name is left alone.
func SuggestLine(line string, d *diagnostic.Diagnostic) (string, bool) {
	switch d.Kind {
	case diagnostic.KindMissingField, diagnostic.KindMissingRequiredColumn:
		// Missing fields are insertions, not rewrites.
		return "", false
	}
	fix, ok := SuggestValue(d)
	if !ok || d.CurrentValue == "" {
		return "", false
	}
	if quoted := `"` + d.CurrentValue + `"`; strings.Contains(line, quoted) {
		return strings.Replace(line, quoted, `"`+fix+`"`, 1), true
	}
	if strings.Contains(line, d.CurrentValue) {
		return strings.Replace(line, d.CurrentValue, fix, 1), true
	}
	return "", false
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if c := s[0]; c >= 'a' && c <= 'z' {
		return string(c-'a'+'A') + s[1:]
	}
	return s
}

func punctuate(s string) string {
	if strings.HasSuffix(s, ".") {
		return s
	}
	return s + "."
}

// ellipsize truncates s to max runes including a trailing ellipsis.
func ellipsize(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

func lastField(path string) string {
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		path = path[i+1:]
	}
	if i := strings.IndexByte(path, '['); i >= 0 {
		path = path[:i]
	}
	return path
}
