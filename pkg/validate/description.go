package validate

import (
	"fmt"
	"strings"

	"github.com/ormasoftchile/ngslint/pkg/diagnostic"
)

// ValidateDescription applies the platform's mandatory style rules to a
// free-text description: non-empty, leading uppercase A-Z, trailing
// period. Each rule fires independently, so one field can collect
// multiple diagnostics. Context names the owning element for messages
// ("table", "column", ...).
func ValidateDescription(text, context, path string) []*diagnostic.Diagnostic {
	var diags []*diagnostic.Diagnostic

	if strings.TrimSpace(text) == "" {
		d := diagnostic.New(diagnostic.KindFormattingError, path,
			fmt.Sprintf("%s description must not be empty", context))
		diags = append(diags, d)
		return diags
	}

	first := text[0]
	if first < 'A' || first > 'Z' {
		d := diagnostic.New(diagnostic.KindFormattingError, path,
			fmt.Sprintf("%s description must start with an uppercase letter", context))
		d.CurrentValue = text
		d.Suggestion = capitalize(text)
		diags = append(diags, d)
	}

	if !strings.HasSuffix(text, ".") {
		d := diagnostic.New(diagnostic.KindFormattingError, path,
			fmt.Sprintf("%s description must end with a period", context))
		d.CurrentValue = text
		d.Suggestion = text + "."
		diags = append(diags, d)
	}

	return diags
}

// capitalize upper-cases the first byte if it is a lowercase ASCII letter.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	c := s[0]
	if c >= 'a' && c <= 'z' {
		return string(c-'a'+'A') + s[1:]
	}
	return s
}
