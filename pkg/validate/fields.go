// Package validate implements the bespoke rule set for NGSchema onboarding
// manifests and transform manifests. Rule functions are pure: they take
// decoded JSON values, return diagnostics in a fixed order, and never
// panic on missing or wrong-typed input.
package validate

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ormasoftchile/ngslint/pkg/catalog"
	"github.com/ormasoftchile/ngslint/pkg/diagnostic"
	"github.com/ormasoftchile/ngslint/pkg/manifest"
)

// joinPath appends a field to a path prefix: ("tables[0]", "name") ->
// "tables[0].name". An empty prefix yields the bare field.
func joinPath(prefix, field string) string {
	if prefix == "" {
		return field
	}
	return prefix + "." + field
}

// indexPath appends an array index: ("tables", 0) -> "tables[0]".
func indexPath(prefix string, i int) string {
	return fmt.Sprintf("%s[%d]", prefix, i)
}

// CheckRequired emits one missing_field diagnostic per field absent from
// obj, each with an example value and a synthesized fix snippet.
func CheckRequired(obj map[string]any, fields []string, pathPrefix string) []*diagnostic.Diagnostic {
	var diags []*diagnostic.Diagnostic
	for _, f := range fields {
		if _, ok := obj[f]; ok {
			continue
		}
		example := catalog.ExampleValue(f)
		d := diagnostic.New(diagnostic.KindMissingField, joinPath(pathPrefix, f),
			fmt.Sprintf("required field %q is missing", f))
		d.ExpectedValue = example
		d.Suggestion = fmt.Sprintf("%q: %s", f, example)
		diags = append(diags, d)
	}
	return diags
}

// JSON type names accepted by CheckType.
const (
	TypeString  = "string"
	TypeInteger = "integer"
	TypeNumber  = "number"
	TypeBoolean = "boolean"
	TypeArray   = "array"
	TypeObject  = "object"
)

// CheckType verifies a present value has the expected JSON type. Returns
// nil when the value conforms. Integer means a JSON number without a
// fractional part.
func CheckType(value any, expected string, path string) *diagnostic.Diagnostic {
	actual := manifest.TypeName(value)
	ok := false
	switch expected {
	case TypeInteger:
		if n, isNum := value.(json.Number); isNum {
			_, err := n.Int64()
			ok = err == nil
		}
	case TypeNumber:
		_, ok = value.(json.Number)
	case TypeString:
		_, ok = value.(string)
	case TypeBoolean:
		_, ok = value.(bool)
	case TypeArray:
		_, ok = value.([]any)
	case TypeObject:
		_, ok = value.(map[string]any)
	}
	if ok {
		return nil
	}
	d := diagnostic.New(diagnostic.KindInvalidType, path,
		fmt.Sprintf("expected %s, found %s", expected, actual))
	d.CurrentValue = renderValue(value)
	return d
}

// CheckEnum verifies a string value belongs to the allowed set. A value
// matching an allowed entry except for letter case is reported as
// incorrect_capitalization with the canonical spelling as the expected
// value; anything else is invalid_value listing the allowed set.
func CheckEnum(value string, allowed []string, path string) *diagnostic.Diagnostic {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	for _, a := range allowed {
		if strings.EqualFold(value, a) {
			d := diagnostic.New(diagnostic.KindIncorrectCapitalization, path,
				fmt.Sprintf("%q should be spelled %q", value, a))
			d.CurrentValue = value
			d.ExpectedValue = a
			d.Suggestion = a
			return d
		}
	}
	d := diagnostic.New(diagnostic.KindInvalidValue, path,
		fmt.Sprintf("%q is not one of: %s", value, strings.Join(allowed, ", ")))
	d.CurrentValue = value
	return d
}

// renderValue produces a short literal rendering of a decoded value for
// the CurrentValue field. Composite values are abbreviated.
func renderValue(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		if t {
			return "true"
		}
		return "false"
	case []any:
		return fmt.Sprintf("[...%d items]", len(t))
	case map[string]any:
		return fmt.Sprintf("{...%d fields}", len(t))
	default:
		return fmt.Sprintf("%v", v)
	}
}
