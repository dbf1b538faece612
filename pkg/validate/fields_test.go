package validate

import (
	"strings"
	"testing"

	"github.com/ormasoftchile/ngslint/pkg/catalog"
	"github.com/ormasoftchile/ngslint/pkg/diagnostic"
	"github.com/ormasoftchile/ngslint/pkg/manifest"
)

func decode(t *testing.T, src string) map[string]any {
	t.Helper()
	doc, err := manifest.Decode([]byte(src))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return doc
}

// TestCheckRequiredOnePerMissingField checks exactly one missing_field
// diagnostic per absent field, each with a non-empty example.
func TestCheckRequiredOnePerMissingField(t *testing.T) {
	obj := decode(t, `{"description": "Present."}`)
	diags := CheckRequired(obj, []string{"type", "displayName", "description", "tables"}, "")
	if len(diags) != 3 {
		t.Fatalf("expected 3 diagnostics, got %d: %v", len(diags), diags)
	}
	for _, d := range diags {
		if d.Kind != diagnostic.KindMissingField {
			t.Errorf("expected missing_field, got %s", d.Kind)
		}
		if d.ExpectedValue == "" {
			t.Errorf("missing example value for %s", d.FieldPath)
		}
		if d.Suggestion == "" {
			t.Errorf("missing fix snippet for %s", d.FieldPath)
		}
	}
}

// TestCheckRequiredPathPrefix checks field paths carry the prefix.
func TestCheckRequiredPathPrefix(t *testing.T) {
	obj := decode(t, `{}`)
	diags := CheckRequired(obj, []string{"name"}, "tables[2]")
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(diags))
	}
	if diags[0].FieldPath != "tables[2].name" {
		t.Errorf("unexpected path %q", diags[0].FieldPath)
	}
}

// TestCheckTypeInteger accepts whole numbers and rejects fractions.
func TestCheckTypeInteger(t *testing.T) {
	obj := decode(t, `{"a": 2, "b": 1.5, "c": "2"}`)
	if d := CheckType(obj["a"], TypeInteger, "a"); d != nil {
		t.Errorf("2 should be an integer: %v", d)
	}
	if d := CheckType(obj["b"], TypeInteger, "b"); d == nil {
		t.Error("1.5 should not be an integer")
	}
	d := CheckType(obj["c"], TypeInteger, "c")
	if d == nil {
		t.Fatal("\"2\" should not be an integer")
	}
	if d.Kind != diagnostic.KindInvalidType {
		t.Errorf("expected invalid_type, got %s", d.Kind)
	}
	if !strings.Contains(d.Message, "string") {
		t.Errorf("message should name the found type: %s", d.Message)
	}
}

// TestCheckTypeContainers covers array/object/boolean checks.
func TestCheckTypeContainers(t *testing.T) {
	obj := decode(t, `{"arr": [], "obj": {}, "flag": true}`)
	if d := CheckType(obj["arr"], TypeArray, "arr"); d != nil {
		t.Errorf("unexpected: %v", d)
	}
	if d := CheckType(obj["obj"], TypeObject, "obj"); d != nil {
		t.Errorf("unexpected: %v", d)
	}
	if d := CheckType(obj["flag"], TypeBoolean, "flag"); d != nil {
		t.Errorf("unexpected: %v", d)
	}
	if d := CheckType(obj["arr"], TypeObject, "arr"); d == nil {
		t.Error("array is not an object")
	}
}

// TestCheckEnumCapitalizationSpecialCase distinguishes case variants from
// truly invalid values.
func TestCheckEnumCapitalizationSpecialCase(t *testing.T) {
	d := CheckEnum("datetime", catalog.ColumnTypes, "tables[0].columns[0].type")
	if d == nil {
		t.Fatal("expected a diagnostic for lowercase datetime")
	}
	if d.Kind != diagnostic.KindIncorrectCapitalization {
		t.Errorf("expected incorrect_capitalization, got %s", d.Kind)
	}
	if d.ExpectedValue != "DateTime" {
		t.Errorf("expected DateTime, got %q", d.ExpectedValue)
	}

	d = CheckEnum("Varchar", catalog.ColumnTypes, "tables[0].columns[0].type")
	if d == nil {
		t.Fatal("expected a diagnostic for Varchar")
	}
	if d.Kind != diagnostic.KindInvalidValue {
		t.Errorf("expected invalid_value, got %s", d.Kind)
	}

	if d := CheckEnum("String", catalog.ColumnTypes, "p"); d != nil {
		t.Errorf("String is valid, got %v", d)
	}
}
