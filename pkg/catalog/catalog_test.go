package catalog

import "testing"

// TestInputFieldTypesNarrowerThanColumnTypes checks the input set is a
// strict subset of the column set without Guid or BigInt.
func TestInputFieldTypesNarrowerThanColumnTypes(t *testing.T) {
	for _, it := range InputFieldTypes {
		if !IsColumnType(it) {
			t.Errorf("input type %q is not a column type", it)
		}
	}
	if IsInputFieldType("Guid") {
		t.Error("Guid must not be an input field type")
	}
	if IsInputFieldType("BigInt") {
		t.Error("BigInt must not be an input field type")
	}
	if !IsInputFieldType("Dynamic") {
		t.Error("Dynamic must be a legal input field type")
	}
}

// TestCanonicalColumnType resolves case variants and rejects non-types.
func TestCanonicalColumnType(t *testing.T) {
	if got := CanonicalColumnType("datetime"); got != "DateTime" {
		t.Errorf("expected DateTime, got %q", got)
	}
	if got := CanonicalColumnType("DYNAMIC"); got != "Dynamic" {
		t.Errorf("expected Dynamic, got %q", got)
	}
	if got := CanonicalColumnType("Varchar"); got != "" {
		t.Errorf("expected no canonical match, got %q", got)
	}
}

// TestSystemColumnExactMatch checks system columns are case-sensitive.
func TestSystemColumnExactMatch(t *testing.T) {
	if !IsSystemColumn("TenantId") {
		t.Error("TenantId is a system column")
	}
	if IsSystemColumn("tenantid") {
		t.Error("tenantid (lowercase) is not the canonical system spelling")
	}
	if !IsSystemColumn("_ResourceId") {
		t.Error("_ResourceId is a system column")
	}
}

// TestReservedColumnCaseInsensitive checks reserved names match any case.
func TestReservedColumnCaseInsensitive(t *testing.T) {
	for _, name := range []string{"tenantid", "TENANTID", "TenantID", "Resource", "resourceId"} {
		if !IsReservedColumnName(name) {
			t.Errorf("%q should be reserved", name)
		}
	}
	if IsReservedColumnName("TimeGenerated") {
		t.Error("TimeGenerated is not reserved")
	}
}

// TestExampleValuesForRootRequiredFields ensures every root required field
// has a concrete example, so missing_field suggestions are never empty.
func TestExampleValuesForRootRequiredFields(t *testing.T) {
	for _, f := range []string{"type", "displayName", "description", "simplifiedSchemaVersion", "tables"} {
		if v := ExampleValue(f); v == "" || v == `""` {
			t.Errorf("field %q has no concrete example value", f)
		}
	}
}

// TestCorrectionTable checks the static corrections.
func TestCorrectionTable(t *testing.T) {
	if v, ok := CorrectValue("simplifiedSchemaVersion", "2"); !ok || v != "3" {
		t.Errorf("expected 2 -> 3, got %q (%v)", v, ok)
	}
	if v, ok := CorrectValue("type", "Guid"); !ok || v != "String" {
		t.Errorf("expected Guid -> String, got %q (%v)", v, ok)
	}
	if _, ok := CorrectValue("type", "String"); ok {
		t.Error("String is already valid, no correction expected")
	}
}

// TestPreferredFieldOrderCoversContexts checks each traversal context has
// an ordering table.
func TestPreferredFieldOrderCoversContexts(t *testing.T) {
	for _, ctx := range []string{"root", "transformRoot", "table", "column", "inputField", "function", "query"} {
		if len(PreferredFieldOrder(ctx)) == 0 {
			t.Errorf("no preferred order for context %q", ctx)
		}
	}
}
