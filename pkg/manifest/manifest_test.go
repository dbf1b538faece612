package manifest

import (
	"encoding/json"
	"strings"
	"testing"
)

// TestDecodePreservesNumbers checks numbers survive as json.Number so the
// rules can tell 3 from "3".
func TestDecodePreservesNumbers(t *testing.T) {
	doc, err := Decode([]byte(`{"simplifiedSchemaVersion": 3, "artifactVersion": 1.5}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := doc["simplifiedSchemaVersion"].(json.Number); !ok {
		t.Errorf("expected json.Number, got %T", doc["simplifiedSchemaVersion"])
	}
}

// TestDecodeRejectsNonObjectRoot checks arrays and scalars are rejected.
func TestDecodeRejectsNonObjectRoot(t *testing.T) {
	if _, err := Decode([]byte(`[1, 2, 3]`)); err == nil {
		t.Fatal("expected error for array root")
	} else if !strings.Contains(err.Error(), "array") {
		t.Errorf("expected array in message, got: %v", err)
	}
	if _, err := Decode([]byte(`"hello"`)); err == nil {
		t.Fatal("expected error for string root")
	}
}

// TestDecodeRejectsTrailingContent checks concatenated documents fail.
func TestDecodeRejectsTrailingContent(t *testing.T) {
	if _, err := Decode([]byte(`{} {}`)); err == nil {
		t.Fatal("expected error for trailing content")
	}
}

// TestDecodeRejectsTrailingGarbage checks that non-JSON bytes after a
// well-formed document fail, not just a second well-formed value.
func TestDecodeRejectsTrailingGarbage(t *testing.T) {
	if _, err := Decode([]byte(`{"type": "NGSchema"} garbage`)); err == nil {
		t.Fatal("expected error for trailing garbage")
	}
	if _, err := DecodeValue([]byte("[1, 2]\n")); err != nil {
		t.Fatalf("trailing whitespace should be fine: %v", err)
	}
}

// TestDecodeSyntaxErrorSurfacesParserMessage checks the raw parser error
// is returned for malformed input.
func TestDecodeSyntaxErrorSurfacesParserMessage(t *testing.T) {
	_, err := Decode([]byte(`{"type": "NGSchema",}`))
	if err == nil {
		t.Fatal("expected syntax error")
	}
}

// TestTypeName names decoded JSON types for diagnostics.
func TestTypeName(t *testing.T) {
	cases := map[string]any{
		"null":    nil,
		"boolean": true,
		"string":  "x",
		"number":  json.Number("3"),
		"array":   []any{},
		"object":  map[string]any{},
	}
	for want, v := range cases {
		if got := TypeName(v); got != want {
			t.Errorf("TypeName(%T) = %q, want %q", v, got, want)
		}
	}
}

// TestGenerateJSONSchema sanity-checks the exported schema document.
func TestGenerateJSONSchema(t *testing.T) {
	data, err := GenerateJSONSchema()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("exported schema is not valid JSON: %v", err)
	}
	if !strings.Contains(string(data), "NGSchema Onboarding Manifest") {
		t.Error("schema title missing")
	}
}

// TestGenerateTransformJSONSchema checks the transform schema exports.
func TestGenerateTransformJSONSchema(t *testing.T) {
	data, err := GenerateTransformJSONSchema()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(string(data), "Transform Manifest") {
		t.Error("transform schema title missing")
	}
}
