package validate

import (
	"encoding/json"
	"fmt"

	"github.com/ormasoftchile/ngslint/pkg/diagnostic"
)

// Transform manifest required fields, in traversal order. This is the
// stricter of the two hand-maintained lists from the source system.
var transformRequiredFields = []string{
	"kind", "name", "description", "artifactVersion", "transformFilePath",
}

// Fields that belong only to NGSchema manifests and must be absent from a
// transform manifest. The two document kinds are mutually exclusive
// shapes, not a hierarchy.
var ngschemaOnlyFields = []string{
	"type", "displayName", "simplifiedSchemaVersion", "tables", "functions", "queries",
}

// ValidateTransformManifest runs the transform-manifest rule set over a
// decoded document tree.
func ValidateTransformManifest(doc map[string]any) []*diagnostic.Diagnostic {
	var diags []*diagnostic.Diagnostic

	diags = append(diags, CheckRequired(doc, transformRequiredFields, "")...)

	if v, ok := doc["kind"]; ok {
		if d := CheckType(v, TypeString, "kind"); d != nil {
			diags = append(diags, d)
		} else if s := v.(string); s != "TransformManifest" {
			d := diagnostic.New(diagnostic.KindInvalidValue, "kind",
				fmt.Sprintf("kind must be %q, found %q", "TransformManifest", s))
			d.CurrentValue = s
			d.ExpectedValue = "TransformManifest"
			diags = append(diags, d)
		}
	}

	if v, ok := doc["name"]; ok {
		if d := CheckType(v, TypeString, "name"); d != nil {
			diags = append(diags, d)
		}
	}

	if v, ok := doc["description"]; ok {
		if d := CheckType(v, TypeString, "description"); d != nil {
			diags = append(diags, d)
		} else {
			diags = append(diags, ValidateDescription(v.(string), "transform", "description")...)
		}
	}

	if v, ok := doc["artifactVersion"]; ok {
		if d := CheckType(v, TypeInteger, "artifactVersion"); d != nil {
			diags = append(diags, d)
		} else {
			n, _ := v.(json.Number).Int64()
			if n < 1 {
				d := diagnostic.New(diagnostic.KindInvalidValue, "artifactVersion",
					fmt.Sprintf("artifactVersion must be >= 1, found %d", n))
				d.CurrentValue = fmt.Sprint(n)
				d.ExpectedValue = "1"
				diags = append(diags, d)
			}
		}
	}

	if v, ok := doc["transformFilePath"]; ok {
		if d := CheckType(v, TypeString, "transformFilePath"); d != nil {
			diags = append(diags, d)
		}
	}

	// NGSchema-only fields must be absent.
	for _, f := range ngschemaOnlyFields {
		if _, ok := doc[f]; ok {
			d := diagnostic.New(diagnostic.KindForbiddenField, f,
				fmt.Sprintf("field %q belongs to NGSchema manifests and must not appear in a transform manifest", f))
			diags = append(diags, d)
		}
	}

	return diags
}
