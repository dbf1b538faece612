package manifest

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// GenerateJSONSchema produces a JSON Schema Draft 2020-12 document from
// the Go Manifest struct using invopop/jsonschema.
func GenerateJSONSchema() ([]byte, error) {
	r := new(jsonschema.Reflector)
	r.DoNotReference = false

	s := r.Reflect(&Manifest{})
	s.ID = "https://github.com/ormasoftchile/ngslint/schemas/ngschema-v3.json"
	s.Title = "NGSchema Onboarding Manifest v3"
	s.Description = "Schema for NGSchema onboarding manifest JSON documents (Draft 2020-12)"

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	return data, nil
}

// GenerateTransformJSONSchema produces a JSON Schema Draft 2020-12
// document from the Go TransformManifest struct.
func GenerateTransformJSONSchema() ([]byte, error) {
	r := new(jsonschema.Reflector)
	r.DoNotReference = false

	s := r.Reflect(&TransformManifest{})
	s.ID = "https://github.com/ormasoftchile/ngslint/schemas/transform-manifest-v1.json"
	s.Title = "Transform Manifest v1"
	s.Description = "Schema for transform manifest JSON documents (Draft 2020-12)"

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal transform schema: %w", err)
	}
	return data, nil
}
