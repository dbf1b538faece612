// Package manifest defines the Go struct types for NGSchema onboarding
// manifests and transform manifests, and provides the raw JSON decode the
// validators run against.
//
// Validation deliberately operates on the raw decoded tree
// (map[string]any with json.Number), not on the typed structs: the rules
// must observe wrong-typed and missing fields that a typed decode would
// coerce or zero out. The typed structs exist for JSON Schema export and
// for programmatic construction of documents.
package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Kind discriminates the two mutually exclusive document shapes.
type Kind string

const (
	KindNGSchema          Kind = "NGSchema"
	KindTransformManifest Kind = "TransformManifest"
)

// Manifest is the root NGSchema document describing the tables, functions
// and queries of a log-ingestion onboarding package.
type Manifest struct {
	Type                    string        `json:"type"                    jsonschema:"required,enum=NGSchema"`
	DisplayName             string        `json:"displayName"             jsonschema:"required"`
	Description             string        `json:"description"             jsonschema:"required"`
	SimplifiedSchemaVersion string        `json:"simplifiedSchemaVersion" jsonschema:"required,enum=3"`
	ICMTeam                 string        `json:"icmTeam,omitempty"`
	ContactDL               string        `json:"contactDL,omitempty"`
	Tables                  []Table       `json:"tables"                  jsonschema:"required,minItems=1"`
	Functions               []FunctionDef `json:"functions,omitempty"`
	Queries                 []QueryDef    `json:"queries,omitempty"`
	RelatedTables           []string      `json:"relatedTables,omitempty"`
	RelatedFunctions        []string      `json:"relatedFunctions,omitempty"`
}

// Table describes one destination table and its ingestion inputs.
type Table struct {
	Name              string       `json:"name"              jsonschema:"required,maxLength=45"`
	Description       string       `json:"description"       jsonschema:"required"`
	DataTypeID        string       `json:"dataTypeId"        jsonschema:"required"`
	ArtifactVersion   int          `json:"artifactVersion"   jsonschema:"required,minimum=1"`
	TableState        string       `json:"tableState,omitempty" jsonschema:"enum=Validation,enum=Production"`
	IsHidden          bool         `json:"isHidden,omitempty"`
	IsResourceCentric bool         `json:"isResourceCentric,omitempty"`
	Input             []InputField `json:"input"             jsonschema:"required"`
	TransformFilePath string       `json:"transformFilePath" jsonschema:"required"`
	Columns           []Column     `json:"columns"           jsonschema:"required,minItems=1"`
}

// Column is either a plain named column or, for in-place type migrations,
// the transformName/physicalName/logicalName triple.
type Column struct {
	Name             string `json:"name,omitempty"`
	TransformName    string `json:"transformName,omitempty"`
	PhysicalName     string `json:"physicalName,omitempty"`
	LogicalName      string `json:"logicalName,omitempty"`
	Type             string `json:"type"        jsonschema:"required,enum=String,enum=Int,enum=BigInt,enum=SmallInt,enum=TinyInt,enum=Float,enum=Double,enum=Bool,enum=DateTime,enum=Guid,enum=Binary,enum=Dynamic"`
	Description      string `json:"description" jsonschema:"required"`
	DataTypeHint     string `json:"dataTypeHint,omitempty" jsonschema:"enum=IP,enum=GUID,enum=URI,enum=ARMPath"`
	IsDefaultDisplay bool   `json:"isDefaultDisplay,omitempty"`
	IsHidden         bool   `json:"isHidden,omitempty"`
}

// InputField is one field of a table's raw ingestion input.
type InputField struct {
	Name string `json:"name" jsonschema:"required"`
	Type string `json:"type" jsonschema:"required,enum=String,enum=Int,enum=SmallInt,enum=TinyInt,enum=Float,enum=Double,enum=Bool,enum=DateTime,enum=Dynamic"`
}

// FunctionDef is a saved function shipped with the package.
type FunctionDef struct {
	Name         string `json:"name"         jsonschema:"required"`
	DisplayName  string `json:"displayName,omitempty"`
	Description  string `json:"description"  jsonschema:"required"`
	BodyFilePath string `json:"bodyFilePath" jsonschema:"required"`
}

// QueryDef is a sample query shipped with the package. ID must be a GUID.
type QueryDef struct {
	ID           string `json:"id"           jsonschema:"required,format=uuid"`
	DisplayName  string `json:"displayName"  jsonschema:"required"`
	Description  string `json:"description"  jsonschema:"required"`
	BodyFilePath string `json:"bodyFilePath" jsonschema:"required"`
}

// TransformManifest is the secondary document describing a single data
// transform. Mutually exclusive with Manifest: NGSchema-only fields must
// be absent.
type TransformManifest struct {
	Kind              string `json:"kind"              jsonschema:"required,enum=TransformManifest"`
	Name              string `json:"name"              jsonschema:"required"`
	Description       string `json:"description"       jsonschema:"required"`
	ArtifactVersion   int    `json:"artifactVersion"   jsonschema:"required,minimum=1"`
	TransformFilePath string `json:"transformFilePath" jsonschema:"required"`
}

// Decode parses raw manifest bytes into a loosely typed tree. Numbers are
// kept as json.Number so the rules can distinguish 3 from "3" and detect
// non-integer artifact versions. The top level must be a JSON object.
func Decode(data []byte) (map[string]any, error) {
	v, err := DecodeValue(data)
	if err != nil {
		return nil, err
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("document root is %s, expected an object", jsonTypeName(v))
	}
	return obj, nil
}

// DecodeValue parses raw bytes into any JSON value with json.Number
// preserved. Trailing non-whitespace content is rejected.
func DecodeValue(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	// Only EOF may follow the first document. A second value and a
	// syntax error are both trailing content.
	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unexpected content after top-level JSON value")
	}
	return v, nil
}

// jsonTypeName names a decoded value's JSON type for messages.
func jsonTypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case json.Number, float64:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// TypeName exposes jsonTypeName for the validators' messages.
func TypeName(v any) string { return jsonTypeName(v) }
