// Package catalog holds the static tables the validators check against:
// allowed type names, reserved and system-injected column names, state
// enums, example values for missing fields, and the correction table used
// by the fix generator. Pure data, no behavior beyond lookups.
package catalog

import "strings"

// ColumnTypes is the canonical set of column types, in display order.
var ColumnTypes = []string{
	"String", "Int", "BigInt", "SmallInt", "TinyInt",
	"Float", "Double", "Bool", "DateTime", "Guid", "Binary", "Dynamic",
}

// InputFieldTypes is the narrower set allowed for table input fields.
// Guid, BigInt and Binary are not ingestible as raw input; Dynamic is
// legal but flagged as a performance concern.
var InputFieldTypes = []string{
	"String", "Int", "SmallInt", "TinyInt",
	"Float", "Double", "Bool", "DateTime", "Dynamic",
}

// DataTypeHints are the recognized display hints for string columns.
var DataTypeHints = []string{"IP", "GUID", "URI", "ARMPath"}

// TableStates are the valid values for tableState.
var TableStates = []string{"Validation", "Production"}

// SystemColumns are injected by the ingestion pipeline and must not be
// user-declared. Matching is exact (case-sensitive).
var SystemColumns = []string{"Type", "TenantId", "_ResourceId", "_SubscriptionId"}

// ReservedColumnNames are reserved regardless of case.
var ReservedColumnNames = []string{
	"resource", "resourceid", "resourcename", "resourcetype", "subscriptionid", "tenantid",
}

// RequiredColumnName is the column every table must declare.
const RequiredColumnName = "TimeGenerated"

// RequiredColumnType is the mandatory type of RequiredColumnName.
const RequiredColumnType = "DateTime"

// SchemaVersion is the only accepted simplifiedSchemaVersion literal.
const SchemaVersion = "3"

// MaxTableNameLength is the platform limit on table names.
const MaxTableNameLength = 45

// IsColumnType reports whether t is a canonical column type (exact case).
func IsColumnType(t string) bool {
	return contains(ColumnTypes, t)
}

// IsInputFieldType reports whether t is a canonical input-field type.
func IsInputFieldType(t string) bool {
	return contains(InputFieldTypes, t)
}

// CanonicalColumnType returns the canonical spelling for a type that
// matches a column type except for letter case, or "" if none matches.
func CanonicalColumnType(t string) string {
	return canonical(ColumnTypes, t)
}

// CanonicalInputFieldType is CanonicalColumnType over the input-field set.
func CanonicalInputFieldType(t string) string {
	return canonical(InputFieldTypes, t)
}

// CanonicalTableState returns the canonical spelling for a case-variant
// table state, or "" if the value matches no state at all.
func CanonicalTableState(s string) string {
	return canonical(TableStates, s)
}

// IsSystemColumn reports whether name is a system-injected column,
// spelled exactly.
func IsSystemColumn(name string) bool {
	return contains(SystemColumns, name)
}

// IsReservedColumnName reports whether name collides case-insensitively
// with a reserved column name.
func IsReservedColumnName(name string) bool {
	lower := strings.ToLower(name)
	return contains(ReservedColumnNames, lower)
}

// ExampleValue returns a plausible example value for a required field,
// used to synthesize missing-field fix snippets. The value is the JSON
// text to place after the colon. Fields without a table entry fall back
// to an empty string literal.
func ExampleValue(field string) string {
	if v, ok := exampleValues[field]; ok {
		return v
	}
	return `""`
}

var exampleValues = map[string]string{
	"type":                     `"NGSchema"`,
	"kind":                     `"TransformManifest"`,
	"displayName":              `"My Service Logs"`,
	"description":              `"Logs emitted by my service."`,
	"simplifiedSchemaVersion":  `"3"`,
	"tables":                   `[]`,
	"name":                     `"MyServiceAuditLogs"`,
	"dataTypeId":               `"MYSERVICE_AUDIT"`,
	"artifactVersion":          `1`,
	"input":                    `[]`,
	"transformFilePath":        `"Transforms/MyServiceAudit.kql"`,
	"columns":                  `[]`,
	"tableState":               `"Validation"`,
	"bodyFilePath":             `"Kql/MyFunction.kql"`,
	"id":                       `"00000000-0000-0000-0000-000000000000"`,
	"icmTeam":                  `"MYSERVICE\\Triage"`,
	"contactDL":                `"myservice-onboarding@example.com"`,
	"transformName":            `"MyServiceAuditTransform"`,
	"physicalName":             `"AuditRecord_Migrated"`,
	"logicalName":              `"AuditRecord"`,
	"dataTypeHint":             `"GUID"`,
	"relatedTables":            `[]`,
	"relatedFunctions":         `[]`,
}

// CorrectValue maps a known-bad field value to its platform correction.
// The fix generator consults this table before falling back to generic
// strategies. Keys are field-scoped: "<field>:<value>".
func CorrectValue(field, value string) (string, bool) {
	v, ok := corrections[field+":"+value]
	return v, ok
}

var corrections = map[string]string{
	"simplifiedSchemaVersion:2":   "3",
	"simplifiedSchemaVersion:2.0": "3",
	"simplifiedSchemaVersion:3.0": "3",
	"type:Guid":                   "String",
	"type:BigInt":                 "Int",
	"type:Binary":                 "String",
}

// PreferredFieldOrder returns the canonical ordering of fields at a
// document level, used to compute insertion points for missing fields.
// Context is one of "root", "transformRoot", "table", "column",
// "inputField", "function", "query".
func PreferredFieldOrder(context string) []string {
	return preferredOrder[context]
}

var preferredOrder = map[string][]string{
	"root": {
		"type", "displayName", "description", "simplifiedSchemaVersion",
		"icmTeam", "contactDL", "tables", "functions", "queries",
		"relatedTables", "relatedFunctions",
	},
	"transformRoot": {
		"kind", "name", "description", "artifactVersion", "transformFilePath",
	},
	"table": {
		"name", "description", "dataTypeId", "artifactVersion", "tableState",
		"isHidden", "isResourceCentric", "input", "transformFilePath", "columns",
	},
	"column": {
		"name", "transformName", "physicalName", "logicalName",
		"type", "description", "dataTypeHint", "isDefaultDisplay", "isHidden",
	},
	"inputField": {"name", "type"},
	"function":   {"name", "displayName", "description", "bodyFilePath"},
	"query":      {"id", "displayName", "description", "bodyFilePath"},
}

// KQLKeywords is the minimum keyword set expected in a KQL artifact.
// Presence of any one of these passes the superficial content check.
var KQLKeywords = []string{
	"let", "datatable", "extend", "project", "where", "summarize", "join", "union",
}

// AuditDirectories are the top-level directories a complete onboarding
// package must contain.
var AuditDirectories = []string{"Kql", "SampleData", "Transforms"}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func canonical(set []string, v string) string {
	for _, s := range set {
		if strings.EqualFold(s, v) {
			return s
		}
	}
	return ""
}
