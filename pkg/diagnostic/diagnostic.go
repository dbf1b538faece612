// Package diagnostic defines the structured finding model shared by every
// validator: a kind, a severity, a logical field path, and an optional
// suggested fix. Validators produce diagnostics; the locator, the fix
// generator and the CLI renderers consume them.
package diagnostic

import "fmt"

// Severity indicates diagnostic impact.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Kind classifies a diagnostic. The wire strings are stable: they appear in
// JSON output and are matched by severity overrides in workspace config.
type Kind string

const (
	KindJSONSyntaxError         Kind = "json_syntax_error"
	KindMissingField            Kind = "missing_field"
	KindInvalidType             Kind = "invalid_type"
	KindInvalidValue            Kind = "invalid_value"
	KindIncorrectCapitalization Kind = "incorrect_capitalization"
	KindFormattingError         Kind = "formatting_error"
	KindInvalidLength           Kind = "invalid_length"
	KindEmptyArray              Kind = "empty_array"
	KindForbiddenField          Kind = "forbidden_field"
	KindForbiddenSystemColumn   Kind = "forbidden_system_column"
	KindReservedColumn          Kind = "reserved_overridden_column"
	KindMissingRequiredColumn   Kind = "missing_required_column"
	KindInvalidColumnType       Kind = "invalid_column_type"
	KindNamingConvention        Kind = "naming_convention_warning"
	KindPerformanceWarning      Kind = "performance_warning"
	KindInvalidJSONStructure    Kind = "invalid_json_structure"
	KindCustomRule              Kind = "custom_rule"
)

// Location is a best-effort position in the original source text.
// LineNumber is 1-based. For missing fields it is an insertion point and
// LineText holds the line the new field would follow.
type Location struct {
	LineNumber int    `json:"lineNumber"`
	LineText   string `json:"lineText"`
}

// Diagnostic is a single validation finding. Immutable once created.
type Diagnostic struct {
	Kind                Kind      `json:"kind"`
	Severity            Severity  `json:"severity"`
	FieldPath           string    `json:"fieldPath"` // e.g. "tables[0].columns[2].type"
	Message             string    `json:"message"`
	CurrentValue        string    `json:"currentValue,omitempty"`
	ExpectedValue       string    `json:"expectedValue,omitempty"`
	Suggestion          string    `json:"suggestion,omitempty"`
	PlatformRequirement string    `json:"platformRequirement,omitempty"`
	Location            *Location `json:"location,omitempty"`
}

// Error implements the error interface so diagnostics can flow through
// error-shaped plumbing when a caller only wants text.
func (d *Diagnostic) Error() string {
	if d.FieldPath == "" {
		return fmt.Sprintf("[%s] %s", d.Kind, d.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", d.Kind, d.FieldPath, d.Message)
}

// IsError reports whether the diagnostic fails the file.
func (d *Diagnostic) IsError() bool {
	return d.Severity == SeverityError
}

// Definition is canonical metadata for one diagnostic kind: its default
// severity and a short explanation surfaced by `ngslint rules` and the
// MCP rules tool.
type Definition struct {
	Kind            Kind
	DefaultSeverity Severity
	Summary         string
	Doc             string
}

var definitions = map[Kind]Definition{
	KindJSONSyntaxError: {
		Kind:            KindJSONSyntaxError,
		DefaultSeverity: SeverityError,
		Summary:         "The file is not well-formed JSON.",
		Doc: "A JSON parse failure halts all structural checks for the file and is " +
			"reported as a single diagnostic carrying the parser's message. Fix the " +
			"syntax error and re-run validation to see the remaining findings.",
	},
	KindMissingField: {
		Kind:            KindMissingField,
		DefaultSeverity: SeverityError,
		Summary:         "A required field is absent.",
		Doc: "Every document level has a fixed required-field list. The suggestion " +
			"holds an example value for the missing field, and the location points at " +
			"the line the new field should follow.",
	},
	KindInvalidType: {
		Kind:            KindInvalidType,
		DefaultSeverity: SeverityError,
		Summary:         "A field holds a value of the wrong JSON type.",
		Doc: "For example a string where an integer is required, or an object where " +
			"an array is required. The expected type is named in the message.",
	},
	KindInvalidValue: {
		Kind:            KindInvalidValue,
		DefaultSeverity: SeverityError,
		Summary:         "A field holds a value outside its allowed set.",
		Doc: "Enum-constrained fields (column types, table states, data type hints, " +
			"the schema version literal) reject values outside the canonical set. The " +
			"expected value or set is carried on the diagnostic.",
	},
	KindIncorrectCapitalization: {
		Kind:            KindIncorrectCapitalization,
		DefaultSeverity: SeverityError,
		Summary:         "A value matches an allowed one except for letter case.",
		Doc: "\"datetime\" instead of \"DateTime\" is reported as a capitalization " +
			"problem with a one-step fix, not as a generic invalid value.",
	},
	KindFormattingError: {
		Kind:            KindFormattingError,
		DefaultSeverity: SeverityError,
		Summary:         "A description violates the platform style rules.",
		Doc: "Descriptions must be non-empty, start with an uppercase letter A-Z, " +
			"and end with a period. Each violated rule fires independently.",
	},
	KindInvalidLength: {
		Kind:            KindInvalidLength,
		DefaultSeverity: SeverityError,
		Summary:         "A name exceeds its maximum length.",
		Doc:             "Table names are limited to 45 characters.",
	},
	KindEmptyArray: {
		Kind:            KindEmptyArray,
		DefaultSeverity: SeverityError,
		Summary:         "A required array is empty.",
		Doc: "A manifest with zero tables, or a table with zero columns, is always " +
			"invalid.",
	},
	KindForbiddenField: {
		Kind:            KindForbiddenField,
		DefaultSeverity: SeverityError,
		Summary:         "A field belonging to the other manifest kind is present.",
		Doc: "NGSchema manifests and transform manifests are mutually exclusive " +
			"shapes. A transform manifest must not carry NGSchema-only fields such as " +
			"tables or simplifiedSchemaVersion.",
	},
	KindForbiddenSystemColumn: {
		Kind:            KindForbiddenSystemColumn,
		DefaultSeverity: SeverityError,
		Summary:         "A system-injected column is declared by the user.",
		Doc: "Type, TenantId, _ResourceId and _SubscriptionId are populated by the " +
			"ingestion pipeline and must not appear in user-authored schemas.",
	},
	KindReservedColumn: {
		Kind:            KindReservedColumn,
		DefaultSeverity: SeverityError,
		Summary:         "A column name collides with a reserved name.",
		Doc: "resource, resourceid, resourcename, resourcetype, subscriptionid and " +
			"tenantid are reserved regardless of case. This is distinct from " +
			"forbidden_system_column, which only fires on the canonical spelling.",
	},
	KindMissingRequiredColumn: {
		Kind:            KindMissingRequiredColumn,
		DefaultSeverity: SeverityError,
		Summary:         "A mandatory column is absent from a table.",
		Doc:             "Every table must declare a TimeGenerated column of type DateTime.",
	},
	KindInvalidColumnType: {
		Kind:            KindInvalidColumnType,
		DefaultSeverity: SeverityError,
		Summary:         "A mandatory column has the wrong type.",
		Doc: "TimeGenerated must be DateTime even though its declared type may be " +
			"legal for other columns.",
	},
	KindNamingConvention: {
		Kind:            KindNamingConvention,
		DefaultSeverity: SeverityWarning,
		Summary:         "A name deviates from the platform naming convention.",
		Doc:             "dataTypeId values are expected to contain an underscore.",
	},
	KindPerformanceWarning: {
		Kind:            KindPerformanceWarning,
		DefaultSeverity: SeverityWarning,
		Summary:         "A legal construct with known query-time cost.",
		Doc: "Dynamic defers structure to query time. It is allowed, but a concrete " +
			"type is preferred where the shape is known.",
	},
	KindInvalidJSONStructure: {
		Kind:            KindInvalidJSONStructure,
		DefaultSeverity: SeverityError,
		Summary:         "A sample-data file does not parse to a JSON array.",
		Doc: "Sample records must be wrapped in a top-level array even when there is " +
			"only one record. The suggestion shows the array-wrapped form.",
	},
	KindCustomRule: {
		Kind:            KindCustomRule,
		DefaultSeverity: SeverityWarning,
		Summary:         "A workspace-defined rule fired.",
		Doc: "Custom rules are expr expressions declared in .ngslint/config.yaml and " +
			"evaluated per table and per column.",
	},
}

// Lookup returns the definition for a kind. The boolean is false for
// unknown kinds (e.g. a typo in a config severity override).
func Lookup(k Kind) (Definition, bool) {
	d, ok := definitions[k]
	return d, ok
}

// Kinds returns all known kinds in stable (registration-table) order.
func Kinds() []Kind {
	return []Kind{
		KindJSONSyntaxError,
		KindMissingField,
		KindInvalidType,
		KindInvalidValue,
		KindIncorrectCapitalization,
		KindFormattingError,
		KindInvalidLength,
		KindEmptyArray,
		KindForbiddenField,
		KindForbiddenSystemColumn,
		KindReservedColumn,
		KindMissingRequiredColumn,
		KindInvalidColumnType,
		KindNamingConvention,
		KindPerformanceWarning,
		KindInvalidJSONStructure,
		KindCustomRule,
	}
}

// New creates a diagnostic with the kind's default severity.
func New(k Kind, fieldPath, message string) *Diagnostic {
	sev := SeverityError
	if def, ok := definitions[k]; ok {
		sev = def.DefaultSeverity
	}
	return &Diagnostic{Kind: k, Severity: sev, FieldPath: fieldPath, Message: message}
}

// HasErrors reports whether any diagnostic in the list is error severity.
func HasErrors(diags []*Diagnostic) bool {
	for _, d := range diags {
		if d.IsError() {
			return true
		}
	}
	return false
}

// Split partitions a diagnostic list into errors and non-errors,
// preserving order within each partition.
func Split(diags []*Diagnostic) (errors, warnings []*Diagnostic) {
	for _, d := range diags {
		if d.IsError() {
			errors = append(errors, d)
		} else {
			warnings = append(warnings, d)
		}
	}
	return errors, warnings
}
