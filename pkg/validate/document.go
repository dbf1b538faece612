package validate

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/ormasoftchile/ngslint/pkg/catalog"
	"github.com/ormasoftchile/ngslint/pkg/diagnostic"
)

// Root required fields for an NGSchema manifest, in traversal order.
var ngschemaRequiredFields = []string{
	"type", "displayName", "description", "simplifiedSchemaVersion", "tables",
}

// Table required fields, in traversal order.
var tableRequiredFields = []string{
	"name", "description", "dataTypeId", "artifactVersion", "input", "transformFilePath", "columns",
}

// ValidateManifest runs the full NGSchema rule set over a decoded
// document tree. The traversal order is fixed: diagnostics come out in a
// deterministic order for the same input, which the display layer and the
// locator's first-match heuristics rely on.
func ValidateManifest(doc map[string]any) []*diagnostic.Diagnostic {
	var diags []*diagnostic.Diagnostic

	// 1. Root required fields.
	diags = append(diags, CheckRequired(doc, ngschemaRequiredFields, "")...)

	if v, ok := doc["type"]; ok {
		if d := CheckType(v, TypeString, "type"); d != nil {
			diags = append(diags, d)
		} else if s := v.(string); s != "NGSchema" {
			d := diagnostic.New(diagnostic.KindInvalidValue, "type",
				fmt.Sprintf("type must be %q, found %q", "NGSchema", s))
			d.CurrentValue = s
			d.ExpectedValue = "NGSchema"
			diags = append(diags, d)
		}
	}

	if v, ok := doc["displayName"]; ok {
		if d := CheckType(v, TypeString, "displayName"); d != nil {
			diags = append(diags, d)
		}
	}

	// simplifiedSchemaVersion must equal the literal string "3". Any other
	// value, including the number 3 or "3.0", is a single invalid_value.
	if v, ok := doc["simplifiedSchemaVersion"]; ok {
		if s, isStr := v.(string); !isStr || s != catalog.SchemaVersion {
			d := diagnostic.New(diagnostic.KindInvalidValue, "simplifiedSchemaVersion",
				fmt.Sprintf("simplifiedSchemaVersion must be the string %q", catalog.SchemaVersion))
			d.CurrentValue = renderValue(v)
			d.ExpectedValue = catalog.SchemaVersion
			d.Suggestion = catalog.SchemaVersion
			diags = append(diags, d)
		}
	}

	// 2. Root description format.
	if v, ok := doc["description"]; ok {
		if d := CheckType(v, TypeString, "description"); d != nil {
			diags = append(diags, d)
		} else {
			diags = append(diags, ValidateDescription(v.(string), "manifest", "description")...)
		}
	}

	// 3-5. Tables.
	diags = append(diags, validateTables(doc)...)

	// 6. Functions and queries.
	diags = append(diags, validateFunctions(doc)...)
	diags = append(diags, validateQueries(doc)...)

	// 7. Optional root fields.
	diags = append(diags, validateOptionalRootFields(doc)...)

	return diags
}

func validateTables(doc map[string]any) []*diagnostic.Diagnostic {
	var diags []*diagnostic.Diagnostic

	v, ok := doc["tables"]
	if !ok {
		return nil // missing_field already reported
	}
	arr, isArr := v.([]any)
	if !isArr {
		d := CheckType(v, TypeArray, "tables")
		return []*diagnostic.Diagnostic{d}
	}
	if len(arr) == 0 {
		d := diagnostic.New(diagnostic.KindEmptyArray, "tables",
			"tables must contain at least one table")
		return []*diagnostic.Diagnostic{d}
	}

	for i, entry := range arr {
		path := indexPath("tables", i)
		table, isObj := entry.(map[string]any)
		if !isObj {
			diags = append(diags, CheckType(entry, TypeObject, path))
			continue
		}
		diags = append(diags, validateTable(table, path)...)
	}
	return diags
}

func validateTable(table map[string]any, path string) []*diagnostic.Diagnostic {
	var diags []*diagnostic.Diagnostic

	diags = append(diags, CheckRequired(table, tableRequiredFields, path)...)

	// Name: string, limited length.
	if v, ok := table["name"]; ok {
		namePath := joinPath(path, "name")
		if d := CheckType(v, TypeString, namePath); d != nil {
			diags = append(diags, d)
		} else if name := v.(string); utf8.RuneCountInString(name) > catalog.MaxTableNameLength {
			d := diagnostic.New(diagnostic.KindInvalidLength, namePath,
				fmt.Sprintf("table name is %d characters, maximum is %d",
					utf8.RuneCountInString(name), catalog.MaxTableNameLength))
			d.CurrentValue = name
			diags = append(diags, d)
		}
	}

	// Description format.
	if v, ok := table["description"]; ok {
		descPath := joinPath(path, "description")
		if d := CheckType(v, TypeString, descPath); d != nil {
			diags = append(diags, d)
		} else {
			diags = append(diags, ValidateDescription(v.(string), "table", descPath)...)
		}
	}

	// artifactVersion: integer >= 1.
	if v, ok := table["artifactVersion"]; ok {
		avPath := joinPath(path, "artifactVersion")
		if d := CheckType(v, TypeInteger, avPath); d != nil {
			diags = append(diags, d)
		} else {
			n, _ := v.(json.Number).Int64()
			if n < 1 {
				d := diagnostic.New(diagnostic.KindInvalidValue, avPath,
					fmt.Sprintf("artifactVersion must be >= 1, found %d", n))
				d.CurrentValue = fmt.Sprint(n)
				d.ExpectedValue = "1"
				diags = append(diags, d)
			}
		}
	}

	// dataTypeId naming convention: expected to contain an underscore.
	if v, ok := table["dataTypeId"]; ok {
		dtPath := joinPath(path, "dataTypeId")
		if d := CheckType(v, TypeString, dtPath); d != nil {
			diags = append(diags, d)
		} else if id := v.(string); !strings.Contains(id, "_") {
			d := diagnostic.New(diagnostic.KindNamingConvention, dtPath,
				fmt.Sprintf("dataTypeId %q does not follow the SERVICE_DATATYPE convention (missing underscore)", id))
			d.CurrentValue = id
			diags = append(diags, d)
		}
	}

	// Optional booleans.
	for _, f := range []string{"isHidden", "isResourceCentric"} {
		if v, ok := table[f]; ok {
			if d := CheckType(v, TypeBoolean, joinPath(path, f)); d != nil {
				diags = append(diags, d)
			}
		}
	}

	// tableState enum.
	if v, ok := table["tableState"]; ok {
		tsPath := joinPath(path, "tableState")
		if d := CheckType(v, TypeString, tsPath); d != nil {
			diags = append(diags, d)
		} else if d := CheckEnum(v.(string), catalog.TableStates, tsPath); d != nil {
			diags = append(diags, d)
		}
	}

	// input[] entries.
	if v, ok := table["input"]; ok {
		inPath := joinPath(path, "input")
		if d := CheckType(v, TypeArray, inPath); d != nil {
			diags = append(diags, d)
		} else {
			for i, entry := range v.([]any) {
				diags = append(diags, validateInputField(entry, indexPath(inPath, i))...)
			}
		}
	}

	// columns[].
	diags = append(diags, validateColumns(table, path)...)

	return diags
}

func validateInputField(entry any, path string) []*diagnostic.Diagnostic {
	field, isObj := entry.(map[string]any)
	if !isObj {
		return []*diagnostic.Diagnostic{CheckType(entry, TypeObject, path)}
	}

	var diags []*diagnostic.Diagnostic
	diags = append(diags, CheckRequired(field, []string{"name", "type"}, path)...)

	if v, ok := field["name"]; ok {
		if d := CheckType(v, TypeString, joinPath(path, "name")); d != nil {
			diags = append(diags, d)
		}
	}
	if v, ok := field["type"]; ok {
		tPath := joinPath(path, "type")
		if d := CheckType(v, TypeString, tPath); d != nil {
			diags = append(diags, d)
		} else {
			t := v.(string)
			if d := CheckEnum(t, catalog.InputFieldTypes, tPath); d != nil {
				// Input fields reject some otherwise-legal column types; the
				// correction table carries the canonical substitute.
				if d.Kind == diagnostic.KindInvalidValue {
					if fix, ok := catalog.CorrectValue("type", t); ok {
						d.ExpectedValue = fix
						d.Suggestion = fix
					}
				}
				diags = append(diags, d)
			} else if t == "Dynamic" {
				diags = append(diags, dynamicWarning(tPath, catalog.InputFieldTypes))
			}
		}
	}
	return diags
}

func validateColumns(table map[string]any, tablePath string) []*diagnostic.Diagnostic {
	v, ok := table["columns"]
	if !ok {
		return nil
	}
	colsPath := joinPath(tablePath, "columns")
	arr, isArr := v.([]any)
	if !isArr {
		return []*diagnostic.Diagnostic{CheckType(v, TypeArray, colsPath)}
	}
	if len(arr) == 0 {
		d := diagnostic.New(diagnostic.KindEmptyArray, colsPath,
			"columns must contain at least one column")
		return []*diagnostic.Diagnostic{d}
	}

	var diags []*diagnostic.Diagnostic
	for i, entry := range arr {
		path := indexPath(colsPath, i)
		col, isObj := entry.(map[string]any)
		if !isObj {
			diags = append(diags, CheckType(entry, TypeObject, path))
			continue
		}
		diags = append(diags, validateColumn(col, path)...)
	}

	diags = append(diags, checkTimeGenerated(arr, colsPath)...)
	diags = append(diags, scanColumnNames(arr, colsPath)...)
	return diags
}

// migrationTriple is the column field set used for in-place type
// migrations in lieu of a plain name.
var migrationTriple = []string{"transformName", "physicalName", "logicalName"}

func validateColumn(col map[string]any, path string) []*diagnostic.Diagnostic {
	var diags []*diagnostic.Diagnostic

	// Name or the full migration triple.
	_, hasName := col["name"]
	tripleCount := 0
	for _, f := range migrationTriple {
		if _, ok := col[f]; ok {
			tripleCount++
		}
	}
	switch {
	case hasName:
		if d := CheckType(col["name"], TypeString, joinPath(path, "name")); d != nil {
			diags = append(diags, d)
		}
	case tripleCount == 0:
		d := diagnostic.New(diagnostic.KindMissingField, joinPath(path, "name"),
			"column requires either \"name\" or the transformName/physicalName/logicalName triple")
		d.ExpectedValue = catalog.ExampleValue("name")
		d.Suggestion = fmt.Sprintf("%q: %s", "name", catalog.ExampleValue("name"))
		diags = append(diags, d)
	default:
		diags = append(diags, CheckRequired(col, migrationTriple, path)...)
		for _, f := range migrationTriple {
			if v, ok := col[f]; ok {
				if d := CheckType(v, TypeString, joinPath(path, f)); d != nil {
					diags = append(diags, d)
				}
			}
		}
	}

	diags = append(diags, CheckRequired(col, []string{"type", "description"}, path)...)

	// Description format.
	if v, ok := col["description"]; ok {
		descPath := joinPath(path, "description")
		if d := CheckType(v, TypeString, descPath); d != nil {
			diags = append(diags, d)
		} else {
			diags = append(diags, ValidateDescription(v.(string), "column", descPath)...)
		}
	}

	// Type validity with the capitalization special case.
	if v, ok := col["type"]; ok {
		tPath := joinPath(path, "type")
		if d := CheckType(v, TypeString, tPath); d != nil {
			diags = append(diags, d)
		} else {
			t := v.(string)
			if d := CheckEnum(t, catalog.ColumnTypes, tPath); d != nil {
				diags = append(diags, d)
			} else if t == "Dynamic" {
				diags = append(diags, dynamicWarning(tPath, catalog.ColumnTypes))
			}
		}
	}

	// dataTypeHint enum.
	if v, ok := col["dataTypeHint"]; ok {
		hPath := joinPath(path, "dataTypeHint")
		if d := CheckType(v, TypeString, hPath); d != nil {
			diags = append(diags, d)
		} else if d := CheckEnum(v.(string), catalog.DataTypeHints, hPath); d != nil {
			diags = append(diags, d)
		}
	}

	// Display booleans.
	for _, f := range []string{"isDefaultDisplay", "isHidden"} {
		if v, ok := col[f]; ok {
			if d := CheckType(v, TypeBoolean, joinPath(path, f)); d != nil {
				diags = append(diags, d)
			}
		}
	}

	return diags
}

// dynamicWarning is the performance warning attached to a legal Dynamic
// type. The suggestion is String as a generic default; the message lists
// the full alternative set for the caller to present.
func dynamicWarning(path string, alternatives []string) *diagnostic.Diagnostic {
	concrete := make([]string, 0, len(alternatives))
	for _, a := range alternatives {
		if a != "Dynamic" {
			concrete = append(concrete, a)
		}
	}
	d := diagnostic.New(diagnostic.KindPerformanceWarning, path,
		fmt.Sprintf("Dynamic defers structure to query time and is expensive to query; "+
			"prefer a concrete type where the shape is known (one of: %s)",
			strings.Join(concrete, ", ")))
	d.CurrentValue = "Dynamic"
	d.Suggestion = "String"
	return d
}

// checkTimeGenerated enforces the mandatory TimeGenerated DateTime column.
func checkTimeGenerated(columns []any, colsPath string) []*diagnostic.Diagnostic {
	for i, entry := range columns {
		col, isObj := entry.(map[string]any)
		if !isObj {
			continue
		}
		name, _ := col["name"].(string)
		if name != catalog.RequiredColumnName {
			continue
		}
		t, _ := col["type"].(string)
		// A case variant of DateTime is already flagged as a capitalization
		// problem by the per-column checks; don't double-report it here.
		if strings.EqualFold(t, catalog.RequiredColumnType) {
			return nil
		}
		d := diagnostic.New(diagnostic.KindInvalidColumnType,
			joinPath(indexPath(colsPath, i), "type"),
			fmt.Sprintf("%s must be of type %s, found %q",
				catalog.RequiredColumnName, catalog.RequiredColumnType, t))
		d.CurrentValue = t
		d.ExpectedValue = catalog.RequiredColumnType
		d.Suggestion = catalog.RequiredColumnType
		return []*diagnostic.Diagnostic{d}
	}
	d := diagnostic.New(diagnostic.KindMissingRequiredColumn, colsPath,
		fmt.Sprintf("table must declare a %s column of type %s",
			catalog.RequiredColumnName, catalog.RequiredColumnType))
	d.ExpectedValue = catalog.RequiredColumnName
	d.Suggestion = fmt.Sprintf(`{"name": %q, "type": %q, "description": "The time at which the record was generated."}`,
		catalog.RequiredColumnName, catalog.RequiredColumnType)
	d.PlatformRequirement = "Every Log Analytics table carries TimeGenerated as its primary time axis."
	return []*diagnostic.Diagnostic{d}
}

// scanColumnNames reports user-declared system columns and reserved-name
// collisions. The two kinds are distinct: the canonical spelling of a
// system column is forbidden_system_column, any other case variant of a
// reserved name is reserved_overridden_column.
func scanColumnNames(columns []any, colsPath string) []*diagnostic.Diagnostic {
	var diags []*diagnostic.Diagnostic
	for i, entry := range columns {
		col, isObj := entry.(map[string]any)
		if !isObj {
			continue
		}
		name, _ := col["name"].(string)
		if name == "" {
			continue
		}
		namePath := joinPath(indexPath(colsPath, i), "name")
		if catalog.IsSystemColumn(name) {
			d := diagnostic.New(diagnostic.KindForbiddenSystemColumn, namePath,
				fmt.Sprintf("column %q is injected by the ingestion pipeline and must not be declared", name))
			d.CurrentValue = name
			d.PlatformRequirement = "System columns are populated automatically at ingestion time."
			diags = append(diags, d)
		} else if catalog.IsReservedColumnName(name) {
			d := diagnostic.New(diagnostic.KindReservedColumn, namePath,
				fmt.Sprintf("column name %q collides with a reserved name (reserved names are case-insensitive)", name))
			d.CurrentValue = name
			diags = append(diags, d)
		}
	}
	return diags
}

func validateFunctions(doc map[string]any) []*diagnostic.Diagnostic {
	v, ok := doc["functions"]
	if !ok {
		return nil
	}
	arr, isArr := v.([]any)
	if !isArr {
		return []*diagnostic.Diagnostic{CheckType(v, TypeArray, "functions")}
	}

	var diags []*diagnostic.Diagnostic
	for i, entry := range arr {
		path := indexPath("functions", i)
		fn, isObj := entry.(map[string]any)
		if !isObj {
			diags = append(diags, CheckType(entry, TypeObject, path))
			continue
		}
		diags = append(diags, CheckRequired(fn, []string{"name", "description", "bodyFilePath"}, path)...)
		for _, f := range []string{"name", "displayName", "bodyFilePath"} {
			if fv, ok := fn[f]; ok {
				if d := CheckType(fv, TypeString, joinPath(path, f)); d != nil {
					diags = append(diags, d)
				}
			}
		}
		if fv, ok := fn["description"]; ok {
			descPath := joinPath(path, "description")
			if d := CheckType(fv, TypeString, descPath); d != nil {
				diags = append(diags, d)
			} else {
				diags = append(diags, ValidateDescription(fv.(string), "function", descPath)...)
			}
		}
	}
	return diags
}

func validateQueries(doc map[string]any) []*diagnostic.Diagnostic {
	v, ok := doc["queries"]
	if !ok {
		return nil
	}
	arr, isArr := v.([]any)
	if !isArr {
		return []*diagnostic.Diagnostic{CheckType(v, TypeArray, "queries")}
	}

	var diags []*diagnostic.Diagnostic
	for i, entry := range arr {
		path := indexPath("queries", i)
		q, isObj := entry.(map[string]any)
		if !isObj {
			diags = append(diags, CheckType(entry, TypeObject, path))
			continue
		}
		diags = append(diags, CheckRequired(q, []string{"id", "displayName", "description", "bodyFilePath"}, path)...)

		if qv, ok := q["id"]; ok {
			idPath := joinPath(path, "id")
			if d := CheckType(qv, TypeString, idPath); d != nil {
				diags = append(diags, d)
			} else if id := qv.(string); !isGUID(id) {
				d := diagnostic.New(diagnostic.KindInvalidValue, idPath,
					fmt.Sprintf("query id %q is not a GUID", id))
				d.CurrentValue = id
				d.ExpectedValue = catalog.ExampleValue("id")
				diags = append(diags, d)
			}
		}
		for _, f := range []string{"displayName", "bodyFilePath"} {
			if qv, ok := q[f]; ok {
				if d := CheckType(qv, TypeString, joinPath(path, f)); d != nil {
					diags = append(diags, d)
				}
			}
		}
		if qv, ok := q["description"]; ok {
			descPath := joinPath(path, "description")
			if d := CheckType(qv, TypeString, descPath); d != nil {
				diags = append(diags, d)
			} else {
				diags = append(diags, ValidateDescription(qv.(string), "query", descPath)...)
			}
		}
	}
	return diags
}

func validateOptionalRootFields(doc map[string]any) []*diagnostic.Diagnostic {
	var diags []*diagnostic.Diagnostic
	for _, f := range []string{"icmTeam", "contactDL"} {
		if v, ok := doc[f]; ok {
			if d := CheckType(v, TypeString, f); d != nil {
				diags = append(diags, d)
			}
		}
	}
	for _, f := range []string{"relatedTables", "relatedFunctions"} {
		if v, ok := doc[f]; ok {
			if d := CheckType(v, TypeArray, f); d != nil {
				diags = append(diags, d)
				continue
			}
			for i, entry := range v.([]any) {
				if d := CheckType(entry, TypeString, indexPath(f, i)); d != nil {
					diags = append(diags, d)
				}
			}
		}
	}
	return diags
}

// isGUID reports whether s parses as a canonical 8-4-4-4-12 GUID.
func isGUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}
