package locate

import (
	"strings"
	"testing"

	"github.com/ormasoftchile/ngslint/pkg/diagnostic"
)

const sampleText = `{
  "type": "NGSchema",
  "displayName": "My Service Logs",
  "description": "Logs emitted by my service.",
  "simplifiedSchemaVersion": "3",
  "tables": [
    {
      "name": "MyServiceAuditLogs",
      "description": "Audit records for my service.",
      "dataTypeId": "MYSERVICE_AUDIT",
      "artifactVersion": 1,
      "input": [
        {"name": "timestamp", "type": "DateTime"},
        {"name": "operation", "type": "String"}
      ],
      "transformFilePath": "Transforms/MyServiceAudit.kql",
      "columns": [
        {
          "name": "TimeGenerated",
          "type": "DateTime",
          "description": "The time at which the record was generated."
        },
        {
          "name": "Operation",
          "type": "dynamic",
          "description": "Name of the audited operation."
        }
      ]
    }
  ]
}`

func lineOf(t *testing.T, text, needle string) int {
	t.Helper()
	for i, line := range strings.Split(text, "\n") {
		if strings.Contains(line, needle) {
			return i + 1
		}
	}
	t.Fatalf("needle %q not in text", needle)
	return 0
}

func TestLocateRootField(t *testing.T) {
	d := diagnostic.New(diagnostic.KindInvalidValue, "simplifiedSchemaVersion", "")
	loc := New(sampleText).Locate(d)
	if loc == nil {
		t.Fatal("expected a location")
	}
	if want := lineOf(t, sampleText, "simplifiedSchemaVersion"); loc.LineNumber != want {
		t.Errorf("line %d, want %d", loc.LineNumber, want)
	}
	if !strings.Contains(loc.LineText, `"3"`) {
		t.Errorf("unexpected line text %q", loc.LineText)
	}
}

// TestLocateDisambiguatesByDepth checks the root description resolves to
// the root line even though tables and columns carry same-named fields.
func TestLocateDisambiguatesByDepth(t *testing.T) {
	d := diagnostic.New(diagnostic.KindFormattingError, "description", "")
	loc := New(sampleText).Locate(d)
	if loc == nil {
		t.Fatal("expected a location")
	}
	if !strings.Contains(loc.LineText, "Logs emitted") {
		t.Errorf("matched the wrong description: %q", loc.LineText)
	}
}

// TestLocateIndexedColumn walks tables[0].columns[1].type down to the
// second column object.
func TestLocateIndexedColumn(t *testing.T) {
	d := diagnostic.New(diagnostic.KindIncorrectCapitalization, "tables[0].columns[1].type", "")
	d.CurrentValue = "dynamic"
	loc := New(sampleText).Locate(d)
	if loc == nil {
		t.Fatal("expected a location")
	}
	if !strings.Contains(loc.LineText, `"dynamic"`) {
		t.Errorf("expected the dynamic type line, got %q", loc.LineText)
	}
}

// TestLocateCurrentValueDisambiguation separates two input fields that
// share the field name but not the value.
func TestLocateCurrentValueDisambiguation(t *testing.T) {
	d := diagnostic.New(diagnostic.KindInvalidValue, "tables[0].input[1].type", "")
	d.CurrentValue = "String"
	loc := New(sampleText).Locate(d)
	if loc == nil {
		t.Fatal("expected a location")
	}
	if !strings.Contains(loc.LineText, "operation") {
		t.Errorf("expected the second input entry, got %q", loc.LineText)
	}
}

// TestInsertionPointAfterPredecessor places a missing tableState after
// artifactVersion, its canonical predecessor among the present fields.
func TestInsertionPointAfterPredecessor(t *testing.T) {
	d := diagnostic.New(diagnostic.KindMissingField, "tables[0].tableState", "")
	loc := New(sampleText).Locate(d)
	if loc == nil {
		t.Fatal("expected an insertion point")
	}
	if !strings.Contains(loc.LineText, "artifactVersion") {
		t.Errorf("expected insertion after artifactVersion, got %q", loc.LineText)
	}
	if want := lineOf(t, sampleText, "artifactVersion") + 1; loc.LineNumber != want {
		t.Errorf("insertion line %d, want %d", loc.LineNumber, want)
	}
}

// TestInsertionPointRootFallback: a document with no recognizable
// predecessor fields inserts right after the opening brace.
func TestInsertionPointRootFallback(t *testing.T) {
	text := "{\n  \"unrelated\": true\n}"
	d := diagnostic.New(diagnostic.KindMissingField, "type", "")
	loc := New(text).Locate(d)
	if loc == nil {
		t.Fatal("expected an insertion point")
	}
	if loc.LineNumber != 2 {
		t.Errorf("expected insertion right after the opening brace, got line %d", loc.LineNumber)
	}
}

func TestLocateUnmatchablePath(t *testing.T) {
	d := diagnostic.New(diagnostic.KindInvalidValue, "tables[7].name", "")
	if loc := New(sampleText).Locate(d); loc != nil {
		t.Errorf("expected nil for out-of-range index, got %+v", loc)
	}
}

func TestLocateEmptyPath(t *testing.T) {
	d := diagnostic.New(diagnostic.KindJSONSyntaxError, "", "")
	if loc := New(sampleText).Locate(d); loc != nil {
		t.Errorf("expected nil for empty path, got %+v", loc)
	}
}

// TestLocateIsDeterministic runs the same lookup repeatedly.
func TestLocateIsDeterministic(t *testing.T) {
	d := diagnostic.New(diagnostic.KindInvalidValue, "tables[0].columns[0].type", "")
	first := New(sampleText).Locate(d)
	for i := 0; i < 5; i++ {
		next := New(sampleText).Locate(d)
		if first == nil || next == nil || *first != *next {
			t.Fatalf("locate drifted: %+v vs %+v", first, next)
		}
	}
}

func TestAnnotateFillsLocations(t *testing.T) {
	diags := []*diagnostic.Diagnostic{
		diagnostic.New(diagnostic.KindInvalidValue, "type", ""),
		diagnostic.New(diagnostic.KindJSONSyntaxError, "", ""),
	}
	Annotate(sampleText, diags)
	if diags[0].Location == nil {
		t.Error("expected a location for the type diagnostic")
	}
	if diags[1].Location != nil {
		t.Error("expected no location for the pathless diagnostic")
	}
}

// TestLocateMinified exercises the loose fallback on a single-line
// document where depth-per-line carries no information.
func TestLocateMinified(t *testing.T) {
	text := `{"type": "NGSchema", "displayName": "X", "tables": [{"name": "T"}]}`
	d := diagnostic.New(diagnostic.KindInvalidValue, "type", "")
	loc := New(text).Locate(d)
	if loc == nil || loc.LineNumber != 1 {
		t.Fatalf("expected line 1, got %+v", loc)
	}
}
