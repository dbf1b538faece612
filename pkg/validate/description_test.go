package validate

import (
	"strings"
	"testing"
)

// TestDescriptionBothRulesFire matches the platform example: lowercase
// start and missing period are two independent findings.
func TestDescriptionBothRulesFire(t *testing.T) {
	diags := ValidateDescription("entries from the log", "table", "tables[0].description")
	if len(diags) != 2 {
		t.Fatalf("expected 2 diagnostics, got %d: %v", len(diags), diags)
	}
	foundCase, foundPeriod := false, false
	for _, d := range diags {
		if strings.Contains(d.Message, "uppercase") {
			foundCase = true
		}
		if strings.Contains(d.Message, "period") {
			foundPeriod = true
		}
	}
	if !foundCase || !foundPeriod {
		t.Errorf("expected capitalization and period findings, got: %v", diags)
	}
}

// TestDescriptionWellFormed passes cleanly.
func TestDescriptionWellFormed(t *testing.T) {
	diags := ValidateDescription("Entries from the log.", "table", "tables[0].description")
	if len(diags) != 0 {
		t.Errorf("expected no diagnostics, got: %v", diags)
	}
}

// TestDescriptionEmpty yields only the non-empty finding, not the two
// format findings on top of it.
func TestDescriptionEmpty(t *testing.T) {
	diags := ValidateDescription("", "column", "tables[0].columns[0].description")
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d: %v", len(diags), diags)
	}
	if !strings.Contains(diags[0].Message, "empty") {
		t.Errorf("expected empty-description message, got: %s", diags[0].Message)
	}
	diags = ValidateDescription("   ", "column", "p")
	if len(diags) != 1 {
		t.Errorf("whitespace-only should count as empty, got: %v", diags)
	}
}

// TestDescriptionSuggestions carry the corrected text.
func TestDescriptionSuggestions(t *testing.T) {
	diags := ValidateDescription("audit events", "table", "p")
	if len(diags) != 2 {
		t.Fatalf("expected 2 diagnostics, got %d", len(diags))
	}
	if diags[0].Suggestion != "Audit events" {
		t.Errorf("capitalization suggestion: %q", diags[0].Suggestion)
	}
	if diags[1].Suggestion != "audit events." {
		t.Errorf("period suggestion: %q", diags[1].Suggestion)
	}
}

// TestDescriptionNonLetterStart is still a capitalization finding.
func TestDescriptionNonLetterStart(t *testing.T) {
	diags := ValidateDescription("3rd party logs.", "table", "p")
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d: %v", len(diags), diags)
	}
	if !strings.Contains(diags[0].Message, "uppercase") {
		t.Errorf("unexpected message: %s", diags[0].Message)
	}
}
