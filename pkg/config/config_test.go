package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ormasoftchile/ngslint/pkg/diagnostic"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	cfgDir := filepath.Join(dir, ".ngslint")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(cfgDir, "config.yaml"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestLoadMissingConfigIsNil(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if cfg != nil {
		t.Errorf("expected nil config, got %+v", cfg)
	}
}

func TestLoadValidConfig(t *testing.T) {
	dir := writeConfig(t, `
severity:
  naming_convention_warning: error
disabled:
  - performance_warning
rules:
  - name: state-required
    scope: table
    when: table.tableState == nil
    message: every table must declare tableState
    severity: warning
`)
	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Severity["naming_convention_warning"] != "error" {
		t.Errorf("severity override not loaded: %+v", cfg)
	}
	if len(cfg.Rules) != 1 || cfg.Rules[0].Scope != "table" {
		t.Errorf("rules not loaded: %+v", cfg.Rules)
	}
	compiled, diags := cfg.CompiledRules()
	if len(diags) != 0 || len(compiled) != 1 {
		t.Errorf("compile: %d rules, diags %v", len(compiled), diags)
	}
}

func TestLoadRejectsBadScope(t *testing.T) {
	dir := writeConfig(t, `
rules:
  - name: broken
    scope: manifest
    when: "true"
    message: nope
`)
	_, err := Load(dir)
	if err == nil {
		t.Fatal("expected a schema error for scope=manifest")
	}
}

func TestValidateRejectsUnknownKind(t *testing.T) {
	cfg := &Config{Severity: map[string]string{"no_such_kind": "error"}}
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "no_such_kind") {
		t.Fatalf("expected unknown-kind error, got %v", err)
	}
}

func TestValidateRejectsUnknownLevel(t *testing.T) {
	cfg := &Config{Severity: map[string]string{"performance_warning": "fatal"}}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected unknown-level error")
	}
}

func TestApplyOverridesAndFilters(t *testing.T) {
	cfg := &Config{
		Severity: map[string]string{string(diagnostic.KindNamingConvention): "error"},
		Disabled: []string{string(diagnostic.KindPerformanceWarning)},
	}
	diags := []*diagnostic.Diagnostic{
		diagnostic.New(diagnostic.KindNamingConvention, "tables[0].dataTypeId", ""),
		diagnostic.New(diagnostic.KindPerformanceWarning, "tables[0].columns[1].type", ""),
		diagnostic.New(diagnostic.KindMissingField, "displayName", ""),
	}
	out := cfg.Apply(diags)
	if len(out) != 2 {
		t.Fatalf("expected 2 diagnostics after filtering, got %d", len(out))
	}
	if out[0].Severity != diagnostic.SeverityError {
		t.Errorf("override not applied: %s", out[0].Severity)
	}
	if out[1].Kind != diagnostic.KindMissingField {
		t.Errorf("order not preserved: %v", out[1].Kind)
	}
}

func TestGenerateJSONSchema(t *testing.T) {
	data, err := GenerateJSONSchema()
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"severity", "rules", "scope"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("schema missing %q", want)
		}
	}
}

func TestNilConfigApplyIsIdentity(t *testing.T) {
	var cfg *Config
	diags := []*diagnostic.Diagnostic{diagnostic.New(diagnostic.KindMissingField, "type", "")}
	if out := cfg.Apply(diags); len(out) != 1 {
		t.Errorf("nil config must pass diagnostics through, got %v", out)
	}
}
